package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/cache"
	"github.com/fadilmartias/careerhub/internal/config"
	"github.com/fadilmartias/careerhub/internal/domain/fiber/handler"
	applogger "github.com/fadilmartias/careerhub/internal/logger"
	"github.com/fadilmartias/careerhub/internal/middleware"
	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/fadilmartias/careerhub/internal/observability"
	"github.com/fadilmartias/careerhub/internal/repository"
	"github.com/fadilmartias/careerhub/internal/service"
	"github.com/fadilmartias/careerhub/internal/usecase"
	"github.com/fadilmartias/careerhub/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	flush, err := applogger.Init(appConfig.Env)
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.ConnectPostgres(config.LoadDBConfig(), appConfig.IsProduction())
	if err != nil {
		zap.L().Fatal("postgres unavailable", zap.Error(err))
	}
	if err := repository.Migrate(ctx, db); err != nil {
		zap.L().Fatal("migration failed", zap.Error(err))
	}

	mongoConfig := config.LoadMongoConfig()
	mongoClient, err := repository.ConnectMongo(ctx, mongoConfig)
	if err != nil {
		zap.L().Fatal("mongo unavailable", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			zap.L().Warn("mongo disconnect failed", zap.Error(err))
		}
	}()
	mongoDB := mongoClient.Database(mongoConfig.Database)
	if err := repository.EnsureIndexes(ctx, mongoDB); err != nil {
		zap.L().Warn("mongo indexes not ensured", zap.Error(err))
	}

	var (
		redisClient    *redis.Client
		limiterStorage fiber.Storage
		analysisCache  cache.Cache
		authCache      cache.Cache
		drafts         cache.Cache
	)
	if redisConfig := config.LoadRedisConfig(); redisConfig.Enabled() {
		redisClient, err = cache.NewRedisClient(ctx, redisConfig.URL)
		if err != nil {
			zap.L().Fatal("redis unavailable", zap.Error(err))
		}
		defer redisClient.Close()
		limiterStorage = cache.NewLimiterStorage(redisClient, "limiter:")
		analysisCache = cache.NewRedisCache(redisClient, "careerhub:")
		authCache = cache.NewRedisCache(redisClient, "auth:")
		drafts = cache.NewRedisCache(redisClient, "resume:")
	} else {
		zap.L().Warn("REDIS_URL not set: rate limits are per process, result cache and drafts are disabled")
	}

	llm, err := service.NewLLMService(ctx)
	if err != nil {
		zap.L().Fatal("llm provider unavailable", zap.Error(err))
	}
	var embedder service.EmbeddingService
	if gemini, err := service.NewGeminiService(ctx); err != nil {
		zap.L().Warn("embeddings disabled", zap.Error(err))
	} else {
		embedder = gemini
	}

	userRepo := repository.NewUserRepository(db)
	jobRepo := repository.NewJobRepository(db)
	auth := service.NewAuthService(config.LoadAuthConfig(), authCache, userRepo)

	uploadConfig := config.LoadUploadConfig()
	resumeUC, err := usecase.NewResumeUsecase(service.NewChromedpRenderer(config.LoadChromeConfig()), drafts)
	if err != nil {
		zap.L().Fatal("resume templates", zap.Error(err))
	}

	handlers := handler.Handlers{
		CV: handler.NewCVHandler(
			usecase.NewCVUsecase(repository.NewCVAnalysisRepository(db), jobRepo, llm, embedder, analysisCache, config.LoadLLMConfig()),
			uploadConfig,
		),
		Jobs:   handler.NewJobHandler(usecase.NewJobUsecase(jobRepo, embedder)),
		Users:  handler.NewUserHandler(usecase.NewUserUsecase(userRepo)),
		Upload: handler.NewUploadHandler(usecase.NewUploadUsecase(uploadConfig, appConfig)),
		Resume: handler.NewResumeHandler(resumeUC),
		Site:   siteContent(mongoDB),
	}

	app := fiber.New(fiber.Config{
		AppName:   appConfig.Name,
		BodyLimit: int(uploadConfig.MaxCVMB+1) << 20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fe.Code, Message: fe.Message})
			}
			return util.HandleError(c, apperror.Internal("internal server error", err))
		},
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(logger.New())
	app.Use(observability.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: appConfig.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New(healthcheck.Config{
		LivenessEndpoint:  "/livez",
		ReadinessEndpoint: "/readyz",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			return ready(c.UserContext(), db, mongoClient, redisClient)
		},
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Static("/uploads", uploadConfig.Dir)

	rateLimitConfig := config.LoadRateLimitConfig()
	api := app.Group("/api",
		middleware.Authenticate(auth, false),
		middleware.RateLimiter("global", rateLimitConfig.GlobalMax, rateLimitConfig.GlobalWindow, limiterStorage),
	)
	handler.Register(api, handler.NewGuards(auth, rateLimitConfig, limiterStorage), handlers)

	go monitorGoroutines(ctx)

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			zap.L().Error("shutdown failed", zap.Error(err))
		}
	}()

	zap.L().Info("server running", zap.String("port", appConfig.Port), zap.String("env", appConfig.Env))
	if err := app.Listen(appConfig.Port); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}

func siteContent(db *mongo.Database) *handler.SiteContent {
	blogs := repository.NewDocumentRepository[model.Blog](db, repository.CollectionBlogs, "blog")
	authors := repository.NewDocumentRepository[model.Author](db, repository.CollectionAuthors, "author")

	return &handler.SiteContent{
		Blogs:   usecase.NewContentUsecase[model.Blog, *model.Blog](blogs, usecase.BlogOptions(blogs, authors)),
		Authors: usecase.NewContentUsecase[model.Author, *model.Author](authors, usecase.AuthorOptions()),
		MetaTags: usecase.NewContentUsecase[model.MetaTag, *model.MetaTag](
			repository.NewDocumentRepository[model.MetaTag](db, repository.CollectionMetaTags, "meta tag"),
			usecase.MetaTagOptions()),
		FooterSections: usecase.NewContentUsecase[model.FooterSection, *model.FooterSection](
			repository.NewDocumentRepository[model.FooterSection](db, repository.CollectionFooter, "footer section"),
			usecase.FooterSectionOptions()),
		ImportantLinks: usecase.NewContentUsecase[model.ImportantLink, *model.ImportantLink](
			repository.NewDocumentRepository[model.ImportantLink](db, repository.CollectionLinks, "important link"),
			usecase.ImportantLinkOptions()),
		Resources: usecase.NewContentUsecase[model.DownloadableResource, *model.DownloadableResource](
			repository.NewDocumentRepository[model.DownloadableResource](db, repository.CollectionResources, "resource"),
			usecase.ResourceOptions()),
		Contacts: usecase.NewContentUsecase[model.ContactMessage, *model.ContactMessage](
			repository.NewDocumentRepository[model.ContactMessage](db, repository.CollectionContact, "contact message"),
			usecase.ContactOptions()),
		Consultations: usecase.NewContentUsecase[model.ConsultationRequest, *model.ConsultationRequest](
			repository.NewDocumentRepository[model.ConsultationRequest](db, repository.CollectionConsultations, "consultation request"),
			usecase.ConsultationOptions()),
	}
}

func ready(ctx context.Context, db *gorm.DB, mongoClient *mongo.Client, redisClient *redis.Client) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := repository.PingPostgres(ctx, db); err != nil {
		zap.L().Warn("readiness: postgres", zap.Error(err))
		return false
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		zap.L().Warn("readiness: mongo", zap.Error(err))
		return false
	}
	if redisClient != nil {
		if err := redisClient.Ping(ctx).Err(); err != nil {
			zap.L().Warn("readiness: redis", zap.Error(err))
			return false
		}
	}
	return true
}

func monitorGoroutines(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			zap.L().Debug("runtime", zap.Int("goroutines", runtime.NumGoroutine()))
		}
	}
}
