package handler

import (
	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/dto"
	"github.com/fadilmartias/careerhub/internal/middleware"
	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/fadilmartias/careerhub/internal/usecase"
	"github.com/fadilmartias/careerhub/internal/util"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
)

// SiteContent groups the use cases behind the Mongo-backed endpoints.
type SiteContent struct {
	Blogs          *usecase.ContentUsecase[model.Blog, *model.Blog]
	Authors        *usecase.ContentUsecase[model.Author, *model.Author]
	MetaTags       *usecase.ContentUsecase[model.MetaTag, *model.MetaTag]
	FooterSections *usecase.ContentUsecase[model.FooterSection, *model.FooterSection]
	ImportantLinks *usecase.ContentUsecase[model.ImportantLink, *model.ImportantLink]
	Resources      *usecase.ContentUsecase[model.DownloadableResource, *model.DownloadableResource]
	Contacts       *usecase.ContentUsecase[model.ContactMessage, *model.ContactMessage]
	Consultations  *usecase.ContentUsecase[model.ConsultationRequest, *model.ConsultationRequest]
}

// RegisterSiteContent mounts every content collection. Fixed paths are
// registered before the /:id routes they would otherwise collide with.
func RegisterSiteContent(r fiber.Router, g Guards, s SiteContent) {
	staff := ContentRoutes{Write: []fiber.Handler{g.Auth, g.Staff}}
	admin := []fiber.Handler{g.Auth, g.Admin}

	blogs := NewContentHandler(s.Blogs)
	r.Get("/blogs/slug/:slug", blogs.FindByParam("slug", "slug"))
	blogs.RegisterRoutes(r, "/blogs", staff)

	NewContentHandler(s.Authors).RegisterRoutes(r, "/authors", staff)

	r.Get("/meta-tags/page", metaTagByPath(s.MetaTags))
	NewContentHandler(s.MetaTags).RegisterRoutes(r, "/meta-tags", staff)

	NewContentHandler(s.FooterSections).RegisterRoutes(r, "/footer-sections", staff)
	NewContentHandler(s.ImportantLinks).RegisterRoutes(r, "/important-links", staff)

	r.Post("/resources/:id/download", resourceDownload(s.Resources))
	NewContentHandler(s.Resources).RegisterRoutes(r, "/resources", staff)

	inbox := ContentRoutes{Read: admin, Create: []fiber.Handler{g.FormLimit}, Write: admin}

	contacts := NewContentHandler(s.Contacts)
	contacts.RegisterRoutes(r, "/contact", inbox).
		Patch("/:id/status", chain(admin, contacts.SetStatus)...)

	consultations := NewContentHandler(s.Consultations)
	consultations.RegisterRoutes(r, "/consultations", inbox).
		Patch("/:id/status", chain(admin, consultations.SetStatus)...)
}

func metaTagByPath(uc *usecase.ContentUsecase[model.MetaTag, *model.MetaTag]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Query("path")
		if path == "" {
			return util.HandleError(c, apperror.InvalidInput("path is required", nil))
		}
		tag, err := uc.FindOne(c.UserContext(), bson.M{"page_path": usecase.NormalizePagePath(path)}, middleware.IsStaff(c))
		if err != nil {
			return util.HandleError(c, err)
		}
		return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Get meta tag", Data: tag})
	}
}

func resourceDownload(uc *usecase.ContentUsecase[model.DownloadableResource, *model.DownloadableResource]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := uc.Increment(c.UserContext(), c.Params("id"), "download_count")
		if err != nil {
			return util.HandleError(c, err)
		}
		return util.SuccessResponse(c, util.SuccessResponseFormat{
			Message: "Download resource",
			Data: dto.DownloadDTO{
				ID:            res.ID.Hex(),
				FileURL:       res.FileURL,
				DownloadCount: res.DownloadCount,
			},
		})
	}
}
