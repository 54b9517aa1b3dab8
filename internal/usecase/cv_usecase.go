package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/cache"
	"github.com/fadilmartias/careerhub/internal/config"
	"github.com/fadilmartias/careerhub/internal/cv"
	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/fadilmartias/careerhub/internal/observability"
	"github.com/fadilmartias/careerhub/internal/service"
	"github.com/fadilmartias/careerhub/internal/util"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

const (
	minJobDescription   = 50
	maxJobDescription   = 20000
	maxTargetRole       = 200
	defaultMatchLimit   = 5
	maxMatchLimit       = 20
	analysisCachePrefix = "cv:"
)

type CVAnalysisStore interface {
	Create(ctx context.Context, a *model.CVAnalysis) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CVAnalysis, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]model.CVAnalysis, int64, error)
}

type jobLookup interface {
	FindJobByID(ctx context.Context, id uuid.UUID) (*model.Job, error)
	SearchSimilar(ctx context.Context, embedding pgvector.Vector, limit int) ([]model.JobMatch, error)
}

type CVInput struct {
	FileName   string
	Data       []byte
	TargetRole string
	UserID     *uuid.UUID
}

type TailorInput struct {
	FileName       string
	Data           []byte
	JobDescription string
	JobID          *uuid.UUID
	UserID         *uuid.UUID
	// Staff callers may tailor against jobs that are not published.
	Staff bool
}

// cachedResult is what the result cache keeps for one (kind, provider,
// context, text) combination.
type cachedResult struct {
	Provider  string          `json:"provider"`
	Model     string          `json:"model"`
	Score     int             `json:"score"`
	Summary   string          `json:"summary"`
	ParseMode string          `json:"parse_mode"`
	Result    json.RawMessage `json:"result"`
}

type CVUsecase struct {
	analyses CVAnalysisStore
	jobs     jobLookup
	llm      service.LLMService
	embedder service.EmbeddingService
	cache    cache.Cache
	cfg      *config.LLMConfig
}

// NewCVUsecase wires the pipeline. A nil analyses store disables
// persistence; a nil embedder disables job matching.
func NewCVUsecase(analyses CVAnalysisStore, jobs jobLookup, llm service.LLMService, embedder service.EmbeddingService, c cache.Cache, cfg *config.LLMConfig) *CVUsecase {
	if c == nil {
		c = cache.Noop{}
	}
	return &CVUsecase{analyses: analyses, jobs: jobs, llm: llm, embedder: embedder, cache: c, cfg: cfg}
}

// Prepare extracts and classifies an upload. Documents that do not look
// like a CV are rejected with the classification as details.
func (uc *CVUsecase) Prepare(ctx context.Context, fileName string, data []byte) (string, cv.Classification, error) {
	if len(data) == 0 {
		return "", cv.Classification{}, apperror.InvalidInput("resume file is empty", nil)
	}
	text, err := util.ExtractText(ctx, fileName, data)
	if err != nil {
		return "", cv.Classification{}, err
	}
	class := cv.Classify(text)
	if !class.IsCV {
		return text, class, apperror.InvalidInput("uploaded file does not look like a CV: "+class.Reason, nil).WithDetails(class)
	}
	return text, class, nil
}

func (uc *CVUsecase) Analyze(ctx context.Context, in CVInput) (*model.CVAnalysis, error) {
	role := strings.TrimSpace(in.TargetRole)
	if utf8.RuneCountInString(role) > maxTargetRole {
		return nil, apperror.InvalidInput("target role is too long", nil)
	}

	text, class, err := uc.Prepare(ctx, in.FileName, in.Data)
	if err != nil {
		uc.observe(model.CVKindAnalysis, err)
		return nil, err
	}

	record := newRecord(model.CVKindAnalysis, in.FileName, text, class, in.UserID)
	record.TargetRole = role

	parts := cv.BuildAnalysisPrompt(text, role, uc.cfg.MaxPromptTokens)
	err = uc.run(ctx, record, role, text, parts, func(reply string) (cachedResult, error) {
		a, err := cv.ParseAnalysisReply(reply)
		if err != nil {
			return cachedResult{}, err
		}
		raw, err := json.Marshal(a)
		return cachedResult{Score: a.Score, Summary: a.Summary, ParseMode: a.ParseMode, Result: raw}, err
	})
	uc.observe(model.CVKindAnalysis, err)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (uc *CVUsecase) Tailor(ctx context.Context, in TailorInput) (*model.CVAnalysis, error) {
	jd := strings.TrimSpace(in.JobDescription)
	if in.JobID != nil {
		job, err := uc.jobs.FindJobByID(ctx, *in.JobID)
		if err != nil {
			return nil, err
		}
		if !in.Staff && job.Status != model.JobStatusPublished {
			return nil, apperror.NotFound("job not found", nil)
		}
		jd = job.EmbeddingText()
	}
	switch n := utf8.RuneCountInString(jd); {
	case n < minJobDescription:
		return nil, apperror.InvalidInput("job description must be at least 50 characters", nil)
	case n > maxJobDescription:
		return nil, apperror.InvalidInput("job description is too long", nil)
	}

	text, class, err := uc.Prepare(ctx, in.FileName, in.Data)
	if err != nil {
		uc.observe(model.CVKindTailor, err)
		return nil, err
	}

	record := newRecord(model.CVKindTailor, in.FileName, text, class, in.UserID)
	record.JobID = in.JobID
	record.JobDescription = jd

	parts := cv.BuildTailorPrompt(text, jd, uc.cfg.MaxPromptTokens)
	err = uc.run(ctx, record, jd, text, parts, func(reply string) (cachedResult, error) {
		t, err := cv.ParseTailorReply(reply)
		if err != nil {
			return cachedResult{}, err
		}
		raw, err := json.Marshal(t)
		return cachedResult{Score: t.FitScore, Summary: t.TailoredSummary, ParseMode: t.ParseMode, Result: raw}, err
	})
	uc.observe(model.CVKindTailor, err)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// run fills record from the cache or the model, then persists it.
// Replies that could only be kept raw are not cached.
func (uc *CVUsecase) run(ctx context.Context, record *model.CVAnalysis, scope, text string, parts cv.PromptParts, parse func(string) (cachedResult, error)) error {
	key := cacheKey(record.Kind, uc.llm.Name(), scope, text)

	if hit, ok := uc.lookup(ctx, key); ok {
		applyResult(record, hit)
		record.Cached = true
	} else {
		completion, err := uc.llm.Complete(ctx, service.Prompt{System: parts.System, User: parts.User})
		if err != nil {
			return err
		}

		res, err := parse(completion.Text)
		if errors.Is(err, cv.ErrEmptyReply) {
			return apperror.Unavailable("language model returned an empty reply", err)
		}
		if err != nil {
			return apperror.Internal("cannot read language model reply", err)
		}
		res.Provider = completion.Provider
		res.Model = completion.Model
		applyResult(record, res)
		record.RawReply = completion.Text

		if res.ParseMode != cv.ParseModeRaw {
			uc.store(ctx, key, res)
		}
		if parts.Truncated {
			zap.L().Info("cv text truncated for prompt", zap.String("kind", record.Kind), zap.Int("chars", record.TextLength))
		}
	}

	if uc.analyses == nil {
		return nil
	}
	if err := uc.analyses.Create(ctx, record); err != nil {
		return apperror.Internal("cannot save analysis", err)
	}
	return nil
}

func (uc *CVUsecase) lookup(ctx context.Context, key string) (cachedResult, bool) {
	raw, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			zap.L().Warn("analysis cache read failed", zap.Error(err))
		}
		return cachedResult{}, false
	}
	var res cachedResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return cachedResult{}, false
	}
	return res, true
}

func (uc *CVUsecase) store(ctx context.Context, key string, res cachedResult) {
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, raw, uc.cfg.ResultCacheTTL); err != nil && !errors.Is(err, cache.ErrDisabled) {
		zap.L().Warn("analysis cache write failed", zap.Error(err))
	}
}

// MatchJobs embeds the CV and returns the nearest published jobs.
func (uc *CVUsecase) MatchJobs(ctx context.Context, fileName string, data []byte, limit int) ([]model.JobMatch, error) {
	if uc.embedder == nil {
		return nil, apperror.Unavailable("job matching is not configured", nil)
	}
	switch {
	case limit <= 0:
		limit = defaultMatchLimit
	case limit > maxMatchLimit:
		limit = maxMatchLimit
	}

	text, _, err := uc.Prepare(ctx, fileName, data)
	if err != nil {
		return nil, err
	}

	vec, err := uc.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}
	matches, err := uc.jobs.SearchSimilar(ctx, pgvector.NewVector(vec), limit)
	if err != nil {
		return nil, apperror.Internal("cannot search jobs", err)
	}
	return matches, nil
}

func (uc *CVUsecase) History(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]model.CVAnalysis, int64, error) {
	return uc.analyses.ListByUser(ctx, userID, page, pageSize)
}

// Get returns a stored run to its owner or an admin.
func (uc *CVUsecase) Get(ctx context.Context, id uuid.UUID, requester *model.User) (*model.CVAnalysis, error) {
	if requester == nil {
		return nil, apperror.Unauthorized("authentication required", nil)
	}
	a, err := uc.analyses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := a.UserID != nil && *a.UserID == requester.ID
	if !owner && !requester.HasRole(model.RoleAdmin) {
		return nil, apperror.Forbidden("you do not have access to this analysis", nil)
	}
	return a, nil
}

func (uc *CVUsecase) observe(kind string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case apperror.Is(err, apperror.ErrTypeInvalidInput), apperror.Is(err, apperror.ErrTypeUnsupported):
		outcome = "rejected"
	default:
		outcome = "error"
	}
	observability.CVPipelineTotal.WithLabelValues(kind, outcome).Inc()
}

func newRecord(kind, fileName, text string, class cv.Classification, userID *uuid.UUID) *model.CVAnalysis {
	return &model.CVAnalysis{
		Kind:                kind,
		UserID:              userID,
		FileName:            filepath.Base(fileName),
		FileType:            strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), "."),
		TextLength:          utf8.RuneCountInString(text),
		ClassificationScore: class.Score,
	}
}

func applyResult(record *model.CVAnalysis, res cachedResult) {
	record.Provider = res.Provider
	record.Model = res.Model
	record.Score = res.Score
	record.Summary = res.Summary
	record.ParseMode = res.ParseMode
	record.Result = string(res.Result)
}

// cacheKey covers everything that changes the reply: scope is the target
// role or the job description.
func cacheKey(kind, provider, scope, text string) string {
	sum := sha256.Sum256([]byte(kind + "|" + provider + "|" + scope + "|" + text))
	return analysisCachePrefix + hex.EncodeToString(sum[:])
}
