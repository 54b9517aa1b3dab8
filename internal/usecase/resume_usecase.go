package usecase

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/cache"
	"github.com/fadilmartias/careerhub/internal/dto"
	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/fadilmartias/careerhub/internal/service"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

const (
	maxResumeHTML  = 2 << 20
	maxDraftBytes  = 512 << 10
	draftTTL       = 24 * time.Hour
	draftKeyPrefix = "draft:"
)

//go:embed templates/resume.schema.json templates/resume.html.tmpl
var resumeAssets embed.FS

type draftEnvelope struct {
	Resume    json.RawMessage `json:"resume"`
	ExpiresAt time.Time       `json:"expires_at"`
}

type ResumeUsecase struct {
	renderer service.PDFRenderer
	drafts   cache.Cache
	schema   *gojsonschema.Schema
	tmpl     *template.Template
	now      func() time.Time
}

// NewResumeUsecase compiles the embedded schema and template. drafts may be
// nil when no Redis is configured.
func NewResumeUsecase(renderer service.PDFRenderer, drafts cache.Cache) (*ResumeUsecase, error) {
	raw, err := resumeAssets.ReadFile("templates/resume.schema.json")
	if err != nil {
		return nil, err
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("resume.html.tmpl").Funcs(template.FuncMap{
		"join":   strings.Join,
		"period": period,
	}).ParseFS(resumeAssets, "templates/resume.html.tmpl")
	if err != nil {
		return nil, err
	}

	return &ResumeUsecase{
		renderer: renderer,
		drafts:   drafts,
		schema:   schema,
		tmpl:     tmpl,
		now:      time.Now,
	}, nil
}

// Validate checks raw against the resume schema and decodes it.
func (uc *ResumeUsecase) Validate(raw json.RawMessage) (*model.Resume, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, apperror.InvalidInput("resume is required", nil)
	}

	res, err := uc.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, apperror.InvalidInput("resume is not valid JSON", err)
	}
	if !res.Valid() {
		problems := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			problems = append(problems, e.String())
		}
		return nil, apperror.InvalidInput("resume does not match the schema", nil).WithDetails(problems)
	}

	var resume model.Resume
	if err := json.Unmarshal(raw, &resume); err != nil {
		return nil, apperror.InvalidInput("resume is not valid JSON", err)
	}
	return &resume, nil
}

func (uc *ResumeUsecase) RenderHTML(r *model.Resume) (string, error) {
	var buf bytes.Buffer
	if err := uc.tmpl.Execute(&buf, r); err != nil {
		return "", apperror.Internal("cannot render resume", err)
	}
	return buf.String(), nil
}

// RenderPDF prints either the submitted HTML snapshot or the templated JSON
// resume.
func (uc *ResumeUsecase) RenderPDF(ctx context.Context, req dto.ResumePDFRequest) ([]byte, error) {
	var html string
	switch {
	case strings.TrimSpace(req.HTML) != "":
		if len(req.HTML) > maxResumeHTML {
			return nil, apperror.TooLarge("html snapshot exceeds 2MB", nil)
		}
		html = req.HTML
	case len(bytes.TrimSpace(req.Resume)) > 0:
		resume, err := uc.Validate(req.Resume)
		if err != nil {
			return nil, err
		}
		if html, err = uc.RenderHTML(resume); err != nil {
			return nil, err
		}
	default:
		return nil, apperror.InvalidInput("html or resume is required", nil)
	}

	if uc.renderer == nil {
		return nil, apperror.Unavailable("pdf renderer is unavailable", nil)
	}
	return uc.renderer.RenderHTMLToPDF(ctx, html)
}

func (uc *ResumeUsecase) SaveDraft(ctx context.Context, raw json.RawMessage) (*dto.DraftDTO, error) {
	if uc.drafts == nil {
		return nil, apperror.Unavailable("drafts are unavailable", nil)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' || !json.Valid(raw) {
		return nil, apperror.InvalidInput("draft must be a JSON object", nil)
	}
	if len(raw) > maxDraftBytes {
		return nil, apperror.TooLarge("draft exceeds 512KB", nil)
	}

	env := draftEnvelope{Resume: raw, ExpiresAt: uc.now().Add(draftTTL).UTC()}
	payload, err := json.Marshal(env)
	if err != nil {
		return nil, apperror.Internal("cannot encode draft", err)
	}

	token := uuid.NewString()
	if err := uc.drafts.Set(ctx, draftKeyPrefix+token, payload, draftTTL); err != nil {
		if !errors.Is(err, cache.ErrDisabled) {
			zap.L().Error("save draft failed", zap.Error(err))
		}
		return nil, apperror.Unavailable("drafts are unavailable", err)
	}

	return &dto.DraftDTO{Token: token, ExpiresAt: env.ExpiresAt}, nil
}

func (uc *ResumeUsecase) GetDraft(ctx context.Context, token string) (*dto.DraftDTO, error) {
	if uc.drafts == nil {
		return nil, apperror.Unavailable("drafts are unavailable", nil)
	}
	if _, err := uuid.Parse(token); err != nil {
		return nil, apperror.NotFound("draft not found or expired", nil)
	}

	payload, err := uc.drafts.Get(ctx, draftKeyPrefix+token)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, apperror.NotFound("draft not found or expired", nil)
		}
		return nil, apperror.Unavailable("drafts are unavailable", err)
	}

	var env draftEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, apperror.Internal("cannot decode draft", err)
	}
	return &dto.DraftDTO{Token: token, Resume: env.Resume, ExpiresAt: env.ExpiresAt}, nil
}

func period(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start + " – Present"
	case start == "":
		return end
	}
	return start + " – " + end
}
