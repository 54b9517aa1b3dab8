package usecase_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/cache"
	"github.com/fadilmartias/careerhub/internal/dto"
	"github.com/fadilmartias/careerhub/internal/usecase"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validResume = `{
  "name": "Jane <b>Smith</b>",
  "headline": "Staff Engineer",
  "contact": {"email": "jane@example.com", "github": "https://github.com/janesmith"},
  "summary": "Builds payment systems.",
  "experience": [
    {"company": "Example Payments", "title": "Staff Engineer", "start": "2019-03", "end": "present", "bullets": ["Designed the ledger"]}
  ],
  "education": [{"institution": "ITB", "degree": "B.Eng.", "start": "2011", "end": "2015"}],
  "skills": ["Go", "Kafka"],
  "projects": [{"name": "ledgerctl", "stack": ["Go", "Postgres"]}]
}`

type stubRenderer struct {
	html string
	err  error
}

func (s *stubRenderer) RenderHTMLToPDF(_ context.Context, html string) ([]byte, error) {
	s.html = html
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.7 stub"), nil
}

func newResumeUsecase(t *testing.T, renderer *stubRenderer, drafts cache.Cache) *usecase.ResumeUsecase {
	t.Helper()
	uc, err := usecase.NewResumeUsecase(renderer, drafts)
	require.NoError(t, err)
	return uc
}

func TestResume_Validate(t *testing.T) {
	uc := newResumeUsecase(t, &stubRenderer{}, nil)

	r, err := uc.Validate(json.RawMessage(validResume))
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", r.Contact.Email)
	require.Len(t, r.Experience, 1)
	assert.Equal(t, []string{"Designed the ledger"}, r.Experience[0].Bullets)
}

func TestResume_ValidateErrors(t *testing.T) {
	uc := newResumeUsecase(t, &stubRenderer{}, nil)

	_, err := uc.Validate(json.RawMessage(`{"contact": {"email": "not-an-email"}, "experience": [{"company": "X"}]}`))
	require.Error(t, err)
	de, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ErrTypeInvalidInput, de.Type)
	problems, ok := de.Details.([]string)
	require.True(t, ok)
	joined := strings.Join(problems, "\n")
	assert.Contains(t, joined, "name")
	assert.Contains(t, joined, "title")
	assert.Contains(t, joined, "email")

	_, err = uc.Validate(json.RawMessage(`{"name": `))
	assert.True(t, apperror.Is(err, apperror.ErrTypeInvalidInput))

	_, err = uc.Validate(nil)
	assert.True(t, apperror.Is(err, apperror.ErrTypeInvalidInput))
}

func TestResume_RenderHTMLEscapes(t *testing.T) {
	uc := newResumeUsecase(t, &stubRenderer{}, nil)
	r, err := uc.Validate(json.RawMessage(validResume))
	require.NoError(t, err)

	html, err := uc.RenderHTML(r)
	require.NoError(t, err)
	assert.Contains(t, html, "Jane &lt;b&gt;Smith&lt;/b&gt;")
	assert.Contains(t, html, "2019-03 – present")
	assert.Contains(t, html, "Go, Postgres")
	assert.NotContains(t, html, "<b>Smith</b>")
}

func TestResume_RenderPDF(t *testing.T) {
	renderer := &stubRenderer{}
	uc := newResumeUsecase(t, renderer, nil)
	ctx := context.Background()

	pdf, err := uc.RenderPDF(ctx, dto.ResumePDFRequest{HTML: "<html><body>snapshot</body></html>"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
	assert.Equal(t, "<html><body>snapshot</body></html>", renderer.html)

	_, err = uc.RenderPDF(ctx, dto.ResumePDFRequest{Resume: json.RawMessage(validResume)})
	require.NoError(t, err)
	assert.Contains(t, renderer.html, "Example Payments")

	_, err = uc.RenderPDF(ctx, dto.ResumePDFRequest{HTML: strings.Repeat("a", 2<<20+1)})
	assert.True(t, apperror.Is(err, apperror.ErrTypeTooLarge))

	_, err = uc.RenderPDF(ctx, dto.ResumePDFRequest{})
	assert.True(t, apperror.Is(err, apperror.ErrTypeInvalidInput))
}

func TestResume_RenderPDFUnavailable(t *testing.T) {
	renderer := &stubRenderer{err: apperror.Unavailable("pdf renderer is unavailable", nil)}
	uc := newResumeUsecase(t, renderer, nil)

	_, err := uc.RenderPDF(context.Background(), dto.ResumePDFRequest{HTML: "<p>x</p>"})
	assert.True(t, apperror.Is(err, apperror.ErrTypeUnavailable))
}

func TestResume_Drafts(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	uc := newResumeUsecase(t, &stubRenderer{}, cache.NewRedisCache(client, "test:"))
	ctx := context.Background()

	saved, err := uc.SaveDraft(ctx, json.RawMessage(`{"name": "Jane", "skills": []}`))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.Token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), saved.ExpiresAt, time.Minute)

	got, err := uc.GetDraft(ctx, saved.Token)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "Jane", "skills": []}`, string(got.Resume))

	mr.FastForward(25 * time.Hour)
	_, err = uc.GetDraft(ctx, saved.Token)
	assert.True(t, apperror.Is(err, apperror.ErrTypeNotFound))

	_, err = uc.GetDraft(ctx, "not-a-token")
	assert.True(t, apperror.Is(err, apperror.ErrTypeNotFound))

	_, err = uc.SaveDraft(ctx, json.RawMessage(`["not", "an", "object"]`))
	assert.True(t, apperror.Is(err, apperror.ErrTypeInvalidInput))
}

func TestResume_DraftsWithoutRedis(t *testing.T) {
	uc := newResumeUsecase(t, &stubRenderer{}, nil)

	_, err := uc.SaveDraft(context.Background(), json.RawMessage(`{}`))
	assert.True(t, apperror.Is(err, apperror.ErrTypeUnavailable))
	_, err = uc.GetDraft(context.Background(), "3f1c1a52-4d0e-4b7e-9d59-1b8f2f3f0c11")
	assert.True(t, apperror.Is(err, apperror.ErrTypeUnavailable))
}
