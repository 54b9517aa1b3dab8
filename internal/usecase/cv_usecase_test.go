package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/cache"
	"github.com/fadilmartias/careerhub/internal/config"
	"github.com/fadilmartias/careerhub/internal/cv"
	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/fadilmartias/careerhub/internal/usecase"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const analysisReply = `{"overall_score": 82, "summary": "Strong backend profile", "strengths": ["Go", "Mentoring"], "weaknesses": ["No metrics on impact"], "suggestions": ["Quantify the ledger work"], "missing_keywords": ["Kubernetes"], "section_scores": {"experience": 9}}`

const tailorReply = "```json\n" + `{"fit_score": 74, "tailored_summary": "Backend engineer focused on payments", "matched_skills": ["Go"], "missing_skills": ["Rust"], "bullet_rewrites": [{"original": "Built things", "suggested": "Built the ledger"}], "recommendations": ["Mention Rust exposure"]}` + "\n```"

type cvFixture struct {
	uc       *usecase.CVUsecase
	llm      *stubLLM
	analyses *memAnalyses
	jobs     *memJobs
	embedder *stubEmbedder
}

func newCVFixture(t *testing.T, reply string) *cvFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &cvFixture{
		llm:      &stubLLM{reply: reply},
		analyses: &memAnalyses{},
		jobs:     newMemJobs(),
		embedder: &stubEmbedder{},
	}
	cfg := &config.LLMConfig{MaxPromptTokens: 6000, ResultCacheTTL: time.Hour}
	f.uc = usecase.NewCVUsecase(f.analyses, f.jobs, f.llm, f.embedder, cache.NewRedisCache(client, "test:"), cfg)
	return f
}

func TestCVUsecase_Analyze(t *testing.T) {
	f := newCVFixture(t, analysisReply)
	user := uuid.New()

	rec, err := f.uc.Analyze(context.Background(), usecase.CVInput{
		FileName:   "jane.txt",
		Data:       []byte(sampleCV),
		TargetRole: "Staff Backend Engineer",
		UserID:     &user,
	})
	require.NoError(t, err)

	assert.Equal(t, 82, rec.Score)
	assert.Equal(t, "Strong backend profile", rec.Summary)
	assert.Equal(t, cv.ParseModeJSON, rec.ParseMode)
	assert.Equal(t, "stub", rec.Provider)
	assert.Equal(t, "txt", rec.FileType)
	assert.False(t, rec.Cached)
	assert.Contains(t, f.llm.last.User, "Staff Backend Engineer")
	require.Len(t, f.analyses.items, 1)

	var parsed cv.Analysis
	require.NoError(t, json.Unmarshal([]byte(rec.Result), &parsed))
	assert.Equal(t, []string{"Kubernetes"}, parsed.MissingKeywords)
	assert.Equal(t, 90, parsed.SectionScores["experience"])
}

func TestCVUsecase_AnalyzeUsesCache(t *testing.T) {
	f := newCVFixture(t, analysisReply)
	in := usecase.CVInput{FileName: "jane.txt", Data: []byte(sampleCV), TargetRole: "SRE"}

	_, err := f.uc.Analyze(context.Background(), in)
	require.NoError(t, err)
	second, err := f.uc.Analyze(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, second.Cached)
	assert.Equal(t, 82, second.Score)
	assert.Equal(t, 1, f.llm.Calls())
	assert.Len(t, f.analyses.items, 2)

	// a different role is a different prompt
	in.TargetRole = "Data Engineer"
	_, err = f.uc.Analyze(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 2, f.llm.Calls())
}

func TestCVUsecase_RawReplyIsNotCached(t *testing.T) {
	f := newCVFixture(t, "Thanks for sharing the document, it reads well overall.")
	in := usecase.CVInput{FileName: "jane.txt", Data: []byte(sampleCV)}

	rec, err := f.uc.Analyze(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, cv.ParseModeRaw, rec.ParseMode)

	_, err = f.uc.Analyze(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 2, f.llm.Calls())
}

func TestCVUsecase_EmptyReply(t *testing.T) {
	f := newCVFixture(t, "   ")
	_, err := f.uc.Analyze(context.Background(), usecase.CVInput{FileName: "jane.txt", Data: []byte(sampleCV)})
	assert.True(t, apperror.Is(err, apperror.ErrTypeUnavailable))
	assert.Empty(t, f.analyses.items)
}

func TestCVUsecase_UpstreamError(t *testing.T) {
	f := newCVFixture(t, "")
	f.llm.err = apperror.RateLimit("language model is rate limited", nil)

	_, err := f.uc.Analyze(context.Background(), usecase.CVInput{FileName: "jane.txt", Data: []byte(sampleCV)})
	assert.True(t, apperror.Is(err, apperror.ErrTypeRateLimit))
}

func TestCVUsecase_RejectsNonCV(t *testing.T) {
	f := newCVFixture(t, analysisReply)
	invoice := `Invoice No: INV-2024-0042
Bill to: PT Example Indonesia, Jalan Sudirman 10, Jakarta
Description of services rendered during the month of March including consulting,
hosting and support hours as agreed in the signed purchase order.
Subtotal 10.000.000 Tax 1.100.000 Total due 11.100.000`

	_, err := f.uc.Analyze(context.Background(), usecase.CVInput{FileName: "invoice.txt", Data: []byte(invoice)})
	require.Error(t, err)
	de, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ErrTypeInvalidInput, de.Type)
	class, ok := de.Details.(cv.Classification)
	require.True(t, ok)
	assert.False(t, class.IsCV)
	assert.Zero(t, f.llm.Calls())
}

func TestCVUsecase_TargetRoleTooLong(t *testing.T) {
	f := newCVFixture(t, analysisReply)
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	_, err := f.uc.Analyze(context.Background(), usecase.CVInput{FileName: "jane.txt", Data: []byte(sampleCV), TargetRole: string(long)})
	assert.True(t, apperror.Is(err, apperror.ErrTypeInvalidInput))
}

func TestCVUsecase_Tailor(t *testing.T) {
	f := newCVFixture(t, tailorReply)
	jd := "We are hiring a senior Go engineer to build payment infrastructure with Kafka and Rust."

	rec, err := f.uc.Tailor(context.Background(), usecase.TailorInput{FileName: "jane.txt", Data: []byte(sampleCV), JobDescription: jd})
	require.NoError(t, err)
	assert.Equal(t, model.CVKindTailor, rec.Kind)
	assert.Equal(t, 74, rec.Score)
	assert.Equal(t, jd, rec.JobDescription)

	var parsed cv.Tailoring
	require.NoError(t, json.Unmarshal([]byte(rec.Result), &parsed))
	require.Len(t, parsed.BulletRewrites, 1)
	assert.Equal(t, "Built the ledger", parsed.BulletRewrites[0].Suggested)
}

func TestCVUsecase_TailorFromJob(t *testing.T) {
	f := newCVFixture(t, tailorReply)
	job := &model.Job{
		Title:       "Senior Go Engineer",
		Company:     "Example Payments",
		Description: "Build and operate the ledger and settlement services used by millions of merchants.",
		Status:      model.JobStatusPublished,
	}
	require.NoError(t, f.jobs.CreateJob(context.Background(), job))

	rec, err := f.uc.Tailor(context.Background(), usecase.TailorInput{FileName: "jane.txt", Data: []byte(sampleCV), JobID: &job.ID})
	require.NoError(t, err)
	assert.Equal(t, &job.ID, rec.JobID)
	assert.Contains(t, rec.JobDescription, "Senior Go Engineer")
	assert.Contains(t, f.llm.last.User, "settlement services")
}

func TestCVUsecase_TailorFromUnpublishedJob(t *testing.T) {
	f := newCVFixture(t, tailorReply)
	job := &model.Job{
		Title:       "Staff Platform Engineer",
		Company:     "Example Payments",
		Description: "Own the internal developer platform and the deployment pipeline for every service.",
		Status:      model.JobStatusDraft,
	}
	require.NoError(t, f.jobs.CreateJob(context.Background(), job))

	_, err := f.uc.Tailor(context.Background(), usecase.TailorInput{FileName: "jane.txt", Data: []byte(sampleCV), JobID: &job.ID})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.ErrTypeNotFound))
	assert.Empty(t, f.llm.last.User)

	rec, err := f.uc.Tailor(context.Background(), usecase.TailorInput{FileName: "jane.txt", Data: []byte(sampleCV), JobID: &job.ID, Staff: true})
	require.NoError(t, err)
	assert.Contains(t, rec.JobDescription, "Staff Platform Engineer")
}

func TestCVUsecase_TailorShortDescription(t *testing.T) {
	f := newCVFixture(t, tailorReply)
	_, err := f.uc.Tailor(context.Background(), usecase.TailorInput{FileName: "jane.txt", Data: []byte(sampleCV), JobDescription: "Go dev"})
	assert.True(t, apperror.Is(err, apperror.ErrTypeInvalidInput))

	missing := uuid.New()
	_, err = f.uc.Tailor(context.Background(), usecase.TailorInput{FileName: "jane.txt", Data: []byte(sampleCV), JobID: &missing})
	assert.True(t, apperror.Is(err, apperror.ErrTypeNotFound))
}

func TestCVUsecase_MatchJobs(t *testing.T) {
	f := newCVFixture(t, analysisReply)
	f.jobs.matches = []model.JobMatch{{Job: model.Job{Title: "Go Engineer"}, Distance: 0.12}}

	matches, err := f.uc.MatchJobs(context.Background(), "jane.txt", []byte(sampleCV), 50)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.Equal(t, 20, f.jobs.matchLimit)
	require.Len(t, f.embedder.texts, 1)
	assert.Contains(t, f.embedder.texts[0], "Jane Smith")

	_, err = f.uc.MatchJobs(context.Background(), "jane.txt", []byte(sampleCV), 0)
	require.NoError(t, err)
	assert.Equal(t, 5, f.jobs.matchLimit)
}

func TestCVUsecase_MatchJobsWithoutEmbedder(t *testing.T) {
	uc := usecase.NewCVUsecase(nil, newMemJobs(), &stubLLM{}, nil, nil, &config.LLMConfig{MaxPromptTokens: 6000})
	_, err := uc.MatchJobs(context.Background(), "jane.txt", []byte(sampleCV), 5)
	assert.True(t, apperror.Is(err, apperror.ErrTypeUnavailable))
}

func TestCVUsecase_GetChecksOwner(t *testing.T) {
	f := newCVFixture(t, analysisReply)
	owner := &model.User{ID: uuid.New(), Role: model.RoleUser}
	other := &model.User{ID: uuid.New(), Role: model.RoleUser}
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}

	rec, err := f.uc.Analyze(context.Background(), usecase.CVInput{FileName: "jane.txt", Data: []byte(sampleCV), UserID: &owner.ID})
	require.NoError(t, err)

	_, err = f.uc.Get(context.Background(), rec.ID, owner)
	assert.NoError(t, err)
	_, err = f.uc.Get(context.Background(), rec.ID, admin)
	assert.NoError(t, err)
	_, err = f.uc.Get(context.Background(), rec.ID, other)
	assert.True(t, apperror.Is(err, apperror.ErrTypeForbidden))
	_, err = f.uc.Get(context.Background(), rec.ID, nil)
	assert.True(t, apperror.Is(err, apperror.ErrTypeUnauthorized))

	items, total, err := f.uc.History(context.Background(), owner.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, rec.ID, items[0].ID)
}
