package usecase_test

import (
	"context"
	"sync"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/fadilmartias/careerhub/internal/repository"
	"github.com/fadilmartias/careerhub/internal/service"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

const sampleCV = `Jane Smith
jane.smith@example.com | +62 811 2233 4455 | github.com/janesmith

Summary
Product-minded backend engineer with seven years of experience shipping Go services.

Experience
Staff Engineer, Example Payments  Mar 2019 - Present
- Designed the ledger service processing forty million transactions a month
- Mentored six engineers and ran the on-call rotation

Education
B.Eng. Informatics, Institut Teknologi Bandung 2011 - 2015

Skills
Go, PostgreSQL, Kafka, Redis, Terraform, GCP`

type stubLLM struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
	last  service.Prompt
}

func (s *stubLLM) Complete(_ context.Context, p service.Prompt) (service.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.last = p
	if s.err != nil {
		return service.Completion{}, s.err
	}
	return service.Completion{Text: s.reply, Model: "stub-1", Provider: "stub"}, nil
}

func (s *stubLLM) Name() string { return "stub" }

func (s *stubLLM) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubEmbedder struct {
	err   error
	texts []string
}

func (s *stubEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	s.texts = append(s.texts, text)
	if s.err != nil {
		return nil, s.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type memAnalyses struct {
	items []*model.CVAnalysis
}

func (m *memAnalyses) Create(_ context.Context, a *model.CVAnalysis) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.items = append(m.items, a)
	return nil
}

func (m *memAnalyses) FindByID(_ context.Context, id uuid.UUID) (*model.CVAnalysis, error) {
	for _, a := range m.items {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, apperror.NotFound("analysis not found", nil)
}

func (m *memAnalyses) ListByUser(_ context.Context, userID uuid.UUID, page, pageSize int) ([]model.CVAnalysis, int64, error) {
	var out []model.CVAnalysis
	for _, a := range m.items {
		if a.UserID != nil && *a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

// memJobs implements both the job store and the CV pipeline's job lookup.
type memJobs struct {
	jobs       map[uuid.UUID]*model.Job
	embedded   map[uuid.UUID]pgvector.Vector
	matches    []model.JobMatch
	matchLimit int
}

func newMemJobs() *memJobs {
	return &memJobs{jobs: map[uuid.UUID]*model.Job{}, embedded: map[uuid.UUID]pgvector.Vector{}}
}

func (m *memJobs) CreateJob(_ context.Context, job *model.Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	m.jobs[job.ID] = job
	return nil
}

func (m *memJobs) UpdateJob(_ context.Context, job *model.Job) error {
	m.jobs[job.ID] = job
	return nil
}

func (m *memJobs) UpdateEmbedding(_ context.Context, id uuid.UUID, v pgvector.Vector) error {
	m.embedded[id] = v
	return nil
}

func (m *memJobs) DeleteJob(_ context.Context, id uuid.UUID) error {
	if _, ok := m.jobs[id]; !ok {
		return apperror.NotFound("job not found", nil)
	}
	delete(m.jobs, id)
	return nil
}

func (m *memJobs) FindJobByID(_ context.Context, id uuid.UUID) (*model.Job, error) {
	if j, ok := m.jobs[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, apperror.NotFound("job not found", nil)
}

func (m *memJobs) SearchSimilar(_ context.Context, _ pgvector.Vector, limit int) ([]model.JobMatch, error) {
	m.matchLimit = limit
	return m.matches, nil
}

func (m *memJobs) GetJobs(_ context.Context, f repository.JobFilter, _, _ int) ([]model.Job, int64, error) {
	var out []model.Job
	for _, j := range m.jobs {
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		out = append(out, *j)
	}
	return out, int64(len(out)), nil
}

func (m *memJobs) JobsWithoutEmbedding(_ context.Context, limit int) ([]model.Job, error) {
	var out []model.Job
	for id, j := range m.jobs {
		if _, ok := m.embedded[id]; !ok && len(out) < limit {
			out = append(out, *j)
		}
	}
	return out, nil
}
