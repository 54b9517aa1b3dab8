package usecase

import (
	"context"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/dto"
	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/fadilmartias/careerhub/internal/repository"
	"github.com/fadilmartias/careerhub/internal/service"
	"github.com/fadilmartias/careerhub/internal/util"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

type JobStore interface {
	CreateJob(ctx context.Context, job *model.Job) error
	UpdateJob(ctx context.Context, job *model.Job) error
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding pgvector.Vector) error
	DeleteJob(ctx context.Context, id uuid.UUID) error
	FindJobByID(ctx context.Context, id uuid.UUID) (*model.Job, error)
	GetJobs(ctx context.Context, f repository.JobFilter, page, pageSize int) ([]model.Job, int64, error)
	JobsWithoutEmbedding(ctx context.Context, limit int) ([]model.Job, error)
}

type JobUsecase struct {
	jobs     JobStore
	embedder service.EmbeddingService
}

// NewJobUsecase: embedder may be nil, in which case postings are stored
// without embeddings.
func NewJobUsecase(jobs JobStore, embedder service.EmbeddingService) *JobUsecase {
	return &JobUsecase{jobs: jobs, embedder: embedder}
}

// List shows only published postings to visitors.
func (uc *JobUsecase) List(ctx context.Context, q dto.JobQuery, staff bool) ([]model.Job, int64, error) {
	q.Normalize()
	f := repository.JobFilter{
		Search:         q.Search,
		Location:       q.Location,
		EmploymentType: q.EmploymentType,
		Status:         q.Status,
	}
	if !staff {
		f.Status = model.JobStatusPublished
	}
	return uc.jobs.GetJobs(ctx, f, q.Page, q.PageSize)
}

func (uc *JobUsecase) Get(ctx context.Context, id uuid.UUID, staff bool) (*model.Job, error) {
	job, err := uc.jobs.FindJobByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !staff && job.Status != model.JobStatusPublished {
		return nil, apperror.NotFound("job not found", nil)
	}
	return job, nil
}

func (uc *JobUsecase) Create(ctx context.Context, req dto.JobRequest) (*model.Job, error) {
	if err := util.ValidateStruct(req); err != nil {
		return nil, err
	}
	job := &model.Job{}
	req.Apply(job)
	if err := uc.jobs.CreateJob(ctx, job); err != nil {
		return nil, apperror.Internal("cannot create job", err)
	}
	uc.embed(ctx, job)
	return job, nil
}

func (uc *JobUsecase) Update(ctx context.Context, id uuid.UUID, req dto.JobRequest) (*model.Job, error) {
	if err := util.ValidateStruct(req); err != nil {
		return nil, err
	}
	job, err := uc.jobs.FindJobByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(job)
	if err := uc.jobs.UpdateJob(ctx, job); err != nil {
		return nil, apperror.Internal("cannot update job", err)
	}
	uc.embed(ctx, job)
	return job, nil
}

func (uc *JobUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.jobs.DeleteJob(ctx, id)
}

// Seed inserts postings as given and embeds them.
func (uc *JobUsecase) Seed(ctx context.Context, jobs []model.Job) (int, error) {
	for i := range jobs {
		if jobs[i].Status == "" {
			jobs[i].Status = model.JobStatusPublished
		}
		if err := uc.jobs.CreateJob(ctx, &jobs[i]); err != nil {
			return i, err
		}
		uc.embed(ctx, &jobs[i])
	}
	return len(jobs), nil
}

// EmbedPending embeds up to limit postings that have no embedding yet and
// reports how many succeeded.
func (uc *JobUsecase) EmbedPending(ctx context.Context, limit int) (int, error) {
	if uc.embedder == nil {
		return 0, apperror.Unavailable("embedding service is not configured", nil)
	}
	jobs, err := uc.jobs.JobsWithoutEmbedding(ctx, limit)
	if err != nil {
		return 0, err
	}
	done := 0
	for i := range jobs {
		if uc.embed(ctx, &jobs[i]) {
			done++
		}
	}
	return done, nil
}

// embed failures are logged, never returned: the posting is saved either
// way and embed-jobs can catch up later.
func (uc *JobUsecase) embed(ctx context.Context, job *model.Job) bool {
	if uc.embedder == nil {
		return false
	}
	vec, err := uc.embedder.GenerateEmbedding(ctx, job.EmbeddingText())
	if err == nil {
		err = uc.jobs.UpdateEmbedding(ctx, job.ID, pgvector.NewVector(vec))
	}
	if err != nil {
		zap.L().Warn("embed job failed", zap.String("job_id", job.ID.String()), zap.Error(err))
		return false
	}
	return true
}
