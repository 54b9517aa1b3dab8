package repository

import (
	"context"
	"strings"

	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type JobFilter struct {
	Search         string
	Location       string
	EmploymentType string
	Status         string
}

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

// SearchSimilar returns published jobs ordered by cosine distance to the
// given embedding. Jobs that were never embedded are skipped.
func (r *JobRepository) SearchSimilar(ctx context.Context, embedding pgvector.Vector, limit int) ([]model.JobMatch, error) {
	var matches []model.JobMatch

	err := r.db.WithContext(ctx).Raw(`
        SELECT id, title, company, location, employment_type, description,
               requirements, tags, salary_range, apply_url, status,
               created_at, updated_at, embedding <=> ? AS distance
        FROM jobs
        WHERE status = ? AND embedding IS NOT NULL
        ORDER BY distance
        LIMIT ?
    `, embedding, model.JobStatusPublished, limit).Scan(&matches).Error

	return matches, err
}

func (r *JobRepository) CreateJob(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// UpdateJob saves everything except the embedding, which only
// UpdateEmbedding writes.
func (r *JobRepository) UpdateJob(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Omit("Embedding").Save(job).Error
}

func (r *JobRepository) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding pgvector.Vector) error {
	return r.db.WithContext(ctx).Model(&model.Job{}).
		Where("id = ?", id).
		Update("embedding", embedding).Error
}

func (r *JobRepository) DeleteJob(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Job{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "job")
	}
	return nil
}

func (r *JobRepository) FindJobByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var j model.Job
	err := r.db.WithContext(ctx).Omit("embedding").First(&j, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "job")
	}
	return &j, nil
}

func (r *JobRepository) GetJobs(ctx context.Context, f JobFilter, page, pageSize int) ([]model.Job, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Job{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Location != "" {
		q = q.Where("location ILIKE ?", "%"+f.Location+"%")
	}
	if f.EmploymentType != "" {
		q = q.Where("employment_type = ?", f.EmploymentType)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("title ILIKE ? OR company ILIKE ? OR description ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []model.Job
	err := q.Omit("embedding").
		Order("created_at DESC").
		Offset(offset(page, pageSize)).
		Limit(pageSize).
		Find(&jobs).Error
	return jobs, total, err
}

// JobsWithoutEmbedding lists postings that still need an embedding.
func (r *JobRepository) JobsWithoutEmbedding(ctx context.Context, limit int) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).
		Omit("embedding").
		Where("embedding IS NULL").
		Order("created_at").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}
