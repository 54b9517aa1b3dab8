package repository

import (
	"context"

	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CVAnalysisRepository struct {
	db *gorm.DB
}

func NewCVAnalysisRepository(db *gorm.DB) *CVAnalysisRepository {
	return &CVAnalysisRepository{db}
}

func (r *CVAnalysisRepository) Create(ctx context.Context, a *model.CVAnalysis) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *CVAnalysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CVAnalysis, error) {
	var a model.CVAnalysis
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "analysis")
	}
	return &a, nil
}

// ListByUser pages a user's runs, newest first. Raw replies stay in the
// database.
func (r *CVAnalysisRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]model.CVAnalysis, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.CVAnalysis{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.CVAnalysis
	err := q.Omit("raw_reply").
		Order("created_at DESC").
		Offset(offset(page, pageSize)).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}
