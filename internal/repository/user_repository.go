package repository

import (
	"context"
	"strings"
	"time"

	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "external_id = ?", externalID).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// TouchProfile refreshes the provider-owned fields and the last-seen stamp.
func (r *UserRepository) TouchProfile(ctx context.Context, u *model.User, seenAt time.Time) error {
	u.LastSeenAt = &seenAt
	return r.db.WithContext(ctx).Model(u).Updates(map[string]any{
		"email":        u.Email,
		"name":         u.Name,
		"last_seen_at": seenAt,
	}).Error
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "user")
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "user")
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, search string, page, pageSize int) ([]model.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.User{})
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + s + "%"
		q = q.Where("email ILIKE ? OR name ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := q.Order("created_at DESC").
		Offset(offset(page, pageSize)).
		Limit(pageSize).
		Find(&users).Error
	return users, total, err
}
