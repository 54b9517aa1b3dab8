package usecase

import (
	"context"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/dto"
	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/fadilmartias/careerhub/internal/util"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, search string, page, pageSize int) ([]model.User, int64, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserUsecase struct {
	users UserStore
}

func NewUserUsecase(users UserStore) *UserUsecase {
	return &UserUsecase{users: users}
}

func (uc *UserUsecase) List(ctx context.Context, q dto.PageQuery) ([]model.User, int64, error) {
	q.Normalize()
	return uc.users.List(ctx, q.Search, q.Page, q.PageSize)
}

func (uc *UserUsecase) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return uc.users.FindByID(ctx, id)
}

// UpdateRole changes another user's role; admins cannot demote themselves.
func (uc *UserUsecase) UpdateRole(ctx context.Context, actor *model.User, id uuid.UUID, req dto.UpdateRoleRequest) (*model.User, error) {
	if err := util.ValidateStruct(req); err != nil {
		return nil, err
	}
	if actor.ID == id {
		return nil, apperror.Forbidden("you cannot change your own role", nil)
	}
	if err := uc.users.UpdateRole(ctx, id, req.Role); err != nil {
		return nil, err
	}
	zap.L().Info("user role changed",
		zap.String("actor", actor.ID.String()),
		zap.String("user_id", id.String()),
		zap.String("role", req.Role),
	)
	return uc.users.FindByID(ctx, id)
}

func (uc *UserUsecase) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if actor.ID == id {
		return apperror.Forbidden("you cannot delete your own account", nil)
	}
	return uc.users.Delete(ctx, id)
}
