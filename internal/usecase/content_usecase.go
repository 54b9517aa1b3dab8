package usecase

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/dto"
	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/fadilmartias/careerhub/internal/repository"
	"github.com/fadilmartias/careerhub/internal/util"
	"go.mongodb.org/mongo-driver/bson"
)

// DocumentStore is the subset of repository.DocumentRepository the content
// use cases need.
type DocumentStore[T any] interface {
	List(ctx context.Context, q repository.ListQuery) ([]T, int64, error)
	FindByID(ctx context.Context, id string) (*T, error)
	FindOne(ctx context.Context, filter bson.M) (*T, error)
	Exists(ctx context.Context, filter bson.M) (bool, error)
	Create(ctx context.Context, doc *T) error
	Update(ctx context.Context, doc *T) error
	SetFields(ctx context.Context, id string, fields bson.M) (*T, error)
	Increment(ctx context.Context, id, field string, delta int64) (*T, error)
	Delete(ctx context.Context, id string) error
}

// ContentOptions describes one collection.
type ContentOptions[T any] struct {
	Name string
	// Sort defaults to newest first.
	Sort bson.D
	// Filters maps query parameters to document fields matched exactly.
	Filters map[string]string
	// SearchFields are matched case-insensitively by ?search=.
	SearchFields []string
	// PublicFilter restricts what non-staff callers can read.
	PublicFilter bson.M
	// Statuses enables SetStatus with these values.
	Statuses []string
	// BeforeSave runs after validation; existing is nil on create.
	BeforeSave func(ctx context.Context, doc *T, existing *T) error
}

type ListParams struct {
	dto.PageQuery
	Filters map[string]string
	Staff   bool
}

type ContentUsecase[T any, PT repository.DocumentModel[T]] struct {
	store DocumentStore[T]
	opts  ContentOptions[T]
}

func NewContentUsecase[T any, PT repository.DocumentModel[T]](store DocumentStore[T], opts ContentOptions[T]) *ContentUsecase[T, PT] {
	return &ContentUsecase[T, PT]{store: store, opts: opts}
}

func (uc *ContentUsecase[T, PT]) Name() string {
	return uc.opts.Name
}

func (uc *ContentUsecase[T, PT]) List(ctx context.Context, p ListParams) ([]T, int64, error) {
	p.Normalize()

	filter := bson.M{}
	for param, field := range uc.opts.Filters {
		if v := strings.TrimSpace(p.Filters[param]); v != "" {
			filter[field] = v
		}
	}
	if s := strings.TrimSpace(p.Search); s != "" && len(uc.opts.SearchFields) > 0 {
		pattern := bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
		or := make(bson.A, 0, len(uc.opts.SearchFields))
		for _, f := range uc.opts.SearchFields {
			or = append(or, bson.M{f: pattern})
		}
		filter["$or"] = or
	}
	if !p.Staff {
		for k, v := range uc.opts.PublicFilter {
			filter[k] = v
		}
	}

	return uc.store.List(ctx, repository.ListQuery{
		Filter:   filter,
		Sort:     uc.opts.Sort,
		Page:     p.Page,
		PageSize: p.PageSize,
	})
}

func (uc *ContentUsecase[T, PT]) Get(ctx context.Context, id string, staff bool) (*T, error) {
	if staff || len(uc.opts.PublicFilter) == 0 {
		return uc.store.FindByID(ctx, id)
	}
	oid, err := repository.ParseObjectID(id, uc.opts.Name)
	if err != nil {
		return nil, err
	}
	return uc.FindOne(ctx, bson.M{"_id": oid}, false)
}

// FindOne looks a document up by an arbitrary filter, e.g. a slug.
func (uc *ContentUsecase[T, PT]) FindOne(ctx context.Context, filter bson.M, staff bool) (*T, error) {
	f := bson.M{}
	for k, v := range filter {
		f[k] = v
	}
	if !staff {
		for k, v := range uc.opts.PublicFilter {
			f[k] = v
		}
	}
	return uc.store.FindOne(ctx, f)
}

func (uc *ContentUsecase[T, PT]) Create(ctx context.Context, doc PT) (PT, error) {
	*doc.Base() = model.Document{}
	if err := util.ValidateStruct(doc); err != nil {
		return nil, err
	}
	if uc.opts.BeforeSave != nil {
		if err := uc.opts.BeforeSave(ctx, doc, nil); err != nil {
			return nil, err
		}
	}
	if err := uc.store.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Update replaces the document, keeping its identity and creation time.
func (uc *ContentUsecase[T, PT]) Update(ctx context.Context, id string, doc PT) (PT, error) {
	existing, err := uc.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := util.ValidateStruct(doc); err != nil {
		return nil, err
	}

	prev := PT(existing).Base()
	doc.Base().ID = prev.ID
	doc.Base().CreatedAt = prev.CreatedAt

	if uc.opts.BeforeSave != nil {
		if err := uc.opts.BeforeSave(ctx, doc, existing); err != nil {
			return nil, err
		}
	}
	if err := uc.store.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (uc *ContentUsecase[T, PT]) SetStatus(ctx context.Context, id, status string) (*T, error) {
	if len(uc.opts.Statuses) == 0 {
		return nil, apperror.InvalidInput(uc.opts.Name+" has no status", nil)
	}
	if !slices.Contains(uc.opts.Statuses, status) {
		return nil, apperror.InvalidInput("invalid status", nil).
			WithDetails(map[string]string{"status": "must be one of: " + strings.Join(uc.opts.Statuses, ", ")})
	}
	return uc.store.SetFields(ctx, id, bson.M{"status": status})
}

// Increment bumps a counter, returning the updated document.
func (uc *ContentUsecase[T, PT]) Increment(ctx context.Context, id, field string) (*T, error) {
	return uc.store.Increment(ctx, id, field, 1)
}

func (uc *ContentUsecase[T, PT]) Delete(ctx context.Context, id string) error {
	return uc.store.Delete(ctx, id)
}
