package usecase_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/dto"
	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/fadilmartias/careerhub/internal/repository"
	"github.com/fadilmartias/careerhub/internal/usecase"
	"github.com/fadilmartias/careerhub/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory DocumentStore. Filters support equality and
// $ne on top-level fields.
type memStore[T any, PT repository.DocumentModel[T]] struct {
	docs      []PT
	lastQuery repository.ListQuery
}

func (s *memStore[T, PT]) List(_ context.Context, q repository.ListQuery) ([]T, int64, error) {
	s.lastQuery = q
	var out []T
	for _, d := range s.docs {
		if matches(d, q.Filter) {
			out = append(out, *d)
		}
	}
	return out, int64(len(out)), nil
}

func (s *memStore[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := repository.ParseObjectID(id, "document")
	if err != nil {
		return nil, err
	}
	return s.FindOne(ctx, bson.M{"_id": oid})
}

func (s *memStore[T, PT]) FindOne(_ context.Context, filter bson.M) (*T, error) {
	for _, d := range s.docs {
		if matches(d, filter) {
			cp := *d
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("document not found", nil)
}

func (s *memStore[T, PT]) Exists(ctx context.Context, filter bson.M) (bool, error) {
	_, err := s.FindOne(ctx, filter)
	return err == nil, nil
}

func (s *memStore[T, PT]) Create(_ context.Context, doc *T) error {
	pt := PT(doc)
	pt.Base().ID = primitive.NewObjectID()
	pt.Base().Touch(time.Now())
	cp := *doc
	s.docs = append(s.docs, PT(&cp))
	return nil
}

func (s *memStore[T, PT]) Update(_ context.Context, doc *T) error {
	pt := PT(doc)
	for i, d := range s.docs {
		if d.Base().ID == pt.Base().ID {
			pt.Base().Touch(time.Now())
			cp := *doc
			s.docs[i] = PT(&cp)
			return nil
		}
	}
	return apperror.NotFound("document not found", nil)
}

func (s *memStore[T, PT]) SetFields(_ context.Context, id string, fields bson.M) (*T, error) {
	return s.mutate(id, func(m bson.M) {
		for k, v := range fields {
			m[k] = v
		}
	})
}

func (s *memStore[T, PT]) Increment(_ context.Context, id, field string, delta int64) (*T, error) {
	return s.mutate(id, func(m bson.M) {
		switch v := m[field].(type) {
		case int64:
			m[field] = v + delta
		case int32:
			m[field] = int64(v) + delta
		default:
			m[field] = delta
		}
	})
}

func (s *memStore[T, PT]) Delete(_ context.Context, id string) error {
	for i, d := range s.docs {
		if d.Base().ID.Hex() == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("document not found", nil)
}

func (s *memStore[T, PT]) mutate(id string, fn func(bson.M)) (*T, error) {
	for i, d := range s.docs {
		if d.Base().ID.Hex() != id {
			continue
		}
		m := toM(d)
		fn(m)
		raw, err := bson.Marshal(m)
		if err != nil {
			return nil, err
		}
		next := PT(new(T))
		if err := bson.Unmarshal(raw, next); err != nil {
			return nil, err
		}
		s.docs[i] = next
		cp := *next
		return &cp, nil
	}
	return nil, apperror.NotFound("document not found", nil)
}

func toM(doc any) bson.M {
	raw, _ := bson.Marshal(doc)
	m := bson.M{}
	_ = bson.Unmarshal(raw, &m)
	return m
}

func matches(doc any, filter bson.M) bool {
	m := toM(doc)
	for k, want := range filter {
		if op, ok := want.(bson.M); ok {
			if ne, ok := op["$ne"]; ok && reflect.DeepEqual(m[k], ne) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(m[k], want) {
			return false
		}
	}
	return true
}

func newBlogUsecase() (*usecase.ContentUsecase[model.Blog, *model.Blog], *memStore[model.Blog, *model.Blog], *memStore[model.Author, *model.Author]) {
	blogs := &memStore[model.Blog, *model.Blog]{}
	authors := &memStore[model.Author, *model.Author]{}
	return usecase.NewContentUsecase[model.Blog, *model.Blog](blogs, usecase.BlogOptions(blogs, authors)), blogs, authors
}

func TestBlog_CreateGeneratesUniqueSlug(t *testing.T) {
	uc, _, _ := newBlogUsecase()
	ctx := context.Background()

	first, err := uc.Create(ctx, &model.Blog{Title: "Hello, World!", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, "hello-world", first.Slug)
	assert.Equal(t, model.BlogStatusDraft, first.Status)
	assert.Nil(t, first.PublishedAt)

	second, err := uc.Create(ctx, &model.Blog{Title: "Hello World", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", second.Slug)

	// updating keeps its own slug
	first.Content = "edited"
	updated, err := uc.Update(ctx, first.ID.Hex(), first)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", updated.Slug)
}

func TestBlog_PublishStampsOnce(t *testing.T) {
	uc, _, _ := newBlogUsecase()
	ctx := context.Background()

	b, err := uc.Create(ctx, &model.Blog{Title: "Launch", Content: "body", Status: model.BlogStatusPublished})
	require.NoError(t, err)
	require.NotNil(t, b.PublishedAt)
	published := *b.PublishedAt

	b.Title = "Launch day"
	b.PublishedAt = nil
	updated, err := uc.Update(ctx, b.ID.Hex(), b)
	require.NoError(t, err)
	require.NotNil(t, updated.PublishedAt)
	assert.True(t, published.Equal(*updated.PublishedAt))
}

func TestBlog_UnknownAuthor(t *testing.T) {
	uc, _, authors := newBlogUsecase()
	ctx := context.Background()

	_, err := uc.Create(ctx, &model.Blog{Title: "T", Content: "c", AuthorID: primitive.NewObjectID().Hex()})
	assert.True(t, apperror.Is(err, apperror.ErrTypeInvalidInput))

	author := &model.Author{Name: "Ana"}
	require.NoError(t, authors.Create(ctx, author))
	_, err = uc.Create(ctx, &model.Blog{Title: "T", Content: "c", AuthorID: author.ID.Hex()})
	assert.NoError(t, err)
}

func TestBlog_ValidationError(t *testing.T) {
	uc, blogs, _ := newBlogUsecase()
	_, err := uc.Create(context.Background(), &model.Blog{Content: "no title"})

	var fe *util.FormError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Errors, "title")
	assert.Empty(t, blogs.docs)
}

func TestBlog_PublicVisibility(t *testing.T) {
	uc, blogs, _ := newBlogUsecase()
	ctx := context.Background()

	draft, err := uc.Create(ctx, &model.Blog{Title: "Draft", Content: "c"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, &model.Blog{Title: "Live", Content: "c", Status: model.BlogStatusPublished, Category: "career"})
	require.NoError(t, err)

	items, total, err := uc.List(ctx, usecase.ListParams{
		PageQuery: dto.PageQuery{Search: "li(ve"},
		Filters:   map[string]string{"category": "career", "ignored": "x"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.BlogStatusPublished, blogs.lastQuery.Filter["status"])
	assert.Equal(t, "career", blogs.lastQuery.Filter["category"])
	assert.NotContains(t, blogs.lastQuery.Filter, "ignored")
	or, ok := blogs.lastQuery.Filter["$or"].(bson.A)
	require.True(t, ok)
	assert.Len(t, or, 3)
	assert.Equal(t, `li\(ve`, or[0].(bson.M)["title"].(bson.M)["$regex"])
	assert.Equal(t, 1, blogs.lastQuery.Page)
	assert.Equal(t, dto.DefaultPageSize, blogs.lastQuery.PageSize)
	_ = items
	_ = total

	_, err = uc.Get(ctx, draft.ID.Hex(), false)
	assert.True(t, apperror.Is(err, apperror.ErrTypeNotFound))
	_, err = uc.Get(ctx, draft.ID.Hex(), true)
	assert.NoError(t, err)

	_, err = uc.FindOne(ctx, bson.M{"slug": "live"}, false)
	assert.NoError(t, err)
	_, err = uc.FindOne(ctx, bson.M{"slug": "draft"}, false)
	assert.True(t, apperror.Is(err, apperror.ErrTypeNotFound))
}

func TestBlog_CreateIgnoresClientIdentity(t *testing.T) {
	uc, _, _ := newBlogUsecase()
	forged := primitive.NewObjectID()
	old := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

	b := &model.Blog{Title: "T", Content: "c"}
	b.ID = forged
	b.CreatedAt = old
	created, err := uc.Create(context.Background(), b)
	require.NoError(t, err)
	assert.NotEqual(t, forged, created.ID)
	assert.True(t, created.CreatedAt.After(old))
}

func TestContact_StatusIsServerControlled(t *testing.T) {
	store := &memStore[model.ContactMessage, *model.ContactMessage]{}
	uc := usecase.NewContentUsecase[model.ContactMessage, *model.ContactMessage](store, usecase.ContactOptions())
	ctx := context.Background()

	msg, err := uc.Create(ctx, &model.ContactMessage{
		Name:    "Budi",
		Email:   "Budi@Example.com",
		Message: "I would like to know more about CV reviews.",
		Status:  model.ContactStatusReplied,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ContactStatusNew, msg.Status)
	assert.Equal(t, "budi@example.com", msg.Email)

	_, err = uc.SetStatus(ctx, msg.ID.Hex(), "archived")
	assert.True(t, apperror.Is(err, apperror.ErrTypeInvalidInput))

	read, err := uc.SetStatus(ctx, msg.ID.Hex(), model.ContactStatusRead)
	require.NoError(t, err)
	assert.Equal(t, model.ContactStatusRead, read.Status)

	read.Status = model.ContactStatusNew
	updated, err := uc.Update(ctx, msg.ID.Hex(), read)
	require.NoError(t, err)
	assert.Equal(t, model.ContactStatusRead, updated.Status)
}

func TestContent_NoStatus(t *testing.T) {
	store := &memStore[model.Author, *model.Author]{}
	uc := usecase.NewContentUsecase[model.Author, *model.Author](store, usecase.AuthorOptions())
	_, err := uc.SetStatus(context.Background(), primitive.NewObjectID().Hex(), "x")
	assert.True(t, apperror.Is(err, apperror.ErrTypeInvalidInput))
}

func TestResource_DownloadCount(t *testing.T) {
	store := &memStore[model.DownloadableResource, *model.DownloadableResource]{}
	uc := usecase.NewContentUsecase[model.DownloadableResource, *model.DownloadableResource](store, usecase.ResourceOptions())
	ctx := context.Background()

	res, err := uc.Create(ctx, &model.DownloadableResource{
		Title:         "CV template",
		FileURL:       "https://cdn.example.com/cv.docx",
		DownloadCount: 999,
	})
	require.NoError(t, err)
	assert.Zero(t, res.DownloadCount)

	for i := 0; i < 2; i++ {
		_, err = uc.Increment(ctx, res.ID.Hex(), "download_count")
		require.NoError(t, err)
	}

	res.DownloadCount = 0
	res.Title = "CV template v2"
	updated, err := uc.Update(ctx, res.ID.Hex(), res)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.DownloadCount)
}

func TestMetaTag_PathNormalized(t *testing.T) {
	store := &memStore[model.MetaTag, *model.MetaTag]{}
	uc := usecase.NewContentUsecase[model.MetaTag, *model.MetaTag](store, usecase.MetaTagOptions())

	tag, err := uc.Create(context.Background(), &model.MetaTag{PagePath: "/Jobs/?ref=nav", Title: "Jobs"})
	require.NoError(t, err)
	assert.Equal(t, "/jobs", tag.PagePath)
	assert.Equal(t, "/jobs", usecase.NormalizePagePath("/jobs/#top"))
	assert.Equal(t, "/", usecase.NormalizePagePath(""))
}

func TestContent_UpdateMissing(t *testing.T) {
	store := &memStore[model.Author, *model.Author]{}
	uc := usecase.NewContentUsecase[model.Author, *model.Author](store, usecase.AuthorOptions())

	_, err := uc.Update(context.Background(), "not-an-id", &model.Author{Name: "x"})
	assert.True(t, apperror.Is(err, apperror.ErrTypeNotFound))
	_, err = uc.Update(context.Background(), primitive.NewObjectID().Hex(), &model.Author{Name: "x"})
	assert.True(t, apperror.Is(err, apperror.ErrTypeNotFound))
}
