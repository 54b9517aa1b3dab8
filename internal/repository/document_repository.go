package repository

import (
	"context"
	"time"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentModel is satisfied by a pointer to any struct embedding
// model.Document.
type DocumentModel[T any] interface {
	*T
	Base() *model.Document
}

type ListQuery struct {
	Filter   bson.M
	Sort     bson.D
	Page     int
	PageSize int
}

// DocumentRepository is the CRUD layer shared by every content collection.
type DocumentRepository[T any, PT DocumentModel[T]] struct {
	coll *mongo.Collection
	name string
	now  func() time.Time
}

func NewDocumentRepository[T any, PT DocumentModel[T]](db *mongo.Database, collection, name string) *DocumentRepository[T, PT] {
	return &DocumentRepository[T, PT]{
		coll: db.Collection(collection),
		name: name,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// ParseObjectID rejects malformed IDs as NotFound: a bad ID can never
// address an existing document.
func ParseObjectID(id, name string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperror.NotFound(name+" not found", nil)
	}
	return oid, nil
}

func (r *DocumentRepository[T, PT]) List(ctx context.Context, q ListQuery) ([]T, int64, error) {
	filter := q.Filter
	if filter == nil {
		filter = bson.M{}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip(int64(offset(q.Page, q.PageSize))).
		SetLimit(int64(q.PageSize))
	if len(q.Sort) > 0 {
		opts.SetSort(q.Sort)
	} else {
		opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	items := make([]T, 0, q.PageSize)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *DocumentRepository[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := ParseObjectID(id, r.name)
	if err != nil {
		return nil, err
	}
	return r.FindOne(ctx, bson.M{"_id": oid})
}

func (r *DocumentRepository[T, PT]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFound(err, r.name)
	}
	return &doc, nil
}

func (r *DocumentRepository[T, PT]) Exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return n > 0, err
}

func (r *DocumentRepository[T, PT]) Create(ctx context.Context, doc PT) error {
	doc.Base().ID = primitive.NewObjectID()
	doc.Base().Touch(r.now())
	_, err := r.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return apperror.Conflict(r.name+" already exists", nil)
	}
	return err
}

// Update replaces the stored document. The caller carries CreatedAt over
// from the existing record.
func (r *DocumentRepository[T, PT]) Update(ctx context.Context, doc PT) error {
	doc.Base().Touch(r.now())
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.Base().ID}, doc)
	if mongo.IsDuplicateKeyError(err) {
		return apperror.Conflict(r.name+" already exists", nil)
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound(r.name+" not found", nil)
	}
	return nil
}

// SetFields applies a $set and returns the updated document.
func (r *DocumentRepository[T, PT]) SetFields(ctx context.Context, id string, fields bson.M) (*T, error) {
	oid, err := ParseObjectID(id, r.name)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updated_at": r.now()}
	for k, v := range fields {
		set[k] = v
	}
	return r.findOneAndUpdate(ctx, oid, bson.M{"$set": set})
}

// Increment atomically adds delta to a numeric field.
func (r *DocumentRepository[T, PT]) Increment(ctx context.Context, id, field string, delta int64) (*T, error) {
	oid, err := ParseObjectID(id, r.name)
	if err != nil {
		return nil, err
	}
	return r.findOneAndUpdate(ctx, oid, bson.M{"$inc": bson.M{field: delta}})
}

func (r *DocumentRepository[T, PT]) findOneAndUpdate(ctx context.Context, oid primitive.ObjectID, update bson.M) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc T
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return nil, notFound(err, r.name)
	}
	return &doc, nil
}

func (r *DocumentRepository[T, PT]) Delete(ctx context.Context, id string) error {
	oid, err := ParseObjectID(id, r.name)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound(r.name+" not found", nil)
	}
	return nil
}
