package repository

import (
	"context"
	"fmt"

	"github.com/fadilmartias/careerhub/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names.
const (
	CollectionBlogs         = "blogs"
	CollectionAuthors       = "authors"
	CollectionMetaTags      = "meta_tags"
	CollectionFooter        = "footer_sections"
	CollectionLinks         = "important_links"
	CollectionResources     = "downloadable_resources"
	CollectionContact       = "contact_messages"
	CollectionConsultations = "consultation_requests"
)

func ConnectMongo(ctx context.Context, cfg *config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes every content collection relies on.
// CreateMany is idempotent for identical definitions.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionBlogs: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "published_at", Value: -1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "tags", Value: 1}}},
		},
		CollectionMetaTags: {
			{Keys: bson.D{{Key: "page_path", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionFooter: {
			{Keys: bson.D{{Key: "order", Value: 1}}},
		},
		CollectionLinks: {
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "order", Value: 1}}},
		},
		CollectionResources: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		CollectionContact: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		CollectionConsultations: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for name, models := range indexes {
		created, err := db.Collection(name).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
		zap.L().Info("mongo indexes ensured", zap.String("collection", name), zap.Strings("indexes", created))
	}
	return nil
}
