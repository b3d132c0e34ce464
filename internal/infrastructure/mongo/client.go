// Package mongoinfra is the MongoDB implementation of the user and post stores.
package mongoinfra

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-photo-share/internal/config"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Collection and index names.
const (
	collUsers = "users"
	collPosts = "posts"

	indexUsername  = "username_1"
	indexEmail     = "email_1"
	indexUserPosts = "user_id_1_created_at_-1"
)

// NewClient connects to MongoDB and verifies the connection with a ping.
func NewClient(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// Bootstrap creates the indexes the stores rely on. The unique indexes on
// username and email are what actually enforce user uniqueness.
func Bootstrap(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(collUsers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexUsername)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexEmail)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	_, err = db.Collection(collPosts).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName(indexUserPosts),
	})
	if err != nil {
		return fmt.Errorf("create post indexes: %w", err)
	}
	slog.Info("mongo indexes ready", "database", db.Name())
	return nil
}
