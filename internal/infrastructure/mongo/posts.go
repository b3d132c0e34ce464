package mongoinfra

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-photo-share/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// PostRepo stores posts in the posts collection.
type PostRepo struct {
	coll *mongo.Collection
}

func NewPostRepo(db *mongo.Database) *PostRepo {
	return &PostRepo{coll: db.Collection(collPosts)}
}

func (r *PostRepo) Put(ctx context.Context, p *domain.Post) error {
	_, err := r.coll.InsertOne(ctx, p)
	return err
}

func (r *PostRepo) Get(ctx context.Context, postID string) (*domain.Post, error) {
	var p domain.Post
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: postID}}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("post not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostRepo) ListByUser(ctx context.Context, userID string) ([]domain.Post, error) {
	return r.find(ctx, bson.D{{Key: "user_id", Value: userID}})
}

func (r *PostRepo) ListAll(ctx context.Context) ([]domain.Post, error) {
	return r.find(ctx, bson.D{})
}

func (r *PostRepo) Delete(ctx context.Context, postID string) error {
	_, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: postID}})
	return err
}

func (r *PostRepo) find(ctx context.Context, filter bson.D) ([]domain.Post, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	posts := []domain.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
