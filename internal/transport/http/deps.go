package http

import (
	"context"
	"io"

	"github.com/go-photo-share/internal/domain"
	jwtinfra "github.com/go-photo-share/internal/infrastructure/jwt"
	"github.com/go-photo-share/internal/infrastructure/sns"
	"github.com/go-photo-share/internal/infrastructure/watermark"
)

// UserRepository is the minimal interface the router requires from a user store.
// Both the DynamoDB and the MongoDB repositories satisfy it.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, userID string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// PostRepository is the minimal interface the router requires from a post store.
type PostRepository interface {
	Put(ctx context.Context, p *domain.Post) error
	Get(ctx context.Context, postID string) (*domain.Post, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Post, error)
	ListAll(ctx context.Context) ([]domain.Post, error)
	Delete(ctx context.Context, postID string) error
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    UserRepository
	PostRepo    PostRepository
	Images      ObjectStore
	JWTProvider *jwtinfra.Provider
	Watermark   *watermark.Client
	Events      sns.Publisher
}
