package user

import (
	"context"

	"github.com/go-photo-share/internal/domain"
)

type Service interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
}

type userStore interface {
	FindByID(ctx context.Context, userID string) (*domain.User, error)
}

type service struct {
	repo userStore
}

func NewService(repo userStore) Service {
	return &service{repo: repo}
}

// Profile loads the caller's record. The token alone does not prove the user
// still exists, so a missing record surfaces as domain.ErrNotFound here.
func (s *service) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}
