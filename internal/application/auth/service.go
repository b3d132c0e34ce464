package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-photo-share/internal/domain"
	"github.com/go-photo-share/internal/infrastructure/sns"
	"github.com/go-photo-share/internal/pkg/id"
)

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (string, error)
}

type userStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}

type passwordHasher interface {
	Hash(plaintext string) (string, int, error)
	Verify(plaintext, hash string) bool
}

type tokenIssuer interface {
	Issue(userID string) (string, error)
}

type service struct {
	repo   userStore
	hasher passwordHasher
	tokens tokenIssuer
	events sns.Publisher
}

type ServiceDeps struct {
	UserRepo userStore
	Hasher   passwordHasher
	Tokens   tokenIssuer
	Events   sns.Publisher
}

func NewService(deps ServiceDeps) Service {
	events := deps.Events
	if events == nil {
		events = sns.NopPublisher{}
	}
	return &service{
		repo:   deps.UserRepo,
		hasher: deps.Hasher,
		tokens: deps.Tokens,
		events: events,
	}
}

// Register creates a user after checking username and then email. The checks
// only produce friendly errors; the store's own uniqueness guarantee decides
// concurrent registrations.
func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if err := s.ensureFree(ctx, domain.FieldUsername, s.repo.FindByUsername, req.Username); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, domain.FieldEmail, s.repo.FindByEmail, req.Email); err != nil {
		return nil, err
	}
	hash, _, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		UserID:       id.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user registered", "user_id", u.UserID)
	if err := s.events.Publish(ctx, sns.EventUserRegistered, map[string]string{"user_id": u.UserID, "username": u.Username}); err != nil {
		slog.WarnContext(ctx, "publish event failed", "event", sns.EventUserRegistered, "err", err)
	}
	return u, nil
}

func (s *service) ensureFree(ctx context.Context, field string, find func(context.Context, string) (*domain.User, error), value string) error {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		return &domain.DuplicateKeyError{Field: field}
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("lookup %s: %w", field, err)
	}
}

// Login returns a signed token. Unknown email and wrong password both yield
// domain.ErrInvalidCredentials.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (string, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup email: %w", err)
	}
	if !s.hasher.Verify(req.Password, u.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(u.UserID)
	if err != nil {
		return "", err
	}
	slog.InfoContext(ctx, "user logged in", "user_id", u.UserID)
	return token, nil
}
