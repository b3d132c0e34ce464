package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-photo-share/internal/config"
	"github.com/go-photo-share/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of an issued token.
const TokenTTL = time.Hour

// Claims holds the JWT payload fields.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs.
type Provider struct {
	secret []byte
	now    func() time.Time
}

// Option customizes a Provider.
type Option func(*Provider)

// WithClock replaces the wall clock used for iat/exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// NewProvider never fails on a missing secret: the process can still serve
// public routes, and Issue/Verify report domain.ErrConfiguration instead.
func NewProvider(cfg *config.Config, opts ...Option) *Provider {
	p := &Provider{secret: []byte(cfg.JWTSecret), now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Configured reports whether a signing key is present.
func (p *Provider) Configured() bool { return len(p.secret) > 0 }

// Issue mints a token carrying userID that expires TokenTTL from now.
func (p *Provider) Issue(userID string) (string, error) {
	if !p.Configured() {
		return "", fmt.Errorf("jwt signing key not set: %w", domain.ErrConfiguration)
	}
	now := p.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the identity
// encoded in the token.
func (p *Provider) Verify(tokenStr string) (domain.Identity, error) {
	if tokenStr == "" {
		return domain.Identity{}, domain.ErrMissingToken
	}
	if !p.Configured() {
		return domain.Identity{}, fmt.Errorf("jwt signing key not set: %w", domain.ErrConfiguration)
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing userId claim", domain.ErrInvalidToken)
	}
	return domain.Identity{UserID: claims.UserID}, nil
}
