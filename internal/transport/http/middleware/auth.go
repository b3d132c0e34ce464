package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-photo-share/internal/domain"
)

// TokenHeader carries the bearer token on authenticated requests.
const TokenHeader = "x-auth-token"

type contextKey string

const identityKey contextKey = "identity"

// TokenVerifier turns a raw token into the caller's identity.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// Auth returns middleware that verifies the x-auth-token header and injects
// the caller's identity into the request context. Rejected requests never
// reach next.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := verifier.Verify(r.Header.Get(TokenHeader))
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrMissingToken):
				writeJSONError(w, http.StatusUnauthorized, "No token, authorization denied")
				return
			case errors.Is(err, domain.ErrConfiguration):
				slog.ErrorContext(r.Context(), "token verification unavailable", "err", err)
				writeJSONError(w, http.StatusInternalServerError, "Server error")
				return
			default:
				writeJSONError(w, http.StatusUnauthorized, "Token is not valid")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext extracts the verified caller from the request context.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	return id, ok
}
