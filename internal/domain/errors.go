package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrConfiguration      = errors.New("configuration error")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrUpstream           = errors.New("upstream service failed")
)

// Fields that carry a uniqueness constraint on the user record.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
)

// DuplicateKeyError reports which unique field a write collided on.
// It matches ErrDuplicateKey under errors.Is.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return ErrDuplicateKey.Error()
	}
	return e.Field + " already exists"
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }
