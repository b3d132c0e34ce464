package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-photo-share/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) Login(ctx context.Context, req domain.LoginRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// --- helpers ---

func jsonReq(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return httptest.NewRequest(method, target, bytes.NewReader(body))
}

func decodeMsg(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var env MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env.Msg
}

var meow = domain.RegisterRequest{Username: "meow1", Email: "a@b.com", Password: "secret1"}

// --- Register tests ---

func TestRegister_InvalidBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthSvc{})
	r := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("not-json"))
	rr := httptest.NewRecorder()
	h.Register(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid request body", decodeMsg(t, rr))
}

func TestRegister_ValidationFailure(t *testing.T) {
	svc := &mockAuthSvc{}
	h := NewAuthHandler(svc)
	rr := httptest.NewRecorder()
	h.Register(rr, jsonReq(t, http.MethodPost, "/api/auth/register", domain.RegisterRequest{Username: "meow1"}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "email is required; password is required", decodeMsg(t, rr))
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_MultibytePasswordOverLimit(t *testing.T) {
	svc := &mockAuthSvc{}
	req := domain.RegisterRequest{Username: "meow1", Email: "a@b.com", Password: strings.Repeat("é", 72)}
	rr := httptest.NewRecorder()
	NewAuthHandler(svc).Register(rr, jsonReq(t, http.MethodPost, "/api/auth/register", req))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "password must be at most 72 bytes", decodeMsg(t, rr))
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_HappyPath(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Register", mock.Anything, meow).Return(&domain.User{UserID: "u1", Username: "meow1"}, nil)
	h := NewAuthHandler(svc)
	rr := httptest.NewRecorder()
	h.Register(rr, jsonReq(t, http.MethodPost, "/api/auth/register", meow))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "User registered successfully", decodeMsg(t, rr))
	svc.AssertExpectations(t)
}

func TestRegister_Duplicates(t *testing.T) {
	cases := map[string]string{
		domain.FieldUsername: "Username already exists",
		domain.FieldEmail:    "Email already exists",
	}
	for field, want := range cases {
		t.Run(field, func(t *testing.T) {
			svc := &mockAuthSvc{}
			svc.On("Register", mock.Anything, mock.Anything).Return(nil, &domain.DuplicateKeyError{Field: field})
			rr := httptest.NewRecorder()
			NewAuthHandler(svc).Register(rr, jsonReq(t, http.MethodPost, "/api/auth/register", meow))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, want, decodeMsg(t, rr))
		})
	}
}

func TestRegister_StoreFailureIsOpaque(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, errors.New("ProvisionedThroughputExceeded"))
	rr := httptest.NewRecorder()
	NewAuthHandler(svc).Register(rr, jsonReq(t, http.MethodPost, "/api/auth/register", meow))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Server error", decodeMsg(t, rr))
}

// --- Login tests ---

func TestLogin_HappyPath(t *testing.T) {
	svc := &mockAuthSvc{}
	req := domain.LoginRequest{Email: "a@b.com", Password: "secret1"}
	svc.On("Login", mock.Anything, req).Return("signed.jwt.token", nil)
	rr := httptest.NewRecorder()
	NewAuthHandler(svc).Login(rr, jsonReq(t, http.MethodPost, "/api/auth/login", req))

	assert.Equal(t, http.StatusOK, rr.Code)
	var env TokenEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	assert.Equal(t, "signed.jwt.token", env.Token)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, mock.Anything).Return("", domain.ErrInvalidCredentials)
	rr := httptest.NewRecorder()
	NewAuthHandler(svc).Login(rr, jsonReq(t, http.MethodPost, "/api/auth/login", domain.LoginRequest{Email: "a@b.com", Password: "x"}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid email or password", decodeMsg(t, rr))
}

func TestLogin_MissingSigningKey(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, mock.Anything).Return("", domain.ErrConfiguration)
	rr := httptest.NewRecorder()
	NewAuthHandler(svc).Login(rr, jsonReq(t, http.MethodPost, "/api/auth/login", domain.LoginRequest{Email: "a@b.com", Password: "secret1"}))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Server error", decodeMsg(t, rr))
}
