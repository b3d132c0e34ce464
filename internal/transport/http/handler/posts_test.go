package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-photo-share/internal/application/post"
	"github.com/go-photo-share/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockPostSvc struct{ mock.Mock }

func (m *mockPostSvc) Create(ctx context.Context, in post.CreateInput) (*domain.Post, error) {
	args := m.Called(ctx, in)
	if p, _ := args.Get(0).(*domain.Post); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPostSvc) ListMine(ctx context.Context, userID string) ([]domain.Post, error) {
	args := m.Called(ctx, userID)
	posts, _ := args.Get(0).([]domain.Post)
	return posts, args.Error(1)
}
func (m *mockPostSvc) ListAll(ctx context.Context) ([]domain.Post, error) {
	args := m.Called(ctx)
	posts, _ := args.Get(0).([]domain.Post)
	return posts, args.Error(1)
}
func (m *mockPostSvc) Delete(ctx context.Context, postID, userID string) error {
	return m.Called(ctx, postID, userID).Error(0)
}
func (m *mockPostSvc) Image(ctx context.Context, postID string) (io.ReadCloser, *domain.Post, error) {
	args := m.Called(ctx, postID)
	rc, _ := args.Get(0).(io.ReadCloser)
	p, _ := args.Get(1).(*domain.Post)
	return rc, p, args.Error(2)
}
func (m *mockPostSvc) Preview(ctx context.Context, userID, filename string, data []byte) ([]byte, error) {
	args := m.Called(ctx, userID, filename, data)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}

// --- helpers ---

// multipartReq builds a form with an "image" part plus the given fields.
func multipartReq(t *testing.T, target string, image []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if image != nil {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="image"; filename="cat.png"`)
		hdr.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	r := httptest.NewRequest(http.MethodPost, target, &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

// withChiID injects a chi URL param "id" into the request context.
func withChiID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// --- Create ---

func TestCreatePost_PassesFormToService(t *testing.T) {
	svc := &mockPostSvc{}
	svc.On("Create", mock.Anything, post.CreateInput{
		UserID:      "u1",
		Filename:    "cat.png",
		Data:        []byte("png"),
		Description: "my cat",
		Watermark:   true,
	}).Return(&domain.Post{PostID: "p1", UserID: "u1"}, nil)

	r := asUser(multipartReq(t, "/api/posts", []byte("png"), map[string]string{
		"description": "my cat",
		"watermark":   "true",
	}), "u1")
	rr := httptest.NewRecorder()
	NewPostHandler(svc, 1<<20).Create(rr, r)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var p domain.Post
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&p))
	assert.Equal(t, "p1", p.PostID)
	svc.AssertExpectations(t)
}

func TestCreatePost_MissingImage(t *testing.T) {
	svc := &mockPostSvc{}
	r := asUser(multipartReq(t, "/api/posts", nil, map[string]string{"description": "x"}), "u1")
	rr := httptest.NewRecorder()
	NewPostHandler(svc, 1<<20).Create(rr, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "No image uploaded", decodeMsg(t, rr))
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePost_TooLarge(t *testing.T) {
	svc := &mockPostSvc{}
	r := asUser(multipartReq(t, "/api/posts", bytes.Repeat([]byte("x"), 4096), nil), "u1")
	rr := httptest.NewRecorder()
	NewPostHandler(svc, 1024).Create(rr, r)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestCreatePost_ServiceErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"not an image", fmt.Errorf("file must be an image: %w", domain.ErrBadRequest), http.StatusBadRequest, "File must be an image"},
		{"watermark down", fmt.Errorf("watermark image: %w", domain.ErrUpstream), http.StatusBadGateway, "Watermark service unavailable"},
		{"deleted user", domain.ErrNotFound, http.StatusNotFound, "User not found"},
		{"store", errors.New("boom"), http.StatusInternalServerError, "Server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockPostSvc{}
			svc.On("Create", mock.Anything, mock.Anything).Return(nil, tc.err)
			rr := httptest.NewRecorder()
			NewPostHandler(svc, 1<<20).Create(rr, asUser(multipartReq(t, "/api/posts", []byte("png"), nil), "u1"))

			assert.Equal(t, tc.code, rr.Code)
			assert.Equal(t, tc.msg, decodeMsg(t, rr))
		})
	}
}

// --- List ---

func TestListAll_EmptyIsArray(t *testing.T) {
	svc := &mockPostSvc{}
	svc.On("ListAll", mock.Anything).Return(nil, nil)
	rr := httptest.NewRecorder()
	NewPostHandler(svc, 0).ListAll(rr, httptest.NewRequest(http.MethodGet, "/api/posts/all", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestListMine_UsesCaller(t *testing.T) {
	svc := &mockPostSvc{}
	svc.On("ListMine", mock.Anything, "u1").Return([]domain.Post{{PostID: "p2"}, {PostID: "p1"}}, nil)
	rr := httptest.NewRecorder()
	NewPostHandler(svc, 0).ListMine(rr, asUser(httptest.NewRequest(http.MethodGet, "/api/posts", nil), "u1"))

	assert.Equal(t, http.StatusOK, rr.Code)
	var posts []domain.Post
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&posts))
	require.Len(t, posts, 2)
	assert.Equal(t, "p2", posts[0].PostID)
}

// --- Delete ---

func TestDeletePost(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"owner", nil, http.StatusOK, "Post removed"},
		{"missing", domain.ErrNotFound, http.StatusNotFound, "Post not found"},
		{"not owner", fmt.Errorf("post belongs to another user: %w", domain.ErrForbidden), http.StatusUnauthorized, "User not authorized"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockPostSvc{}
			svc.On("Delete", mock.Anything, "p1", "u1").Return(tc.err)
			r := withChiID(asUser(httptest.NewRequest(http.MethodDelete, "/api/posts/p1", nil), "u1"), "p1")
			rr := httptest.NewRecorder()
			NewPostHandler(svc, 0).Delete(rr, r)

			assert.Equal(t, tc.code, rr.Code)
			assert.Equal(t, tc.msg, decodeMsg(t, rr))
		})
	}
}

// --- Image ---

func TestImage_Inline(t *testing.T) {
	svc := &mockPostSvc{}
	svc.On("Image", mock.Anything, "p1").
		Return(io.NopCloser(strings.NewReader("bytes")), &domain.Post{PostID: "p1", ContentType: "image/jpeg"}, nil)
	rr := httptest.NewRecorder()
	NewPostHandler(svc, 0).Image(rr, withChiID(httptest.NewRequest(http.MethodGet, "/api/posts/p1/image", nil), "p1"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/jpeg", rr.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "bytes", rr.Body.String())
}

func TestImage_Download(t *testing.T) {
	svc := &mockPostSvc{}
	svc.On("Image", mock.Anything, "p1").
		Return(io.NopCloser(strings.NewReader("bytes")), &domain.Post{PostID: "p1", ContentType: "image/png"}, nil)
	rr := httptest.NewRecorder()
	NewPostHandler(svc, 0).Image(rr, withChiID(httptest.NewRequest(http.MethodGet, "/api/posts/p1/image?download=1", nil), "p1"))

	assert.Equal(t, `attachment; filename="p1.png"`, rr.Header().Get("Content-Disposition"))
}

func TestImage_Missing(t *testing.T) {
	svc := &mockPostSvc{}
	svc.On("Image", mock.Anything, "nope").Return(nil, nil, domain.ErrNotFound)
	rr := httptest.NewRecorder()
	NewPostHandler(svc, 0).Image(rr, withChiID(httptest.NewRequest(http.MethodGet, "/api/posts/nope/image", nil), "nope"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- Preview ---

func TestPreview_ReturnsPNG(t *testing.T) {
	svc := &mockPostSvc{}
	svc.On("Preview", mock.Anything, "u1", "cat.png", []byte("png")).Return([]byte("marked"), nil)
	rr := httptest.NewRecorder()
	NewPostHandler(svc, 1<<20).Preview(rr, asUser(multipartReq(t, "/api/watermark", []byte("png"), nil), "u1"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "marked", rr.Body.String())
}

func TestPreview_Disabled(t *testing.T) {
	svc := &mockPostSvc{}
	svc.On("Preview", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("watermarking is not available: %w", domain.ErrBadRequest))
	rr := httptest.NewRecorder()
	NewPostHandler(svc, 1<<20).Preview(rr, asUser(multipartReq(t, "/api/watermark", []byte("png"), nil), "u1"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Watermarking is not available", decodeMsg(t, rr))
}
