package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-photo-share/internal/application/post"
	"github.com/go-photo-share/internal/domain"
	"github.com/go-photo-share/internal/transport/http/middleware"
)

// multipartMemory is how much of a form ParseMultipartForm keeps in memory.
const multipartMemory = 32 << 20

// PostHandler handles photo posts and watermark previews.
type PostHandler struct {
	svc       post.Service
	maxUpload int64
}

func NewPostHandler(svc post.Service, maxUpload int64) *PostHandler {
	return &PostHandler{svc: svc, maxUpload: maxUpload}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}
	data, header, ok := h.readImage(w, r)
	if !ok {
		return
	}
	watermark, _ := strconv.ParseBool(r.FormValue("watermark"))
	p, err := h.svc.Create(r.Context(), post.CreateInput{
		UserID:      id.UserID,
		Filename:    header.Filename,
		Data:        data,
		Description: r.FormValue("description"),
		Watermark:   watermark,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.writePostError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PostHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}
	posts, err := h.svc.ListMine(r.Context(), id.UserID)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(posts))
}

func (h *PostHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(posts))
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), id.UserID); err != nil {
		h.writePostError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Msg: "Post removed"})
}

// Image streams the stored picture. ?download=1 asks the browser to save it.
func (h *PostHandler) Image(w http.ResponseWriter, r *http.Request) {
	rc, p, err := h.svc.Image(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writePostError(w, r, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", p.ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if download, _ := strconv.ParseBool(r.URL.Query().Get("download")); download {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.PostID+extension(p.ContentType)))
	}
	_, _ = io.Copy(w, rc)
}

// Preview watermarks an uploaded image with the caller's username and
// returns the PNG without storing it.
func (h *PostHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}
	data, header, ok := h.readImage(w, r)
	if !ok {
		return
	}
	out, err := h.svc.Preview(r.Context(), id.UserID, header.Filename, data)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.writePostError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// readImage parses the multipart body and returns the "image" part. It writes
// the error response itself and reports false when the request is unusable.
func (h *PostHandler) readImage(w http.ResponseWriter, r *http.Request) ([]byte, *multipart.FileHeader, bool) {
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return nil, nil, false
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return nil, nil, false
	}
	f, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image uploaded")
		return nil, nil, false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return nil, nil, false
	}
	return data, header, true
}

func (h *PostHandler) writePostError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Post not found")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusUnauthorized, "User not authorized")
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, badRequestMessage(err))
	case errors.Is(err, domain.ErrUpstream):
		writeError(w, http.StatusBadGateway, "Watermark service unavailable")
	default:
		writeServerError(w, r, err)
	}
}

func nonNil(posts []domain.Post) []domain.Post {
	if posts == nil {
		return []domain.Post{}
	}
	return posts
}

func extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
