package handler

import (
	"errors"
	"net/http"

	"github.com/go-photo-share/internal/application/user"
	"github.com/go-photo-share/internal/domain"
	"github.com/go-photo-share/internal/transport/http/middleware"
)

// UserHandler serves the caller's own profile.
type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}
	u, err := h.svc.Profile(r.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
