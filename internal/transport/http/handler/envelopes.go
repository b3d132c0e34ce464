package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-photo-share/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Msg string `json:"msg"`
}

// TokenEnvelope wraps a successful login.
type TokenEnvelope struct {
	Token string `json:"token"`
}

// NotFoundEnvelope is returned for routes that do not exist.
type NotFoundEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Msg: msg})
}

// writeServerError logs err and answers with an opaque 500.
func writeServerError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, "Server error")
}

// badRequestMessage strips the sentinel suffix from a wrapped ErrBadRequest.
func badRequestMessage(err error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+domain.ErrBadRequest.Error())
	if msg == "" {
		return "Bad request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func duplicateMessage(err error) (string, bool) {
	var dup *domain.DuplicateKeyError
	if !errors.As(err, &dup) {
		return "", false
	}
	switch dup.Field {
	case domain.FieldUsername:
		return "Username already exists", true
	case domain.FieldEmail:
		return "Email already exists", true
	default:
		return "User already exists", true
	}
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	var env NotFoundEnvelope
	env.Error.Message = "Not Found"
	writeJSON(w, http.StatusNotFound, env)
}
