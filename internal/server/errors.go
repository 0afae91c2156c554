package server

import (
	"errors"
	"net/http"

	"github.com/desertthunder/showtrack/internal/shared"
	"github.com/desertthunder/showtrack/internal/tasks"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
)

// statusFor maps an error kind to a status code and a client-safe message.
//
// Storage and upstream details never reach the client; callers log them.
func statusFor(err error) (int, string) {
	var (
		notFound *tasks.ShowNotFoundError
		exists   *tasks.ShowExistsError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Error()
	case errors.As(err, &exists):
		return http.StatusConflict, exists.Error()
	case errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, shared.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password."
	case errors.Is(err, shared.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound, "Not found."
	case errors.Is(err, shared.ErrAlreadyExists), errors.Is(err, shared.ErrDuplicateKey):
		return http.StatusConflict, "Already exists."
	case errors.Is(err, shared.ErrUpstream):
		return http.StatusBadGateway, "The TV metadata provider is unavailable."
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}

// writeError writes err as a `{message}` body, logging server-side failures with their detail.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)

	if status >= http.StatusInternalServerError && a.logger != nil {
		a.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
			"request_id", middleware.GetReqID(r.Context()),
		)
	}

	writeJSON(w, status, messageResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
