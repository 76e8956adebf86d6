package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"learnhub/internal/ai"
	"learnhub/internal/middleware"
	"learnhub/internal/service"

	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requireUser writes 401 and returns false when no user is on the request.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

// writeError maps service and AI errors to HTTP statuses.
func writeError(w http.ResponseWriter, logger zerolog.Logger, action string, err error) {
	var providerErr *ai.ProviderError
	switch {
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrEnrollmentNotFound),
		errors.Is(err, service.ErrProfileNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, service.ErrProfileExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrInvalidLevel),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidProgress),
		errors.Is(err, service.ErrUnsupportedImage),
		errors.Is(err, service.ErrInvalidImageKey):
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrImageNotUploaded):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ai.ErrNotConfigured), errors.Is(err, service.ErrMediaDisabled):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.As(err, &providerErr), errors.Is(err, ai.ErrEmptyResponse):
		logger.Warn().Err(err).Str("action", action).Msg("Upstream AI failure")
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		logger.Error().Err(err).Str("action", action).Msg("Request failed")
		http.Error(w, "Failed to "+action+": "+err.Error(), http.StatusInternalServerError)
	}
}
