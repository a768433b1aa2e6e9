package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"dicepot/game"
	"dicepot/service"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// statusForError maps a service or game error to an HTTP status
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidAddress),
		errors.Is(err, service.ErrStakeNotAllowed),
		errors.Is(err, service.ErrDailyLimitReached),
		errors.Is(err, service.ErrInsufficientBalance),
		errors.Is(err, game.ErrInvalidStake),
		errors.Is(err, game.ErrInvalidState),
		errors.Is(err, game.ErrNothingToCashOut):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrRoundNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError writes the reply for a failed service call. Internal
// errors are logged and replaced by a generic message.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	requestID := middleware.GetReqID(r.Context())

	if status == http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"requestID": requestID,
			"method":    r.Method,
			"path":      r.URL.Path,
			"error":     err,
		}).Error("Request failed")
		writeJSON(w, status, ErrorResponse{Error: "Server error", RequestID: requestID})
		return
	}

	writeJSON(w, status, ErrorResponse{Error: err.Error(), RequestID: requestID})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// decodeJSON reads a request body into dst, replying 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
