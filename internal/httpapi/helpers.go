package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"mcquiz/internal/history"
	"mcquiz/internal/quiz"
)

// writeEngineError maps the engine's typed errors onto HTTP statuses. All
// session errors are client-correctable; only unexpected failures become 500s.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found or expired"})
	case errors.Is(err, quiz.ErrSessionCompleted):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "session already completed"})
	case errors.Is(err, quiz.ErrIndexMismatch):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, quiz.ErrInvalidChoice):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, quiz.ErrEmptyTopic):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "topic is required"})
	case errors.Is(err, quiz.ErrProviderUnavailable), errors.Is(err, quiz.ErrExhaustedRetries):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to generate questions, please try again"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

func writeHistoryError(w http.ResponseWriter, err error) {
	if errors.Is(err, history.ErrEntryNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "history entry not found"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
