package handler

import (
	"encoding/json"
	"net/http"

	"paper-extractor/internal/domain"
	apperrors "paper-extractor/pkg/errors"
)

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeAppError maps err to its status code. Typed errors expose their
// message; anything else is reported generically.
func writeAppError(w http.ResponseWriter, err error, logger domain.Logger) {
	status := apperrors.GetStatusCode(err)
	message := "Failed to process document"
	if appErr, ok := apperrors.As(err); ok {
		message = appErr.PublicMessage()
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", err, "status", status)
	}
	writeError(w, status, message)
}
