package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fenix-academy/progress-backend/internal/services"
	"github.com/fenix-academy/progress-backend/pkg/session"
)

// Common response structures for consistency across all handlers
type ErrorResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// WriteJSON sends a success envelope with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(SuccessResponse{
		Message: message,
		Success: true,
		Data:    data,
	})
}

// WriteError sends an error envelope with the given status code
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Message: message,
		Success: false,
	})
}

// WriteServiceError maps domain errors onto HTTP status codes
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotInCatalog),
		errors.Is(err, services.ErrNotFound),
		errors.Is(err, session.ErrProfileNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNegativeTime),
		errors.Is(err, services.ErrInvalidGrade),
		errors.Is(err, session.ErrNoActiveProfile):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrCourseNotCompleted),
		errors.Is(err, services.ErrAlreadyCertified):
		WriteError(w, http.StatusConflict, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

// DecodeJSONBody validates and decodes a JSON request body
func DecodeJSONBody(r *http.Request, dest interface{}) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return errors.New("invalid JSON format: " + err.Error())
	}
	return nil
}
