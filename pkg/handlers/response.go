package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tiangong-ops/opshub/pkg/apperrors"
)

// Result is the uniform response envelope for mutating endpoints.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a failure Result carrying the cause text.
func WriteError(w http.ResponseWriter, statusCode int, cause string) error {
	return WriteJSON(w, statusCode, Result{Success: false, Error: cause})
}

// statusFor maps taxonomy errors to HTTP status codes. Unrecognized
// errors are treated as internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
