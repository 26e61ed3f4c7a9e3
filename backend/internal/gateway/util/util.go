package util

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"schoolhub/backend/internal/shared"
)

// JSONError structure for error responses.
type JSONError struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Errors  []shared.FieldError `json:"errors,omitempty"`
}

// WriteJSON writes a JSON response. Payloads are expected to already carry
// the {success: ...} envelope.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error writing JSON response: %v", err)
	}
}

// WriteJSONError writes a standardized error envelope.
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	log.Printf("HTTP Error %d: %s", status, message)
	WriteJSON(w, status, JSONError{Success: false, Message: message})
}

// WriteValidationError writes the per-field violation list with a 400.
func WriteValidationError(w http.ResponseWriter, ve *shared.ValidationError) {
	log.Printf("HTTP Error %d: %s", http.StatusBadRequest, ve.Error())
	WriteJSON(w, http.StatusBadRequest, JSONError{
		Success: false,
		Message: "validation failed",
		Errors:  ve.Fields,
	})
}

// HandleServiceError translates service-layer errors to HTTP responses.
// This is the single place the error taxonomy maps to status codes:
// validation -> 400, duplicate key -> 400 (distinct message), missing or
// bad credentials -> 401, role denial -> 403, missing record -> 404.
func HandleServiceError(w http.ResponseWriter, err error) {
	if ve, ok := shared.AsValidationError(err); ok {
		WriteValidationError(w, ve)
		return
	}

	switch {
	case errors.Is(err, shared.ErrDuplicateKey):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrUnauthenticated):
		WriteJSONError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, shared.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, shared.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		WriteJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ExtractToken extracts the token from the Authorization header
// ("Bearer <token>").
func ExtractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}
