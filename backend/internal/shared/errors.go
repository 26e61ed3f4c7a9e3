// ============================================================================
// backend/internal/shared/errors.go
// Error taxonomy shared by services and the HTTP gateway
// ============================================================================

package shared

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Services return these (possibly wrapped with %w) and the
// gateway maps them to HTTP status codes.
var (
	// ErrNotFound: the id has no matching record (404).
	ErrNotFound = errors.New("record not found")

	// ErrUnauthenticated: missing, malformed, or expired credentials (401).
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden: a valid principal lacking the required role (403).
	ErrForbidden = errors.New("permission denied")

	// ErrDuplicateKey: a uniqueness constraint was violated. Kept distinct
	// from validation failures so callers can tell "malformed record" from
	// "record already exists".
	ErrDuplicateKey = errors.New("duplicate key")
)

// FieldError describes a single field-level validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-level violations for one record.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// DuplicateKeyError wraps ErrDuplicateKey with the offending field so the
// gateway can report which unique constraint was hit.
func DuplicateKeyError(field string) error {
	return fmt.Errorf("%w: %s already exists", ErrDuplicateKey, field)
}
