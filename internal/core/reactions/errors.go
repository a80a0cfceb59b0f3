package reactions

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated indicates a write was attempted without a viewer
	ErrUnauthenticated = errors.New("authentication required")

	// ErrReactionNotFound indicates the viewer has no stored reaction on the entity
	ErrReactionNotFound = errors.New("reaction not found")
)

// ValidationError represents a validation error with field details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError reports whether err is a request validation failure
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
