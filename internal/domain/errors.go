package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound covers both missing records and records owned by another user.
var ErrNotFound = errors.New("not found")

var (
	ErrTaskNotFound         = fmt.Errorf("task %w", ErrNotFound)
	ErrConversationNotFound = fmt.Errorf("conversation %w", ErrNotFound)
)

// ValidationError reports an empty or malformed required field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
