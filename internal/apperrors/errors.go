package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict marks store-level integrity violations (unique, check, foreign key).
	ErrConflict = errors.New("data integrity violation")
)

// NotFoundError reports an identifier with no corresponding live entity.
type NotFoundError struct {
	Resource string
	ID       int64 // Signed so rejected path values such as 0 or -1 can be reported
}

// NotFound creates a NotFoundError for the given resource and identifier.
func NotFound(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with ID: %d", e.Resource, e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError carries field -> message pairs for malformed input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError with a single field message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Conflict wraps a store error so that errors.Is(err, ErrConflict) holds.
func Conflict(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrConflict, err)
}
