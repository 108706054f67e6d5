package applications

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by repositories when no record has the given id.
var ErrNotFound = errors.New("application not found")

// Violation names a field that failed validation.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field constraint a request violated.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// NotFoundError reports an id that does not resolve to a record.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("application %q not found", e.ID)
}

// Is lets callers match with errors.Is(err, ErrNotFound).
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StorageError wraps any other persistence failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s application: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
