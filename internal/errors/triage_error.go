// Package errors provides standardized error types for triage operations.
// This package defines TriageError for consistent error handling across
// all public APIs, with operation context and error wrapping support.
package errors

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a TriageError so callers can branch on failure
// class without parsing messages.
type ErrorKind int

const (
	// KindInvalidInput marks malformed or unsupported operation inputs.
	KindInvalidInput ErrorKind = iota
	// KindInvalidMethod marks an unrecognized flagging method name.
	KindInvalidMethod
	// KindUnknownColumn marks operations addressing a non-existent column.
	KindUnknownColumn
	// KindUnconvertibleValue marks a value no coercion rule can carry to
	// the requested type.
	KindUnconvertibleValue
	// KindInternal marks unexpected internal failures.
	KindInternal
)

// TriageError represents standardized errors across all triage operations
type TriageError struct {
	Kind    ErrorKind // Failure classification
	Op      string    // Operation name (e.g., "New", "Flag", "FormatValues")
	Column  string    // Column name if applicable
	Message string    // Human-readable error description
	Cause   error     // Underlying error cause
}

// Error implements the error interface
func (e *TriageError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s operation failed on column '%s': %s", e.Op, e.Column, e.Message)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support
func (e *TriageError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is()
func (e *TriageError) Is(target error) bool {
	if te, ok := target.(*TriageError); ok {
		return e.Kind == te.Kind && e.Op == te.Op && e.Column == te.Column && e.Message == te.Message
	}
	return false
}

// Common error constructors for consistent error creation

// NewInvalidInputError creates an error for invalid operation inputs
func NewInvalidInputError(op, message string) *TriageError {
	return &TriageError{
		Kind:    KindInvalidInput,
		Op:      op,
		Message: message,
	}
}

// NewInvalidMethodError creates an error for unrecognized flagging methods
func NewInvalidMethodError(op, method string) *TriageError {
	return &TriageError{
		Kind:    KindInvalidMethod,
		Op:      op,
		Message: fmt.Sprintf("unknown method '%s', expected 'duplicates' or 'null'", method),
	}
}

// NewUnknownColumnError creates an error for operations on non-existent columns
func NewUnknownColumnError(op, column string) *TriageError {
	return &TriageError{
		Kind:    KindUnknownColumn,
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewUnconvertibleValueError creates an error for values no coercion rule
// can carry to the requested type tag
func NewUnconvertibleValueError(op, column, currentType, rendered, requestedType string) *TriageError {
	return &TriageError{
		Kind:   KindUnconvertibleValue,
		Op:     op,
		Column: column,
		Message: fmt.Sprintf("cannot convert %s value '%s' to type '%s'",
			currentType, rendered, requestedType),
	}
}

// NewInternalError creates an error for internal operation failures
func NewInternalError(op string, cause error) *TriageError {
	return &TriageError{
		Kind:    KindInternal,
		Op:      op,
		Message: "internal error occurred",
		Cause:   cause,
	}
}

// IsKind reports whether err is (or wraps) a TriageError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var te *TriageError
	if errors.As(err, &te) {
		return te.Kind == kind
	}
	return false
}

// IsInvalidInput reports whether err marks malformed operation input.
func IsInvalidInput(err error) bool { return IsKind(err, KindInvalidInput) }

// IsInvalidMethod reports whether err marks an unrecognized flagging method.
func IsInvalidMethod(err error) bool { return IsKind(err, KindInvalidMethod) }

// IsUnknownColumn reports whether err marks a non-existent column.
func IsUnknownColumn(err error) bool { return IsKind(err, KindUnknownColumn) }

// IsUnconvertibleValue reports whether err marks a failed value coercion.
func IsUnconvertibleValue(err error) bool { return IsKind(err, KindUnconvertibleValue) }

// Predefined error variables for common cases
var (
	// ErrEmptyTable indicates operations on tables without columns
	ErrEmptyTable = &TriageError{
		Kind:    KindInvalidInput,
		Op:      "validation",
		Message: "operation not supported on an empty table",
	}

	// ErrMismatchedLength indicates column length mismatches
	ErrMismatchedLength = &TriageError{
		Kind:    KindInvalidInput,
		Op:      "validation",
		Message: "columns must have the same length",
	}
)
