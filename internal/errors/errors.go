// Package errors provides centralized error definitions and error handling utilities
// for taskrank. It defines sentinel errors, semantic error types, constructors with
// context wrapping, and classification helpers.
//
// # Error Taxonomy
//
// taskrank distinguishes three classes of problems:
//
//   - Field-level corrections: a malformed task field is repaired by the validator
//     and reported as a warning string. These are never errors.
//   - Structural anomalies: dependency cycles are reported as data in the analysis
//     result. These are never errors either.
//   - Fatal input errors: a batch that is not a sequence of mappings, an unreadable
//     file, an unsupported format, or an unusable weight override. These abort the
//     call and are represented by [InputError] and [ValidationError].
//
// # Usage
//
//	err := errors.NewInputError("element is not a mapping", errors.ErrInvalidInput).
//		WithSource("tasks.json").WithIndex(3)
//
//	if errors.Is(err, errors.ErrInvalidInput) { ... }
//
//	var inputErr *errors.InputError
//	if errors.As(err, &inputErr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrInvalidInput indicates the task batch does not have the expected shape.
	ErrInvalidInput = New("invalid input")
	// ErrInvalidWeights indicates a weight override that cannot be normalized.
	ErrInvalidWeights = New("invalid weights")
	// ErrUnsupportedFormat indicates an input or output format taskrank cannot handle.
	ErrUnsupportedFormat = New("unsupported format")
	// ErrNoTasks indicates a command that needs at least one task received none.
	ErrNoTasks = New("no tasks provided")
	// ErrInvalidConfig indicates the loaded configuration failed validation.
	ErrInvalidConfig = New("invalid configuration")
)

// -----------------------------------------------------------------------------
// Base Error
// -----------------------------------------------------------------------------

// TaskrankError is the interface implemented by all taskrank error types.
type TaskrankError interface {
	error
	Unwrap() error
	Is(target error) bool
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// InputError
// -----------------------------------------------------------------------------

// InputError represents a fatal problem with the shape of a task batch or the
// document that carries it.
//
// Example:
//
//	err := errors.NewInputError("element is not a mapping", errors.ErrInvalidInput).
//		WithSource("tasks.yaml").WithIndex(2)
//	fmt.Println(err) // "input error [source=tasks.yaml, index=2]: element is not a mapping: invalid input"
type InputError struct {
	baseError
	Source string
	// Index is the position of the offending element, or -1 when the error
	// concerns the whole document.
	Index int
}

// NewInputError creates a new InputError.
func NewInputError(message string, cause error) *InputError {
	return &InputError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			userFacing: true,
		},
		Index: -1,
	}
}

// WithSource records where the batch came from (a file path or "stdin").
func (e *InputError) WithSource(source string) *InputError {
	e.Source = source
	return e
}

// WithIndex records the position of the offending element.
func (e *InputError) WithIndex(idx int) *InputError {
	e.Index = idx
	return e
}

// Error returns the formatted error message.
func (e *InputError) Error() string {
	var parts []string
	if e.Source != "" {
		parts = append(parts, fmt.Sprintf("source=%s", e.Source))
	}
	if e.Index >= 0 {
		parts = append(parts, fmt.Sprintf("index=%d", e.Index))
	}

	prefix := "input error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("input error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *InputError) Is(target error) bool {
	if _, ok := target.(*InputError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// ValidationError
// -----------------------------------------------------------------------------

// ValidationError represents an invalid caller-supplied parameter, such as a
// weight override or a reference date.
//
// Example:
//
//	err := errors.NewValidationError("weights must not be negative").
//		WithField("custom_weights.effort").WithValue(-0.2)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end users.
// Errors that don't implement TaskrankError are treated as internal.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var trErr TaskrankError
	if As(err, &trErr) {
		return trErr.IsUserFacing()
	}

	return false
}

// IsInputError reports whether err is a fatal batch-shape problem, either an
// [InputError] or anything wrapping [ErrInvalidInput].
func IsInputError(err error) bool {
	if err == nil {
		return false
	}
	var inputErr *InputError
	return As(err, &inputErr) || Is(err, ErrInvalidInput)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
