// Package errors provides a lightweight structured error type (ReadmegenError)
// for category-based classification and exit-code mapping in the CLI.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a readmegen error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Source and target document errors
	CategorySource ErrorCategory = "source"
	CategoryTarget ErrorCategory = "target"

	// Conversion and output errors
	CategoryRender     ErrorCategory = "render"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryWatch    ErrorCategory = "watch"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// ReadmegenError is a structured error with category, retryability, and context
type ReadmegenError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for ReadmegenError
type ContextFields map[string]any

// Error implements the error interface
func (e *ReadmegenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *ReadmegenError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *ReadmegenError) WithContext(key string, value any) *ReadmegenError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new ReadmegenError
func New(category ErrorCategory, severity ErrorSeverity, message string) *ReadmegenError {
	return &ReadmegenError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Retryable: false,
	}
}

// Wrap creates a new ReadmegenError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *ReadmegenError {
	return &ReadmegenError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}

// Retryable creates a new retryable ReadmegenError
func Retryable(category ErrorCategory, severity ErrorSeverity, message string) *ReadmegenError {
	return &ReadmegenError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Retryable: true,
	}
}

// IsCategory checks if an error belongs to a specific category. Wrapped
// errors are searched via errors.As so classification survives wrapping.
func IsCategory(err error, category ErrorCategory) bool {
	var rge *ReadmegenError
	if stderrors.As(err, &rge) {
		return rge.Category == category
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var rge *ReadmegenError
	if stderrors.As(err, &rge) {
		return rge.Retryable
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a ReadmegenError
func GetCategory(err error) ErrorCategory {
	var rge *ReadmegenError
	if stderrors.As(err, &rge) {
		return rge.Category
	}
	return CategoryInternal
}

// ValidationError creates a new validation error (invalid usage)
func ValidationError(message string) *ReadmegenError {
	return &ReadmegenError{
		Category:  CategoryValidation,
		Severity:  SeverityWarning,
		Message:   message,
		Retryable: false,
	}
}

// ConfigError creates a new configuration error
func ConfigError(message string) *ReadmegenError {
	return &ReadmegenError{
		Category:  CategoryConfig,
		Severity:  SeverityError,
		Message:   message,
		Retryable: false,
	}
}

// WrapError wraps an existing error with a new ReadmegenError
func WrapError(err error, category ErrorCategory, message string) *ReadmegenError {
	return &ReadmegenError{
		Category:  category,
		Severity:  SeverityError,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}
