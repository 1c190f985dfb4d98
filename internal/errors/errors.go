// Package errors provides a lightweight structured error type (RunnerError)
// for category-based classification across pipeline steps and the CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a runner error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// External system integration errors
	CategoryNetwork ErrorCategory = "network"
	CategoryFetch   ErrorCategory = "fetch"
	CategoryStorage ErrorCategory = "storage"
	CategoryWebhook ErrorCategory = "webhook"

	// Build and processing errors
	CategorySigning    ErrorCategory = "signing"
	CategoryBuild      ErrorCategory = "build"
	CategoryArtifact   ErrorCategory = "artifact"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Fails the job
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal on its own
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// RunnerError is a structured error with category, severity, and context
type RunnerError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for RunnerError
type ContextFields map[string]any

// Error implements the error interface
func (e *RunnerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *RunnerError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *RunnerError) WithContext(key string, value any) *RunnerError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new RunnerError
func New(category ErrorCategory, severity ErrorSeverity, message string) *RunnerError {
	return &RunnerError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new RunnerError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *RunnerError {
	return &RunnerError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if re, ok := err.(*RunnerError); ok {
		return re.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a RunnerError
func GetCategory(err error) ErrorCategory {
	if re, ok := err.(*RunnerError); ok {
		return re.Category
	}
	return CategoryInternal
}
