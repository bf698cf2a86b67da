package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig = "CONFIG"
	ErrAPI    = "API"
	ErrExport = "EXPORT"
	ErrBundle = "BUNDLE"
	ErrPrefs  = "PREFS"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrAPI code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrAPI,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var pmErr *Error
	if errors.As(err, &pmErr) {
		return pmErr.Code == code
	}
	return false
}

// Short returns a single-line rendering of err suitable for status bars.
// Structured errors collapse to their message and cause; anything else
// falls back to err.Error().
func Short(err error) string {
	if err == nil {
		return ""
	}
	var pmErr *Error
	if errors.As(err, &pmErr) {
		if pmErr.Cause != nil {
			return pmErr.Message + ": " + pmErr.Cause.Error()
		}
		return pmErr.Message
	}
	return err.Error()
}
