package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Token store errors (TOKEN-001 to TOKEN-099)
	ErrCodeTokenReadFailed  ErrorCode = "TOKEN-001"
	ErrCodeTokenWriteFailed ErrorCode = "TOKEN-002"
	ErrCodeTokenClearFailed ErrorCode = "TOKEN-003"

	// API client errors (API-001 to API-099)
	ErrCodeAPIRequestFailed ErrorCode = "API-001"
	ErrCodeAPIDecodeFailed  ErrorCode = "API-002"
	ErrCodeAPIUnauthorized  ErrorCode = "API-003"
	ErrCodeAPIForbidden     ErrorCode = "API-004"
	ErrCodeAPINotFound      ErrorCode = "API-005"
	ErrCodeAPIValidation    ErrorCode = "API-006"
	ErrCodeAPIServerFault   ErrorCode = "API-007"
	ErrCodeAPIEncodeFailed  ErrorCode = "API-008"

	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeSessionBootstrapActive ErrorCode = "SESSION-001"
	ErrCodeSessionNotAuthed       ErrorCode = "SESSION-002"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigNotFound  ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid   ErrorCode = "CONFIG-002"
	ErrCodeConfigUnmarshal ErrorCode = "CONFIG-003"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
)

// DeskError represents an enhanced error with code, suggestions, and cause
type DeskError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *DeskError) Error() string {
	var b strings.Builder

	// Error code and message
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	// Add cause if present
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	// Add suggestions
	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *DeskError) Unwrap() error {
	return e.Cause
}

// New creates a new DeskError
func New(code ErrorCode, message string) *DeskError {
	return &DeskError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new DeskError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *DeskError {
	return &DeskError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *DeskError) WithSuggestion(suggestion string) *DeskError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *DeskError) WithSuggestions(suggestions ...string) *DeskError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// NewTokenWriteError creates a credential persistence error
func NewTokenWriteError(cause error) *DeskError {
	return Wrap(ErrCodeTokenWriteFailed, "failed to save credentials", cause).
		WithSuggestion("Check that the deskctl home directory is writable").
		WithSuggestion("Run 'deskctl auth login' to retry")
}
