package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeRasterization ErrorType = "rasterization"
	ErrorTypeTranscription ErrorType = "transcription"
	ErrorTypeExtraction    ErrorType = "extraction"
	ErrorTypeInternal      ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// PublicMessage is the text handed back to API callers. Pipeline failures keep
// the upstream cause so the caller can diagnose them.
func (e *AppError) PublicMessage() string {
	msg := e.Message
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Details:    detail,
		StatusCode: http.StatusBadRequest,
	}
}

// NewRasterizationError creates an error for failures while rendering pages
func NewRasterizationError(message string, cause error) *AppError {
	return newStageError(ErrorTypeRasterization, message, cause)
}

// NewTranscriptionError creates an error for failures of the transcription call
func NewTranscriptionError(message string, cause error) *AppError {
	return newStageError(ErrorTypeTranscription, message, cause)
}

// NewExtractionError creates an error for failures of the extraction call
func NewExtractionError(message string, cause error) *AppError {
	return newStageError(ErrorTypeExtraction, message, cause)
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, cause error) *AppError {
	return newStageError(ErrorTypeInternal, message, cause)
}

func newStageError(t ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:       t,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := As(err); ok {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
