package domain

import "errors"

// Domain errors
var (
	ErrNoPages            = errors.New("PDF conversion resulted in zero images")
	ErrEmptyTranscription = errors.New("model returned an empty transcription")
	ErrEmptyResponse      = errors.New("model returned no content")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
