package pipeline

import "errors"

var (
	ErrInvalidFormat = errors.New("unsupported file format")
	ErrFileTooLarge  = errors.New("file too large")
	ErrBadDimensions = errors.New("image dimensions out of bounds")

	// ErrDecode marks a processing failure: the bytes passed validation but
	// could not be decoded into a bitmap.
	ErrDecode = errors.New("failed to decode image")
)

// ValidationError is a caller-correctable input problem, keyed by field so
// handlers can surface it verbatim.
type ValidationError struct {
	Field   string
	Message string
	cause   error
}

func newValidationError(cause error, message string) *ValidationError {
	return &ValidationError{Field: "image", Message: message, cause: cause}
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}
