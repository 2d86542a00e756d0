package analysis

import (
	"errors"
	"fmt"
)

var (
	ErrNoModelAvailable = errors.New("no preferred model could be initialized")
	ErrActivationFailed = errors.New("remote file processing failed")
)

// ValidationKind names the reason a file was rejected before any remote call.
type ValidationKind string

const (
	KindMissingFile          ValidationKind = "MISSING_FILE"
	KindEmptySelection       ValidationKind = "EMPTY_SELECTION"
	KindUnsupportedExtension ValidationKind = "UNSUPPORTED_EXTENSION"
	KindFileTooLarge         ValidationKind = "FILE_TOO_LARGE"
)

// ValidationError is the only error Analyze returns to its caller.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewValidationError builds a ValidationError with the default message for kind.
func NewValidationError(kind ValidationKind) *ValidationError {
	return &ValidationError{Kind: kind, Message: validationMessages[kind]}
}

var validationMessages = map[ValidationKind]string{
	KindMissingFile:          "No file provided",
	KindEmptySelection:       "No file selected",
	KindUnsupportedExtension: "File type not allowed. Supported: mp3, wav, mp4, mov, avi, webm",
	KindFileTooLarge:         "File exceeds the 200MB limit",
}

// InvocationError wraps a failed generation call or a failed model selection.
type InvocationError struct {
	Model string
	Cause error
}

func (e *InvocationError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("invoke analysis: %v", e.Cause)
	}
	return fmt.Sprintf("invoke analysis with %s: %v", e.Model, e.Cause)
}

func (e *InvocationError) Unwrap() error { return e.Cause }

// ParseFailure means the model answered but the answer was not a valid report.
// Excerpt keeps the start of the raw text for diagnostics.
type ParseFailure struct {
	Excerpt string
	Cause   error
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("parse model response: %v", e.Cause)
}

func (e *ParseFailure) Unwrap() error { return e.Cause }
