package models

import "errors"

// Errors returned by AnalysisProvider implementations.
var (
	ErrRemoteUnavailable = errors.New("remote ai service unavailable")
	ErrFileNotFound      = errors.New("remote file not found")
	ErrModelUnavailable  = errors.New("model unavailable")
	ErrInferenceTimeout  = errors.New("ai inference timeout")
	ErrEmptyResponse     = errors.New("ai provider returned empty response")
)
