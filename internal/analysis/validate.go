package analysis

import (
	"path/filepath"
	"strings"
)

// MaxFileSize is the upload ceiling (200 MiB).
const MaxFileSize int64 = 200 << 20

var allowedExtensions = map[string]string{
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"mp4":  "video/mp4",
	"mov":  "video/quicktime",
	"avi":  "video/x-msvideo",
	"webm": "video/webm",
}

// AllowedExtensions returns the accepted extensions in display order.
func AllowedExtensions() []string {
	return []string{"mp3", "wav", "mp4", "mov", "avi", "webm"}
}

// Extension returns the lower-cased extension of filename without the dot,
// or "" when there is none.
func Extension(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// MIMEType returns the upload content type for an allowed extension.
func MIMEType(ext string) (string, bool) {
	m, ok := allowedExtensions[strings.ToLower(ext)]
	return m, ok
}

// Validate checks presence, extension and size, in that order.
// It returns nil or a *ValidationError.
func Validate(present bool, filename string, size int64) error {
	if !present {
		return NewValidationError(KindMissingFile)
	}
	if filename == "" {
		return NewValidationError(KindEmptySelection)
	}
	if _, ok := allowedExtensions[Extension(filename)]; !ok {
		return NewValidationError(KindUnsupportedExtension)
	}
	if size > MaxFileSize {
		return NewValidationError(KindFileTooLarge)
	}
	return nil
}
