// Package models contains shared data models used across the VERTA codebase.
package models

import (
	"context"
	"io"
)

// RemoteStatus is the processing state the remote media service reports for an upload.
type RemoteStatus string

const (
	RemoteStatusProcessing RemoteStatus = "PROCESSING"
	RemoteStatusActive     RemoteStatus = "ACTIVE"
	RemoteStatusFailed     RemoteStatus = "FAILED"
)

// RemoteFileHandle identifies one uploaded file on the remote service.
// A handle belongs to a single request and is never shared.
type RemoteFileHandle struct {
	Name     string `json:"name"`
	URI      string `json:"uri"`
	MIMEType string `json:"mime_type"`
}

// ModelHandle is a model variant that initialized successfully for one request.
type ModelHandle struct {
	ID string `json:"id"`
}

// MediaService is the remote media-ingestion capability.
type MediaService interface {
	// Upload sends content to the remote service. The reader may be rewound on retry.
	Upload(ctx context.Context, content io.ReadSeeker, filename, mimeType string) (RemoteFileHandle, error)
	// Status returns the current processing state of an uploaded file.
	Status(ctx context.Context, handle RemoteFileHandle) (RemoteStatus, error)
	// Delete removes the uploaded file. Callers treat failures as best-effort.
	Delete(ctx context.Context, handle RemoteFileHandle) error
}

// GenerativeService is the remote generative-analysis capability.
type GenerativeService interface {
	// InitModel verifies that the model id can serve requests.
	InitModel(ctx context.Context, id string) (ModelHandle, error)
	// Generate runs prompt against the uploaded file and returns the raw model text.
	Generate(ctx context.Context, model ModelHandle, prompt string, file RemoteFileHandle) (string, error)
}

// AnalysisProvider is the core interface that all remote AI integrations must implement.
// Handlers and the orchestrator depend on this interface, never on a concrete provider.
type AnalysisProvider interface {
	MediaService
	GenerativeService
	// Name returns the provider identifier (e.g., "gemini", "mock").
	Name() string
}

// AnalysisRequest is one media file submitted for analysis.
// Content is nil when the request carried no file part.
type AnalysisRequest struct {
	Filename string
	Size     int64
	Content  io.ReadSeeker
}
