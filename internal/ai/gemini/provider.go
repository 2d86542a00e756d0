// Package gemini implements models.AnalysisProvider on the Google GenAI Files and Models APIs.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/kiranshivaraju/verta/internal/config"
	"github.com/kiranshivaraju/verta/pkg/models"
	"google.golang.org/genai"
)

const providerName = "gemini"

// Provider talks to the Gemini API. Safe for concurrent use.
type Provider struct {
	client        *genai.Client
	uploadRetries uint64
	temperature   float32
}

// NewProvider creates a Gemini client from config.
func NewProvider(ctx context.Context, cfg config.GeminiConfig) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	retries := cfg.UploadRetries
	if retries < 0 {
		retries = 0
	}
	return &Provider{client: client, uploadRetries: uint64(retries), temperature: 0.2}, nil
}

func (p *Provider) Name() string { return providerName }

// Upload sends content to the Files API, retrying transient failures with exponential backoff.
// content is rewound before every attempt.
func (p *Provider) Upload(ctx context.Context, content io.ReadSeeker, filename, mimeType string) (models.RemoteFileHandle, error) {
	var file *genai.File
	op := func() error {
		if _, err := content.Seek(0, io.SeekStart); err != nil {
			return backoff.Permanent(fmt.Errorf("rewind upload: %w", err))
		}
		f, err := p.client.Files.Upload(ctx, content, &genai.UploadFileConfig{
			MIMEType:    mimeType,
			DisplayName: filename,
		})
		if err != nil {
			if !isRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		file = f
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), p.uploadRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return models.RemoteFileHandle{}, fmt.Errorf("gemini upload %q: %w", filename, classifyError(err))
	}
	return handleFromFile(file, mimeType), nil
}

// Status maps the remote file state onto models.RemoteStatus.
func (p *Provider) Status(ctx context.Context, handle models.RemoteFileHandle) (models.RemoteStatus, error) {
	file, err := p.client.Files.Get(ctx, handle.Name, nil)
	if err != nil {
		return "", fmt.Errorf("gemini get file %q: %w", handle.Name, classifyError(err))
	}
	return mapState(file.State), nil
}

func (p *Provider) Delete(ctx context.Context, handle models.RemoteFileHandle) error {
	if _, err := p.client.Files.Delete(ctx, handle.Name, nil); err != nil {
		return fmt.Errorf("gemini delete file %q: %w", handle.Name, classifyError(err))
	}
	return nil
}

// InitModel confirms the model exists and is reachable with the configured key.
func (p *Provider) InitModel(ctx context.Context, id string) (models.ModelHandle, error) {
	m, err := p.client.Models.Get(ctx, id, nil)
	if err != nil {
		return models.ModelHandle{}, fmt.Errorf("gemini model %q: %w: %w", id, models.ErrModelUnavailable, err)
	}
	name := id
	if m != nil && m.Name != "" {
		name = m.Name
	}
	return models.ModelHandle{ID: name}, nil
}

// Generate asks model for a JSON answer to prompt about the uploaded file.
func (p *Provider) Generate(ctx context.Context, model models.ModelHandle, prompt string, file models.RemoteFileHandle) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromURI(file.URI, file.MIMEType),
		}, genai.RoleUser),
	}
	resp, err := p.client.Models.GenerateContent(ctx, model.ID, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(p.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate with %q: %w", model.ID, classifyError(err))
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", models.ErrEmptyResponse
	}
	return text, nil
}

func handleFromFile(f *genai.File, mimeType string) models.RemoteFileHandle {
	h := models.RemoteFileHandle{Name: f.Name, URI: f.URI, MIMEType: f.MIMEType}
	if h.MIMEType == "" {
		h.MIMEType = mimeType
	}
	return h
}

func mapState(s genai.FileState) models.RemoteStatus {
	switch s {
	case genai.FileStateActive:
		return models.RemoteStatusActive
	case genai.FileStateFailed:
		return models.RemoteStatusFailed
	default:
		return models.RemoteStatusProcessing
	}
}

// classifyError wraps API and network failures with the matching models sentinel.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", models.ErrInferenceTimeout, err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusNotFound:
			return fmt.Errorf("%w: %w", models.ErrFileNotFound, err)
		case apiErr.Code == http.StatusTooManyRequests, apiErr.Code >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %w", models.ErrRemoteUnavailable, err)
		}
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", models.ErrRemoteUnavailable, err)
	}
	return err
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

var _ models.AnalysisProvider = (*Provider)(nil)
