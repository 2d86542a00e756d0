// Package analysis turns an unreliable remote analysis call into a report that is always valid.
// Only validation errors reach the caller; every later fault degrades to the sample report.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kiranshivaraju/verta/pkg/models"
)

const releaseTimeout = 10 * time.Second

// Options configures an Orchestrator. Zero values select the defaults.
type Options struct {
	// HasCredentials reports whether the remote service may be called at all.
	HasCredentials   bool
	ModelPreferences []string
	PollInterval     time.Duration
	PollBudget       time.Duration
	InferenceTimeout time.Duration
	Clock            Clock
	Logger           *slog.Logger
}

// Orchestrator sequences validation, upload, activation polling, invocation and parsing.
// It is safe for concurrent use; requests share no mutable state.
type Orchestrator struct {
	provider       models.AnalysisProvider
	poller         *Poller
	invoker        *Invoker
	hasCredentials bool
	clock          Clock
	logger         *slog.Logger
}

// NewOrchestrator creates an Orchestrator backed by provider.
func NewOrchestrator(provider models.AnalysisProvider, opts Options) *Orchestrator {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		provider:       provider,
		poller:         NewPoller(provider, clock, opts.PollInterval, opts.PollBudget, logger),
		invoker:        NewInvoker(provider, opts.ModelPreferences, opts.InferenceTimeout, logger),
		hasCredentials: opts.HasCredentials && provider != nil,
		clock:          clock,
		logger:         logger,
	}
}

// HasCredentials reports whether Analyze will attempt remote analysis.
func (o *Orchestrator) HasCredentials() bool { return o.hasCredentials }

// Invoker exposes the model selector, e.g. for availability probes.
func (o *Orchestrator) Invoker() *Invoker { return o.invoker }

// Analyze validates req and returns a report. The error is always nil or a *ValidationError.
func (o *Orchestrator) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	if err := Validate(req.Content != nil, req.Filename, req.Size); err != nil {
		return nil, err
	}

	if !o.hasCredentials {
		o.logger.Info("analysis path", "filename", req.Filename, "outcome", "sample", "reason", "no credentials")
		return Fallback(req.Filename, o.clock.Now()), nil
	}

	result, err := o.analyzeRemote(ctx, req)
	if err != nil {
		var pf *ParseFailure
		if errors.As(err, &pf) {
			o.logger.Warn("analysis path", "filename", req.Filename, "outcome", "fallback",
				"reason", "parse failure", "error", pf.Cause)
			return fallbackForParseFailure(req.Filename, o.clock.Now(), pf), nil
		}
		o.logger.Warn("analysis path", "filename", req.Filename, "outcome", "fallback", "error", err)
		return Fallback(req.Filename, o.clock.Now()), nil
	}

	o.logger.Info("analysis path", "filename", req.Filename, "outcome", "analyzed")
	return result, nil
}

func (o *Orchestrator) analyzeRemote(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	mimeType, _ := MIMEType(Extension(req.Filename))

	handle, err := o.provider.Upload(ctx, req.Content, req.Filename, mimeType)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer o.release(ctx, handle)

	state, err := o.poller.AwaitActive(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("await activation: %w", err)
	}
	switch state {
	case StateFailed:
		return nil, ErrActivationFailed
	case StateTimedOut:
		// Some files still serve content before they report ACTIVE.
		o.logger.Warn("activation timed out, invoking anyway", "file", handle.Name)
	}

	text, err := o.invoker.Invoke(ctx, handle)
	if err != nil {
		return nil, err
	}
	return Parse(text)
}

// release deletes the remote file even if the request context is already cancelled.
func (o *Orchestrator) release(ctx context.Context, handle models.RemoteFileHandle) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := o.provider.Delete(ctx, handle); err != nil {
		o.logger.Debug("remote file cleanup failed", "file", handle.Name, "error", err)
	}
}
