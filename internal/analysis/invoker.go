package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kiranshivaraju/verta/pkg/models"
)

// DefaultModelPreferences is the model order used when none is configured.
var DefaultModelPreferences = []string{
	"gemini-2.5-flash",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
	"gemini-pro",
}

// Invoker picks the first model that initializes and runs the analysis prompt on it.
// It never retries and never falls back to another model after generation fails.
type Invoker struct {
	gen         models.GenerativeService
	preferences []string
	timeout     time.Duration
	logger      *slog.Logger
}

// NewInvoker creates an Invoker. A zero timeout leaves the generation call
// bounded only by the caller's context.
func NewInvoker(gen models.GenerativeService, preferences []string, timeout time.Duration, logger *slog.Logger) *Invoker {
	if len(preferences) == 0 {
		preferences = DefaultModelPreferences
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{
		gen:         gen,
		preferences: append([]string(nil), preferences...),
		timeout:     timeout,
		logger:      logger,
	}
}

// Preferences returns a copy of the ordered model list.
func (i *Invoker) Preferences() []string {
	return append([]string(nil), i.preferences...)
}

// SelectModel returns the first preferred model that initializes.
func (i *Invoker) SelectModel(ctx context.Context) (models.ModelHandle, error) {
	var errs []error
	for _, id := range i.preferences {
		if err := ctx.Err(); err != nil {
			return models.ModelHandle{}, err
		}
		handle, err := i.gen.InitModel(ctx, id)
		if err == nil {
			i.logger.Debug("model selected", "model", handle.ID)
			return handle, nil
		}
		i.logger.Warn("model unavailable, trying next", "model", id, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", id, err))
	}
	return models.ModelHandle{}, fmt.Errorf("%w: %w", ErrNoModelAvailable, errors.Join(errs...))
}

// Invoke selects a model and asks it to analyze file. Every failure is an *InvocationError.
func (i *Invoker) Invoke(ctx context.Context, file models.RemoteFileHandle) (string, error) {
	model, err := i.SelectModel(ctx)
	if err != nil {
		return "", &InvocationError{Cause: err}
	}

	genCtx := ctx
	if i.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	text, err := i.gen.Generate(genCtx, model, AnalysisPrompt, file)
	if err != nil {
		return "", &InvocationError{Model: model.ID, Cause: err}
	}
	return text, nil
}

// ModelProbe is the availability of one preferred model.
type ModelProbe struct {
	ID        string `json:"id"`
	Available bool   `json:"available"`
	Selected  bool   `json:"selected"`
	Error     string `json:"error,omitempty"`
}

// ProbeModels initializes every preferred model without generating content.
// The first available model is marked Selected, matching SelectModel.
func (i *Invoker) ProbeModels(ctx context.Context) []ModelProbe {
	probes := make([]ModelProbe, 0, len(i.preferences))
	selected := false
	for _, id := range i.preferences {
		p := ModelProbe{ID: id}
		if _, err := i.gen.InitModel(ctx, id); err != nil {
			p.Error = err.Error()
		} else {
			p.Available = true
			if !selected {
				p.Selected = true
				selected = true
			}
		}
		probes = append(probes, p)
	}
	return probes
}
