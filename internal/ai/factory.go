package ai

import (
	"context"
	"fmt"

	"github.com/kiranshivaraju/verta/internal/ai/gemini"
	"github.com/kiranshivaraju/verta/internal/ai/mock"
	"github.com/kiranshivaraju/verta/internal/config"
	"github.com/kiranshivaraju/verta/pkg/models"
)

// NewProvider constructs the remote analysis provider selected by config.
// Called once at server startup.
func NewProvider(ctx context.Context, cfg config.AIConfig) (models.AnalysisProvider, error) {
	switch cfg.Provider {
	case "gemini":
		p, err := gemini.NewProvider(ctx, cfg.Gemini)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "mock":
		return mock.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of gemini, mock", cfg.Provider)
	}
}
