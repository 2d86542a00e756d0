package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/kiranshivaraju/verta/internal/analysis"
	"github.com/kiranshivaraju/verta/internal/api/response"
)

const probeTimeout = 30 * time.Second

// ModelProber reports which preferred models can be initialized.
type ModelProber interface {
	ProbeModels(ctx context.Context) []analysis.ModelProbe
	Preferences() []string
}

// DebugInfo is the static part of the debug report.
type DebugInfo struct {
	Environment    string
	Provider       string
	UploadDir      string
	HasCredentials bool
}

type debugResponse struct {
	Environment       string   `json:"environment"`
	APIKeyPresent     bool     `json:"api_key_present"`
	Provider          string   `json:"provider"`
	UploadDir         string   `json:"upload_dir"`
	MaxFileSize       int64    `json:"max_file_size"`
	AllowedExtensions []string `json:"allowed_extensions"`
	ModelPreferences  []string `json:"model_preferences"`
	ModelStatus       any      `json:"model_status"`
}

// NewDebugHandler returns an http.HandlerFunc for GET /api/v1/debug.
// Model availability is probed live only when credentials are configured.
func NewDebugHandler(info DebugInfo, prober ModelProber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := debugResponse{
			Environment:       info.Environment,
			APIKeyPresent:     info.HasCredentials,
			Provider:          info.Provider,
			UploadDir:         info.UploadDir,
			MaxFileSize:       analysis.MaxFileSize,
			AllowedExtensions: analysis.AllowedExtensions(),
			ModelPreferences:  prober.Preferences(),
			ModelStatus:       "no_credentials",
		}

		if info.HasCredentials {
			ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
			defer cancel()
			resp.ModelStatus = prober.ProbeModels(ctx)
		}

		response.JSON(w, resp)
	}
}
