package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/kiranshivaraju/verta/internal/analysis"
	"github.com/kiranshivaraju/verta/internal/api/response"
	"github.com/kiranshivaraju/verta/pkg/models"
)

// Analyzer defines the interface the analyze handler depends on.
type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)
}

// NewAnalyzeHandler returns an http.HandlerFunc for POST /api/v1/analyze.
// Once the file passes validation the response is always 200.
func NewAnalyzeHandler(svc Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upload, err := readFormFile(w, r)
		defer cleanupForm(r)
		if err != nil {
			writeFormError(w, err)
			return
		}
		if upload.File != nil {
			defer upload.File.Close()
		}

		result, err := svc.Analyze(r.Context(), models.AnalysisRequest{
			Filename: upload.Filename,
			Size:     upload.Size,
			Content:  upload.reader(),
		})
		if err != nil {
			var ve *analysis.ValidationError
			if errors.As(err, &ve) {
				writeValidationError(w, ve)
				return
			}
			slog.Error("analyze failed", "error", err, "request_id", chimw.GetReqID(r.Context()))
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		response.JSON(w, result)
	}
}
