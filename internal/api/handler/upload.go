package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/kiranshivaraju/verta/internal/analysis"
	"github.com/kiranshivaraju/verta/internal/api/response"
	"github.com/kiranshivaraju/verta/internal/upload"
)

// Uploader stores a validated upload for later processing.
type Uploader interface {
	Save(filename string, r io.Reader) (*upload.StoredFile, error)
}

type uploadResponse struct {
	*upload.StoredFile
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewUploadHandler returns an http.HandlerFunc for POST /api/v1/upload.
func NewUploadHandler(store Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := readFormFile(w, r)
		defer cleanupForm(r)
		if err != nil {
			writeFormError(w, err)
			return
		}
		if form.File != nil {
			defer form.File.Close()
		}

		if err := analysis.Validate(form.Present, form.Filename, form.Size); err != nil {
			writeFormError(w, err)
			return
		}

		stored, err := store.Save(form.Filename, form.File)
		if err != nil {
			slog.Error("store upload failed", "filename", form.Filename, "error", err)
			response.Error(w, http.StatusInternalServerError, "UPLOAD_FAILED",
				"The file could not be stored", nil)
			return
		}

		slog.Info("file uploaded", "file_id", stored.ID, "filename", stored.Filename, "size", stored.Size)
		response.Created(w, uploadResponse{
			StoredFile: stored,
			Status:     "uploaded",
			Message:    "File uploaded successfully",
		})
	}
}
