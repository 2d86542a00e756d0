package handler

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/verta/internal/analysis"
	"github.com/kiranshivaraju/verta/internal/api/response"
)

const (
	formField = "file"
	// multipartMemory is how much of the form is held in memory before spilling to disk.
	multipartMemory = 32 << 20
	// multipartOverhead leaves room for boundaries and headers around a file at the size ceiling.
	multipartOverhead = 1 << 20
)

var errMalformedForm = errors.New("malformed multipart form")

// formUpload is the "file" part of a multipart request.
// File is nil when the part is absent or carried no filename.
type formUpload struct {
	Present  bool
	Filename string
	Size     int64
	File     multipart.File
}

// readFormFile parses the request body and extracts the "file" part.
// Bodies over the size ceiling yield a FILE_TOO_LARGE *analysis.ValidationError.
func readFormFile(w http.ResponseWriter, r *http.Request) (formUpload, error) {
	// The ceiling trips before the part header is read, so an oversized body
	// reports FILE_TOO_LARGE even when its extension is also not allowed.
	r.Body = http.MaxBytesReader(w, r.Body, analysis.MaxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge), strings.Contains(err.Error(), "request body too large"):
			return formUpload{}, analysis.NewValidationError(analysis.KindFileTooLarge)
		case errors.Is(err, http.ErrNotMultipart):
			return formUpload{}, nil
		default:
			return formUpload{}, errMalformedForm
		}
	}

	f, h, err := r.FormFile(formField)
	if errors.Is(err, http.ErrMissingFile) {
		// A file input submitted with nothing selected arrives as a plain value.
		if _, ok := r.MultipartForm.Value[formField]; ok {
			return formUpload{Present: true}, nil
		}
		return formUpload{}, nil
	}
	if err != nil {
		return formUpload{}, errMalformedForm
	}
	return formUpload{Present: true, Filename: h.Filename, Size: h.Size, File: f}, nil
}

// reader returns the file content, an empty reader when the part was present
// without a file, or nil when it was absent.
func (u formUpload) reader() io.ReadSeeker {
	switch {
	case u.File != nil:
		return u.File
	case u.Present:
		return bytes.NewReader(nil)
	}
	return nil
}

func cleanupForm(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

func writeFormError(w http.ResponseWriter, err error) {
	var ve *analysis.ValidationError
	if errors.As(err, &ve) {
		writeValidationError(w, ve)
		return
	}
	response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
		"Request must be multipart/form-data with a \"file\" field", nil)
}

func writeValidationError(w http.ResponseWriter, ve *analysis.ValidationError) {
	var details any
	switch ve.Kind {
	case analysis.KindUnsupportedExtension:
		details = map[string]any{"allowed_extensions": analysis.AllowedExtensions()}
	case analysis.KindFileTooLarge:
		details = map[string]any{"max_file_size": analysis.MaxFileSize}
	}
	response.Error(w, http.StatusBadRequest, string(ve.Kind), ve.Message, details)
}
