// Package upload keeps transient copies of uploaded media on local disk.
package upload

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyFilename = errors.New("filename is empty after sanitizing")

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// StoredFile describes a file written by Store.Save.
type StoredFile struct {
	ID       uuid.UUID `json:"file_id"`
	Filename string    `json:"filename"`
	Path     string    `json:"-"`
	Size     int64     `json:"size"`
}

// Store writes uploads as "<uuid>_<sanitized name>" under Dir and expires them after TTL.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewStore creates the upload directory if needed.
func NewStore(dir string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Store{dir: dir, ttl: ttl, now: time.Now}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save copies r into a new file. A partially written file is removed on error.
func (s *Store) Save(filename string, r io.Reader) (*StoredFile, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return nil, ErrEmptyFilename
	}

	id := uuid.New()
	path := filepath.Join(s.dir, id.String()+"_"+name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	return &StoredFile{ID: id, Filename: name, Path: path, Size: n}, nil
}

// Sweep removes files written by Save that are older than the TTL and returns how many were deleted.
// Anything else in the directory is left alone.
func (s *Store) Sweep() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read upload dir: %w", err)
	}

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() || !isStoredName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("upload sweep: remove failed", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// isStoredName reports whether name has the "<uuid>_<name>" shape Save produces.
func isStoredName(name string) bool {
	const idLen = 36
	if len(name) <= idLen+1 || name[idLen] != '_' {
		return false
	}
	_, err := uuid.Parse(name[:idLen])
	return err == nil
}

// SanitizeFilename keeps the base name and replaces anything outside [A-Za-z0-9._-] with "_".
// Leading dots and underscores are dropped so the result is never hidden or a path element.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	name = unsafeChars.ReplaceAllString(name, "_")
	return strings.TrimLeft(name, "._")
}
