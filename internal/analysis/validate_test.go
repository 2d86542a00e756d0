package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		present  bool
		filename string
		size     int64
		wantKind ValidationKind
	}{
		{name: "no file part", present: false, filename: "a.mp4", size: 10, wantKind: KindMissingFile},
		{name: "empty filename", present: true, filename: "", size: 10, wantKind: KindEmptySelection},
		{name: "pdf rejected", present: true, filename: "notes.pdf", size: 10, wantKind: KindUnsupportedExtension},
		{name: "no extension", present: true, filename: "recording", size: 10, wantKind: KindUnsupportedExtension},
		{name: "trailing dot", present: true, filename: "recording.", size: 10, wantKind: KindUnsupportedExtension},
		{name: "too large", present: true, filename: "long.mov", size: MaxFileSize + 1, wantKind: KindFileTooLarge},
		{name: "exactly at ceiling", present: true, filename: "edge.wav", size: MaxFileSize},
		{name: "mixed case extension", present: true, filename: "Standup.MP4", size: 1024},
		{name: "webm", present: true, filename: "call.webm", size: 1},
		{name: "double extension uses last", present: true, filename: "clip.pdf.mp3", size: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.present, tt.filename, tt.size)
			if tt.wantKind == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected *ValidationError, got %v", err)
			assert.Equal(t, tt.wantKind, ve.Kind)
			assert.NotEmpty(t, ve.Message)
		})
	}
}

func TestValidate_ExtensionCheckedBeforeSize(t *testing.T) {
	err := Validate(true, "huge.pdf", MaxFileSize*2)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KindUnsupportedExtension, ve.Kind)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "mp4", Extension("a.MP4"))
	assert.Equal(t, "", Extension("noext"))
	assert.Equal(t, "gz", Extension("archive.tar.gz"))
}

func TestMIMEType(t *testing.T) {
	for _, ext := range AllowedExtensions() {
		m, ok := MIMEType(ext)
		assert.True(t, ok, ext)
		assert.NotEmpty(t, m, ext)
	}

	m, ok := MIMEType("MOV")
	assert.True(t, ok)
	assert.Equal(t, "video/quicktime", m)

	_, ok = MIMEType("pdf")
	assert.False(t, ok)
}
