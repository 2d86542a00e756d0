package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kiranshivaraju/verta/internal/config"
	"github.com/kiranshivaraju/verta/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// newTestProvider points a Provider at a fake Gemini API.
func newTestProvider(t *testing.T, h http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	p, err := NewProvider(context.Background(), config.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/",
	})
	require.NoError(t, err)
	return p
}

func writeAPIError(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error":{"code":%d,"message":"fake failure","status":%q}}`, code, status)
}

func TestNewProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewProvider(context.Background(), config.GeminiConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestNewProvider_NegativeRetriesClamped(t *testing.T) {
	p, err := NewProvider(context.Background(), config.GeminiConfig{APIKey: "k", UploadRetries: -1})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), p.uploadRetries)
	assert.Equal(t, "gemini", p.Name())
}

func TestMapState(t *testing.T) {
	assert.Equal(t, models.RemoteStatusActive, mapState(genai.FileStateActive))
	assert.Equal(t, models.RemoteStatusFailed, mapState(genai.FileStateFailed))
	assert.Equal(t, models.RemoteStatusProcessing, mapState(genai.FileStateProcessing))
	assert.Equal(t, models.RemoteStatusProcessing, mapState(genai.FileStateUnspecified))
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "deadline", err: context.DeadlineExceeded, want: models.ErrInferenceTimeout},
		{name: "not found", err: genai.APIError{Code: 404}, want: models.ErrFileNotFound},
		{name: "rate limited", err: genai.APIError{Code: 429}, want: models.ErrRemoteUnavailable},
		{name: "server error", err: genai.APIError{Code: 503}, want: models.ErrRemoteUnavailable},
		{name: "network", err: timeoutErr{}, want: models.ErrRemoteUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.Contains(t, got.Error(), tt.err.Error())
		})
	}

	t.Run("bad request passes through", func(t *testing.T) {
		err := genai.APIError{Code: 400}
		assert.Equal(t, error(err), classifyError(err))
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(genai.APIError{Code: 429}))
	assert.True(t, isRetryable(genai.APIError{Code: 500}))
	assert.True(t, isRetryable(timeoutErr{}))
	assert.False(t, isRetryable(genai.APIError{Code: 400}))
	assert.False(t, isRetryable(context.Canceled))
	assert.False(t, isRetryable(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
	assert.False(t, isRetryable(errors.New("plain")))
}

func TestHandleFromFile_DefaultsMIMEType(t *testing.T) {
	h := handleFromFile(&genai.File{Name: "files/abc", URI: "https://x/files/abc"}, "audio/mpeg")
	assert.Equal(t, models.RemoteFileHandle{Name: "files/abc", URI: "https://x/files/abc", MIMEType: "audio/mpeg"}, h)

	h = handleFromFile(&genai.File{Name: "files/abc", MIMEType: "video/mp4"}, "audio/mpeg")
	assert.Equal(t, "video/mp4", h.MIMEType)
}

func TestStatus(t *testing.T) {
	tests := []struct {
		state string
		want  models.RemoteStatus
	}{
		{state: "PROCESSING", want: models.RemoteStatusProcessing},
		{state: "ACTIVE", want: models.RemoteStatusActive},
		{state: "FAILED", want: models.RemoteStatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				assert.True(t, strings.HasSuffix(r.URL.Path, "/files/abc"), r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprintf(w, `{"name":"files/abc","state":%q}`, tt.state)
			})

			got, err := p.Status(context.Background(), models.RemoteFileHandle{Name: "files/abc"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_NotFound(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		writeAPIError(w, http.StatusNotFound, "NOT_FOUND")
	})

	_, err := p.Status(context.Background(), models.RemoteFileHandle{Name: "files/gone"})
	assert.ErrorIs(t, err, models.ErrFileNotFound)
}

func TestInitModel(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash") {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"name":"models/gemini-2.5-flash"}`)
			return
		}
		writeAPIError(w, http.StatusNotFound, "NOT_FOUND")
	})

	m, err := p.InitModel(context.Background(), "gemini-2.5-flash")
	require.NoError(t, err)
	assert.Equal(t, "models/gemini-2.5-flash", m.ID)

	_, err = p.InitModel(context.Background(), "gemini-pro")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrModelUnavailable)
	assert.NotErrorIs(t, err, models.ErrFileNotFound)
}
