package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kiranshivaraju/verta/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"VERTA_CONFIG_FILE", "PORT", "VERTA_ENV", "LOG_LEVEL", "VERTA_ALLOWED_ORIGINS",
	"VERTA_RATE_LIMIT_PER_MINUTE", "REDIS_URL", "UPLOAD_DIR", "UPLOAD_TTL",
	"AI_PROVIDER", "AI_INFERENCE_TIMEOUT_SECS", "GEMINI_API_KEY", "GEMINI_BASE_URL",
	"GEMINI_MODELS", "GEMINI_UPLOAD_RETRIES",
}

// setEnv clears every config variable, then sets env for the duration of the test.
func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "verta.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, nil)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 30, cfg.Server.RateLimitPerMinute)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, "/tmp/uploads", cfg.Upload.Dir)
	assert.Equal(t, time.Hour, cfg.Upload.TTL)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, 120*time.Second, cfg.AI.InferenceTimeout)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-1.5-flash", "gemini-1.5-pro", "gemini-pro"}, cfg.AI.Gemini.Models)
	assert.Equal(t, 3, cfg.AI.Gemini.UploadRetries)
	assert.False(t, cfg.AI.HasCredentials())
}

func TestLoad_EnvOverrides(t *testing.T) {
	setEnv(t, map[string]string{
		"PORT":                        "9090",
		"VERTA_ENV":                   "production",
		"LOG_LEVEL":                   "DEBUG",
		"VERTA_ALLOWED_ORIGINS":       "https://verta.app, https://www.verta.app",
		"VERTA_RATE_LIMIT_PER_MINUTE": "5",
		"REDIS_URL":                   "redis://localhost:6379",
		"UPLOAD_DIR":                  "/var/tmp/verta",
		"UPLOAD_TTL":                  "15m",
		"AI_INFERENCE_TIMEOUT_SECS":   "45",
		"GEMINI_API_KEY":              "test-key",
		"GEMINI_MODELS":               "gemini-2.5-pro,gemini-2.5-flash",
		"GEMINI_UPLOAD_RETRIES":       "0",
	})

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, []string{"https://verta.app", "https://www.verta.app"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5, cfg.Server.RateLimitPerMinute)
	assert.Equal(t, "redis://localhost:6379", cfg.Redis.URL)
	assert.Equal(t, "/var/tmp/verta", cfg.Upload.Dir)
	assert.Equal(t, 15*time.Minute, cfg.Upload.TTL)
	assert.Equal(t, 45*time.Second, cfg.AI.InferenceTimeout)
	assert.Equal(t, []string{"gemini-2.5-pro", "gemini-2.5-flash"}, cfg.AI.Gemini.Models)
	assert.Equal(t, 0, cfg.AI.Gemini.UploadRetries)
	assert.True(t, cfg.AI.HasCredentials())
}

func TestLoad_MockProviderHasCredentials(t *testing.T) {
	setEnv(t, map[string]string{"AI_PROVIDER": "mock"})

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.AI.HasCredentials())
}

func TestLoad_InvalidPortFallsBackToDefault(t *testing.T) {
	setEnv(t, map[string]string{"PORT": "not-a-number"})

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantKey string
	}{
		{name: "port out of range", env: map[string]string{"PORT": "70000"}, wantKey: "PORT"},
		{name: "unknown log level", env: map[string]string{"LOG_LEVEL": "verbose"}, wantKey: "LOG_LEVEL"},
		{name: "blank origins", env: map[string]string{"VERTA_ALLOWED_ORIGINS": " , "}, wantKey: "VERTA_ALLOWED_ORIGINS"},
		{name: "zero rate limit", env: map[string]string{"VERTA_RATE_LIMIT_PER_MINUTE": "0"}, wantKey: "VERTA_RATE_LIMIT_PER_MINUTE"},
		{name: "bad redis scheme", env: map[string]string{"REDIS_URL": "localhost:6379"}, wantKey: "REDIS_URL"},
		{name: "negative ttl", env: map[string]string{"UPLOAD_TTL": "-1m"}, wantKey: "UPLOAD_TTL"},
		{name: "unknown provider", env: map[string]string{"AI_PROVIDER": "openai"}, wantKey: "AI_PROVIDER"},
		{name: "zero timeout", env: map[string]string{"AI_INFERENCE_TIMEOUT_SECS": "0"}, wantKey: "AI_INFERENCE_TIMEOUT_SECS"},
		{name: "empty model list", env: map[string]string{"GEMINI_MODELS": ","}, wantKey: "GEMINI_MODELS"},
		{name: "negative retries", env: map[string]string{"GEMINI_UPLOAD_RETRIES": "-2"}, wantKey: "GEMINI_UPLOAD_RETRIES"},
		{name: "bad base url", env: map[string]string{"GEMINI_BASE_URL": "ftp://x"}, wantKey: "GEMINI_BASE_URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)

			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 7070
  env: staging
  allowed_origins: ["https://staging.verta.app"]
upload:
  ttl: 30m
ai:
  provider: mock
  inference_timeout: 90s
  gemini:
    models: [gemini-1.5-pro]
`)
	setEnv(t, map[string]string{"VERTA_CONFIG_FILE": path})

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "staging", cfg.Server.Env)
	assert.Equal(t, []string{"https://staging.verta.app"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.Upload.TTL)
	assert.Equal(t, "mock", cfg.AI.Provider)
	assert.Equal(t, 90*time.Second, cfg.AI.InferenceTimeout)
	assert.Equal(t, []string{"gemini-1.5-pro"}, cfg.AI.Gemini.Models)
	// keys missing from the file keep their defaults
	assert.Equal(t, "/tmp/uploads", cfg.Upload.Dir)
	assert.Equal(t, 30, cfg.Server.RateLimitPerMinute)
}

func TestLoad_EnvOverridesYAMLFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 7070\n")
	setEnv(t, map[string]string{"VERTA_CONFIG_FILE": path, "PORT": "6060"})

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port)
}

func TestLoad_MissingYAMLFile(t *testing.T) {
	setEnv(t, map[string]string{"VERTA_CONFIG_FILE": filepath.Join(t.TempDir(), "nope.yaml")})

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoad_MalformedYAMLFile(t *testing.T) {
	path := writeConfigFile(t, "server: [unclosed\n")
	setEnv(t, map[string]string{"VERTA_CONFIG_FILE": path})

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}
