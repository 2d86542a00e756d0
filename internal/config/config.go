package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the VERTA server.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Upload UploadConfig `yaml:"upload"`
	AI     AIConfig     `yaml:"ai"`
}

type ServerConfig struct {
	Port               int      `yaml:"port"`
	Env                string   `yaml:"env"`
	LogLevel           string   `yaml:"log_level"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
}

// RedisConfig is optional. An empty URL disables rate limiting.
type RedisConfig struct {
	URL string `yaml:"url"`
}

type UploadConfig struct {
	Dir string        `yaml:"dir"`
	TTL time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	Provider         string        `yaml:"provider"`
	InferenceTimeout time.Duration `yaml:"inference_timeout"`
	Gemini           GeminiConfig  `yaml:"gemini"`
}

type GeminiConfig struct {
	APIKey        string   `yaml:"api_key"`
	BaseURL       string   `yaml:"base_url"`
	Models        []string `yaml:"models"`
	UploadRetries int      `yaml:"upload_retries"`
}

// HasCredentials reports whether the configured provider can be called.
// The mock provider needs none.
func (c AIConfig) HasCredentials() bool {
	switch c.Provider {
	case "mock":
		return true
	case "gemini":
		return c.Gemini.APIKey != ""
	}
	return false
}

var validProviders = map[string]bool{
	"gemini": true,
	"mock":   true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8080,
			Env:                "development",
			LogLevel:           "info",
			AllowedOrigins:     []string{"*"},
			RateLimitPerMinute: 30,
		},
		Upload: UploadConfig{
			Dir: "/tmp/uploads",
			TTL: time.Hour,
		},
		AI: AIConfig{
			Provider:         "gemini",
			InferenceTimeout: 120 * time.Second,
			Gemini: GeminiConfig{
				Models:        []string{"gemini-2.5-flash", "gemini-1.5-flash", "gemini-1.5-pro", "gemini-pro"},
				UploadRetries: 3,
			},
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// VERTA_CONFIG_FILE (if any), then environment variables, and validates the result.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("VERTA_CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Server.Port = envInt("PORT", cfg.Server.Port)
	cfg.Server.Env = envString("VERTA_ENV", cfg.Server.Env)
	cfg.Server.LogLevel = strings.ToLower(envString("LOG_LEVEL", cfg.Server.LogLevel))
	cfg.Server.AllowedOrigins = envList("VERTA_ALLOWED_ORIGINS", cfg.Server.AllowedOrigins)
	cfg.Server.RateLimitPerMinute = envInt("VERTA_RATE_LIMIT_PER_MINUTE", cfg.Server.RateLimitPerMinute)

	cfg.Redis.URL = envString("REDIS_URL", cfg.Redis.URL)

	cfg.Upload.Dir = envString("UPLOAD_DIR", cfg.Upload.Dir)
	cfg.Upload.TTL = envDuration("UPLOAD_TTL", cfg.Upload.TTL)

	cfg.AI.Provider = envString("AI_PROVIDER", cfg.AI.Provider)
	cfg.AI.InferenceTimeout = envDurationSecs("AI_INFERENCE_TIMEOUT_SECS", cfg.AI.InferenceTimeout)
	cfg.AI.Gemini.APIKey = envString("GEMINI_API_KEY", cfg.AI.Gemini.APIKey)
	cfg.AI.Gemini.BaseURL = envString("GEMINI_BASE_URL", cfg.AI.Gemini.BaseURL)
	cfg.AI.Gemini.Models = envList("GEMINI_MODELS", cfg.AI.Gemini.Models)
	cfg.AI.Gemini.UploadRetries = envInt("GEMINI_UPLOAD_RETRIES", cfg.AI.Gemini.UploadRetries)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile overlays the YAML document at path onto cfg. Keys absent from the file keep their value.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if !validLogLevels[c.Server.LogLevel] {
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", c.Server.LogLevel)
	}

	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("VERTA_ALLOWED_ORIGINS must list at least one origin")
	}

	if c.Server.RateLimitPerMinute <= 0 {
		return fmt.Errorf("VERTA_RATE_LIMIT_PER_MINUTE must be positive, got %d", c.Server.RateLimitPerMinute)
	}

	if c.Redis.URL != "" && !strings.HasPrefix(c.Redis.URL, "redis://") && !strings.HasPrefix(c.Redis.URL, "rediss://") {
		return fmt.Errorf("REDIS_URL must start with redis:// or rediss://, got %q", c.Redis.URL)
	}

	if c.Upload.Dir == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}
	if c.Upload.TTL <= 0 {
		return fmt.Errorf("UPLOAD_TTL must be positive, got %s", c.Upload.TTL)
	}

	if !validProviders[c.AI.Provider] {
		return fmt.Errorf("AI_PROVIDER must be one of gemini, mock; got %q", c.AI.Provider)
	}
	if c.AI.InferenceTimeout <= 0 {
		return fmt.Errorf("AI_INFERENCE_TIMEOUT_SECS must be positive")
	}
	if len(c.AI.Gemini.Models) == 0 {
		return fmt.Errorf("GEMINI_MODELS must list at least one model")
	}
	if c.AI.Gemini.UploadRetries < 0 {
		return fmt.Errorf("GEMINI_UPLOAD_RETRIES must not be negative, got %d", c.AI.Gemini.UploadRetries)
	}
	if c.AI.Gemini.BaseURL != "" && !strings.HasPrefix(c.AI.Gemini.BaseURL, "http://") && !strings.HasPrefix(c.AI.Gemini.BaseURL, "https://") {
		return fmt.Errorf("GEMINI_BASE_URL must start with http:// or https://, got %q", c.AI.Gemini.BaseURL)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}

// envList splits a comma-separated variable, dropping blank entries.
func envList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
