// Package main is the entrypoint for the VERTA API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kiranshivaraju/verta/internal/ai"
	"github.com/kiranshivaraju/verta/internal/analysis"
	"github.com/kiranshivaraju/verta/internal/api"
	"github.com/kiranshivaraju/verta/internal/api/handler"
	mw "github.com/kiranshivaraju/verta/internal/api/middleware"
	"github.com/kiranshivaraju/verta/internal/api/response"
	"github.com/kiranshivaraju/verta/internal/cache"
	"github.com/kiranshivaraju/verta/internal/config"
	"github.com/kiranshivaraju/verta/internal/upload"
	"github.com/kiranshivaraju/verta/pkg/models"
)

const (
	serviceName     = "VERTA API"
	version         = "1.0.0"
	shutdownTimeout = 30 * time.Second
)

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	slog.SetDefault(newLogger(os.Getenv("LOG_LEVEL")))

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}

func run() error {
	// 1. Load config, failing fast on invalid values
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(newLogger(cfg.Server.LogLevel))
	slog.Info("config loaded",
		"ai_provider", cfg.AI.Provider,
		"env", cfg.Server.Env,
		"api_key_present", cfg.AI.HasCredentials(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Optional Redis for rate limiting
	var (
		counters  cache.Cache
		rateLimit *mw.RateLimit
	)
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("create redis cache: %w", err)
		}
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		slog.Info("redis connected")
		counters = redisCache
		rateLimit = mw.NewRateLimit(redisCache, cfg.Server.RateLimitPerMinute)
	} else {
		slog.Info("REDIS_URL not set, rate limiting disabled")
	}

	// 3. AI provider, only when it can actually be called
	var provider models.AnalysisProvider
	if cfg.AI.HasCredentials() {
		provider, err = ai.NewProvider(ctx, cfg.AI)
		if err != nil {
			return fmt.Errorf("create AI provider: %w", err)
		}
		slog.Info("AI provider initialized", "provider", provider.Name())
	} else {
		slog.Warn("no AI credentials configured, serving sample analyses")
	}

	orchestrator := analysis.NewOrchestrator(provider, analysis.Options{
		HasCredentials:   cfg.AI.HasCredentials(),
		ModelPreferences: cfg.AI.Gemini.Models,
		InferenceTimeout: cfg.AI.InferenceTimeout,
	})

	// 4. Transient upload storage
	store, err := upload.NewStore(cfg.Upload.Dir, cfg.Upload.TTL)
	if err != nil {
		return fmt.Errorf("create upload store: %w", err)
	}
	go sweepUploads(ctx, store, sweepInterval(cfg.Upload.TTL))

	// 5. Build router with dependencies
	deps := api.Dependencies{
		RateLimit:      rateLimit,
		AllowedOrigins: cfg.Server.AllowedOrigins,

		InfoHandler:   infoHandler(),
		HealthHandler: healthHandler(cfg, counters),
		DebugHandler: handler.NewDebugHandler(handler.DebugInfo{
			Environment:    cfg.Server.Env,
			Provider:       cfg.AI.Provider,
			UploadDir:      store.Dir(),
			HasCredentials: orchestrator.HasCredentials(),
		}, orchestrator.Invoker()),
		UploadHandler:  handler.NewUploadHandler(store),
		AnalyzeHandler: handler.NewAnalyzeHandler(orchestrator),
	}

	router := api.NewRouter(deps)

	// 6. Start HTTP server. Timeouts cover a 200 MiB upload plus a slow analysis.
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// sweepInterval checks several times per TTL, at most once a minute and at least every 15 minutes.
func sweepInterval(ttl time.Duration) time.Duration {
	return min(max(ttl/4, time.Minute), 15*time.Minute)
}

func sweepUploads(ctx context.Context, store *upload.Store, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Sweep()
			if err != nil {
				slog.Warn("upload sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("expired uploads removed", "count", n)
			}
		}
	}
}

func infoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		response.Raw(w, http.StatusOK, map[string]any{
			"service": serviceName,
			"version": version,
			"status":  "running",
			"endpoints": []string{
				"GET /api/v1/health",
				"GET /api/v1/debug",
				"POST /api/v1/upload",
				"POST /api/v1/analyze",
			},
		})
	}
}

// healthHandler reports configuration and cache connectivity. A nil cache means Redis is disabled.
func healthHandler(cfg *config.Config, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{"cache": "disabled"}
		if c != nil {
			checks["cache"] = "ok"
			if err := c.Ping(r.Context()); err != nil {
				slog.Warn("health: cache ping failed", "error", err)
				checks["cache"] = "degraded"
				response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
					"One or more services degraded", checks)
				return
			}
		}

		response.Raw(w, http.StatusOK, map[string]any{
			"status":          "healthy",
			"service":         serviceName,
			"version":         version,
			"timestamp":       time.Now().UTC().Format(time.RFC3339),
			"api_key_present": cfg.AI.HasCredentials(),
			"environment":     cfg.Server.Env,
			"provider":        cfg.AI.Provider,
			"services":        checks,
		})
	}
}
