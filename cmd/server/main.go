package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/p-n-ai/pai-topics/internal/api"
	"github.com/p-n-ai/pai-topics/internal/curriculum"
	"github.com/p-n-ai/pai-topics/internal/editor"
	"github.com/p-n-ai/pai-topics/internal/platform/cache"
	"github.com/p-n-ai/pai-topics/internal/platform/config"
	"github.com/p-n-ai/pai-topics/internal/platform/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Log))

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	notifier := api.NewNotifier()
	events := editor.MultiEventLogger{notifier}

	var store editor.TopicStore = editor.NewMemoryStore()
	var checks []namedCheck

	if cfg.Database.Enabled {
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := editor.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		pgStore, err := editor.NewPostgresStore(db.Pool)
		if err != nil {
			return err
		}
		store = pgStore
		events = append(events, editor.NewPostgresEventLogger(db.Pool))
		checks = append(checks, namedCheck{"database", db})
		slog.Info("using postgres topic store")
	} else {
		slog.Info("using in-memory topic store")
	}

	if cfg.Cache.Enabled {
		c, err := cache.New(ctx, cfg.Cache)
		if err != nil {
			return err
		}
		defer c.Close()
		store = editor.NewCachedStore(store, c)
		checks = append(checks, namedCheck{"cache", c})
		slog.Info("topic cache enabled", "ttl", cfg.Cache.TTL)
	}

	seedCurriculum(store, cfg.CurriculumPath, events)

	h := api.NewHandler(store, events, notifier)
	for _, c := range checks {
		h.AddCheck(c.name, c.check)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      h.Mux(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	return nil
}

type namedCheck struct {
	name  string
	check api.HealthChecker
}

// seedCurriculum imports curriculum topics that the store does not hold yet.
// A missing or unreadable curriculum only disables seeding.
func seedCurriculum(store editor.TopicStore, path string, events editor.EventLogger) {
	loader, err := curriculum.NewLoader(path)
	if err != nil {
		slog.Warn("curriculum not loaded, skipping seed", "path", path, "error", err)
		return
	}
	if _, err := editor.Seed(store, loader.AllTopics(), events); err != nil {
		slog.Error("failed to seed topics", "path", path, "error", err)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
