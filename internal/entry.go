// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/habitus/internal/api"
	"github.com/starford/habitus/internal/habitstore"
	"github.com/starford/habitus/internal/journal"
	"github.com/starford/habitus/internal/mcpserver"
	"github.com/starford/habitus/internal/metrics"
	"github.com/starford/habitus/internal/models"
	"github.com/starford/habitus/internal/seed"
	"github.com/starford/habitus/internal/sse"
	"github.com/starford/habitus/internal/view"
)

// runtime holds the components shared by the HTTP and MCP front ends.
type runtime struct {
	cfg     *Config
	logger  *slog.Logger
	db      *journal.DB
	store   *habitstore.Store
	views   *view.Builder
	broker  *sse.Broker
	metrics *metrics.Metrics
}

func (rt *runtime) close() {
	rt.store.Close()
	rt.broker.Close()
	if err := rt.db.Close(); err != nil {
		rt.logger.Warn("journal close failed", slog.String("error", err.Error()))
	}
}

func setup(ctx context.Context, opts ...Option) (*runtime, error) {
	app := &application{logOutput: os.Stdout, clock: time.Now}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("journal_path", cfg.Journal.Path),
		slog.String("seed_path", cfg.Seed.Path),
		slog.Bool("seed_watch", cfg.Seed.Watch),
		slog.Duration("pulse_duration", cfg.Pulse.Duration),
		slog.String("log_level", cfg.App.LogLevel.String()))

	records, err := seed.Load(cfg.Seed.Path)
	if err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}

	db, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}

	store, err := habitstore.New(records,
		habitstore.WithClock(app.clock),
		habitstore.WithLogger(logger),
		habitstore.WithPulseDuration(cfg.Pulse.Duration),
		habitstore.WithEventCallback(db.Recorder(logger)),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}

	if err := db.RecordSeed(ctx, store.Habits(), store.WeekStart(), store.Now()); err != nil {
		logger.Warn("journal seed failed", slog.String("error", err.Error()))
	}

	broker := sse.NewBroker(500 * time.Millisecond)
	m := metrics.New(store)
	store.Subscribe(broker.HabitObserver(store))
	store.Subscribe(m.Observer())

	logger.Info("Habits loaded", slog.Int("count", len(store.Habits())))

	return &runtime{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		store:   store,
		views:   view.NewBuilder(store, db),
		broker:  broker,
		metrics: m,
	}, nil
}

func (rt *runtime) applySeed(records []models.Habit) error {
	added, updated, err := rt.store.ApplySeed(records)
	if err != nil {
		return err
	}
	rt.logger.Info("seed reloaded", slog.Int("added", added), slog.Int("updated", updated))
	return nil
}

func (rt *runtime) router() chi.Router {
	cfg := rt.cfg
	apiRouter := api.NewRouter(rt.store, rt.views, rt.db, cfg.Auth.AuthEnabled(), cfg.Auth.Token, rt.broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := rt.db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"journal unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", rt.metrics.Handler())

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)
	return r
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	rt, err := setup(ctx, opts...)
	if err != nil {
		return err
	}
	defer rt.close()

	cfg := rt.cfg
	logger := rt.logger

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: rt.router(),
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Reload habit metadata when the seed file changes.
	if cfg.Seed.Watch && cfg.Seed.Path != "" {
		g.Go(func() error {
			if err := seed.Watch(gCtx, cfg.Seed.Path, logger, rt.applySeed); err != nil {
				logger.Warn("seed watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Close SSE streams first so Shutdown does not wait on them.
		rt.broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the MCP tools on stdin/stdout until the client disconnects.
func RunMCP(ctx context.Context, opts ...Option) error {
	rt, err := setup(ctx, append([]Option{WithLogOutput(os.Stderr)}, opts...)...)
	if err != nil {
		return err
	}
	defer rt.close()

	rt.logger.Info("Starting MCP server on stdio")
	if err := mcpserver.New(rt.store, rt.views).ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
