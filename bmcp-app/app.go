package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/compose-network/bmcp/bmcp-app/config"
	"github.com/compose-network/bmcp/metrics"
	apisrv "github.com/compose-network/bmcp/server/api"
	apimw "github.com/compose-network/bmcp/server/api/middleware"
	"github.com/compose-network/bmcp/x/bridge"
	bridgehttp "github.com/compose-network/bmcp/x/bridge/http"
)

// App represents the bridge gateway application
type App struct {
	cfg      *config.Config
	log      zerolog.Logger
	pipeline *pipeline
	started  time.Time

	// API server (HTTP)
	apiServer *apisrv.Server

	// Shutdown management
	shutdownFns []func() error

	cancel context.CancelFunc
}

// NewApp creates a new application instance
func NewApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	app := &App{
		cfg:         cfg,
		log:         log.With().Str("component", "app").Logger(),
		shutdownFns: make([]func() error, 0),
	}

	if err := app.initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}

	return app, nil
}

// initialize sets up the application components
func (a *App) initialize(_ context.Context) error {
	var m *bridge.Metrics
	if a.cfg.Metrics.Enabled {
		m = bridge.NewMetrics()
	}

	p, err := newPipeline(a.cfg, m, a.log)
	if err != nil {
		return err
	}
	a.pipeline = p

	a.log.Info().
		Int("chains", p.chains.Len()).
		Bool("check_deadline", a.cfg.Validation.CheckDeadline).
		Msg("Bridge pipeline initialized")

	a.initializeAPIServer()
	return nil
}

// initializeAPIServer sets up the HTTP API server and its routes
func (a *App) initializeAPIServer() {
	s := apisrv.NewServer(a.cfg.API, a.log)
	s.Use(apimw.Recover(a.log))
	s.Use(apimw.RequestID())
	s.Use(apimw.Logger(a.log))
	s.Use(apimw.BodyLimit(a.cfg.API.MaxBodyBytes))
	if len(a.cfg.API.CORSOrigins) > 0 {
		s.EnableCORS()
	}

	s.Router.HandleFunc("/health", a.handleHealth).Methods(http.MethodGet)
	s.Router.HandleFunc("/ready", a.handleReady).Methods(http.MethodGet)
	s.Router.HandleFunc("/stats", a.handleStats).Methods(http.MethodGet)

	// Metrics
	if a.cfg.Metrics.Enabled {
		s.Router.Use(apimw.Metrics(apimw.NewHTTPMetrics(metrics.NewComponentRegistry("api", ""))))
		s.Router.Handle(a.cfg.Metrics.Path, promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})).
			Methods(http.MethodGet)
	}

	// Bridge API
	h := bridgehttp.NewHandler(a.pipeline.encoder, a.pipeline.decoder, a.pipeline.chains, a.log)
	h.RegisterMux(s.Router)

	a.apiServer = s
}

// Run starts the application and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.started = time.Now()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.apiServer.Start(runCtx)
	}()

	return a.runWithGracefulShutdown(runCtx, errCh)
}

// runWithGracefulShutdown handles shutdown signals.
func (a *App) runWithGracefulShutdown(ctx context.Context, serverErr <-chan error) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	a.log.Info().Msg("Bridge gateway started successfully")

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info().Msg("Context canceled, initiating shutdown")
	case sig := <-sigCh:
		a.log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-serverErr:
		if err != nil {
			a.log.Error().Err(err).Msg("API server error")
			runErr = fmt.Errorf("api server: %w", err)
		}
	}

	if a.cancel != nil {
		a.cancel()
	}

	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// shutdown runs the registered shutdown functions. The HTTP server stops on
// its own once the run context is canceled.
func (a *App) shutdown() error {
	a.log.Info().Msg("Initiating graceful shutdown")

	for _, fn := range a.shutdownFns {
		if err := fn(); err != nil {
			a.log.Error().Err(err).Msg("Shutdown function error")
		}
	}

	a.log.Info().Msg("Graceful shutdown complete")
	return nil
}

// handleHealth responds to health check requests.
func (a *App) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}

func (a *App) handleReady(w http.ResponseWriter, _ *http.Request) {
	n := a.pipeline.chains.Len()

	status := "ready"
	code := http.StatusOK

	if n == 0 {
		status = "no_chains"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"status":"%s","chains":%d}`, status, n)
}

func (a *App) handleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a.GetStats())
}

// GetStats returns application statistics.
func (a *App) GetStats() map[string]any {
	stats := map[string]any{
		"chains":         a.pipeline.chains.Len(),
		"check_deadline": a.cfg.Validation.CheckDeadline,
		"app_version":    Version,
		"app_build_time": BuildTime,
		"app_git_commit": GitCommit,
	}
	if !a.started.IsZero() {
		stats["uptime_seconds"] = int64(time.Since(a.started).Seconds())
	}
	return stats
}
