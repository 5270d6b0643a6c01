package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dugout-io/dugout/internal/adapters/catalog"
	"github.com/dugout-io/dugout/internal/adapters/http/api"
	app "github.com/dugout-io/dugout/internal/app"
	"github.com/dugout-io/dugout/internal/config"
	"github.com/dugout-io/dugout/internal/domain/model"
	"github.com/dugout-io/dugout/internal/domain/optimizer"
	"github.com/dugout-io/dugout/pkg/logger"
	"github.com/dugout-io/dugout/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	mode, err := optimizer.ParseMode(cfg.DefaultMode)
	if err != nil {
		os.Stderr.WriteString("invalid default_mode: " + cfg.DefaultMode + "\n")
		return
	}

	presets := make([]model.Formation, 0, len(cfg.PresetFormations))
	for _, raw := range cfg.PresetFormations {
		f, perr := model.ParseFormation(raw)
		if perr != nil {
			log.Warn(ctx, "skipping invalid preset formation", logger.String("formation", raw))
			continue
		}
		presets = append(presets, f)
	}

	// Create and start the service with configuration options
	svc := app.New(
		catalog.NewFileProvider(cfg.CatalogPath),
		app.WithLogger(log.Named("service")),
		app.WithDefaultMode(mode),
		app.WithStateLimit(cfg.ExactStateLimit),
		app.WithNodeLimit(cfg.ExactNodeLimit),
		app.WithCacheSize(cfg.CacheSize),
		app.WithWorkerCount(cfg.PrecomputeWorkers),
		app.WithQueueSize(cfg.PrecomputeQueueSize),
		app.WithPresetFormations(presets),
		app.WithPresetBudget(cfg.PresetBudget),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()

	apiServer := api.NewServer(svc, svc, api.ServerConfig{
		MaxCandidatesLimit: cfg.MaxCandidatesLimit,
		OptimizePerSecond:  cfg.OptimizePerSecond,
		OptimizeBurst:      cfg.OptimizeBurst,
	})
	apiServer.Register(ctx, mux)

	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
