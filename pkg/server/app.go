package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	drepo "SectorPulse/internal/domain/repository"
	"SectorPulse/internal/usecase"
	"SectorPulse/pkg/cache"
	pkgch "SectorPulse/pkg/clickhouse"
	"SectorPulse/pkg/config"
	xhttp "SectorPulse/pkg/http"
	applogger "SectorPulse/pkg/logger"
)

// App encapsulates the application lifecycle: HTTP serving, background
// warm-up, and ordered shutdown of infrastructure clients.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	analysis   *usecase.AnalysisService
	runner     *usecase.TrainingRunner
	chClient   *pkgch.Client // optional
	publisher  drepo.Publisher
	snapshots  cache.Store
	httpServer *xhttp.Server
}

// New creates a new App instance. chClient, publisher, and snapshots may be
// nil when the corresponding backend is disabled.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	analysis *usecase.AnalysisService,
	runner *usecase.TrainingRunner,
	chClient *pkgch.Client,
	publisher drepo.Publisher,
	snapshots cache.Store,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		handler:   handler,
		analysis:  analysis,
		runner:    runner,
		chClient:  chClient,
		publisher: publisher,
		snapshots: snapshots,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithRequestMetrics(a.log, 500*time.Millisecond),
	)

	// Warm the market data bundle so the first API call does not pay the
	// full fetch latency. Failures here are not fatal; the first request
	// retries the load.
	go func() {
		if _, err := a.analysis.Refresh(ctx); err != nil {
			a.log.Warn("initial market data load failed", applogger.Error(err))
		}
	}()

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("sectorpulse started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	a.runner.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.snapshots != nil {
		if err := a.snapshots.Close(); err != nil {
			a.log.Warn("snapshot store close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
