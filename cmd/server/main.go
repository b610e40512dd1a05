package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/ticketpulse/ticketpulse/pkg/analytics"
	"github.com/ticketpulse/ticketpulse/pkg/config"
	"github.com/ticketpulse/ticketpulse/pkg/export"
	"github.com/ticketpulse/ticketpulse/pkg/live"
	"github.com/ticketpulse/ticketpulse/pkg/logging"
	"github.com/ticketpulse/ticketpulse/pkg/server"
	"github.com/ticketpulse/ticketpulse/pkg/server/monitor"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := logging.New(os.Getenv("APP_ENV"))
	logger.Info().Msg("starting ticketpulse server")

	cfg, err := server.LoadConfig(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Info().
		Str("backend", cfg.Backend).
		Str("port", cfg.Port).
		Int("retention_days", cfg.RetentionDays).
		Msg("configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := server.InitializeStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	defer store.Close()

	engine := analytics.New(store, logger)
	exporter := export.NewExporter(engine)
	importer := export.NewImporter(store)
	retention := &monitor.RetentionMonitor{}
	hub := live.NewHub(logger)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		server.RunRefresh(ctx, engine, hub, logger)
	}()

	stopCleanup := make(chan bool)
	wg.Add(1)
	go server.RunCleanup(engine, retention, cfg.RetentionDays, logger, stopCleanup, &wg)

	stopGC := make(chan bool)
	wg.Add(1)
	go server.RunBadgerGC(store, logger, stopGC, &wg)

	router := mux.NewRouter()
	handler := server.NewHandler(engine, exporter, importer, hub, logger)
	server.SetupRoutes(router, handler, retention, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutdown signal received")

	// Cancel the context before waiting on the group or the hub and refresh
	// goroutines never exit.
	cancel()
	close(stopCleanup)
	close(stopGC)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("server shutdown")
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info().Msg("background tasks stopped")
	case <-time.After(5 * time.Second):
		logger.Warn().Msg("some background tasks did not stop in time")
	}

	logger.Info().Msg("server exited")
}
