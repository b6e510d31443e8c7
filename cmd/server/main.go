package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/dietlog/internal/api"
	"github.com/dom/dietlog/internal/config"
	"github.com/dom/dietlog/internal/logging"
	"github.com/dom/dietlog/internal/metrics"
	"github.com/dom/dietlog/internal/repository/postgres"
	"github.com/dom/dietlog/internal/service"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database pool
	db, err := postgres.NewConnection(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Initialize repositories and services
	repos := postgres.NewRepositories(db)
	services := service.NewServices(repos)

	// Initialize router
	router := api.NewRouter(api.Deps{
		Services: services,
		DB:       db,
		Config:   cfg,
		Clock:    clockwork.NewRealClock(),
		Registry: metrics.NewRegistry(),
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	if err := postgres.Close(db); err != nil {
		slog.Error("failed to close database pool", "error", err)
	}

	slog.Info("server stopped")
}
