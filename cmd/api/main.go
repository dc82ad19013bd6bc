// Package main is the entry point for the DFW Explorer API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/dfw-explorer/internal/app"
	"github.com/pkordes/dfw-explorer/internal/config"
	"github.com/pkordes/dfw-explorer/internal/handler"
	"github.com/pkordes/dfw-explorer/internal/logging"
	"github.com/pkordes/dfw-explorer/internal/middleware"
	"github.com/pkordes/dfw-explorer/internal/repo"
	"github.com/pkordes/dfw-explorer/internal/service"
)

func main() {
	// --- Config -----------------------------------------------------------
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger, closeLog := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer closeLog()
	slog.SetDefault(logger)

	// --- Storage ----------------------------------------------------------
	kv, closeStore, err := app.OpenStore(context.Background(), cfg, logger)
	if err != nil {
		slog.Error("failed to open trip store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// --- Services ---------------------------------------------------------
	client := &http.Client{}
	places := app.NewFetcher(cfg, client, logger)
	tripRepo := repo.NewTripRepo(kv, logger)
	trips := service.NewTripService(tripRepo)
	exports := service.NewExportService(tripRepo, cfg.MaxImportBytes)
	shares := service.NewShareService(trips, places, cfg.PublicURL, logger)

	srv := handler.NewServer(places, trips, exports, shares,
		handler.WithLogger(logger),
		handler.WithImportLimit(cfg.MaxImportBytes),
	)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr, "store", cfg.StoreDriver, "primary", cfg.PrimaryURL != "")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
