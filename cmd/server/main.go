// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iyunix/go-chatnest/internal/config"
	"github.com/iyunix/go-chatnest/internal/services"
	"github.com/iyunix/go-chatnest/internal/telemetry"
)

const serviceName = "go-chatnest"

func main() {
	cfg := config.Load()
	logger := services.NewLogger(serviceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg.OTLPEndpoint, serviceName, cfg.Environment)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize tracing: %v", err)
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(c); err != nil {
			logger.Warn("tracer shutdown failed", "error", err.Error())
		}
	}()

	app, err := NewApplication(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize application: %v", err)
	}
	defer app.Close()

	// --- Server Configuration ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           app.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		// Completions may take up to CompletionTimeout; leave headroom for the
		// database writes that follow.
		WriteTimeout: cfg.CompletionTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"addr", srv.Addr,
			"env", cfg.Environment,
			"db_driver", cfg.DBDriver,
			"completion_provider", cfg.CompletionProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// --- Graceful Shutdown ---
	select {
	case err := <-serverErr:
		logger.Error("server failed", "error", err.Error())
		app.Close()
		os.Exit(1)
	case <-ctx.Done():
	}

	logger.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err.Error())
		return
	}
	logger.Info("server stopped")
}
