package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"productapi/internal/config"
	"productapi/internal/logging"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel, os.Stdout)
	slog.SetDefault(logger)

	a, err := newApplication(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	// --- Start HTTP Server ---
	logger.Info("starting server", "addr", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.app.Listen(cfg.AppPort)
	}()

	exitCode := 0
	select {
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("server failed", "error", err)
		exitCode = 1
	}

	if err := a.app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		logger.Error("error during Fiber shutdown", "error", err)
	}
	if err := a.close(); err != nil {
		logger.Error("error releasing resources", "error", err)
	}

	logger.Info("server gracefully stopped")
	os.Exit(exitCode)
}
