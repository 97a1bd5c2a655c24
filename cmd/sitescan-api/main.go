package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olegrjumin/sitescan/internal/config"
	"github.com/olegrjumin/sitescan/internal/httpapi"
	"github.com/olegrjumin/sitescan/internal/httpclient"
	"github.com/olegrjumin/sitescan/internal/logging"
	"github.com/olegrjumin/sitescan/internal/scanner"
	"github.com/olegrjumin/sitescan/internal/service"
)

func main() {
	// Load configuration from environment variables
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)

	// Signature tables are embedded; fail fast if they do not compile
	if _, err := scanner.LoadSignatures(); err != nil {
		logger.Error("Failed to load detector signatures", "error", err)
		os.Exit(1)
	}

	// One pooled HTTP client serves the crawler and every detector
	httpClient := httpclient.NewClient(
		httpclient.WithTimeout(cfg.RequestTimeout),
		httpclient.WithMaxBodyBytes(cfg.MaxBodyBytes),
	)

	scan := scanner.New(httpClient, logger, scanner.Options{
		UserAgent:           cfg.DefaultUserAgent,
		MaxInFlight:         cfg.MaxInFlight,
		DetectorConcurrency: cfg.DetectorConcurrency,
		ReuseBodies:         cfg.ReuseBodies,
	})

	svc := service.New(scan, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := httpapi.NewServer(addr, logger, svc, cfg.AllowedOrigins)

	// Channel to listen for OS signals (Ctrl+C, kill, etc.)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "allowed_origins", cfg.AllowedOrigins)
		if err := server.ListenAndServe(); err != nil {
			logger.Error("Server error", "error", err)
		}
	}()

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Scans cannot be aborted; give running ones a moment to finish
	if err := svc.Wait(ctx); err != nil {
		logger.Warn("Exiting with scans still running", "error", err)
	}

	logger.Info("Server stopped gracefully")
}
