package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/0xReLogic/Janus/internal/chaos"
	"github.com/0xReLogic/Janus/internal/config"
	"github.com/0xReLogic/Janus/internal/logging"
	"github.com/0xReLogic/Janus/internal/server"
	"github.com/0xReLogic/Janus/internal/version"
)

func main() {
	// A .env file is a local convenience; deployments set the environment
	// directly, so a missing file is not an error.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	if err := logging.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Sync()

	logging.GetLogger().Info("janus_starting",
		zap.String("pool", cfg.Pool),
		zap.String("release_id", cfg.ReleaseID),
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("build_date", version.Date),
	)

	srv := server.New(cfg, chaos.NewState())

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logging.GetLogger().Fatal("failed_to_start_server", zap.Error(err))
		}
	}()

	// Wait for termination signal
	sig := <-sigCh
	logging.GetLogger().Info("shutting_down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()

	// Timeout-mode hangs never drain on their own, so when the grace
	// period expires we sever whatever is still connected.
	if err := srv.Shutdown(ctx); err != nil {
		logging.GetLogger().Warn("graceful_shutdown_incomplete", zap.Error(err))
		if err := srv.Close(); err != nil {
			logging.GetLogger().Error("forced_close_failed", zap.Error(err))
		}
	}

	logging.GetLogger().Info("janus_stopped", zap.String("pool", cfg.Pool))
}
