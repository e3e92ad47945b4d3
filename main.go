package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/giygas/polypill-api/catalogparser"
	"github.com/giygas/polypill-api/config"
	"github.com/giygas/polypill-api/data"
	"github.com/giygas/polypill-api/handlers"
	"github.com/giygas/polypill-api/health"
	"github.com/giygas/polypill-api/logging"
	"github.com/giygas/polypill-api/scheduler"
	"github.com/giygas/polypill-api/server"
	"github.com/giygas/polypill-api/validation"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; fall back to the executable directory
	if err := godotenv.Load(); err != nil {
		if ex, exErr := os.Executable(); exErr == nil {
			_ = godotenv.Load(filepath.Join(filepath.Dir(ex), ".env"))
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.InitLoggerWithConfig("logs", cfg.Env, cfg.LogLevel, cfg.LogRetentionWeeks, cfg.MaxLogFileSize)
	defer func() {
		if err := logging.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to close log file: %v\n", err)
		}
	}()

	logging.Info("Configuration loaded",
		"env", cfg.Env.String(),
		"address", cfg.Address,
		"port", cfg.Port,
		"catalog_dir", cfg.CatalogDir,
		"max_sessions", cfg.MaxSessions,
		"session_ttl", cfg.SessionTTL.String())

	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())
	sessions := data.NewSessionStore(cfg.MaxSessions)
	validator := validation.NewValidator()
	loader := catalogparser.NewLoader(cfg.CatalogDir, validator)

	// The built-in catalog never changes, so only a catalog directory is reloaded
	var reloadInterval time.Duration
	if cfg.CatalogDir != "" {
		reloadInterval = time.Duration(cfg.CatalogReloadHours) * time.Hour
	}

	sched := scheduler.NewScheduler(dataContainer, sessions, loader, scheduler.Options{
		ReloadInterval: reloadInterval,
		SessionTTL:     cfg.SessionTTL,
	})
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	checker := health.NewHealthChecker(dataContainer, sessions, cfg.MaxSessions, reloadInterval)
	httpHandler := handlers.NewHTTPHandler(dataContainer, sessions, validator, checker)
	srv := server.NewServer(cfg, httpHandler)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logging.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			logging.Error("Server failed", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}
}
