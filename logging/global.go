package logging

import (
	"log/slog"
	"os"
	"sync"

	"github.com/giygas/polypill-api/config"
)

type LoggingService struct {
	Logger         *slog.Logger
	rotatingLogger *RotatingLogger
}

var (
	DefaultLoggingService *LoggingService
	serviceMu             sync.Mutex
)

// InitLogger initializes the global logger instance with development defaults
func InitLogger(logDir string) {
	InitLoggerWithConfig(logDir, config.EnvDevelopment, "", 4, 100*1024*1024)
}

// InitLoggerWithConfig initializes the global logger. An empty logDir logs to
// the console only. Any previously initialized service is closed first.
func InitLoggerWithConfig(logDir string, env config.Environment, logLevel string, retentionWeeks int, maxFileSize int64) {
	serviceMu.Lock()
	defer serviceMu.Unlock()

	if DefaultLoggingService != nil && DefaultLoggingService.rotatingLogger != nil {
		_ = DefaultLoggingService.rotatingLogger.Close()
	}

	logger, rotating := setupLogger(logDir, env, logLevel, retentionWeeks, maxFileSize)
	DefaultLoggingService = &LoggingService{
		Logger:         logger,
		rotatingLogger: rotating,
	}
	slog.SetDefault(logger)
}

// Close flushes and closes the log file, if any
func Close() error {
	serviceMu.Lock()
	defer serviceMu.Unlock()

	if DefaultLoggingService == nil || DefaultLoggingService.rotatingLogger == nil {
		return nil
	}
	err := DefaultLoggingService.rotatingLogger.Close()
	DefaultLoggingService.rotatingLogger = nil
	return err
}

// Logger returns the configured logger, or the slog default before init
func Logger() *slog.Logger {
	serviceMu.Lock()
	defer serviceMu.Unlock()

	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return slog.Default()
	}
	return DefaultLoggingService.Logger
}

// Package-level functions for direct access

func current(level slog.Level) *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		// Fallback to console logger if not initialized
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	return DefaultLoggingService.Logger
}

func Info(msg string, args ...any) {
	current(slog.LevelInfo).Info(msg, args...)
}

func Error(msg string, args ...any) {
	current(slog.LevelError).Error(msg, args...)
}

func Warn(msg string, args ...any) {
	current(slog.LevelWarn).Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	current(slog.LevelDebug).Debug(msg, args...)
}
