package logging

import (
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/giygas/polypill-api/config"
)

// parseLogLevel maps a LOG_LEVEL value to a slog level, defaulting to info
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetConsoleLogLevel picks the console level. Tests stay quiet unless run
// verbosely; elsewhere LOG_LEVEL overrides the per-environment default.
func GetConsoleLogLevel(env config.Environment, logLevelStr string, verbose bool) slog.Level {
	if env == config.EnvTest {
		if verbose {
			return slog.LevelInfo
		}
		return slog.LevelError
	}

	if logLevelStr != "" {
		return parseLogLevel(logLevelStr)
	}

	switch env {
	case config.EnvProduction, config.EnvStaging:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// GetFileLogLevel returns the level of the file handler; files keep everything
func GetFileLogLevel() slog.Level {
	return slog.LevelDebug
}

func isVerboseTestRun() bool {
	return slices.Contains(os.Args, "-test.v=true") || slices.Contains(os.Args, "-test.v")
}
