package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/wire"
	"github.com/mattn/go-isatty"
)

// LogLevelEnv selects the log level (debug, info, warn, error)
const LogLevelEnv = "AADEPLOY_LOG_LEVEL"

var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger creates a new logger based on runtime configuration.
// Logs go to stderr so stdout stays clean for command output.
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	level := levelFromEnv(os.Getenv(LogLevelEnv), slog.LevelWarn)
	if cfg.Debug {
		level = slog.LevelDebug
	}

	return slog.New(newHandler(os.Stderr, level, cfg.JSON))
}

func newHandler(w io.Writer, level slog.Level, json bool) slog.Handler {
	if json {
		return log.JSONHandlerWithLevel(w, level)
	}

	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return log.NewTerminalHandlerWithLevel(w, level, useColor)
}

func levelFromEnv(val string, fallback slog.Level) slog.Level {
	switch strings.ToLower(val) {
	case "trace":
		return log.LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// unknown value, keep default
		return fallback
	}
}
