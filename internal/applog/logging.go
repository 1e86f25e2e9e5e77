// Package applog provides structured logging for the backtesting engine's
// ambient stack. The pure engine core never branches on anything logged
// here — a logger is accepted purely as a tracing sink, defaulting to a
// no-op logger when unset, so logging never compromises engine determinism.
package applog

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "cryptobacktest", "logs", "engine.log"),
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     30,
	}
}

// NewLogger creates a new logger with default configuration.
func NewLogger() zerolog.Logger {
	return NewLoggerWithConfig(DefaultLogConfig())
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
			FormatLevel: func(i interface{}) string {
				if ll, ok := i.(string); ok {
					switch ll {
					case "debug":
						return "\033[36mDBG\033[0m"
					case "info":
						return "\033[32mINF\033[0m"
					case "warn":
						return "\033[33mWRN\033[0m"
					case "error":
						return "\033[31mERR\033[0m"
					default:
						return ll
					}
				}
				return "???"
			},
		}
		writers = append(writers, consoleWriter)
	}

	if cfg.File {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err == nil {
			fileWriter := &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			}
			writers = append(writers, fileWriter)
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = os.Stdout
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	return zerolog.New(writer).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetDebugLevel sets the global log level to debug.
func SetDebugLevel() { zerolog.SetGlobalLevel(zerolog.DebugLevel) }

// SetInfoLevel sets the global log level to info.
func SetInfoLevel() { zerolog.SetGlobalLevel(zerolog.InfoLevel) }

// ContextKey is the type for context keys.
type ContextKey string

// LoggerKey is the context key for the logger.
const LoggerKey ContextKey = "logger"

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, falling back to a no-op
// logger so callers never need a nil check.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// LogRun logs the start or end of a backtest invocation.
func LogRun(logger zerolog.Logger, ruleSetID, asset string, candles, trades int, done bool) {
	event := logger.Info().Str("event", "run").Str("ruleset_id", ruleSetID).Str("asset", asset).Int("candles", candles)
	if done {
		event.Int("trades", trades).Msg("backtest completed")
		return
	}
	event.Msg("backtest started")
}

// LogTradeExec logs one simulated trade.
func LogTradeExec(logger zerolog.Logger, entryDate, exitDate, exitReason string, entryPrice, exitPrice, pnlAbs, pnlPct float64) {
	logger.Info().
		Str("event", "trade").
		Str("entry_date", entryDate).
		Str("exit_date", exitDate).
		Float64("entry_price", entryPrice).
		Float64("exit_price", exitPrice).
		Float64("pnl_abs", pnlAbs).
		Float64("pnl_pct", pnlPct).
		Str("exit_reason", exitReason).
		Msg("trade closed")
}

// LogWarning logs a non-fatal schema warning or data-range condition.
func LogWarning(logger zerolog.Logger, ruleSetID, message string) {
	logger.Warn().Str("event", "warning").Str("ruleset_id", ruleSetID).Msg(message)
}
