// Package obslog provides structured, colored logging for the HRC-20
// engine.
//
// Adapted from the teacher codebase's internal/log package: same global
// Logger + per-component child loggers + Init(level, jsonOutput, file)
// shape, renamed component set from the teacher's chain/p2p/consensus
// components to this engine's selector/commitreveal/signer/nodeclient/
// registry/orchestrator/rpc components (spec.md §2's layer table).
package obslog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

// Component loggers for each major subsystem.
var (
	Selector     zerolog.Logger
	CommitReveal zerolog.Logger
	Signer       zerolog.Logger
	NodeClient   zerolog.Logger
	Registry     zerolog.Logger
	Orchestrator zerolog.Logger
	RPC          zerolog.Logger
)

func init() {
	Logger = NewConsoleLogger(os.Stdout, "info")
	initComponentLoggers()
}

// Init initializes the logger with the given configuration. When file is
// non-empty, logs are written to both the console (colored or JSON
// depending on jsonOutput) and the file (always JSON for machine parsing).
func Init(level string, jsonOutput bool, file string) error {
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}

		lvl := parseLevel(level)

		var consoleWriter io.Writer
		if jsonOutput {
			consoleWriter = os.Stdout
		} else {
			consoleWriter = zerolog.ConsoleWriter{
				Out:        os.Stdout,
				TimeFormat: "15:04:05",
				NoColor:    false,
			}
		}

		multi := zerolog.MultiLevelWriter(consoleWriter, f)
		Logger = zerolog.New(multi).
			Level(lvl).
			With().
			Timestamp().
			Logger()
	} else if jsonOutput {
		Logger = NewJSONLogger(os.Stdout, level)
	} else {
		Logger = NewConsoleLogger(os.Stdout, level)
	}

	initComponentLoggers()
	return nil
}

// NewConsoleLogger creates a colored console logger.
func NewConsoleLogger(w io.Writer, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    false,
	}
	lvl := parseLevel(level)
	return zerolog.New(output).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// NewJSONLogger creates a structured JSON logger.
func NewJSONLogger(w io.Writer, level string) zerolog.Logger {
	lvl := parseLevel(level)
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger()
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

func initComponentLoggers() {
	Selector = Logger.With().Str("component", "selector").Logger()
	CommitReveal = Logger.With().Str("component", "commitreveal").Logger()
	Signer = Logger.With().Str("component", "signer").Logger()
	NodeClient = Logger.With().Str("component", "nodeclient").Logger()
	Registry = Logger.With().Str("component", "registry").Logger()
	Orchestrator = Logger.With().Str("component", "orchestrator").Logger()
	RPC = Logger.With().Str("component", "rpc").Logger()
}

// WithComponent returns a logger tagged with an arbitrary component name,
// for ad-hoc loggers outside the fixed set above.
func WithComponent(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

// Debug logs a debug message on the global logger.
func Debug() *zerolog.Event { return Logger.Debug() }

// Info logs an info message on the global logger.
func Info() *zerolog.Event { return Logger.Info() }

// Warn logs a warning message on the global logger.
func Warn() *zerolog.Event { return Logger.Warn() }

// Error logs an error message on the global logger.
func Error() *zerolog.Event { return Logger.Error() }

// Fatal logs a fatal message on the global logger and exits.
func Fatal() *zerolog.Event { return Logger.Fatal() }

// Benchmark times an operation and logs its duration at debug level.
func Benchmark(name string) func() {
	start := time.Now()
	return func() {
		Logger.Debug().
			Str("operation", name).
			Dur("duration", time.Since(start)).
			Msg("benchmark")
	}
}
