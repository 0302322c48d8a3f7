package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/opencell/reactor-core/internal/infrastructure/config"
)

// Logger is the structured logger handed to every subsystem. It is a
// thin wrapper over slog that carries the service and version fields
// so reactord lines stay attributable in shared log sinks.
type Logger struct {
	*slog.Logger
}

// New builds a logger from the logging section of config.yaml.
// Unrecognised format, level or output values fall back to json, info
// and stdout respectively.
func New(cfg config.LoggingConfig, version string) *Logger {
	handler := newHandler(writerFor(cfg.Output), cfg.Format, parseLevel(cfg.Level))
	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "reactord"),
		slog.String("version", version),
	})
	return &Logger{Logger: slog.New(handler)}
}

// With returns a child logger carrying extra default attributes,
// typically a component tag: logger.With("component", "runner").
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Default is the bootstrap logger for startup errors that happen
// before config.yaml has been read: JSON to stdout at info level.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}

func writerFor(output string) io.Writer {
	if strings.EqualFold(output, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// parseLevel maps a config level string onto slog, defaulting to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
