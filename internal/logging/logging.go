package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"venuecatalog/backend/internal/config"
)

// Cleanup closes whatever New opened.
type Cleanup func() error

// New builds the process logger. Records go to stdout and, when cfg.File is set, are
// appended to that file too. Every record carries the service name.
func New(cfg config.LoggingConfig, service string) (*slog.Logger, Cleanup, error) {
	var out io.Writer = os.Stdout
	closeFile := func() error { return nil }
	if cfg.File != "" {
		f, err := openLogFile(cfg.File)
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(os.Stdout, f)
		closeFile = f.Close
	}

	logger := slog.New(newHandler(out, cfg)).With("service", service)
	return logger, closeFile, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(w io.Writer, cfg config.LoggingConfig) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: true,
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
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
