package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options controls logger construction.
type Options struct {
	// Level is the minimum enabled level: debug, info, warn, or error.
	Level string
	// Format selects the handler: "console" or "json".
	Format string
	// OutputPaths lists destinations for records. Supported values are
	// "stdout", "stderr", or a filesystem path. Paths are created on
	// first use.
	OutputPaths []string
	// Development enables source locations on every record.
	Development bool
}

// New builds a slog.Logger from the supplied options. The returned cleanup
// function closes any files the logger opened and must be called before
// process exit.
func New(opts Options) (*slog.Logger, func(), error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	outputs := defaultSlice(opts.OutputPaths, []string{"stdout"})
	writer, closers, err := openWriters(outputs)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	var handler slog.Handler
	switch format {
	case "console":
		handler = newPrettyHandler(writer, level, opts.Development)
	case "json":
		handler = newJSONHandler(writer, level, opts.Development)
	default:
		cleanup()
		return nil, nil, fmt.Errorf("unsupported log format %q", opts.Format)
	}

	return slog.New(handler), cleanup, nil
}

func parseLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unsupported log level %q", value)
	}
}

func defaultSlice(values []string, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

func openWriters(paths []string) (io.Writer, []io.Closer, error) {
	writers := make([]io.Writer, 0, len(paths))
	closers := make([]io.Closer, 0, len(paths))
	for _, path := range paths {
		switch path {
		case "stdout":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		default:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				closeAll(closers)
				return nil, nil, fmt.Errorf("create log directory for %s: %w", path, err)
			}
			file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				closeAll(closers)
				return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
			}
			writers = append(writers, file)
			closers = append(closers, file)
		}
	}
	if len(writers) == 1 {
		return writers[0], closers, nil
	}
	return io.MultiWriter(writers...), closers, nil
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}
