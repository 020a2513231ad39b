package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

const (
	logFormatJSON = "json"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	level  slog.Level
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lr.level
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}

	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// newLogger builds the process logger. format is "text" or "json", level one of debug, info, warn, error.
// Unknown values fall back to text and info.
func newLogger(stdout io.Writer, stderr io.Writer, format string, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	newHandler := func(w io.Writer) slog.Handler {
		if strings.EqualFold(format, logFormatJSON) {
			return slog.NewJSONHandler(w, opts)
		}

		return slog.NewTextHandler(w, opts)
	}

	return slog.New(&levelRouter{
		level:  opts.Level.Level(),
		stdout: newHandler(stdout),
		stderr: newHandler(stderr),
	})
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}

	return l
}
