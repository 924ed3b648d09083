package cli

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogOptions selects where and how the CLI logs.
type LogOptions struct {
	Level  string // debug, info, warn or error
	Format string // text or json
	File   string // append to this file; empty or "-" logs to the fallback writer
}

func parseLevel(option string) (slog.Level, bool) {
	switch strings.ToLower(option) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// NewLogger builds a logger from opts. Logs go to fallback unless a file is
// named. Unparseable options fall back to defaults and are reported through
// the returned logger itself. The returned close function releases the log
// file, if any.
func NewLogger(opts LogOptions, fallback io.Writer) (*slog.Logger, func() error) {
	var warnings []string
	noop := func() error { return nil }

	level, ok := parseLevel(opts.Level)
	if !ok {
		warnings = append(warnings, "could not parse logger level")
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	output, closeFn := fallback, noop
	switch opts.File {
	case "", "-":
	case os.DevNull:
		return slog.New(slog.NewTextHandler(io.Discard, nil)), noop
	default:
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			warnings = append(warnings, "could not open logger file: "+err.Error())
		} else {
			output, closeFn = f, f.Close
		}
	}

	var logger *slog.Logger
	switch strings.ToLower(opts.Format) {
	case "json":
		logger = slog.New(slog.NewJSONHandler(output, handlerOpts))
	case "", "text":
		logger = slog.New(slog.NewTextHandler(output, handlerOpts))
	default:
		logger = slog.New(slog.NewTextHandler(output, handlerOpts))
		warnings = append(warnings, "could not parse logger format")
	}

	for _, w := range warnings {
		logger.Warn(w)
	}
	return logger, closeFn
}
