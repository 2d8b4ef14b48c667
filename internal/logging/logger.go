// Package logging constructs the slog loggers used across cadenza.
//
// Two handler formats are supported: a compact colorized console handler for
// interactive use and a JSON handler for machine consumption. Verbosity from
// the command line maps onto slog levels through LevelFromVerbosity.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options describes logger construction parameters.
type Options struct {
	// Level is a slog level resolved from command-line verbosity.
	Level slog.Level
	// Format is "console" or "json".
	Format string
	// Output defaults to stderr.
	Output io.Writer
	// DebugLogFile, when set, receives a parallel debug-level copy of every
	// record regardless of Level.
	DebugLogFile string
	// AddSource annotates records with file:line.
	AddSource bool
}

// LevelFromVerbosity maps the command-line verbosity counter to a slog level:
// -1 (quiet) logs warnings only, 0 is the info default, and 1 or more enables
// debug output.
func LevelFromVerbosity(verbosity int) slog.Level {
	switch {
	case verbosity <= -1:
		return slog.LevelWarn
	case verbosity == 0:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// New constructs a logger from the provided options.
func New(opts Options) (*slog.Logger, error) {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = newJSONHandler(output, opts.Level, opts.AddSource)
	case "console":
		handler = newConsoleHandler(output, opts.Level, opts.AddSource)
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	if opts.DebugLogFile != "" {
		file, err := openLogFile(opts.DebugLogFile)
		if err != nil {
			return nil, err
		}
		debug := newJSONHandler(file, slog.LevelDebug, true)
		handler = newTeeHandler(handler, debug)
	}

	return slog.New(handler), nil
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}

func newJSONHandler(w io.Writer, level slog.Level, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	})
}
