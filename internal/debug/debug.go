// Package debug controls diagnostic output: verbose/quiet modes for the
// command output and the structured slog logger used by the sync phases.
package debug

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	enabled     = os.Getenv("DUNDERS_DEBUG") != ""
	verboseMode = false
	quietMode   = false

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet enables quiet mode (suppress non-essential output)
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// PrintNormal prints output unless quiet mode is enabled
// Use this for normal informational output that should be suppressed in quiet mode
func PrintNormal(format string, args ...interface{}) {
	if !quietMode {
		fmt.Fprintf(stdout, format, args...)
	}
}

// PrintlnNormal prints a line unless quiet mode is enabled
func PrintlnNormal(args ...interface{}) {
	if !quietMode {
		fmt.Fprintln(stdout, args...)
	}
}

// LogOptions configures the structured logger.
type LogOptions struct {
	Level string // debug, info, warn, error; empty means info (debug when verbose)
	File  string // optional rotating log file, in addition to stderr
	RunID string // attached to every record as "run"
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// NewLogger builds the run logger. Records go to stderr as text and, when
// opts.File is set, to a size-rotated file as JSON. The returned closer
// releases the file; it is never nil.
func NewLogger(opts LogOptions) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if opts.Level != "" {
		l, err := ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, err
		}
		level = l
	}
	if Enabled() && level > slog.LevelDebug {
		level = slog.LevelDebug
	}

	var handler slog.Handler = slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		handler = fanout{
			handler,
			slog.NewJSONHandler(lj, &slog.HandlerOptions{Level: slog.LevelDebug}),
		}
		closer = lj
	}

	logger := slog.New(handler)
	if opts.RunID != "" {
		logger = logger.With("run", opts.RunID)
	}
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
