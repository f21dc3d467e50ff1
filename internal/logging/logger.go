// Package logging wires the application slog logger with file rotation.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures logger construction.
type Options struct {
	Dir   string // log directory, created if missing
	Debug bool   // enables debug level
	Quiet bool   // drop stdout mirroring, file only
}

// New creates a JSON slog.Logger writing to a rotating file and, unless
// Quiet, to stdout.
func New(opts Options) *slog.Logger {
	dir := opts.Dir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}

	fileLogger := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "coincortex.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	var writer io.Writer = fileLogger
	if !opts.Quiet {
		writer = io.MultiWriter(os.Stdout, fileLogger)
	}

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level}))
}

// SetDefault installs the logger as both the slog and stdlib log default so
// packages that still use log.Printf end up in the same sink.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
