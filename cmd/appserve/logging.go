package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/dogmatiq/ferrite"
	"github.com/dogmatiq/imbue"
)

var (
	debugEnabled = ferrite.
		Bool("DEBUG", "enable debug logging").
		WithDefault(false).
		Required()
)

func init() {
	imbue.With0(
		container,
		func(
			ctx imbue.Context,
		) (*slog.Logger, error) {
			return newLogger(os.Stderr, debugEnabled.Value(), version), nil
		},
	)
}

// newLogger returns the process-wide logger. Every entry carries the build
// version, if known, so that logs from different releases can be told apart.
func newLogger(w io.Writer, debug bool, version string) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(
		slog.NewTextHandler(
			w,
			&slog.HandlerOptions{
				Level: level,
			},
		),
	)

	if version != "" {
		logger = logger.With(slog.String("version", version))
	}

	return logger
}
