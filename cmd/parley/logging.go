package main

import (
	"log/slog"
	"os"
)

// setupLogger configures the default slog logger. Verbose mode turns on
// debug-level output, including per-request dispatch records.
func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
