package main

import (
	"log/slog"
	"os"

	"github.com/pthm-cable/agievo/cli"
)

func main() {
	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
