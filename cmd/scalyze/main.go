package main

import (
	"log/slog"
	"os"

	"scalyze/internal/slogutil"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger := slog.New(slogutil.NewLineHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		logger.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}
