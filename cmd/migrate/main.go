// Command migrate creates or updates the tasks schema of the configured backend.
package main

import (
	"context"
	"os"

	"todo-board/internal/config"
	"todo-board/internal/logger"
	"todo-board/internal/storage"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Read()
	if err != nil {
		logger.Error(ctx, err, "failed to read config")
		os.Exit(1)
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	opts := cfg.Database.StorageOptions()
	ctx = logger.WithFields(ctx, "backend", opts.Backend)
	logger.Info(ctx, "running migration")

	// Open migrates before returning.
	store, err := storage.Open(ctx, opts)
	if err != nil {
		logger.Error(ctx, err, "migration failed")
		os.Exit(1)
	}

	count, err := store.Count(ctx)
	store.Close()
	if err != nil {
		logger.Error(ctx, err, "failed to count tasks after migration")
		os.Exit(1)
	}
	logger.Info(ctx, "migration complete", "tasks", count)
}
