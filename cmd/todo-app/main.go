// Package main implements the todo-app CLI: it runs the web server and
// manages tasks in the configured store.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"todo-board/internal/config"
	"todo-board/internal/logger"
	"todo-board/internal/manager"
	"todo-board/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

var (
	ownerFlag   string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:          "todo-app",
	Short:        "To-do list web app and task manager",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// keep stdout clean for command output
		logger.SetOutput(os.Stderr)
		if verboseFlag {
			logger.SetLevel(logger.LevelDebug)
		} else {
			logger.SetLevel(logger.LevelWarn)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&ownerFlag, "owner", "", "Restrict operations to tasks of this owner")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log debug output to stderr")
}

// openManager reads config and opens the configured store. The returned func closes it.
func openManager(ctx context.Context) (*manager.TaskManager, *config.Config, func(), error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read config: %w", err)
	}

	store, err := storage.Open(ctx, cfg.Database.StorageOptions())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open %s storage: %w", cfg.Database.Backend, err)
	}

	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.Error(ctx, err, "failed to close storage")
		}
	}
	return manager.NewTaskManager(store), cfg, closeFn, nil
}

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}
