package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"todo-board/internal/config"
	"todo-board/internal/logger"
	"todo-board/internal/server"
	"todo-board/internal/weather"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.SetOutput(os.Stdout)

	tm, cfg, closeStore, err := openManager(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if !verboseFlag {
		logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	}
	if cfg.Env == config.EnvLocal {
		logger.SetPretty()
	}
	logger.Info(ctx, "starting todo-app", "env", cfg.Env, "backend", cfg.Database.Backend)

	weatherClient := weather.NewClient(weather.Options{
		APIKey:   cfg.Weather.APIKey,
		BaseURL:  cfg.Weather.BaseURL,
		Lang:     cfg.Weather.Lang,
		Timeout:  cfg.Weather.Timeout,
		CacheTTL: cfg.Weather.CacheTTL,
	})
	if !weatherClient.Enabled() {
		logger.Warn(ctx, "OPENWEATHER_API_KEY not set, weather sidebar disabled")
	}

	router := server.NewRouter(tm, server.Options{
		Weather: weatherClient,
		City:    cfg.Weather.City,
	})

	return server.ListenAndServe(ctx, cfg.HTTP.Addr(), router, cfg.HTTP.ShutdownTimeout)
}
