// Command telegram-bot serves the task list over Telegram. Every chat owns its own tasks.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"todo-board/internal/config"
	"todo-board/internal/logger"
	"todo-board/internal/manager"
	"todo-board/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Read()
	if err != nil {
		logger.Error(ctx, err, "failed to read config")
		os.Exit(1)
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	if cfg.Env == config.EnvLocal {
		logger.SetPretty()
	}

	if cfg.Telegram.Token == "" {
		logger.Error(ctx, errors.New("TELEGRAM_TOKEN is empty"), "telegram token is required")
		os.Exit(1)
	}

	store, err := storage.Open(ctx, cfg.Database.StorageOptions())
	if err != nil {
		logger.Error(ctx, err, "failed to open storage", "backend", cfg.Database.Backend)
		os.Exit(1)
	}
	defer store.Close()

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Error(ctx, err, "failed to create telegram client")
		return
	}
	api.Debug = cfg.Telegram.Debug
	logger.Info(ctx, "authorized on telegram", "bot", api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := api.GetUpdatesChan(u)
	if err != nil {
		logger.Error(ctx, err, "failed to subscribe to updates")
		return
	}

	bot := NewBot(api, manager.NewTaskManager(store))
	logger.Info(ctx, "bot started")
	bot.Run(ctx, updates)

	api.StopReceivingUpdates()
	logger.Info(ctx, "bot stopped")
}
