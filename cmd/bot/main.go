// Package main contains the entrypoint for the weather bot application.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbot "github.com/go-telegram/bot"
	"github.com/jonboulle/clockwork"

	"weatherbot/internal/bot"
	"weatherbot/internal/config"
	"weatherbot/internal/database"
	"weatherbot/internal/forecast"
	"weatherbot/internal/logger"
	"weatherbot/internal/reminder"
	"weatherbot/internal/session"
	"weatherbot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all application components (config, logger, db, forecast
// client, scheduler, session manager, telegram transport), starts the run
// loop, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	forecastClient := forecast.NewClient(log, cfg.Forecast.BaseURL, cfg.Forecast.GeocodingURL, cfg.Forecast.Timeout)

	// The sender needs the bot instance and the dispatch handler needs the
	// session manager, which needs the scheduler, which needs the sender.
	// Wire the bot first with a late-bound default handler; dispatch is
	// assigned below, before the bot starts consuming updates.
	var dispatch tgbot.HandlerFunc
	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(telegram.NewDeferredHandler(&dispatch)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}
	sender := telegram.NewSender(tg, log)

	scheduler, err := reminder.New(log, store, forecastClient, sender, clockwork.NewRealClock(), cfg.Messages.PlaceNotFound)
	if err != nil {
		log.Error("Failed to create reminder scheduler", "error", err)
		return 1
	}

	manager := session.NewManager(log, store, forecastClient, scheduler, cfg.Messages)
	dispatch = telegram.NewDispatchHandler(manager, sender, log)

	app := bot.NewBot(log, tg, scheduler)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
