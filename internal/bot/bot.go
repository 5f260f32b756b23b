// Package bot implements the application orchestrator: it runs the
// Telegram update listener and the reminder scheduler side by side and
// coordinates their graceful shutdown.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"

	"weatherbot/internal/reminder"
)

// Bot ties the Telegram listener and the reminder scheduler together.
type Bot struct {
	logger    *slog.Logger
	tgBot     *tgbot.Bot
	scheduler *reminder.Scheduler
}

// NewBot creates the orchestrator over an already wired Telegram bot and
// reminder scheduler.
func NewBot(logger *slog.Logger, tgBot *tgbot.Bot, scheduler *reminder.Scheduler) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		tgBot:     tgBot,
		scheduler: scheduler,
	}
}

// Run recovers persisted reminders, then starts the scheduler and the
// Telegram listener, blocking until the context is cancelled or a
// component fails.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	if err := b.scheduler.Recover(ctx); err != nil {
		return fmt.Errorf("failed to recover reminders: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram bot listener...")
		b.tgBot.Start(gCtx)
		b.logger.Info("Telegram bot listener stopped.")

		if gCtx.Err() == nil {
			b.logger.Warn("Telegram bot listener stopped unexpectedly without context cancellation.")
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		b.logger.Info("Starting reminder scheduler...")
		b.scheduler.Start()

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")

		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
