// Package telegram adapts the go-telegram/bot transport to the session
// manager and the reminder scheduler: it feeds inbound updates into the
// state machine and delivers outbound replies with inline keyboards.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"weatherbot/internal/session"
)

// NewTelegramBot creates a new Telegram bot instance using the
// go-telegram/bot library.
func NewTelegramBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created successfully")
	return b, nil
}

// Sender delivers outbound messages to chats. It implements the messenger
// collaborator consumed by the reminder scheduler. Delivery failures are
// logged, not retried.
type Sender struct {
	b      *bot.Bot
	logger *slog.Logger
}

// NewSender creates a Sender over an existing bot instance.
func NewSender(b *bot.Bot, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{
		b:      b,
		logger: logger.With("component", "telegram_sender"),
	}
}

// Send delivers a plain text message to a chat.
func (s *Sender) Send(ctx context.Context, chatID int64, text string) error {
	_, err := s.b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to send message", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

// SendReply delivers a session reply, rendering its buttons as a single-row
// inline keyboard in list order.
func (s *Sender) SendReply(ctx context.Context, chatID int64, reply session.Reply) error {
	params := &bot.SendMessageParams{ChatID: chatID, Text: reply.Text}

	if len(reply.Buttons) > 0 {
		row := make([]models.InlineKeyboardButton, 0, len(reply.Buttons))
		for _, btn := range reply.Buttons {
			row = append(row, models.InlineKeyboardButton{Text: btn.Label, CallbackData: btn.Data})
		}
		params.ReplyMarkup = models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{row},
		}
	}

	_, err := s.b.SendMessage(ctx, params)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to send reply", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to send reply to chat %d: %w", chatID, err)
	}
	return nil
}

// NewDeferredHandler returns a handler that forwards updates to *target.
// It breaks the construction cycle between the bot (which needs a default
// handler up front) and the dispatch handler (which needs the session
// manager, built later). The target must be assigned before the bot starts
// consuming updates; updates arriving while it is nil are dropped.
func NewDeferredHandler(target *bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if h := *target; h != nil {
			h(ctx, b, update)
		}
	}
}

// NewDispatchHandler builds the default update handler: message text and
// callback-query data both flow through the session manager, and the
// manager's reply is sent back to the originating chat.
func NewDispatchHandler(manager *session.Manager, sender *Sender, logger *slog.Logger) bot.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_dispatch")

	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		chatID, text, ok := extractInput(update)
		if !ok {
			log.DebugContext(ctx, "Ignoring update without usable input", "update_id", update.ID)
			return
		}

		if update.CallbackQuery != nil {
			// Stop the client-side spinner; the answer itself carries no text.
			_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
				CallbackQueryID: update.CallbackQuery.ID,
			})
			if err != nil {
				log.WarnContext(ctx, "Failed to answer callback query",
					"callback_query_id", update.CallbackQuery.ID, "error", err)
			}
		}

		reply := manager.Handle(ctx, chatID, text)
		if reply.Text == "" {
			return
		}

		if err := sender.SendReply(ctx, chatID, reply); err != nil {
			log.ErrorContext(ctx, "Failed to deliver reply", "chat_id", chatID, "error", err)
		}
	}
}

// extractInput pulls the chat ID and input text out of a message or
// callback-query update.
func extractInput(update *models.Update) (int64, string, bool) {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID, update.Message.Text, true
	case update.CallbackQuery != nil:
		var chatID int64
		if update.CallbackQuery.Message.Message != nil {
			chatID = update.CallbackQuery.Message.Message.Chat.ID
		} else if update.CallbackQuery.Message.InaccessibleMessage != nil {
			chatID = update.CallbackQuery.Message.InaccessibleMessage.Chat.ID
		} else {
			return 0, "", false
		}
		return chatID, update.CallbackQuery.Data, true
	}
	return 0, "", false
}
