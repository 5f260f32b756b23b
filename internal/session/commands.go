package session

import (
	"context"
	"strings"

	"weatherbot/internal/forecast"
)

// startCommand greets the chat.
type startCommand struct{ m *Manager }

func (c startCommand) Execute(_ context.Context, _ int64, _ []string) Reply {
	return Reply{Text: c.m.msgs.Welcome}
}

// helpCommand lists the available commands.
type helpCommand struct{ m *Manager }

func (c helpCommand) Execute(_ context.Context, _ int64, _ []string) Reply {
	return Reply{Text: c.m.msgs.Help}
}

// weatherCommand starts the generic forecast flow: place first, then a
// period menu.
type weatherCommand struct{ m *Manager }

func (c weatherCommand) Execute(ctx context.Context, chatID int64, _ []string) Reply {
	c.m.RequestTransition(ctx, chatID, StateWaitingForPlaceName)
	return Reply{Text: c.m.msgs.EnterPlace}
}

// todayForecastCommand answers with today's forecast when a place argument
// is present, otherwise prompts for the place and waits.
type todayForecastCommand struct{ m *Manager }

func (c todayForecastCommand) Execute(ctx context.Context, chatID int64, args []string) Reply {
	if len(args) == 0 {
		c.m.RequestTransition(ctx, chatID, StateWaitingForTodayForecastPlace)
		return Reply{Text: c.m.msgs.EnterPlace}
	}
	return c.m.forecastReply(ctx, chatID, strings.Join(args, " "), forecast.PeriodToday)
}

// weekForecastCommand answers with the 7-day forecast when a place argument
// is present, otherwise prompts for the place and waits.
type weekForecastCommand struct{ m *Manager }

func (c weekForecastCommand) Execute(ctx context.Context, chatID int64, args []string) Reply {
	if len(args) == 0 {
		c.m.RequestTransition(ctx, chatID, StateWaitingForWeekForecastPlace)
		return Reply{Text: c.m.msgs.EnterPlace}
	}
	return c.m.forecastReply(ctx, chatID, strings.Join(args, " "), forecast.PeriodWeek)
}

// subscribeCommand starts the add-reminder flow.
type subscribeCommand struct{ m *Manager }

func (c subscribeCommand) Execute(ctx context.Context, chatID int64, _ []string) Reply {
	c.m.RequestTransition(ctx, chatID, StateWaitingForAddReminderPlace)
	return Reply{Text: c.m.msgs.EnterPlace}
}

// listRemindersCommand shows the chat's reminders in creation order.
type listRemindersCommand struct{ m *Manager }

func (c listRemindersCommand) Execute(ctx context.Context, chatID int64, _ []string) Reply {
	reminders, err := c.m.reminders.ListForChat(ctx, chatID)
	if err != nil {
		c.m.logger.ErrorContext(ctx, "Failed to list reminders", "chat_id", chatID, "error", err)
		return Reply{Text: c.m.msgs.GeneralError}
	}
	if len(reminders) == 0 {
		return Reply{Text: c.m.msgs.NoReminders}
	}
	return Reply{Text: forecast.FormatReminders(reminders)}
}

// deleteReminderCommand starts the delete-reminder flow, showing the
// current list so the user can pick a position.
type deleteReminderCommand struct{ m *Manager }

func (c deleteReminderCommand) Execute(ctx context.Context, chatID int64, _ []string) Reply {
	reminders, err := c.m.reminders.ListForChat(ctx, chatID)
	if err != nil {
		c.m.logger.ErrorContext(ctx, "Failed to list reminders", "chat_id", chatID, "error", err)
		return Reply{Text: c.m.msgs.GeneralError}
	}
	if len(reminders) == 0 {
		return Reply{Text: c.m.msgs.NoReminders}
	}
	c.m.RequestTransition(ctx, chatID, StateWaitingForReminderPositionDelete)
	return Reply{Text: forecast.FormatReminders(reminders) + "\n\n" + c.m.msgs.EnterPositionToDelete}
}

// editReminderCommand starts the edit-reminder flow, showing the current
// list so the user can pick a position.
type editReminderCommand struct{ m *Manager }

func (c editReminderCommand) Execute(ctx context.Context, chatID int64, _ []string) Reply {
	reminders, err := c.m.reminders.ListForChat(ctx, chatID)
	if err != nil {
		c.m.logger.ErrorContext(ctx, "Failed to list reminders", "chat_id", chatID, "error", err)
		return Reply{Text: c.m.msgs.GeneralError}
	}
	if len(reminders) == 0 {
		return Reply{Text: c.m.msgs.NoReminders}
	}
	c.m.RequestTransition(ctx, chatID, StateWaitingForReminderPositionEdit)
	return Reply{Text: forecast.FormatReminders(reminders) + "\n\n" + c.m.msgs.EnterPositionToEdit}
}

// cancelCommand aborts the current flow. In the initial state it only
// clears any stale scratch fields.
type cancelCommand struct{ m *Manager }

func (c cancelCommand) Execute(ctx context.Context, chatID int64, _ []string) Reply {
	return c.m.cancelFlow(ctx, chatID)
}
