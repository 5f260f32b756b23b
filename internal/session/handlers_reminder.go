package session

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"weatherbot/internal/reminder"
)

// addReminderPlaceHandler stores the received text as the pending place and
// asks for the reminder time.
type addReminderPlaceHandler struct{ m *Manager }

func (h addReminderPlaceHandler) Handle(ctx context.Context, chatID int64, text string) Reply {
	if isCancel(text) {
		return h.m.cancelFlow(ctx, chatID)
	}

	place := strings.TrimSpace(text)
	if place == "" {
		return Reply{Text: h.m.msgs.EnterPlace}
	}

	if err := h.m.setPendingPlace(ctx, chatID, place); err != nil {
		h.m.logger.ErrorContext(ctx, "Failed to store pending place", "chat_id", chatID, "error", err)
		return Reply{Text: h.m.msgs.GeneralError}
	}

	h.m.RequestTransition(ctx, chatID, StateWaitingForAddReminderTime)
	return Reply{Text: h.m.msgs.EnterReminderTime}
}

// addReminderTimeHandler parses the received text as HH:MM and creates the
// reminder. A parse failure re-prompts and keeps the state.
type addReminderTimeHandler struct{ m *Manager }

func (h addReminderTimeHandler) Handle(ctx context.Context, chatID int64, text string) Reply {
	if isCancel(text) {
		return h.m.cancelFlow(ctx, chatID)
	}

	place, ok, err := h.m.pendingPlace(ctx, chatID)
	if err != nil {
		h.m.logger.ErrorContext(ctx, "Failed to read pending place", "chat_id", chatID, "error", err)
		return Reply{Text: h.m.msgs.GeneralError}
	}
	if !ok {
		h.m.logger.WarnContext(ctx, "Pending place missing in reminder time step", "chat_id", chatID)
		h.m.RequestTransition(ctx, chatID, StateInitial)
		return Reply{Text: h.m.msgs.GeneralError}
	}

	_, err = h.m.reminders.Add(ctx, chatID, place, strings.TrimSpace(text))
	if errors.Is(err, reminder.ErrInvalidTimeFormat) {
		return Reply{Text: h.m.msgs.WrongTimeFormat}
	}
	if err != nil {
		h.m.logger.ErrorContext(ctx, "Failed to add reminder", "chat_id", chatID, "error", err)
		return Reply{Text: h.m.msgs.GeneralError}
	}

	if err := h.m.clearPending(ctx, chatID); err != nil {
		h.m.logger.ErrorContext(ctx, "Failed to clear context after adding reminder", "chat_id", chatID, "error", err)
	}
	h.m.RequestTransition(ctx, chatID, StateInitial)
	return Reply{Text: h.m.msgs.ReminderAdded}
}

// deletePositionHandler parses the received text as a 1-based position and
// deletes the reminder there. Malformed or out-of-range input re-prompts
// and keeps the state; only successful completion (or cancel) leaves it.
type deletePositionHandler struct{ m *Manager }

func (h deletePositionHandler) Handle(ctx context.Context, chatID int64, text string) Reply {
	if isCancel(text) {
		return h.m.cancelFlow(ctx, chatID)
	}

	position, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return Reply{Text: h.m.msgs.NotANumber}
	}

	err = h.m.reminders.DeleteByPosition(ctx, chatID, position)
	if errors.Is(err, reminder.ErrInvalidPosition) {
		return Reply{Text: h.m.msgs.NoReminderAtPosition}
	}
	if err != nil {
		h.m.logger.ErrorContext(ctx, "Failed to delete reminder", "chat_id", chatID, "position", position, "error", err)
		return Reply{Text: h.m.msgs.GeneralError}
	}

	h.m.RequestTransition(ctx, chatID, StateInitial)
	return Reply{Text: h.m.msgs.ReminderDeleted}
}

// editPositionHandler parses the received text as a 1-based position,
// stores it, and asks for the new place name.
type editPositionHandler struct{ m *Manager }

func (h editPositionHandler) Handle(ctx context.Context, chatID int64, text string) Reply {
	if isCancel(text) {
		return h.m.cancelFlow(ctx, chatID)
	}

	position, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return Reply{Text: h.m.msgs.NotANumber}
	}

	if err := h.m.setPendingPosition(ctx, chatID, position); err != nil {
		h.m.logger.ErrorContext(ctx, "Failed to store pending position", "chat_id", chatID, "error", err)
		return Reply{Text: h.m.msgs.GeneralError}
	}

	h.m.RequestTransition(ctx, chatID, StateWaitingForEditReminderPlace)
	return Reply{Text: h.m.msgs.EnterNewPlace}
}

// editReminderPlaceHandler stores the new place and asks for the new time.
type editReminderPlaceHandler struct{ m *Manager }

func (h editReminderPlaceHandler) Handle(ctx context.Context, chatID int64, text string) Reply {
	if isCancel(text) {
		return h.m.cancelFlow(ctx, chatID)
	}

	place := strings.TrimSpace(text)
	if place == "" {
		return Reply{Text: h.m.msgs.EnterNewPlace}
	}

	if err := h.m.setPendingPlace(ctx, chatID, place); err != nil {
		h.m.logger.ErrorContext(ctx, "Failed to store pending place", "chat_id", chatID, "error", err)
		return Reply{Text: h.m.msgs.GeneralError}
	}

	h.m.RequestTransition(ctx, chatID, StateWaitingForEditReminderTime)
	return Reply{Text: h.m.msgs.EnterNewTime}
}

// editReminderTimeHandler parses the new time and applies the edit. A parse
// failure re-prompts and keeps the state. A stale position (the reminder was
// deleted meanwhile) cannot be fixed by retyping the time, so the flow is
// reset to the initial state.
type editReminderTimeHandler struct{ m *Manager }

func (h editReminderTimeHandler) Handle(ctx context.Context, chatID int64, text string) Reply {
	if isCancel(text) {
		return h.m.cancelFlow(ctx, chatID)
	}

	position, havePosition, err := h.m.pendingPosition(ctx, chatID)
	if err != nil {
		h.m.logger.ErrorContext(ctx, "Failed to read pending position", "chat_id", chatID, "error", err)
		return Reply{Text: h.m.msgs.GeneralError}
	}
	place, havePlace, err := h.m.pendingPlace(ctx, chatID)
	if err != nil {
		h.m.logger.ErrorContext(ctx, "Failed to read pending place", "chat_id", chatID, "error", err)
		return Reply{Text: h.m.msgs.GeneralError}
	}
	if !havePosition || !havePlace {
		h.m.logger.WarnContext(ctx, "Pending edit fields missing in time step", "chat_id", chatID)
		h.m.RequestTransition(ctx, chatID, StateInitial)
		return Reply{Text: h.m.msgs.GeneralError}
	}

	err = h.m.reminders.EditByPosition(ctx, chatID, position, place, strings.TrimSpace(text))
	switch {
	case errors.Is(err, reminder.ErrInvalidTimeFormat):
		return Reply{Text: h.m.msgs.WrongTimeFormat}
	case errors.Is(err, reminder.ErrInvalidPosition):
		if clearErr := h.m.clearPending(ctx, chatID); clearErr != nil {
			h.m.logger.ErrorContext(ctx, "Failed to clear context after stale edit", "chat_id", chatID, "error", clearErr)
		}
		h.m.RequestTransition(ctx, chatID, StateInitial)
		return Reply{Text: h.m.msgs.NoReminderAtPosition}
	case err != nil:
		h.m.logger.ErrorContext(ctx, "Failed to edit reminder", "chat_id", chatID, "position", position, "error", err)
		return Reply{Text: h.m.msgs.GeneralError}
	}

	if err := h.m.clearPending(ctx, chatID); err != nil {
		h.m.logger.ErrorContext(ctx, "Failed to clear context after edit", "chat_id", chatID, "error", err)
	}
	h.m.RequestTransition(ctx, chatID, StateInitial)
	return Reply{Text: h.m.msgs.ReminderUpdated}
}
