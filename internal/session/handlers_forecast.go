package session

import (
	"context"
	"strings"

	"weatherbot/internal/forecast"
)

// placeNameHandler stores the received text as the pending place and asks
// for a time period.
type placeNameHandler struct{ m *Manager }

func (h placeNameHandler) Handle(ctx context.Context, chatID int64, text string) Reply {
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

	h.m.RequestTransition(ctx, chatID, StateWaitingForTimePeriod)
	return h.m.periodMenu(h.m.msgs.ChoosePeriod)
}

// timePeriodHandler accepts one of the three period tokens and answers with
// the forecast for the pending place. A mismatch re-prompts with the same
// menu and keeps the state; this is an input-retry loop, not a new state.
type timePeriodHandler struct{ m *Manager }

func (h timePeriodHandler) Handle(ctx context.Context, chatID int64, text string) Reply {
	if isCancel(text) {
		return h.m.cancelFlow(ctx, chatID)
	}

	period, ok := forecast.ParsePeriod(text)
	if !ok {
		return h.m.periodMenu(h.m.msgs.UnknownPeriod)
	}

	place, ok, err := h.m.pendingPlace(ctx, chatID)
	if err != nil {
		h.m.logger.ErrorContext(ctx, "Failed to read pending place", "chat_id", chatID, "error", err)
		return Reply{Text: h.m.msgs.GeneralError}
	}
	if !ok {
		// Pending place lost (e.g. wiped mid-flow); restart the flow.
		h.m.logger.WarnContext(ctx, "Pending place missing in period step", "chat_id", chatID)
		h.m.RequestTransition(ctx, chatID, StateInitial)
		return Reply{Text: h.m.msgs.GeneralError}
	}

	reply := h.m.forecastReply(ctx, chatID, place, period)

	if err := h.m.clearPending(ctx, chatID); err != nil {
		h.m.logger.ErrorContext(ctx, "Failed to clear context after forecast", "chat_id", chatID, "error", err)
	}
	h.m.RequestTransition(ctx, chatID, StateInitial)
	return reply
}

// todayForecastPlaceHandler treats the received text directly as the place
// name and answers with today's forecast.
type todayForecastPlaceHandler struct{ m *Manager }

func (h todayForecastPlaceHandler) Handle(ctx context.Context, chatID int64, text string) Reply {
	if isCancel(text) {
		return h.m.cancelFlow(ctx, chatID)
	}

	reply := h.m.forecastReply(ctx, chatID, strings.TrimSpace(text), forecast.PeriodToday)
	h.m.RequestTransition(ctx, chatID, StateInitial)
	return reply
}

// weekForecastPlaceHandler treats the received text directly as the place
// name and answers with the 7-day forecast.
type weekForecastPlaceHandler struct{ m *Manager }

func (h weekForecastPlaceHandler) Handle(ctx context.Context, chatID int64, text string) Reply {
	if isCancel(text) {
		return h.m.cancelFlow(ctx, chatID)
	}

	reply := h.m.forecastReply(ctx, chatID, strings.TrimSpace(text), forecast.PeriodWeek)
	h.m.RequestTransition(ctx, chatID, StateInitial)
	return reply
}
