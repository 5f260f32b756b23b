package session

import (
	"context"
	"database/sql"
	"log/slog"

	"weatherbot/internal/config"
	"weatherbot/internal/database"
	"weatherbot/internal/forecast"
)

// ReminderService is the subscription-management collaborator consumed by
// state handlers and commands. *reminder.Scheduler satisfies it.
type ReminderService interface {
	Add(ctx context.Context, chatID int64, place, timeText string) (*database.Reminder, error)
	EditByPosition(ctx context.Context, chatID int64, position int, place, timeText string) error
	DeleteByPosition(ctx context.Context, chatID int64, position int) error
	ListForChat(ctx context.Context, chatID int64) ([]database.Reminder, error)
}

// Handler consumes one inbound message for a chat in a given state and
// produces a reply. Handlers request state changes by calling back into
// the manager.
type Handler interface {
	Handle(ctx context.Context, chatID int64, text string) Reply
}

// Manager owns the transition allow-set, loads or lazily creates session
// state, dispatches inbound messages to the handler registered for the
// chat's current state, and enforces transition legality.
type Manager struct {
	logger      *slog.Logger
	store       database.Store
	forecastSvc forecast.Service
	reminders   ReminderService
	msgs        config.Messages
	router      *CommandRouter
	handlers    map[State]Handler
}

// NewManager builds a session manager with its command router and the
// handler for every conversation state. Both registries are immutable
// after construction.
func NewManager(
	logger *slog.Logger,
	store database.Store,
	forecastSvc forecast.Service,
	reminders ReminderService,
	msgs config.Messages,
) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		logger:      logger.With("component", "session_manager"),
		store:       store,
		forecastSvc: forecastSvc,
		reminders:   reminders,
		msgs:        msgs,
	}

	m.router = NewCommandRouter()
	m.router.Register("/start", startCommand{m}, 0)
	m.router.Register("/help", helpCommand{m}, 0)
	m.router.Register("/weather", weatherCommand{m}, 0)
	m.router.Register("/today", todayForecastCommand{m}, 1)
	m.router.Register("/week", weekForecastCommand{m}, 1)
	m.router.Register("/subscribe", subscribeCommand{m}, 0)
	m.router.Register("/reminders", listRemindersCommand{m}, 0)
	m.router.Register("/delete", deleteReminderCommand{m}, 0)
	m.router.Register("/edit", editReminderCommand{m}, 0)
	m.router.Register("/cancel", cancelCommand{m}, 0)

	m.handlers = map[State]Handler{
		StateInitial:                          initialHandler{m},
		StateWaitingForPlaceName:              placeNameHandler{m},
		StateWaitingForTimePeriod:             timePeriodHandler{m},
		StateWaitingForTodayForecastPlace:     todayForecastPlaceHandler{m},
		StateWaitingForWeekForecastPlace:      weekForecastPlaceHandler{m},
		StateWaitingForAddReminderPlace:       addReminderPlaceHandler{m},
		StateWaitingForAddReminderTime:        addReminderTimeHandler{m},
		StateWaitingForReminderPositionDelete: deletePositionHandler{m},
		StateWaitingForReminderPositionEdit:   editPositionHandler{m},
		StateWaitingForEditReminderPlace:      editReminderPlaceHandler{m},
		StateWaitingForEditReminderTime:       editReminderTimeHandler{m},
	}

	return m
}

// Router exposes the command router, mainly for tests.
func (m *Manager) Router() *CommandRouter {
	return m.router
}

// Handle processes one inbound message: it loads or lazily creates the
// chat's session (INITIAL on first contact), then dispatches to the
// handler registered for the current state.
func (m *Manager) Handle(ctx context.Context, chatID int64, text string) Reply {
	session, err := m.loadOrCreateSession(ctx, chatID)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to load session", "chat_id", chatID, "error", err)
		return Reply{Text: m.msgs.GeneralError}
	}

	handler, ok := m.handlers[State(session.State)]
	if !ok {
		m.logger.WarnContext(ctx, "No handler registered for state, treating input as unknown",
			"chat_id", chatID, "state", session.State)
		return Reply{Text: m.msgs.UnknownCommand}
	}

	return handler.Handle(ctx, chatID, text)
}

// RequestTransition commits nextState as the chat's new persisted state if
// the (current, next) pair is a member of the allow-set. An illegal request
// is dropped without surfacing an error; the drop is logged for
// observability.
func (m *Manager) RequestTransition(ctx context.Context, chatID int64, nextState State) {
	session, err := m.loadOrCreateSession(ctx, chatID)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to load session for transition", "chat_id", chatID, "error", err)
		return
	}

	current := State(session.State)
	if !TransitionAllowed(current, nextState) {
		m.logger.WarnContext(ctx, "Dropping illegal state transition",
			"chat_id", chatID, "from", current, "to", nextState)
		return
	}

	session.State = string(nextState)
	if err := m.store.SaveSession(ctx, session); err != nil {
		m.logger.ErrorContext(ctx, "Failed to persist state transition",
			"chat_id", chatID, "from", current, "to", nextState, "error", err)
		return
	}

	m.logger.DebugContext(ctx, "State transition committed",
		"chat_id", chatID, "from", current, "to", nextState)
}

func (m *Manager) loadOrCreateSession(ctx context.Context, chatID int64) (*database.ChatSession, error) {
	session, err := m.store.GetSession(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	session = &database.ChatSession{ChatID: chatID, State: string(StateInitial)}
	if err := m.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	m.logger.DebugContext(ctx, "Created session on first contact", "chat_id", chatID)
	return session, nil
}

func (m *Manager) loadOrCreateContext(ctx context.Context, chatID int64) (*database.ChatContext, error) {
	chatCtx, err := m.store.GetContext(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chatCtx != nil {
		return chatCtx, nil
	}

	chatCtx = &database.ChatContext{ChatID: chatID}
	if err := m.store.SaveContext(ctx, chatCtx); err != nil {
		return nil, err
	}
	return chatCtx, nil
}

func (m *Manager) setPendingPlace(ctx context.Context, chatID int64, place string) error {
	chatCtx, err := m.loadOrCreateContext(ctx, chatID)
	if err != nil {
		return err
	}
	chatCtx.PendingPlace = sql.NullString{String: place, Valid: true}
	return m.store.SaveContext(ctx, chatCtx)
}

func (m *Manager) setPendingPosition(ctx context.Context, chatID int64, position int) error {
	chatCtx, err := m.loadOrCreateContext(ctx, chatID)
	if err != nil {
		return err
	}
	chatCtx.PendingPosition = sql.NullInt64{Int64: int64(position), Valid: true}
	return m.store.SaveContext(ctx, chatCtx)
}

func (m *Manager) pendingPlace(ctx context.Context, chatID int64) (string, bool, error) {
	chatCtx, err := m.store.GetContext(ctx, chatID)
	if err != nil {
		return "", false, err
	}
	if chatCtx == nil || !chatCtx.PendingPlace.Valid {
		return "", false, nil
	}
	return chatCtx.PendingPlace.String, true, nil
}

func (m *Manager) pendingPosition(ctx context.Context, chatID int64) (int, bool, error) {
	chatCtx, err := m.store.GetContext(ctx, chatID)
	if err != nil {
		return 0, false, err
	}
	if chatCtx == nil || !chatCtx.PendingPosition.Valid {
		return 0, false, nil
	}
	return int(chatCtx.PendingPosition.Int64), true, nil
}

// clearPending resets both scratch fields; flows call it on completion
// and on cancel.
func (m *Manager) clearPending(ctx context.Context, chatID int64) error {
	chatCtx, err := m.store.GetContext(ctx, chatID)
	if err != nil {
		return err
	}
	if chatCtx == nil {
		return nil
	}
	chatCtx.PendingPlace = sql.NullString{}
	chatCtx.PendingPosition = sql.NullInt64{}
	return m.store.SaveContext(ctx, chatCtx)
}

// forecastReply fetches and formats a forecast for the place over the
// period. The tomorrow period requests two days and keeps hours 24-47.
func (m *Manager) forecastReply(ctx context.Context, chatID int64, place string, period forecast.Period) Reply {
	days := 1
	switch period {
	case forecast.PeriodTomorrow:
		days = 2
	case forecast.PeriodWeek:
		days = 7
	}

	points, err := m.forecastSvc.Forecast(ctx, place, days)
	if err != nil {
		m.logger.ErrorContext(ctx, "Forecast lookup failed",
			"chat_id", chatID, "place", place, "period", period, "error", err)
		return Reply{Text: m.msgs.GeneralError}
	}

	if period == forecast.PeriodTomorrow {
		if len(points) <= 24 {
			points = nil
		} else if len(points) >= 48 {
			points = points[24:48]
		} else {
			points = points[24:]
		}
	}

	if len(points) == 0 {
		return Reply{Text: m.msgs.PlaceNotFound}
	}

	text, err := forecast.FormatForecasts(period, points)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to format forecast",
			"chat_id", chatID, "place", place, "period", period, "error", err)
		return Reply{Text: m.msgs.GeneralError}
	}
	return Reply{Text: text}
}

// periodMenu is the time-period prompt with its inline keyboard.
func (m *Manager) periodMenu(text string) Reply {
	return Reply{
		Text: text,
		Buttons: []Button{
			{Label: "Today", Data: string(forecast.PeriodToday)},
			{Label: "Tomorrow", Data: string(forecast.PeriodTomorrow)},
			{Label: "Week", Data: string(forecast.PeriodWeek)},
		},
	}
}

// cancelFlow aborts the current flow from any waiting state: scratch
// fields are cleared and the chat returns to the initial state.
func (m *Manager) cancelFlow(ctx context.Context, chatID int64) Reply {
	if err := m.clearPending(ctx, chatID); err != nil {
		m.logger.ErrorContext(ctx, "Failed to clear context on cancel", "chat_id", chatID, "error", err)
	}
	m.RequestTransition(ctx, chatID, StateInitial)
	return Reply{Text: m.msgs.Cancelled}
}
