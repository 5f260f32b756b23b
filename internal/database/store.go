package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for session, context, and reminder persistence.
// Methods accept context.Context for cancellation and timeouts. Lookups for
// absent rows return (nil, nil) rather than an error; callers create records
// lazily on first contact.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetSession retrieves the session for a chat. Returns nil, nil if not found.
	GetSession(ctx context.Context, chatID int64) (*ChatSession, error)

	// SaveSession inserts or updates the session for a chat.
	SaveSession(ctx context.Context, session *ChatSession) error

	// GetContext retrieves the volatile context for a chat. Returns nil, nil if not found.
	GetContext(ctx context.Context, chatID int64) (*ChatContext, error)

	// SaveContext inserts or updates the volatile context for a chat.
	SaveContext(ctx context.Context, chatCtx *ChatContext) error

	// CreateReminder inserts a new reminder and fills in its generated ID.
	CreateReminder(ctx context.Context, reminder *Reminder) error

	// UpdateReminder updates the place and fire time of an existing reminder.
	// The reminder's ID and chat ID are never changed.
	UpdateReminder(ctx context.Context, reminder *Reminder) error

	// DeleteReminder removes a reminder by its ID.
	DeleteReminder(ctx context.Context, id int64) error

	// ListRemindersByChat retrieves a chat's reminders in creation order.
	ListRemindersByChat(ctx context.Context, chatID int64) ([]Reminder, error)

	// ListAllReminders retrieves every persisted reminder, used for
	// rebuilding timers on startup.
	ListAllReminders(ctx context.Context) ([]Reminder, error)
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetSession retrieves the session for a chat. Returns nil, nil if not found.
func (s *sqlxStore) GetSession(ctx context.Context, chatID int64) (*ChatSession, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}

	var session ChatSession
	query := `SELECT chat_id, state, created_at, updated_at FROM chat_sessions WHERE chat_id = ?`

	err := s.db.GetContext(ctx, &session, query, chatID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No session found", "chat_id", chatID)
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting session", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to get session for chat %d: %w", chatID, err)
	}

	return &session, nil
}

// SaveSession inserts or updates the session for a chat.
func (s *sqlxStore) SaveSession(ctx context.Context, session *ChatSession) error {
	if session == nil {
		return fmt.Errorf("cannot save nil session")
	}
	if session.ChatID == 0 {
		return fmt.Errorf("session must have a non-zero chat_id")
	}
	if session.State == "" {
		return fmt.Errorf("session must have a non-empty state")
	}

	now := time.Now().UTC()
	session.UpdatedAt = now
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}

	query := `
        INSERT INTO chat_sessions (chat_id, state, created_at, updated_at)
        VALUES (:chat_id, :state, :created_at, :updated_at)
        ON CONFLICT(chat_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at;
    `

	if _, err := s.db.NamedExecContext(ctx, query, session); err != nil {
		s.logger.ErrorContext(ctx, "Error saving session", "chat_id", session.ChatID, "state", session.State, "error", err)
		return fmt.Errorf("failed to save session for chat %d: %w", session.ChatID, err)
	}

	s.logger.DebugContext(ctx, "Session saved successfully", "chat_id", session.ChatID, "state", session.State)
	return nil
}

// GetContext retrieves the volatile context for a chat. Returns nil, nil if not found.
func (s *sqlxStore) GetContext(ctx context.Context, chatID int64) (*ChatContext, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}

	var chatCtx ChatContext
	query := `SELECT chat_id, pending_place, pending_position, created_at, updated_at
	          FROM chat_contexts WHERE chat_id = ?`

	err := s.db.GetContext(ctx, &chatCtx, query, chatID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No context found", "chat_id", chatID)
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting context", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to get context for chat %d: %w", chatID, err)
	}

	return &chatCtx, nil
}

// SaveContext inserts or updates the volatile context for a chat.
func (s *sqlxStore) SaveContext(ctx context.Context, chatCtx *ChatContext) error {
	if chatCtx == nil {
		return fmt.Errorf("cannot save nil context")
	}
	if chatCtx.ChatID == 0 {
		return fmt.Errorf("context must have a non-zero chat_id")
	}

	now := time.Now().UTC()
	chatCtx.UpdatedAt = now
	if chatCtx.CreatedAt.IsZero() {
		chatCtx.CreatedAt = now
	}

	query := `
        INSERT INTO chat_contexts (chat_id, pending_place, pending_position, created_at, updated_at)
        VALUES (:chat_id, :pending_place, :pending_position, :created_at, :updated_at)
        ON CONFLICT(chat_id) DO UPDATE SET
            pending_place = excluded.pending_place,
            pending_position = excluded.pending_position,
            updated_at = excluded.updated_at;
    `

	if _, err := s.db.NamedExecContext(ctx, query, chatCtx); err != nil {
		s.logger.ErrorContext(ctx, "Error saving context", "chat_id", chatCtx.ChatID, "error", err)
		return fmt.Errorf("failed to save context for chat %d: %w", chatCtx.ChatID, err)
	}

	s.logger.DebugContext(ctx, "Context saved successfully", "chat_id", chatCtx.ChatID)
	return nil
}

// CreateReminder inserts a new reminder and fills in its generated ID.
func (s *sqlxStore) CreateReminder(ctx context.Context, reminder *Reminder) error {
	if reminder == nil {
		return fmt.Errorf("cannot save nil reminder")
	}
	if reminder.ChatID == 0 {
		return fmt.Errorf("reminder must have a non-zero chat_id")
	}
	if reminder.Place == "" {
		return fmt.Errorf("reminder must have a non-empty place")
	}
	if reminder.FireAt == "" {
		return fmt.Errorf("reminder must have a non-empty fire time")
	}

	now := time.Now().UTC()
	reminder.CreatedAt = now
	reminder.UpdatedAt = now

	query := `
        INSERT INTO reminders (chat_id, place, fire_at, created_at, updated_at)
        VALUES (:chat_id, :place, :fire_at, :created_at, :updated_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, reminder)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating reminder", "chat_id", reminder.ChatID, "error", err)
		return fmt.Errorf("failed to create reminder for chat %d: %w", reminder.ChatID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after creating reminder",
			"chat_id", reminder.ChatID, "error", err)
	} else {
		reminder.ID = id
	}

	s.logger.DebugContext(ctx, "Reminder created successfully",
		"chat_id", reminder.ChatID, "reminder_id", reminder.ID, "fire_at", reminder.FireAt)
	return nil
}

// UpdateReminder updates the place and fire time of an existing reminder.
func (s *sqlxStore) UpdateReminder(ctx context.Context, reminder *Reminder) error {
	if reminder == nil {
		return fmt.Errorf("cannot update nil reminder")
	}
	if reminder.ID == 0 {
		return fmt.Errorf("reminder must have a non-zero id")
	}

	reminder.UpdatedAt = time.Now().UTC()

	query := `UPDATE reminders SET place = :place, fire_at = :fire_at, updated_at = :updated_at WHERE id = :id`

	result, err := s.db.NamedExecContext(ctx, query, reminder)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating reminder", "reminder_id", reminder.ID, "error", err)
		return fmt.Errorf("failed to update reminder %d: %w", reminder.ID, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when updating reminder",
			"reminder_id", reminder.ID, "affected", affected)
	}

	s.logger.DebugContext(ctx, "Reminder updated successfully",
		"reminder_id", reminder.ID, "place", reminder.Place, "fire_at", reminder.FireAt)
	return nil
}

// DeleteReminder removes a reminder by its ID.
func (s *sqlxStore) DeleteReminder(ctx context.Context, id int64) error {
	if id == 0 {
		return fmt.Errorf("reminder id cannot be zero")
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting reminder", "reminder_id", id, "error", err)
		return fmt.Errorf("failed to delete reminder %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when deleting reminder",
			"reminder_id", id, "affected", affected)
	}

	s.logger.DebugContext(ctx, "Reminder deleted successfully", "reminder_id", id)
	return nil
}

// ListRemindersByChat retrieves a chat's reminders in creation order.
// The insertion order backs the 1-based position addressing used by
// the delete and edit commands.
func (s *sqlxStore) ListRemindersByChat(ctx context.Context, chatID int64) ([]Reminder, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}

	var reminders []Reminder
	query := `SELECT id, chat_id, place, fire_at, created_at, updated_at
	          FROM reminders WHERE chat_id = ? ORDER BY id ASC`

	if err := s.db.SelectContext(ctx, &reminders, query, chatID); err != nil {
		s.logger.ErrorContext(ctx, "Error listing reminders for chat", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to list reminders for chat %d: %w", chatID, err)
	}

	s.logger.DebugContext(ctx, "Fetched reminders for chat", "chat_id", chatID, "count", len(reminders))
	return reminders, nil
}

// ListAllReminders retrieves every persisted reminder in creation order.
func (s *sqlxStore) ListAllReminders(ctx context.Context) ([]Reminder, error) {
	var reminders []Reminder
	query := `SELECT id, chat_id, place, fire_at, created_at, updated_at FROM reminders ORDER BY id ASC`

	if err := s.db.SelectContext(ctx, &reminders, query); err != nil {
		s.logger.ErrorContext(ctx, "Error listing all reminders", "error", err)
		return nil, fmt.Errorf("failed to list all reminders: %w", err)
	}

	s.logger.DebugContext(ctx, "Fetched all reminders", "count", len(reminders))
	return reminders, nil
}
