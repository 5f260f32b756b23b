package database

import (
	"database/sql"
	"time"
)

// ChatSession holds the conversation step a chat is currently in.
// Exactly one row exists per chat; it is created lazily on first
// contact and mutated on every state transition, never deleted.
type ChatSession struct {
	ChatID    int64     `db:"chat_id"`
	State     string    `db:"state"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ChatContext holds volatile per-chat scratch fields that span multiple
// messages within one flow. Fields are nullable and reset once the flow
// that set them completes or is cancelled.
type ChatContext struct {
	ChatID          int64          `db:"chat_id"`
	PendingPlace    sql.NullString `db:"pending_place"`
	PendingPosition sql.NullInt64  `db:"pending_position"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// Reminder is a persisted daily recurring instruction to push a forecast
// to a chat at a fixed UTC wall-clock time.
type Reminder struct {
	ID        int64     `db:"id"`
	ChatID    int64     `db:"chat_id"`
	Place     string    `db:"place"`
	FireAt    string    `db:"fire_at"` // "HH:MM", 24-hour, UTC
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
