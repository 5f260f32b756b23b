// Package reminder implements the daily forecast reminder scheduler.
// Each persisted reminder owns one repeating gocron job firing at a fixed
// UTC wall-clock time; the in-memory job map is a cache rebuilt from the
// database on startup, never the system of record.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"weatherbot/internal/database"
	"weatherbot/internal/forecast"
)

// ErrInvalidTimeFormat is returned when a reminder time is not a valid
// 24-hour HH:MM string.
var ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")

// ErrInvalidPosition is returned when a 1-based reminder position falls
// outside the chat's current reminder list.
var ErrInvalidPosition = errors.New("no reminder at that position")

const fireTimeout = 30 * time.Second

// Messenger delivers outbound messages to a chat. Delivery failures are
// logged by the scheduler, not retried.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Scheduler maintains one repeating daily job per persisted reminder.
// Jobs run on gocron's serialized single-slot queue, so a slow forecast
// fetch inside one firing may delay the nominal fire time of others.
type Scheduler struct {
	logger       *slog.Logger
	store        database.Store
	forecastSvc  forecast.Service
	messenger    Messenger
	clock        clockwork.Clock
	scheduler    gocron.Scheduler
	placeMissing string

	mu   sync.Mutex
	jobs map[int64]uuid.UUID // reminder ID -> active gocron job ID
}

// New creates a reminder scheduler. placeMissing is the reply text pushed
// to a chat when a reminder fires for a place that no longer resolves.
func New(
	logger *slog.Logger,
	store database.Store,
	forecastSvc forecast.Service,
	messenger Messenger,
	clock clockwork.Clock,
	placeMissing string,
) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	// Fire times are UTC wall-clock values; without an explicit location
	// gocron evaluates daily at-times in the process-local time zone.
	s, err := gocron.NewScheduler(
		gocron.WithClock(clock),
		gocron.WithLocation(time.UTC),
		gocron.WithLogger(newGocronLogger(logger)),
		gocron.WithLimitConcurrentJobs(1, gocron.LimitModeWait),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		logger:       logger.With("component", "reminder_scheduler"),
		store:        store,
		forecastSvc:  forecastSvc,
		messenger:    messenger,
		clock:        clock,
		scheduler:    s,
		placeMissing: placeMissing,
		jobs:         make(map[int64]uuid.UUID),
	}, nil
}

// Start begins executing scheduled jobs.
func (s *Scheduler) Start() {
	s.scheduler.Start()
	s.logger.Info("Reminder scheduler started")
}

// Stop gracefully stops the scheduler, waiting for running jobs to complete.
func (s *Scheduler) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
		return fmt.Errorf("failed to shut down scheduler: %w", err)
	}
	s.logger.Info("Reminder scheduler stopped gracefully")
	return nil
}

// Recover rebuilds the in-memory job map from durable storage. Every
// persisted reminder is rescheduled exactly as if freshly added.
func (s *Scheduler) Recover(ctx context.Context) error {
	reminders, err := s.store.ListAllReminders(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reminders for recovery: %w", err)
	}

	recovered := 0
	for _, r := range reminders {
		if err := s.schedule(r); err != nil {
			s.logger.ErrorContext(ctx, "Failed to reschedule persisted reminder",
				"reminder_id", r.ID, "chat_id", r.ChatID, "fire_at", r.FireAt, "error", err)
			continue
		}
		recovered++
	}

	s.logger.InfoContext(ctx, "Recovered reminders from storage", "count", recovered, "total", len(reminders))
	return nil
}

// Add parses timeText as a 24-hour HH:MM UTC time, persists a new reminder
// for the chat, and schedules its daily timer. A parse failure has no
// persistence or scheduling side effect.
func (s *Scheduler) Add(ctx context.Context, chatID int64, place, timeText string) (*database.Reminder, error) {
	hour, minute, err := ParseFireTime(timeText)
	if err != nil {
		return nil, err
	}

	reminder := &database.Reminder{
		ChatID: chatID,
		Place:  place,
		FireAt: fmt.Sprintf("%02d:%02d", hour, minute),
	}
	if err := s.store.CreateReminder(ctx, reminder); err != nil {
		return nil, err
	}

	if err := s.schedule(*reminder); err != nil {
		// Roll the row back so a reminder the user was told failed does not
		// resurface with a live timer after the next restart's recovery.
		if delErr := s.store.DeleteReminder(ctx, reminder.ID); delErr != nil {
			s.logger.ErrorContext(ctx, "Failed to roll back unscheduled reminder",
				"reminder_id", reminder.ID, "chat_id", chatID, "error", delErr)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "Reminder added",
		"reminder_id", reminder.ID,
		"chat_id", chatID,
		"place", place,
		"fire_at", reminder.FireAt,
		"first_fire_in", NextFireDelay(s.clock.Now().UTC(), hour, minute).String())
	return reminder, nil
}

// EditByPosition mutates the place and fire time of the reminder at the
// given 1-based position in the chat's creation-ordered list. The reminder
// keeps its ID and chat ID; its timer is cancelled and rescheduled to match
// the new time.
func (s *Scheduler) EditByPosition(ctx context.Context, chatID int64, position int, place, timeText string) error {
	hour, minute, err := ParseFireTime(timeText)
	if err != nil {
		return err
	}

	reminders, err := s.store.ListRemindersByChat(ctx, chatID)
	if err != nil {
		return err
	}
	if position < 1 || position > len(reminders) {
		return ErrInvalidPosition
	}

	reminder := reminders[position-1]
	reminder.Place = place
	reminder.FireAt = fmt.Sprintf("%02d:%02d", hour, minute)
	if err := s.store.UpdateReminder(ctx, &reminder); err != nil {
		return err
	}

	s.cancel(reminder.ID)
	if err := s.schedule(reminder); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Reminder edited",
		"reminder_id", reminder.ID, "chat_id", chatID, "position", position,
		"place", place, "fire_at", reminder.FireAt)
	return nil
}

// DeleteByPosition removes the reminder at the given 1-based position in
// the chat's creation-ordered list and cancels its active timer.
func (s *Scheduler) DeleteByPosition(ctx context.Context, chatID int64, position int) error {
	reminders, err := s.store.ListRemindersByChat(ctx, chatID)
	if err != nil {
		return err
	}
	if position < 1 || position > len(reminders) {
		return ErrInvalidPosition
	}

	reminder := reminders[position-1]
	s.cancel(reminder.ID)
	if err := s.store.DeleteReminder(ctx, reminder.ID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Reminder deleted",
		"reminder_id", reminder.ID, "chat_id", chatID, "position", position)
	return nil
}

// ListForChat returns the chat's reminders in stable creation order.
func (s *Scheduler) ListForChat(ctx context.Context, chatID int64) ([]database.Reminder, error) {
	return s.store.ListRemindersByChat(ctx, chatID)
}

// schedule registers a daily gocron job for the reminder and records its
// handle. gocron's daily at-time job fires today if the time is still ahead,
// otherwise tomorrow, then repeats every 24 hours.
func (s *Scheduler) schedule(reminder database.Reminder) error {
	hour, minute, err := ParseFireTime(reminder.FireAt)
	if err != nil {
		return fmt.Errorf("reminder %d has unparseable fire time %q: %w", reminder.ID, reminder.FireAt, err)
	}

	job, err := s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(hour), uint(minute), 0))),
		gocron.NewTask(func() {
			s.fire(reminder.ID, reminder.ChatID, reminder.Place)
		}),
		gocron.WithName(fmt.Sprintf("reminder-%d", reminder.ID)),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule reminder %d: %w", reminder.ID, err)
	}

	s.mu.Lock()
	s.jobs[reminder.ID] = job.ID()
	s.mu.Unlock()
	return nil
}

// cancel removes the reminder's active job, preventing future firings.
// An in-flight firing is not interrupted.
func (s *Scheduler) cancel(reminderID int64) {
	s.mu.Lock()
	jobID, ok := s.jobs[reminderID]
	if ok {
		delete(s.jobs, reminderID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	if err := s.scheduler.RemoveJob(jobID); err != nil {
		s.logger.Warn("Failed to remove scheduled job", "reminder_id", reminderID, "job_id", jobID, "error", err)
	}
}

// fire fetches the day's forecast for the reminder's place and pushes the
// formatted result to the owning chat.
func (s *Scheduler) fire(reminderID, chatID int64, place string) {
	ctx, cancel := context.WithTimeout(context.Background(), fireTimeout)
	defer cancel()

	log := s.logger.With("reminder_id", reminderID, "chat_id", chatID, "place", place)
	log.InfoContext(ctx, "Reminder fired")

	points, err := s.forecastSvc.Forecast(ctx, place, 1)
	if err != nil {
		log.ErrorContext(ctx, "Forecast lookup failed for reminder", "error", err)
		return
	}

	text := s.placeMissing
	if len(points) > 0 {
		text, err = forecast.FormatForecasts(forecast.PeriodToday, points)
		if err != nil {
			log.ErrorContext(ctx, "Failed to format reminder forecast", "error", err)
			return
		}
	}

	if err := s.messenger.Send(ctx, chatID, text); err != nil {
		log.ErrorContext(ctx, "Failed to deliver reminder message", "error", err)
	}
}
