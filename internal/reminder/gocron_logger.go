package reminder

import (
	"log/slog"

	"github.com/go-co-op/gocron/v2"
)

// gocronLogger bridges gocron's internal logging onto slog so scheduler
// diagnostics land in the same structured stream as the rest of the bot.
type gocronLogger struct {
	logger *slog.Logger
}

func newGocronLogger(logger *slog.Logger) gocron.Logger {
	return &gocronLogger{logger: logger.With("component", "gocron")}
}

func (l *gocronLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *gocronLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }
func (l *gocronLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *gocronLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
