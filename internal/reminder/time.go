package reminder

import (
	"fmt"
	"time"
)

// ParseFireTime parses a 24-hour "HH:MM" string into its hour and minute
// components. The value carries no timezone suffix and is always
// interpreted as UTC.
func ParseFireTime(text string) (hour, minute int, err error) {
	t, parseErr := time.Parse("15:04", text)
	if parseErr != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}
	return t.Hour(), t.Minute(), nil
}

// NextFireDelay computes the delay until the first firing of a daily
// reminder at the given UTC wall-clock time. If the time is still ahead
// of now within the same day the reminder fires today, otherwise tomorrow.
func NextFireDelay(now time.Time, hour, minute int) time.Duration {
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	if target.After(now) {
		return target.Sub(now)
	}
	return target.Add(24 * time.Hour).Sub(now)
}
