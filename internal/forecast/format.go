package forecast

import (
	"fmt"
	"strings"

	"weatherbot/internal/database"
)

// Period selects which slice of a forecast a reply covers.
type Period string

const (
	PeriodToday    Period = "today"
	PeriodTomorrow Period = "tomorrow"
	PeriodWeek     Period = "week"
)

// ParsePeriod maps a user-entered token to a Period.
func ParsePeriod(text string) (Period, bool) {
	switch Period(strings.ToLower(strings.TrimSpace(text))) {
	case PeriodToday:
		return PeriodToday, true
	case PeriodTomorrow:
		return PeriodTomorrow, true
	case PeriodWeek:
		return PeriodWeek, true
	}
	return "", false
}

// Label returns the user-facing name of the period.
func (p Period) Label() string {
	switch p {
	case PeriodToday:
		return "today"
	case PeriodTomorrow:
		return "tomorrow"
	case PeriodWeek:
		return "the week"
	}
	return string(p)
}

// FormatForecasts renders hourly forecast points as a display string.
// It fails on an empty input or on points spanning more than one place;
// both indicate a broken call site, not a user mistake.
func FormatForecasts(period Period, points []Point) (string, error) {
	if len(points) == 0 {
		return "", fmt.Errorf("cannot format an empty forecast")
	}

	place := points[0].Place
	for _, p := range points {
		if p.Place != place {
			return "", fmt.Errorf("cannot format forecast spanning multiple places: %q and %q", place, p.Place)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Weather in %s for %s:\n", place, period.Label())
	for _, p := range points {
		fmt.Fprintf(&sb, "%s  %.1f°C (feels like %.1f°C)\n",
			p.Time.Format("Mon 02 Jan 15:04"), p.Temperature, p.FeelsLike)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// FormatReminders renders a chat's reminders as one "position) place, HH:MM"
// line per entry in list order. An empty list yields an empty string.
func FormatReminders(reminders []database.Reminder) string {
	if len(reminders) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, r := range reminders {
		fmt.Fprintf(&sb, "%d) %s, %s\n", i+1, r.Place, r.FireAt)
	}
	return strings.TrimRight(sb.String(), "\n")
}
