package forecast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherbot/internal/database"
	"weatherbot/internal/forecast"
)

func TestParsePeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  forecast.Period
		ok    bool
	}{
		{"today", forecast.PeriodToday, true},
		{"tomorrow", forecast.PeriodTomorrow, true},
		{"week", forecast.PeriodWeek, true},
		{"  Today ", forecast.PeriodToday, true},
		{"WEEK", forecast.PeriodWeek, true},
		{"fortnight", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		got, ok := forecast.ParsePeriod(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestFormatForecasts(t *testing.T) {
	t.Parallel()

	points := []forecast.Point{
		{Place: "London", Time: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), Temperature: 4.2, FeelsLike: 1.8},
		{Place: "London", Time: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC), Temperature: 5.0, FeelsLike: 2.5},
	}

	text, err := forecast.FormatForecasts(forecast.PeriodToday, points)
	require.NoError(t, err)
	assert.Equal(t,
		"Weather in London for today:\n"+
			"Mon 05 Jan 09:00  4.2°C (feels like 1.8°C)\n"+
			"Mon 05 Jan 10:00  5.0°C (feels like 2.5°C)",
		text)
}

func TestFormatForecastsWeekLabel(t *testing.T) {
	t.Parallel()

	points := []forecast.Point{
		{Place: "Oslo", Time: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), Temperature: -2, FeelsLike: -6},
	}

	text, err := forecast.FormatForecasts(forecast.PeriodWeek, points)
	require.NoError(t, err)
	assert.Contains(t, text, "Weather in Oslo for the week:")
}

func TestFormatForecastsRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := forecast.FormatForecasts(forecast.PeriodToday, nil)
	assert.Error(t, err)
}

func TestFormatForecastsRejectsMixedPlaces(t *testing.T) {
	t.Parallel()

	points := []forecast.Point{
		{Place: "London", Time: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)},
		{Place: "Paris", Time: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)},
	}

	_, err := forecast.FormatForecasts(forecast.PeriodToday, points)
	assert.Error(t, err)
}

func TestFormatReminders(t *testing.T) {
	t.Parallel()

	assert.Empty(t, forecast.FormatReminders(nil))

	reminders := []database.Reminder{
		{ID: 7, ChatID: 1, Place: "Oslo", FireAt: "08:00"},
		{ID: 9, ChatID: 1, Place: "Bergen", FireAt: "18:30"},
	}

	// Positions are list indices, not record IDs.
	assert.Equal(t, "1) Oslo, 08:00\n2) Bergen, 18:30", forecast.FormatReminders(reminders))
}
