package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFireTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		hour    int
		minute  int
		wantErr bool
	}{
		{"morning", "08:00", 8, 0, false},
		{"midnight", "00:00", 0, 0, false},
		{"last minute of day", "23:59", 23, 59, false},
		{"single digit hour", "8:05", 8, 5, false},
		{"hour out of range", "24:00", 0, 0, true},
		{"minute out of range", "12:60", 0, 0, true},
		{"twelve hour clock", "8am", 0, 0, true},
		{"missing minutes", "12", 0, 0, true},
		{"prose", "quarter past nine", 0, 0, true},
		{"empty", "", 0, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			hour, minute, err := ParseFireTime(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.hour, hour)
			assert.Equal(t, tc.minute, minute)
		})
	}
}

func TestNextFireDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		now    time.Time
		hour   int
		minute int
		want   time.Duration
	}{
		{
			name: "time still ahead today",
			now:  time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC),
			hour: 8, minute: 0,
			want: time.Hour,
		},
		{
			name: "time already passed fires tomorrow",
			now:  time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
			hour: 8, minute: 0,
			want: 23 * time.Hour,
		},
		{
			name: "exactly now fires tomorrow",
			now:  time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
			hour: 8, minute: 0,
			want: 24 * time.Hour,
		},
		{
			name: "one minute ahead",
			now:  time.Date(2026, 3, 10, 7, 59, 0, 0, time.UTC),
			hour: 8, minute: 0,
			want: time.Minute,
		},
		{
			name: "late evening target after midday now",
			now:  time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC),
			hour: 23, minute: 45,
			want: 11*time.Hour + 15*time.Minute,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, NextFireDelay(tc.now, tc.hour, tc.minute))
		})
	}
}
