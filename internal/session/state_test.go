package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"weatherbot/internal/session"
)

func TestTransitionAllowed(t *testing.T) {
	t.Parallel()

	allowed := []struct {
		from session.State
		to   session.State
	}{
		{session.StateInitial, session.StateWaitingForTodayForecastPlace},
		{session.StateInitial, session.StateWaitingForWeekForecastPlace},
		{session.StateInitial, session.StateWaitingForPlaceName},
		{session.StateInitial, session.StateWaitingForAddReminderPlace},
		{session.StateInitial, session.StateWaitingForReminderPositionDelete},
		{session.StateInitial, session.StateWaitingForReminderPositionEdit},
		{session.StateWaitingForTodayForecastPlace, session.StateInitial},
		{session.StateWaitingForWeekForecastPlace, session.StateInitial},
		{session.StateWaitingForPlaceName, session.StateWaitingForTimePeriod},
		{session.StateWaitingForPlaceName, session.StateInitial},
		{session.StateWaitingForTimePeriod, session.StateInitial},
		{session.StateWaitingForAddReminderPlace, session.StateWaitingForAddReminderTime},
		{session.StateWaitingForAddReminderPlace, session.StateInitial},
		{session.StateWaitingForAddReminderTime, session.StateInitial},
		{session.StateWaitingForReminderPositionDelete, session.StateInitial},
		{session.StateWaitingForReminderPositionEdit, session.StateWaitingForEditReminderPlace},
		{session.StateWaitingForReminderPositionEdit, session.StateInitial},
		{session.StateWaitingForEditReminderPlace, session.StateWaitingForEditReminderTime},
		{session.StateWaitingForEditReminderPlace, session.StateInitial},
		{session.StateWaitingForEditReminderTime, session.StateInitial},
	}

	for _, tc := range allowed {
		assert.True(t, session.TransitionAllowed(tc.from, tc.to),
			"expected %s -> %s to be allowed", tc.from, tc.to)
	}

	denied := []struct {
		from session.State
		to   session.State
	}{
		{session.StateInitial, session.StateInitial},
		{session.StateInitial, session.StateWaitingForTimePeriod},
		{session.StateInitial, session.StateWaitingForAddReminderTime},
		{session.StateInitial, session.StateWaitingForEditReminderPlace},
		{session.StateInitial, session.StateWaitingForEditReminderTime},
		{session.StateWaitingForTimePeriod, session.StateWaitingForPlaceName},
		{session.StateWaitingForAddReminderTime, session.StateWaitingForAddReminderPlace},
		{session.StateWaitingForReminderPositionDelete, session.StateWaitingForEditReminderPlace},
		{session.StateWaitingForEditReminderTime, session.StateWaitingForEditReminderPlace},
		{session.StateWaitingForPlaceName, session.StateWaitingForWeekForecastPlace},
		{session.State("BOGUS"), session.StateInitial},
		{session.StateInitial, session.State("BOGUS")},
	}

	for _, tc := range denied {
		assert.False(t, session.TransitionAllowed(tc.from, tc.to),
			"expected %s -> %s to be denied", tc.from, tc.to)
	}
}

func TestEveryWaitingStateCanReturnToInitial(t *testing.T) {
	t.Parallel()

	waiting := []session.State{
		session.StateWaitingForPlaceName,
		session.StateWaitingForTimePeriod,
		session.StateWaitingForTodayForecastPlace,
		session.StateWaitingForWeekForecastPlace,
		session.StateWaitingForAddReminderPlace,
		session.StateWaitingForAddReminderTime,
		session.StateWaitingForReminderPositionDelete,
		session.StateWaitingForReminderPositionEdit,
		session.StateWaitingForEditReminderPlace,
		session.StateWaitingForEditReminderTime,
	}

	for _, from := range waiting {
		assert.True(t, session.TransitionAllowed(from, session.StateInitial),
			"cancel must be reachable from %s", from)
	}
}
