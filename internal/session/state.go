// Package session implements the per-chat conversation state machine:
// the closed state set, the fixed transition allow-set, the session
// manager that dispatches inbound messages to state handlers, and the
// command router used from the initial state.
package session

// State is a discrete step a chat conversation is currently in.
type State string

// The closed set of conversation states. StateInitial is both the
// starting state and the state every completed flow returns to.
const (
	StateInitial                          State = "INITIAL"
	StateWaitingForPlaceName              State = "WAITING_FOR_PLACE_NAME"
	StateWaitingForTimePeriod             State = "WAITING_FOR_TIME_PERIOD"
	StateWaitingForTodayForecastPlace     State = "WAITING_FOR_TODAY_FORECAST_PLACE_NAME"
	StateWaitingForWeekForecastPlace      State = "WAITING_FOR_WEEK_FORECAST_PLACE_NAME"
	StateWaitingForAddReminderPlace       State = "WAITING_FOR_ADD_REMINDER_PLACE_NAME"
	StateWaitingForAddReminderTime        State = "WAITING_FOR_ADD_REMINDER_TIME"
	StateWaitingForReminderPositionDelete State = "WAITING_FOR_REMINDER_POSITION_TO_DELETE"
	StateWaitingForReminderPositionEdit   State = "WAITING_FOR_REMINDER_POSITION_TO_EDIT"
	StateWaitingForEditReminderPlace      State = "WAITING_FOR_EDIT_REMINDER_PLACE_NAME"
	StateWaitingForEditReminderTime       State = "WAITING_FOR_EDIT_REMINDER_TIME"
)

type transition struct {
	from State
	to   State
}

// allowedTransitions is the fixed allow-set of legal state changes.
// It is built once and never modified at runtime; the session manager
// silently drops any transition request outside this set.
var allowedTransitions = buildTransitionSet(map[State][]State{
	StateInitial: {
		StateWaitingForTodayForecastPlace,
		StateWaitingForWeekForecastPlace,
		StateWaitingForPlaceName,
		StateWaitingForAddReminderPlace,
		StateWaitingForReminderPositionDelete,
		StateWaitingForReminderPositionEdit,
	},
	StateWaitingForTodayForecastPlace:     {StateInitial},
	StateWaitingForWeekForecastPlace:      {StateInitial},
	StateWaitingForPlaceName:              {StateWaitingForTimePeriod, StateInitial},
	StateWaitingForTimePeriod:             {StateInitial},
	StateWaitingForAddReminderPlace:       {StateWaitingForAddReminderTime, StateInitial},
	StateWaitingForAddReminderTime:        {StateInitial},
	StateWaitingForReminderPositionDelete: {StateInitial},
	StateWaitingForReminderPositionEdit:   {StateWaitingForEditReminderPlace, StateInitial},
	StateWaitingForEditReminderPlace:      {StateWaitingForEditReminderTime, StateInitial},
	StateWaitingForEditReminderTime:       {StateInitial},
})

func buildTransitionSet(table map[State][]State) map[transition]struct{} {
	set := make(map[transition]struct{})
	for from, targets := range table {
		for _, to := range targets {
			set[transition{from: from, to: to}] = struct{}{}
		}
	}
	return set
}

// TransitionAllowed reports whether the (from, to) pair is a member of
// the fixed allow-set.
func TransitionAllowed(from, to State) bool {
	_, ok := allowedTransitions[transition{from: from, to: to}]
	return ok
}
