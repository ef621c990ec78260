package ctdf

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type State string

const (
	StateApproaching State = "Approaching"
	StateArrived     State = "Arrived"
	StateDeparted    State = "Departed"
)

// NormaliseState turns a feed state name such as ARRIVED_LATE into Arrived late
func NormaliseState(raw string) State {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", " ")
	if name == "" {
		return ""
	}

	first, size := utf8.DecodeRuneInString(name)
	return State(string(unicode.ToUpper(first)) + name[size:])
}

func (s State) IsArrival() bool {
	return s == StateArrived
}

// UsesScheduledArrival reports whether timetable lookups should compare against the arrival time
func (s State) UsesScheduledArrival() bool {
	return s == StateApproaching || s == StateArrived
}
