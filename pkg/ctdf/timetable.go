package ctdf

import "time"

// TimetableEntry is one scheduled call of a vehicle run. Times are offsets into the service day.
type TimetableEntry struct {
	Location    Location
	Destination Location

	Arrival    time.Duration
	HasArrival bool

	Departure    time.Duration
	HasDeparture bool
}

// ScheduledTime picks the arrival time for approaching and arrived vehicles, otherwise the departure time
func (t TimetableEntry) ScheduledTime(state State) (time.Duration, bool) {
	if state.UsesScheduledArrival() {
		return t.Arrival, t.HasArrival
	}

	return t.Departure, t.HasDeparture
}
