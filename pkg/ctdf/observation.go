package ctdf

import (
	"fmt"
	"time"
)

// Observation is a reconciled state of a vehicle at a location at a point in time.
// Values are immutable once constructed.
type Observation struct {
	state     State
	location  Location
	timestamp time.Time
}

func NewObservation(state State, location Location, timestamp time.Time) Observation {
	return Observation{
		state:     state,
		location:  location,
		timestamp: timestamp,
	}
}

func (o Observation) State() State {
	return o.state
}

func (o Observation) Location() Location {
	return o.location
}

func (o Observation) Timestamp() time.Time {
	return o.timestamp
}

func (o Observation) Key() string {
	return ObservationKey(o.state, o.location)
}

func (o Observation) IsZero() bool {
	return o.state == "" && o.location.IsZero() && o.timestamp.IsZero()
}

func (o Observation) String() string {
	return fmt.Sprintf("%s@%s", o.Key(), o.timestamp.Format(time.RFC3339))
}
