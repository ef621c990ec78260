package reconciler

import "time"

// PreciseSignal is an observation from the train movement event feed, timestamped to the second
type PreciseSignal struct {
	State       string    `json:"state"`
	StationName string    `json:"station"`
	Platform    string    `json:"platform,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// CoarseSignal is the running status board view of a train, only accurate to the minute and
// carrying no date
type CoarseSignal struct {
	State       string `json:"state"`
	StationName string `json:"station"`
	Platform    string `json:"platform,omitempty"`
	Time        string `json:"time"`
}
