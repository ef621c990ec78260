package ctdf

import "time"

// Prediction is the expected arrival of a vehicle at a location
type Prediction struct {
	Location Location  `json:"location"`
	Time     time.Time `json:"time"`
}
