// Package models holds the three statistical models mined from vehicle history, their strict
// JSON encoding and the reduction of raw training statistics into them.
package models

import (
	"encoding/json"
	"time"

	"github.com/travigo/trainpredict/pkg/ctdf"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	MedianTimeDeltasName  = "medianPathTimes"
	UsualPathsName        = "usualPaths"
	UsualDestinationsName = "usualDestinations"
)

// ModelSet is everything the predictor needs from a training run
type ModelSet struct {
	MedianTimeDeltas  *MedianTimeDeltas
	UsualPaths        *UsualPaths
	UsualDestinations *UsualDestinations
}

func NewModelSet() *ModelSet {
	return &ModelSet{
		MedianTimeDeltas:  NewMedianTimeDeltas(),
		UsualPaths:        NewUsualPaths(),
		UsualDestinations: NewUsualDestinations(),
	}
}

// MedianTimeDeltas maps a time delta key to the median elapsed milliseconds
type MedianTimeDeltas struct {
	deltas map[string]float64
}

func NewMedianTimeDeltas() *MedianTimeDeltas {
	return &MedianTimeDeltas{deltas: map[string]float64{}}
}

func (m *MedianTimeDeltas) Set(timeDeltaKey string, milliseconds float64) {
	m.deltas[timeDeltaKey] = milliseconds
}

func (m *MedianTimeDeltas) Milliseconds(timeDeltaKey string) (float64, bool) {
	if m == nil {
		return 0, false
	}

	milliseconds, exists := m.deltas[timeDeltaKey]
	return milliseconds, exists
}

func (m *MedianTimeDeltas) Get(timeDeltaKey string) (time.Duration, bool) {
	milliseconds, exists := m.Milliseconds(timeDeltaKey)
	if !exists {
		return 0, false
	}

	return time.Duration(milliseconds * float64(time.Millisecond)), true
}

func (m *MedianTimeDeltas) Len() int {
	if m == nil {
		return 0
	}
	return len(m.deltas)
}

func (m *MedianTimeDeltas) Keys() []string {
	keys := maps.Keys(m.deltas)
	slices.Sort(keys)
	return keys
}

func (m *MedianTimeDeltas) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.deltas)
}

func (m *MedianTimeDeltas) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeMedianTimeDeltas(data)
	if err != nil {
		return err
	}

	*m = *decoded
	return nil
}

// UsualPaths maps a location and a destination station to the most travelled path key
type UsualPaths struct {
	paths map[string]map[string]string
}

func NewUsualPaths() *UsualPaths {
	return &UsualPaths{paths: map[string]map[string]string{}}
}

func (u *UsualPaths) Set(from ctdf.Location, destinationStation string, pathKey string) {
	u.set(from.Code(), destinationStation, pathKey)
}

func (u *UsualPaths) set(fromCode string, destinationStation string, pathKey string) {
	if u.paths[fromCode] == nil {
		u.paths[fromCode] = map[string]string{}
	}
	u.paths[fromCode][destinationStation] = pathKey
}

func (u *UsualPaths) PathKey(from ctdf.Location, destinationStation string) (string, bool) {
	if u == nil {
		return "", false
	}

	pathKey, exists := u.paths[from.Code()][destinationStation]
	return pathKey, exists
}

// Get returns the usual path from a location to a station, excluding the starting location
func (u *UsualPaths) Get(from ctdf.Location, destinationStation string) ([]ctdf.Location, bool) {
	pathKey, exists := u.PathKey(from, destinationStation)
	if !exists || pathKey == "" {
		return nil, false
	}

	return ctdf.ParsePathKey(pathKey), true
}

func (u *UsualPaths) Len() int {
	if u == nil {
		return 0
	}

	count := 0
	for _, destinations := range u.paths {
		count += len(destinations)
	}
	return count
}

func (u *UsualPaths) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.paths)
}

func (u *UsualPaths) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeUsualPaths(data)
	if err != nil {
		return err
	}

	*u = *decoded
	return nil
}

// UsualDestinations maps where a journey started and where the vehicle is now to where it
// usually terminates
type UsualDestinations struct {
	destinations map[string]map[string]string
}

func NewUsualDestinations() *UsualDestinations {
	return &UsualDestinations{destinations: map[string]map[string]string{}}
}

func (u *UsualDestinations) Set(starting ctdf.Location, current ctdf.Location, destination ctdf.Location) {
	u.set(starting.Code(), current.Code(), destination.Code())
}

func (u *UsualDestinations) set(startingCode string, currentCode string, destinationCode string) {
	if u.destinations[startingCode] == nil {
		u.destinations[startingCode] = map[string]string{}
	}
	u.destinations[startingCode][currentCode] = destinationCode
}

func (u *UsualDestinations) Get(starting ctdf.Location, current ctdf.Location) (ctdf.Location, bool) {
	if u == nil {
		return ctdf.Location{}, false
	}

	destinationCode, exists := u.destinations[starting.Code()][current.Code()]
	if !exists || destinationCode == "" {
		return ctdf.Location{}, false
	}

	return ctdf.ParseLocation(destinationCode), true
}

func (u *UsualDestinations) Len() int {
	if u == nil {
		return 0
	}

	count := 0
	for _, current := range u.destinations {
		count += len(current)
	}
	return count
}

func (u *UsualDestinations) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.destinations)
}

func (u *UsualDestinations) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeUsualDestinations(data)
	if err != nil {
		return err
	}

	*u = *decoded
	return nil
}
