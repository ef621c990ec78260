// Package reconciler merges the precise event feed and the coarse running status of a train
// into one observation.
package reconciler

import (
	"errors"
	"fmt"
	"time"

	"github.com/travigo/trainpredict/pkg/ctdf"
	"github.com/travigo/trainpredict/pkg/util"
)

var (
	ErrUnrecognizedLocation = errors.New("unrecognized location")
	ErrNoSignal             = errors.New("no signal to reconcile")
	ErrInvalidCoarseTime    = errors.New("invalid coarse signal time")
)

const coarseTimeFormat = "15:04"

// coarseWindow is how far a coarse timestamp may sit from the heartbeat before it is moved to
// the neighbouring day
const coarseWindow = 12 * time.Hour

type LocationNormaliser interface {
	Normalise(ctdf.Location) ctdf.Location
}

type Reconciler struct {
	stations   StationResolver
	normaliser LocationNormaliser
}

// New creates a Reconciler. normaliser may be nil when locations should be used exactly as resolved.
func New(stations StationResolver, normaliser LocationNormaliser) *Reconciler {
	return &Reconciler{
		stations:   stations,
		normaliser: normaliser,
	}
}

func (r *Reconciler) Reconcile(precise *PreciseSignal, coarse *CoarseSignal, heartbeat time.Time) (ctdf.Observation, error) {
	if precise == nil && coarse == nil {
		return ctdf.Observation{}, ErrNoSignal
	}

	if coarse == nil {
		return r.observation(precise.State, precise.StationName, precise.Platform, precise.Timestamp)
	}

	coarseTimestamp, err := CoarseTimestamp(coarse.Time, heartbeat)
	if err != nil {
		return ctdf.Observation{}, err
	}

	if precise == nil || coarseTimestamp.After(precise.Timestamp) {
		return r.observation(coarse.State, coarse.StationName, coarse.Platform, coarseTimestamp)
	}

	return r.observation(precise.State, precise.StationName, precise.Platform, precise.Timestamp)
}

// CoarseTimestamp places an HH:MM clock time on the calendar date of the heartbeat, moving it a
// day either way so it always lies within 12 hours of the heartbeat
func CoarseTimestamp(clock string, heartbeat time.Time) (time.Time, error) {
	parsed, err := time.Parse(coarseTimeFormat, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %w", ErrInvalidCoarseTime, clock, err)
	}

	timestamp := util.SetTimeOfDay(heartbeat, parsed.Hour(), parsed.Minute())

	difference := timestamp.Sub(heartbeat)
	if difference > coarseWindow {
		timestamp = timestamp.AddDate(0, 0, -1)
	} else if difference < -coarseWindow {
		timestamp = timestamp.AddDate(0, 0, 1)
	}

	return timestamp, nil
}

func (r *Reconciler) observation(state string, stationName string, platform string, timestamp time.Time) (ctdf.Observation, error) {
	stationCode, exists := r.stations.Lookup(stationName)
	if !exists {
		return ctdf.Observation{}, fmt.Errorf("%w: %q", ErrUnrecognizedLocation, stationName)
	}

	location := ctdf.NewLocation(stationCode, platform)
	if r.normaliser != nil {
		location = r.normaliser.Normalise(location)
	}

	return ctdf.NewObservation(ctdf.NormaliseState(state), location, timestamp), nil
}
