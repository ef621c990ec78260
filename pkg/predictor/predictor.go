// Package predictor projects the statistical models forward from a vehicle's current state to
// produce the arrival times it is expected to make over the prediction window.
package predictor

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/trainpredict/pkg/config"
	"github.com/travigo/trainpredict/pkg/ctdf"
	"github.com/travigo/trainpredict/pkg/models"
	"github.com/travigo/trainpredict/pkg/util"
	"golang.org/x/exp/slices"
)

var (
	ErrNoDestinationFound = errors.New("no destination found")
	ErrNoPathFound        = errors.New("no path found")
)

const (
	DefaultWindow             = 2 * time.Hour
	DefaultTimetableThreshold = 15 * time.Minute
)

type Graph interface {
	ShortestPath(from ctdf.Location, to ctdf.Location) ([]ctdf.Location, bool)
	Canonical(location ctdf.Location) ctdf.Location
	Size() int
}

type Predictor struct {
	models *models.ModelSet
	graph  Graph

	window             time.Duration
	timetableThreshold time.Duration
	maxHops            int
}

type Option func(*Predictor)

// WithWindow sets how far past the heartbeat predictions are produced
func WithWindow(window time.Duration) Option {
	return func(p *Predictor) {
		p.window = window
	}
}

// WithTimetableThreshold sets how close a timetable entry must be to the current time to be used
func WithTimetableThreshold(threshold time.Duration) Option {
	return func(p *Predictor) {
		p.timetableThreshold = threshold
	}
}

// WithMaxHops limits how many legs are chained together. Zero keeps the default of the network size.
func WithMaxHops(maxHops int) Option {
	return func(p *Predictor) {
		if maxHops > 0 {
			p.maxHops = maxHops
		}
	}
}

func New(modelSet *models.ModelSet, graph Graph, opts ...Option) *Predictor {
	p := &Predictor{
		models:             modelSet,
		graph:              graph,
		window:             DefaultWindow,
		timetableThreshold: DefaultTimetableThreshold,
		maxHops:            graph.Size(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.maxHops < 1 {
		p.maxHops = 1
	}

	return p
}

// Predict returns the expected arrivals of a vehicle in time order. starting, destination and
// timetable are optional.
func (p *Predictor) Predict(heartbeat time.Time, current ctdf.Observation, starting *ctdf.Location, destination *ctdf.Location, timetable []ctdf.TimetableEntry) ([]ctdf.Prediction, error) {
	return p.predict(heartbeat, current, starting, destination, timetable, 0)
}

func (p *Predictor) predict(heartbeat time.Time, current ctdf.Observation, starting *ctdf.Location, destination *ctdf.Location, timetable []ctdf.TimetableEntry, hop int) ([]ctdf.Prediction, error) {
	resolvedDestination, err := p.resolveDestination(current, starting, destination, timetable)
	if err != nil {
		return nil, err
	}

	path, err := p.resolvePath(current.Location(), resolvedDestination)
	if err != nil {
		return nil, err
	}

	predictions := p.walk(heartbeat, current, path)
	if len(predictions) == 0 {
		return predictions, nil
	}

	if hop+1 >= p.maxHops {
		log.Debug().Str("observation", current.Key()).Int("hops", hop+1).Msg("Prediction hop limit reached")
		return predictions, nil
	}

	last := predictions[len(predictions)-1]
	arrival := ctdf.NewObservation(ctdf.StateArrived, last.Location, last.Time)
	nextStarting := last.Location

	continuation, err := p.predict(heartbeat, arrival, &nextStarting, nil, timetable, hop+1)
	if err != nil {
		log.Debug().Err(err).Str("observation", arrival.Key()).Msg("No further legs predicted")
		return predictions, nil
	}

	return append(predictions, continuation...), nil
}

func (p *Predictor) resolveDestination(current ctdf.Observation, starting *ctdf.Location, destination *ctdf.Location, timetable []ctdf.TimetableEntry) (ctdf.Location, error) {
	if destination != nil && !destination.IsZero() {
		return *destination, nil
	}

	if entry, exists := p.nearestTimetableEntry(current, timetable); exists {
		return p.graph.Canonical(entry.Destination), nil
	}

	startingLocation := current.Location()
	if starting != nil && !starting.IsZero() {
		startingLocation = *starting
	}

	if usualDestination, exists := p.models.UsualDestinations.Get(startingLocation, current.Location()); exists {
		return usualDestination, nil
	}

	return ctdf.Location{}, fmt.Errorf("%w for %s", ErrNoDestinationFound, current.Key())
}

// nearestTimetableEntry finds the entry at the current location scheduled closest to the
// current time of day, if it is within the threshold
func (p *Predictor) nearestTimetableEntry(current ctdf.Observation, timetable []ctdf.TimetableEntry) (ctdf.TimetableEntry, bool) {
	var nearest ctdf.TimetableEntry
	nearestDistance := time.Duration(-1)

	currentTimeOfDay := util.TimeOfDay(current.Timestamp())

	for _, entry := range timetable {
		if entry.Destination.IsZero() || !p.atLocation(entry.Location, current.Location()) {
			continue
		}

		scheduled, exists := entry.ScheduledTime(current.State())
		if !exists {
			continue
		}

		distance := util.TimeOfDayDistance(scheduled, currentTimeOfDay)
		if nearestDistance < 0 || distance < nearestDistance {
			nearest = entry
			nearestDistance = distance
		}
	}

	if nearestDistance < 0 || nearestDistance >= p.timetableThreshold {
		return ctdf.TimetableEntry{}, false
	}

	return nearest, true
}

func (p *Predictor) atLocation(timetabled ctdf.Location, current ctdf.Location) bool {
	if timetabled.Platform == "" && timetabled.Station == current.Station {
		return true
	}

	return p.graph.Canonical(timetabled) == p.graph.Canonical(current)
}

func (p *Predictor) resolvePath(current ctdf.Location, destination ctdf.Location) ([]ctdf.Location, error) {
	if path, exists := p.models.UsualPaths.Get(current, destination.Station); exists {
		return path, nil
	}

	if path, exists := p.graph.ShortestPath(current, destination); exists {
		return path, nil
	}

	return nil, fmt.Errorf("%w from %s to %s", ErrNoPathFound, current, destination)
}

// walk converts the median time deltas along the path into predictions, stopping at the first
// leg without data or beyond the prediction window
func (p *Predictor) walk(heartbeat time.Time, current ctdf.Observation, path []ctdf.Location) []ctdf.Prediction {
	predictions := []ctdf.Prediction{}
	limit := heartbeat.Add(p.window)

	stateKey := current.Key()
	baseTime := current.Timestamp()
	var buffer time.Duration

	var pathed []ctdf.Location
	var pathedTimes []time.Time

	for _, next := range path {
		delta, found := p.models.MedianTimeDeltas.Get(ctdf.TimeDeltaKey(stateKey, pathKey(pathed, next)))

		if !found {
			for j := len(pathed) - 1; j >= 0; j-- {
				anchorKey := ctdf.ObservationKey(ctdf.StateArrived, pathed[j])

				anchorDelta, exists := p.models.MedianTimeDeltas.Get(ctdf.TimeDeltaKey(anchorKey, pathKey(pathed[j+1:], next)))
				if !exists {
					continue
				}

				delta = anchorDelta
				found = true

				stateKey = anchorKey
				baseTime = pathedTimes[j]
				buffer = 0
				pathed = slices.Clone(pathed[j+1:])
				pathedTimes = slices.Clone(pathedTimes[j+1:])
				break
			}
		}

		if !found {
			break
		}

		projected := baseTime.Add(buffer + delta)
		if projected.Before(heartbeat) {
			buffer += heartbeat.Sub(projected)
			projected = heartbeat
		}

		if projected.After(limit) {
			break
		}

		predictions = append(predictions, ctdf.Prediction{
			Location: next,
			Time:     projected,
		})
		pathed = append(pathed, next)
		pathedTimes = append(pathedTimes, projected)
	}

	return predictions
}

func pathKey(pathed []ctdf.Location, next ctdf.Location) string {
	locations := make([]ctdf.Location, 0, len(pathed)+1)
	locations = append(locations, pathed...)
	locations = append(locations, next)

	return ctdf.PathKey(locations)
}

// ConfigOptions maps the predictor configuration onto options
func ConfigOptions(cfg config.PredictorConfig) []Option {
	return []Option{
		WithWindow(cfg.Window),
		WithTimetableThreshold(cfg.TimetableThreshold),
		WithMaxHops(cfg.MaxHops),
	}
}
