package realtime

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/trainpredict/pkg/ctdf"
	"github.com/travigo/trainpredict/pkg/datasource"
	"github.com/travigo/trainpredict/pkg/predictioncache"
	"github.com/travigo/trainpredict/pkg/predictor"
	"github.com/travigo/trainpredict/pkg/reconciler"
	"golang.org/x/exp/slices"
)

type Adjacency interface {
	IsAdjacent(from ctdf.Location, to ctdf.Location) bool
}

type PredictionStore interface {
	Get(ctx context.Context, runNumber string) (*predictioncache.Entry, error)
	Set(ctx context.Context, entry *predictioncache.Entry) error
}

// Processor turns one heartbeat of a run into cached predictions and a prediction event
type Processor struct {
	Reconciler *reconciler.Reconciler
	Predictor  *predictor.Predictor
	// Timetables is optional
	Timetables datasource.TimetableSource
	Cache      PredictionStore
	Events     EventSink
	// Network is optional, a jump between non adjacent locations starts a new journey when set
	Network Adjacency

	Now func() time.Time
}

func (p *Processor) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Processor) Process(ctx context.Context, status datasource.RawStatus) (*predictioncache.Entry, error) {
	event := PredictionEvent{
		Timestamp: p.now(),
		RunNumber: status.RunNumber,
	}

	observation, err := p.Reconciler.Reconcile(status.Event, status.Status, status.Timestamp)
	if err != nil {
		event.FailReason = FailReasonReconcile
		if errors.Is(err, reconciler.ErrUnrecognizedLocation) {
			event.FailReason = FailReasonUnrecognizedLocation
		}
		emitEvent(p.Events, event)

		return nil, err
	}
	event.Observation = observation.Key()

	previous := p.previousEntry(ctx, status.RunNumber)
	starting, visited := p.advanceJourney(previous, observation.Location())

	var timetable []ctdf.TimetableEntry
	if p.Timetables != nil {
		timetable, err = p.Timetables.Timetable(ctx, status.RunNumber)
		if err != nil {
			log.Warn().Err(err).Str("run", status.RunNumber).Msg("Predicting without timetable")
			timetable = nil
		}
	}

	predictions, err := p.Predictor.Predict(status.Timestamp, observation, &starting, nil, timetable)
	if err != nil {
		switch {
		case errors.Is(err, predictor.ErrNoDestinationFound):
			event.FailReason = FailReasonNoDestination
		case errors.Is(err, predictor.ErrNoPathFound):
			event.FailReason = FailReasonNoPath
		default:
			event.FailReason = FailReasonUnknown
		}
		emitEvent(p.Events, event)

		if previous != nil {
			previous.Starting = starting.Code()
			previous.Visited = visited
			if err := p.Cache.Set(ctx, previous); err != nil {
				log.Error().Err(err).Str("run", status.RunNumber).Msg("Failed to cache journey")
			}
		}

		return nil, err
	}

	entry := &predictioncache.Entry{
		RunNumber:   status.RunNumber,
		Starting:    starting.Code(),
		Visited:     visited,
		Observation: observation.Key(),
		Heartbeat:   status.Timestamp,
		GeneratedAt: event.Timestamp,
		Predictions: predictions,
	}

	if err := p.Cache.Set(ctx, entry); err != nil {
		log.Error().Err(err).Str("run", status.RunNumber).Msg("Failed to cache predictions")
	}

	event.Success = true
	event.Predictions = len(predictions)
	if len(predictions) > 0 {
		last := predictions[len(predictions)-1]
		event.Destination = last.Location.Code()
		event.HorizonSeconds = last.Time.Sub(status.Timestamp).Seconds()
	}
	emitEvent(p.Events, event)

	return entry, nil
}

func (p *Processor) previousEntry(ctx context.Context, runNumber string) *predictioncache.Entry {
	previous, err := p.Cache.Get(ctx, runNumber)
	if err != nil {
		if !errors.Is(err, predictioncache.ErrNotFound) {
			log.Error().Err(err).Str("run", runNumber).Msg("Failed to read cached predictions")
		}
		return nil
	}

	return previous
}

// advanceJourney segments the run the same way training does. A return to a station already
// passed makes the last location the terminus and the start of the next journey.
func (p *Processor) advanceJourney(previous *predictioncache.Entry, location ctdf.Location) (ctdf.Location, []string) {
	if previous == nil || previous.Starting == "" || len(previous.Visited) == 0 {
		return location, []string{location.Code()}
	}

	starting := ctdf.ParseLocation(previous.Starting)
	last := ctdf.ParseLocation(previous.Visited[len(previous.Visited)-1])

	if location == last {
		return starting, previous.Visited
	}

	if p.Network != nil && !p.Network.IsAdjacent(last, location) {
		return location, []string{location.Code()}
	}

	for _, code := range previous.Visited[:len(previous.Visited)-1] {
		if ctdf.ParseLocation(code).Station == location.Station {
			return last, []string{last.Code(), location.Code()}
		}
	}

	visited := append(slices.Clone(previous.Visited), location.Code())

	return starting, visited
}
