package trainer

import (
	"github.com/travigo/trainpredict/pkg/ctdf"
	"github.com/travigo/trainpredict/pkg/util"
)

type Adjacency interface {
	IsAdjacent(from ctdf.Location, to ctdf.Location) bool
}

type Outcome int

const (
	OutcomeAppended Outcome = iota
	OutcomeOutOfOrder
	OutcomeDuplicate
	OutcomeDiscarded
	OutcomeTurnaround
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAppended:
		return "appended"
	case OutcomeOutOfOrder:
		return "outoforder"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeTurnaround:
		return "turnaround"
	default:
		return "unknown"
	}
}

// Segmenter turns the observation stream of one vehicle run into journeys and records the
// paths, destinations and elapsed times they contain
type Segmenter struct {
	adjacency Adjacency
	recorder  Recorder

	journey ctdf.Journey
}

func NewSegmenter(adjacency Adjacency, recorder Recorder) *Segmenter {
	return &Segmenter{
		adjacency: adjacency,
		recorder:  recorder,
	}
}

func (s *Segmenter) Journey() []ctdf.Observation {
	return s.journey.Entries()
}

// Reset abandons the journey in progress
func (s *Segmenter) Reset() {
	s.journey.Reset()
}

func (s *Segmenter) Add(observation ctdf.Observation) Outcome {
	if s.journey.IsEmpty() {
		s.journey.Append(observation)
		return OutcomeAppended
	}

	last := s.journey.Last()

	if !observation.Timestamp().After(last.Timestamp()) {
		return OutcomeOutOfOrder
	}

	if observation.Key() == last.Key() {
		return OutcomeDuplicate
	}

	outcome := OutcomeAppended

	if observation.Location() != last.Location() {
		if !s.adjacency.IsAdjacent(last.Location(), observation.Location()) {
			s.journey.Reset()
			return OutcomeDiscarded
		}

		if s.journey.VisitedStationBefore(observation.Location().Station, s.journey.Len()-1) {
			s.recordTerminus(last.Location())
			s.journey.TruncateFrom(s.journey.Len() - 1)
			outcome = OutcomeTurnaround
		}
	}

	s.journey.Append(observation)

	if observation.State().IsArrival() {
		s.recordPaths()
	}

	return outcome
}

// recordTerminus credits the terminus as the destination of every location of the journey
func (s *Segmenter) recordTerminus(terminus ctdf.Location) {
	starting := s.journey.First().Location()

	for _, location := range s.journey.Locations() {
		s.recorder.AddDestination(starting, location, terminus)
	}
}

// recordPaths records the path and elapsed time from every earlier entry to the newest arrival
func (s *Segmenter) recordPaths() {
	entries := s.journey.Entries()
	newest := entries[len(entries)-1]

	locations := make([]ctdf.Location, len(entries))
	for i, entry := range entries {
		locations[i] = entry.Location()
	}

	for i, from := range entries[:len(entries)-1] {
		path := util.CollapseConsecutive(locations[i+1:])
		for len(path) > 0 && path[0] == from.Location() {
			path = path[1:]
		}

		pathKey := ctdf.PathKey(path)
		if len(path) > 0 {
			s.recorder.AddPath(from.Location(), newest.Location().Station, pathKey)
		}

		s.recorder.AddTimeDelta(ctdf.TimeDeltaKey(from.Key(), pathKey), newest.Timestamp().Sub(from.Timestamp()))
	}
}
