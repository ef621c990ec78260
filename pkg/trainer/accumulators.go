package trainer

import (
	"sync"
	"time"

	"github.com/travigo/trainpredict/pkg/ctdf"
	"github.com/travigo/trainpredict/pkg/models"
	"golang.org/x/exp/slices"
)

// Recorder receives the statistics the segmenter extracts from journeys
type Recorder interface {
	AddPath(from ctdf.Location, destinationStation string, pathKey string)
	AddDestination(starting ctdf.Location, current ctdf.Location, destination ctdf.Location)
	AddTimeDelta(timeDeltaKey string, elapsed time.Duration)
}

// Accumulators are the raw statistics of one training run, shared by every run being segmented
type Accumulators struct {
	mutex sync.Mutex

	paths        map[models.PathGroup]*models.FrequencyTable
	destinations map[models.DestinationGroup]*models.FrequencyTable
	timeDeltas   map[string][]int64
}

func NewAccumulators() *Accumulators {
	return &Accumulators{
		paths:        map[models.PathGroup]*models.FrequencyTable{},
		destinations: map[models.DestinationGroup]*models.FrequencyTable{},
		timeDeltas:   map[string][]int64{},
	}
}

func (a *Accumulators) AddPath(from ctdf.Location, destinationStation string, pathKey string) {
	group := models.PathGroup{From: from, DestinationStation: destinationStation}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.paths[group] == nil {
		a.paths[group] = models.NewFrequencyTable()
	}
	a.paths[group].Add(pathKey)
}

func (a *Accumulators) AddDestination(starting ctdf.Location, current ctdf.Location, destination ctdf.Location) {
	group := models.DestinationGroup{Starting: starting, Current: current}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.destinations[group] == nil {
		a.destinations[group] = models.NewFrequencyTable()
	}
	a.destinations[group].Add(destination.Code())
}

func (a *Accumulators) AddTimeDelta(timeDeltaKey string, elapsed time.Duration) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.timeDeltas[timeDeltaKey] = append(a.timeDeltas[timeDeltaKey], elapsed.Milliseconds())
}

func (a *Accumulators) PathFrequencies(from ctdf.Location, destinationStation string) *models.FrequencyTable {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	table := a.paths[models.PathGroup{From: from, DestinationStation: destinationStation}]
	if table == nil {
		return models.NewFrequencyTable()
	}
	return table.Clone()
}

func (a *Accumulators) DestinationFrequencies(starting ctdf.Location, current ctdf.Location) *models.FrequencyTable {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	table := a.destinations[models.DestinationGroup{Starting: starting, Current: current}]
	if table == nil {
		return models.NewFrequencyTable()
	}
	return table.Clone()
}

func (a *Accumulators) TimeDeltaSamples(timeDeltaKey string) []int64 {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return slices.Clone(a.timeDeltas[timeDeltaKey])
}

// Size returns the number of path groups, destination groups and time delta keys
func (a *Accumulators) Size() (int, int, int) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return len(a.paths), len(a.destinations), len(a.timeDeltas)
}

// Build reduces the statistics into models
func (a *Accumulators) Build() *models.ModelSet {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return models.Build(a.timeDeltas, a.paths, a.destinations)
}
