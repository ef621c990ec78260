// Package trainer mines vehicle run histories into the statistics behind the prediction models.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/trainpredict/pkg/datasource"
	"github.com/travigo/trainpredict/pkg/models"
	"github.com/travigo/trainpredict/pkg/reconciler"
	"github.com/travigo/trainpredict/pkg/util"
)

const DefaultFetchConcurrency = 8

// cursorStep is added to the last timestamp of a page to get the cursor of the next one
const cursorStep = time.Millisecond

type Trainer struct {
	history    datasource.HistorySource
	reconciler *reconciler.Reconciler
	adjacency  Adjacency

	fetchConcurrency int
}

type RunStats struct {
	RunNumber    string
	Pages        int
	Entries      int
	Unrecognized int
	Outcomes     map[Outcome]int
	Err          error
}

type TrainingStats struct {
	Runs         int
	FailedRuns   int
	Entries      int64
	PathGroups   int
	Destinations int
	TimeDeltas   int
}

var ErrAllRunsFailed = errors.New("every run failed to train")

// Err reports a training pass that produced nothing worth saving
func (s TrainingStats) Err() error {
	if s.Runs > 0 && s.FailedRuns == s.Runs {
		return fmt.Errorf("%w: %d runs, keeping the existing models", ErrAllRunsFailed, s.Runs)
	}

	return nil
}

func New(history datasource.HistorySource, reconciler *reconciler.Reconciler, adjacency Adjacency, fetchConcurrency int) *Trainer {
	if fetchConcurrency < 1 {
		fetchConcurrency = DefaultFetchConcurrency
	}

	return &Trainer{
		history:          history,
		reconciler:       reconciler,
		adjacency:        adjacency,
		fetchConcurrency: fetchConcurrency,
	}
}

// Train pages through the history of every run since the given time and builds the models
func (t *Trainer) Train(ctx context.Context, runNumbers []string, since time.Time) (*models.ModelSet, TrainingStats) {
	startTime := time.Now()
	accumulators := NewAccumulators()

	var entries atomic.Int64
	var failedRuns atomic.Int64

	p := pool.New().WithMaxGoroutines(t.fetchConcurrency)
	for _, runNumber := range runNumbers {
		runNumber := runNumber

		p.Go(func() {
			runStats := t.TrainRun(ctx, runNumber, since, accumulators)

			entries.Add(int64(runStats.Entries))
			if runStats.Err != nil {
				failedRuns.Add(1)
			}
		})
	}
	p.Wait()

	modelSet := accumulators.Build()
	pathGroups, destinations, timeDeltas := accumulators.Size()

	stats := TrainingStats{
		Runs:         len(runNumbers),
		FailedRuns:   int(failedRuns.Load()),
		Entries:      entries.Load(),
		PathGroups:   pathGroups,
		Destinations: destinations,
		TimeDeltas:   timeDeltas,
	}

	log.Info().
		Int("runs", stats.Runs).
		Int("failedruns", stats.FailedRuns).
		Int64("entries", stats.Entries).
		Int("pathgroups", stats.PathGroups).
		Int("destinationgroups", stats.Destinations).
		Int("timedeltas", stats.TimeDeltas).
		Str("duration", time.Since(startTime).String()).
		Msg("Training complete")

	return modelSet, stats
}

// TrainRun segments a single run's history into the accumulators. A failed page stops the run
// but keeps everything recorded from the pages before it.
func (t *Trainer) TrainRun(ctx context.Context, runNumber string, since time.Time, accumulators *Accumulators) RunStats {
	stats := RunStats{
		RunNumber: runNumber,
		Outcomes:  map[Outcome]int{},
	}
	segmenter := NewSegmenter(t.adjacency, accumulators)

	cursor := since
	for {
		if err := ctx.Err(); err != nil {
			stats.Err = err
			break
		}

		page, err := t.history.History(ctx, runNumber, cursor)
		if err != nil {
			log.Error().Err(err).Str("run", runNumber).Time("cursor", cursor).Int("pages", stats.Pages).Msg("Failed to fetch run history page")
			stats.Err = err
			break
		}

		if len(page.Entries) == 0 {
			break
		}
		stats.Pages++

		lastTimestamp := page.Entries[len(page.Entries)-1].Timestamp

		entries := page.Entries
		util.InPlaceFilter(&entries, func(entry datasource.RawStatus) bool {
			return entry.Active
		})

		for _, entry := range entries {
			stats.Entries++
			t.processEntry(segmenter, entry, &stats)
		}

		next := lastTimestamp.Add(cursorStep)
		if !next.After(cursor) {
			log.Warn().Str("run", runNumber).Time("cursor", cursor).Msg("History cursor did not advance")
			break
		}
		cursor = next
	}

	log.Debug().
		Str("run", runNumber).
		Int("pages", stats.Pages).
		Int("entries", stats.Entries).
		Int("unrecognized", stats.Unrecognized).
		Int("appended", stats.Outcomes[OutcomeAppended]).
		Int("discarded", stats.Outcomes[OutcomeDiscarded]).
		Int("turnarounds", stats.Outcomes[OutcomeTurnaround]).
		Msg("Trained run")

	return stats
}

func (t *Trainer) processEntry(segmenter *Segmenter, entry datasource.RawStatus, stats *RunStats) {
	observation, err := t.reconciler.Reconcile(entry.Event, entry.Status, entry.Timestamp)
	if errors.Is(err, reconciler.ErrUnrecognizedLocation) {
		log.Debug().Err(err).Str("run", entry.RunNumber).Msg("Discarding journey at unrecognized location")

		stats.Unrecognized++
		segmenter.Reset()
		return
	} else if err != nil {
		log.Debug().Err(err).Str("run", entry.RunNumber).Msg("Skipping unreconcilable status")
		return
	}

	stats.Outcomes[segmenter.Add(observation)]++
}
