package datasource

import (
	"context"
	"time"

	"github.com/travigo/trainpredict/pkg/ctdf"
	"github.com/travigo/trainpredict/pkg/reconciler"
)

// RawStatus is one heartbeat of a vehicle run as reported by the transit data API
type RawStatus struct {
	RunNumber string    `json:"runNumber"`
	Active    bool      `json:"active"`
	Timestamp time.Time `json:"timestamp"`

	Event  *reconciler.PreciseSignal `json:"event,omitempty"`
	Status *reconciler.CoarseSignal  `json:"status,omitempty"`
}

type HistoryPage struct {
	Entries []RawStatus `json:"entries"`
}

type HistorySource interface {
	History(ctx context.Context, runNumber string, cursor time.Time) (HistoryPage, error)
}

type RunSource interface {
	Runs(ctx context.Context) ([]string, error)
}

type SnapshotSource interface {
	Snapshot(ctx context.Context) ([]RawStatus, error)
}

type TimetableSource interface {
	Timetable(ctx context.Context, runNumber string) ([]ctdf.TimetableEntry, error)
}

type StationSource interface {
	Stations(ctx context.Context) (map[string]string, error)
}
