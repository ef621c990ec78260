package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/trainpredict/pkg/datasource"
	"github.com/travigo/trainpredict/pkg/util"
)

const QueueName = "prediction-queue"

type Publisher interface {
	PublishBytes(payload ...[]byte) error
}

// Poller fetches the live snapshot every RefreshRate and queues each active run for prediction
type Poller struct {
	Snapshot    datasource.SnapshotSource
	Queue       Publisher
	RefreshRate time.Duration
}

func (p *Poller) Run(ctx context.Context) {
	log.Info().Dur("refresh", p.RefreshRate).Msg("Starting snapshot poller")

	for {
		startTime := time.Now()

		queued, err := p.Poll(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to poll snapshot")
		} else {
			log.Debug().Int("queued", queued).Dur("took", time.Since(startTime)).Msg("Polled snapshot")
		}

		waitTime := p.RefreshRate - time.Since(startTime)
		if waitTime < 0 {
			waitTime = 0
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(waitTime):
		}
	}
}

func (p *Poller) Poll(ctx context.Context) (int, error) {
	statuses, err := p.Snapshot.Snapshot(ctx)
	if err != nil {
		return 0, err
	}

	util.InPlaceFilter(&statuses, func(status datasource.RawStatus) bool {
		return status.Active && status.RunNumber != ""
	})

	if len(statuses) == 0 {
		return 0, nil
	}

	payloads := make([][]byte, 0, len(statuses))
	for _, status := range statuses {
		payload, err := json.Marshal(status)
		if err != nil {
			return 0, err
		}
		payloads = append(payloads, payload)
	}

	if err := p.Queue.PublishBytes(payloads...); err != nil {
		return 0, err
	}

	return len(payloads), nil
}
