package realtime

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/trainpredict/pkg/datasource"
	"github.com/travigo/trainpredict/pkg/predictor"
	"github.com/travigo/trainpredict/pkg/reconciler"
)

const maxBatchConcurrency = 10

type BatchConsumer struct {
	processor *Processor
}

func NewBatchConsumer(processor *Processor) *BatchConsumer {
	return &BatchConsumer{processor: processor}
}

func (consumer *BatchConsumer) Consume(batch rmq.Deliveries) {
	p := pool.New().WithMaxGoroutines(maxBatchConcurrency)

	for _, delivery := range batch {
		delivery := delivery

		p.Go(func() {
			consumer.consumeDelivery(delivery)
		})
	}

	p.Wait()
}

func (consumer *BatchConsumer) consumeDelivery(delivery rmq.Delivery) {
	var status datasource.RawStatus
	if err := json.Unmarshal([]byte(delivery.Payload()), &status); err != nil {
		log.Error().Err(err).Msg("Failed to decode queued status")

		if err := delivery.Reject(); err != nil {
			log.Error().Err(err).Msg("Failed to reject queued status")
		}
		return
	}

	_, err := consumer.processor.Process(context.Background(), status)

	switch {
	case err == nil:
	case errors.Is(err, reconciler.ErrUnrecognizedLocation), errors.Is(err, reconciler.ErrNoSignal):
		log.Debug().Err(err).Str("run", status.RunNumber).Msg("Skipping status")
	case errors.Is(err, predictor.ErrNoDestinationFound), errors.Is(err, predictor.ErrNoPathFound):
		log.Info().Err(err).Str("run", status.RunNumber).Msg("No prediction made")
	default:
		log.Warn().Err(err).Str("run", status.RunNumber).Msg("Failed to process status")
	}

	if err := delivery.Ack(); err != nil {
		log.Error().Err(err).Msg("Failed to ack queued status")
	}
}
