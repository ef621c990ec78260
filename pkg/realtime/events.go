package realtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/travigo/trainpredict/pkg/elastic_client"
)

const (
	FailReasonUnrecognizedLocation = "UNRECOGNIZED_LOCATION"
	FailReasonReconcile            = "RECONCILE"
	FailReasonNoDestination        = "NO_DESTINATION"
	FailReasonNoPath               = "NO_PATH"
	FailReasonUnknown              = "UNKNOWN"
)

// PredictionEvent records the outcome of predicting one heartbeat of a run
type PredictionEvent struct {
	ID        string
	Timestamp time.Time

	RunNumber   string
	Observation string

	Success    bool
	FailReason string

	Predictions int
	Destination string
	// Horizon is how far ahead of the heartbeat the last prediction is
	HorizonSeconds float64
}

// EventSink receives encoded events for an index
type EventSink func(indexName string, document io.ReadSeeker)

func EventIndexName(t time.Time) string {
	return fmt.Sprintf("prediction-events-%s", t.Format("2006-01-02"))
}

func emitEvent(sink EventSink, event PredictionEvent) {
	if sink == nil {
		sink = elastic_client.IndexRequest
	}

	event.ID = uuid.NewString()

	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("run", event.RunNumber).Msg("Failed to encode prediction event")
		return
	}

	sink(EventIndexName(event.Timestamp), bytes.NewReader(eventJSON))
}
