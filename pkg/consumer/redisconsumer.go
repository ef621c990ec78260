package consumer

import (
	"fmt"
	"net/http"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/trainpredict/pkg/redis_client"
)

const defaultStatsListen = ":3333"

// RedisConsumer runs NumberConsumers batch consumers against one rmq queue
type RedisConsumer struct {
	QueueName string

	NumberConsumers int
	BatchSize       int

	Timeout time.Duration

	Consumer rmq.BatchConsumer

	StatsListen string
}

// Setup starts the consumers then serves queue stats, blocking until the stats server stops
func (c *RedisConsumer) Setup() error {
	if err := c.StartConsumers(redis_client.QueueConnection); err != nil {
		return err
	}

	return c.serveStats()
}

func (c *RedisConsumer) StartConsumers(connection rmq.Connection) error {
	log.Info().Str("queue", c.QueueName).Int("consumers", c.NumberConsumers).Msg("Starting consumers")

	queue, err := connection.OpenQueue(c.QueueName)
	if err != nil {
		return err
	}
	if err := queue.StartConsuming(int64(c.NumberConsumers*c.BatchSize), 1*time.Second); err != nil {
		return err
	}

	for i := 0; i < c.NumberConsumers; i++ {
		log.Info().Msgf("Starting %s consumer %d", c.QueueName, i)

		if _, err := queue.AddBatchConsumer(fmt.Sprintf("%s-%d", c.QueueName, i), int64(c.BatchSize), c.Timeout, c.Consumer); err != nil {
			return err
		}
	}

	return nil
}

func (c *RedisConsumer) serveStats() error {
	listen := c.StatsListen
	if listen == "" {
		listen = defaultStatsListen
	}

	mux := http.NewServeMux()
	endpoint := fmt.Sprintf("/%s/stats", c.QueueName)
	mux.Handle(endpoint, NewStatsHandler(redis_client.QueueConnection))
	mux.Handle("/health", NewHealthHandler())

	log.Info().Msgf("Stats server listening on http://localhost%s%s", listen, endpoint)

	return http.ListenAndServe(listen, mux)
}
