package realtime

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/trainpredict/pkg/bootstrap"
	"github.com/travigo/trainpredict/pkg/consumer"
	"github.com/travigo/trainpredict/pkg/datasource"
	"github.com/travigo/trainpredict/pkg/elastic_client"
	"github.com/travigo/trainpredict/pkg/predictioncache"
	"github.com/travigo/trainpredict/pkg/predictor"
	"github.com/travigo/trainpredict/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "realtime",
		Usage: "Predict arrivals for live runs",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "poll the live snapshot and run the prediction consumers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "stats-listen",
						Value: ":3333",
						Usage: "listen target for the queue stats server",
					},
				},
				Action: func(c *cli.Context) error {
					ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
					defer stop()

					cfg, err := bootstrap.LoadConfig(c.String("config"))
					if err != nil {
						return err
					}

					if err := redis_client.Connect(); err != nil {
						return err
					}
					if err := elastic_client.Connect(false); err != nil {
						return err
					}
					defer elastic_client.WaitUntilQueueEmpty()

					graph, err := bootstrap.LoadNetwork(ctx, cfg)
					if err != nil {
						return err
					}

					store, err := bootstrap.ModelStore(cfg)
					if err != nil {
						return err
					}
					modelSet, err := store.Load(ctx)
					if err != nil {
						return fmt.Errorf("failed to load models: %w", err)
					}

					client := datasource.NewClient()

					stateReconciler, err := bootstrap.Reconciler(ctx, client, graph)
					if err != nil {
						return err
					}

					processor := &Processor{
						Reconciler: stateReconciler,
						Predictor:  predictor.New(modelSet, graph, predictor.ConfigOptions(cfg.Predictor)...),
						Timetables: client,
						Cache:      predictioncache.New(redis_client.Client),
						Network:    graph,
					}

					queue, err := redis_client.QueueConnection.OpenQueue(QueueName)
					if err != nil {
						return err
					}

					poller := &Poller{
						Snapshot:    client,
						Queue:       queue,
						RefreshRate: cfg.Realtime.Refresh,
					}
					go poller.Run(ctx)

					redisConsumer := &consumer.RedisConsumer{
						QueueName:       QueueName,
						NumberConsumers: cfg.Realtime.Consumers,
						BatchSize:       cfg.Realtime.BatchSize,
						Timeout:         2 * time.Second,
						Consumer:        NewBatchConsumer(processor),
						StatsListen:     c.String("stats-listen"),
					}

					errs := make(chan error, 1)
					go func() {
						errs <- redisConsumer.Setup()
					}()

					select {
					case <-ctx.Done():
						log.Info().Msg("Stopping realtime consumers")
						<-redis_client.QueueConnection.StopAllConsuming()
						return nil
					case err := <-errs:
						return err
					}
				},
			},
		},
	}
}
