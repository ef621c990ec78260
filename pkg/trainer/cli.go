package trainer

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/travigo/trainpredict/pkg/bootstrap"
	"github.com/travigo/trainpredict/pkg/datasource"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "train",
		Usage: "Build the prediction models from run history",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "run",
				Usage: "run numbers to train on, defaults to every run the transit API lists",
			},
			&cli.IntFlag{
				Name:  "history-days",
				Usage: "days of history to train on, overriding trainer.history_days",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := bootstrap.LoadConfig(c.String("config"))
			if err != nil {
				return err
			}

			graph, err := bootstrap.LoadNetwork(ctx, cfg)
			if err != nil {
				return err
			}

			store, err := bootstrap.ModelStore(cfg)
			if err != nil {
				return err
			}

			client := datasource.NewClient()

			stateReconciler, err := bootstrap.Reconciler(ctx, client, graph)
			if err != nil {
				return err
			}

			runNumbers := c.StringSlice("run")
			if len(runNumbers) == 0 {
				if runNumbers, err = client.Runs(ctx); err != nil {
					return err
				}
			}

			historyDays := cfg.Trainer.HistoryDays
			if c.IsSet("history-days") {
				historyDays = c.Int("history-days")
			}
			since := time.Now().AddDate(0, 0, -historyDays)

			modelSet, stats := New(client, stateReconciler, graph, cfg.Trainer.FetchConcurrency).Train(ctx, runNumbers, since)
			if err := ctx.Err(); err != nil {
				return err
			}

			if err := stats.Err(); err != nil {
				return err
			}

			return store.Save(ctx, modelSet)
		},
	}
}
