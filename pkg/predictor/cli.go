package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kr/pretty"
	"github.com/travigo/trainpredict/pkg/bootstrap"
	"github.com/travigo/trainpredict/pkg/ctdf"
	"github.com/travigo/trainpredict/pkg/datasource"
	"github.com/travigo/trainpredict/pkg/network"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "predict",
		Usage: "Predict arrivals from a single observation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "state",
				Usage:    "observed state, Approaching, Arrived or Departed",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "location",
				Usage:    "observed location code, STATION or STATION_PLATFORM",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:   "at",
				Usage:  "observation time, defaults to now",
				Layout: time.RFC3339,
			},
			&cli.TimestampFlag{
				Name:   "heartbeat",
				Usage:  "current time, defaults to the observation time",
				Layout: time.RFC3339,
			},
			&cli.StringFlag{
				Name:  "starting",
				Usage: "location code the journey started at",
			},
			&cli.StringFlag{
				Name:  "destination",
				Usage: "destination location code",
			},
			&cli.StringFlag{
				Name:  "timetable",
				Usage: "timetable CSV file",
			},
			&cli.StringFlag{
				Name:  "run",
				Usage: "run number to fetch the timetable for when no file is given",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "print the predictions as Go values",
			},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()

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
			modelSet, err := store.Load(ctx)
			if err != nil {
				return fmt.Errorf("failed to load models: %w", err)
			}

			observedAt := time.Now()
			if at := c.Timestamp("at"); at != nil {
				observedAt = *at
			}
			heartbeat := observedAt
			if at := c.Timestamp("heartbeat"); at != nil {
				heartbeat = *at
			}

			state := ctdf.NormaliseState(c.String("state"))
			current := ctdf.NewObservation(state, graph.Normalise(ctdf.ParseLocation(c.String("location"))), observedAt)

			starting := optionalLocation(graph, c.String("starting"))
			destination := optionalLocation(graph, c.String("destination"))

			timetable, err := loadTimetable(ctx, c.String("timetable"), c.String("run"))
			if err != nil {
				return err
			}

			predictions, err := New(modelSet, graph, ConfigOptions(cfg.Predictor)...).Predict(heartbeat, current, starting, destination, timetable)
			if err != nil {
				return err
			}

			if c.Bool("pretty") {
				pretty.Println(predictions)
				return nil
			}

			predictionsJSON, err := json.MarshalIndent(predictions, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(predictionsJSON))

			return nil
		},
	}
}

func optionalLocation(graph *network.Graph, code string) *ctdf.Location {
	if code == "" {
		return nil
	}

	location := graph.Normalise(ctdf.ParseLocation(code))
	return &location
}

func loadTimetable(ctx context.Context, path string, runNumber string) ([]ctdf.TimetableEntry, error) {
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		return datasource.LoadTimetableCSV(file)
	}

	if runNumber != "" {
		return datasource.NewClient().Timetable(ctx, runNumber)
	}

	return nil, nil
}
