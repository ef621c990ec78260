package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/trainpredict/pkg/api"
	"github.com/travigo/trainpredict/pkg/predictor"
	"github.com/travigo/trainpredict/pkg/realtime"
	"github.com/travigo/trainpredict/pkg/trainer"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("TRAVIGO_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if os.Getenv("TRAVIGO_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "trainpredict",
		Description: "Trains arrival models from run history and predicts train arrivals",

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "optional YAML config file",
				EnvVars: []string{"TRAVIGO_CONFIG"},
			},
		},

		Commands: []*cli.Command{
			trainer.RegisterCLI(),
			predictor.RegisterCLI(),
			realtime.RegisterCLI(),
			api.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
