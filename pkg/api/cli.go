package api

import (
	"github.com/travigo/trainpredict/pkg/predictioncache"
	"github.com/travigo/trainpredict/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Serves cached predictions",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					return SetupServer(c.String("listen"), predictioncache.New(redis_client.Client))
				},
			},
		},
	}
}
