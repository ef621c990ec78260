// Package bootstrap wires the shared pieces every command needs from the loaded configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/travigo/trainpredict/pkg/config"
	"github.com/travigo/trainpredict/pkg/database"
	"github.com/travigo/trainpredict/pkg/datasource"
	"github.com/travigo/trainpredict/pkg/modelstore"
	"github.com/travigo/trainpredict/pkg/network"
	"github.com/travigo/trainpredict/pkg/reconciler"
)

func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func LoadNetwork(ctx context.Context, cfg *config.Config) (*network.Graph, error) {
	return datasource.LoadNetwork(
		ctx,
		cfg.Network.File,
		network.WithEquivalents(cfg.Network.Equivalents),
		network.WithPlatformInsensitive(cfg.Network.PlatformInsensitive...),
	)
}

// ModelStore returns the configured store, connecting to MongoDB first when it is the backend
func ModelStore(cfg *config.Config) (modelstore.Store, error) {
	switch cfg.Models.Backend {
	case config.BackendMongoDB:
		if database.Instance == nil {
			if err := database.Connect(); err != nil {
				return nil, err
			}
		}

		return modelstore.NewMongoStore(database.GetCollection(database.PredictionModelsCollection)), nil
	default:
		return modelstore.NewFileStore(cfg.Models.Directory), nil
	}
}

// Reconciler resolves station names with the directory published by stations
func Reconciler(ctx context.Context, stations datasource.StationSource, graph *network.Graph) (*reconciler.Reconciler, error) {
	namesToCodes, err := stations.Stations(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching stations: %w", err)
	}

	directory := reconciler.NewStationDirectory(namesToCodes)
	log.Info().Int("stations", directory.Len()).Msg("Loaded station directory")

	return reconciler.New(directory, graph), nil
}
