// Package modelstore persists trained model sets to a directory of JSON files or to MongoDB.
package modelstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/travigo/trainpredict/pkg/models"
)

var ErrModelMissing = errors.New("model document missing")

type Store interface {
	Save(ctx context.Context, modelSet *models.ModelSet) error
	Load(ctx context.Context) (*models.ModelSet, error)
}

var modelNames = []string{
	models.MedianTimeDeltasName,
	models.UsualPathsName,
	models.UsualDestinationsName,
}

func encodeModels(modelSet *models.ModelSet) (map[string][]byte, error) {
	documents := map[string]any{
		models.MedianTimeDeltasName:  modelSet.MedianTimeDeltas,
		models.UsualPathsName:        modelSet.UsualPaths,
		models.UsualDestinationsName: modelSet.UsualDestinations,
	}

	encoded := map[string][]byte{}
	for name, document := range documents {
		data, err := json.Marshal(document)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", name, err)
		}
		encoded[name] = data
	}

	return encoded, nil
}

// decodeModels loads all three documents through the strict codec, so a single malformed document
// fails the whole load
func decodeModels(documents map[string][]byte) (*models.ModelSet, error) {
	for _, name := range modelNames {
		if _, exists := documents[name]; !exists {
			return nil, fmt.Errorf("%w: %s", ErrModelMissing, name)
		}
	}

	medians, err := models.DecodeMedianTimeDeltas(documents[models.MedianTimeDeltasName])
	if err != nil {
		return nil, err
	}

	usualPaths, err := models.DecodeUsualPaths(documents[models.UsualPathsName])
	if err != nil {
		return nil, err
	}

	usualDestinations, err := models.DecodeUsualDestinations(documents[models.UsualDestinationsName])
	if err != nil {
		return nil, err
	}

	return &models.ModelSet{
		MedianTimeDeltas:  medians,
		UsualPaths:        usualPaths,
		UsualDestinations: usualDestinations,
	}, nil
}
