package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const PredictionModelsCollection = "prediction_models"

func createIndexes() {
	createPredictionModelsIndexes()
}

func createPredictionModelsIndexes() {
	modelsCollection := GetCollection(PredictionModelsCollection)

	_, err := modelsCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "modificationdatetime", Value: -1}},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Str("collection", PredictionModelsCollection).Msg("Creating indexes")
	}
}
