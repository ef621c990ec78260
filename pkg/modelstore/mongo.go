package modelstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/trainpredict/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type modelDocument struct {
	Name                 string    `bson:"_id"`
	Document             string    `bson:"document"`
	ModificationDateTime time.Time `bson:"modificationdatetime"`
}

// MongoStore keeps each model as a JSON string document in a collection
type MongoStore struct {
	Collection *mongo.Collection
}

func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{Collection: collection}
}

func (m *MongoStore) Save(ctx context.Context, modelSet *models.ModelSet) error {
	documents, err := encodeModels(modelSet)
	if err != nil {
		return err
	}

	now := time.Now()

	for _, name := range modelNames {
		_, err := m.Collection.ReplaceOne(
			ctx,
			bson.M{"_id": name},
			modelDocument{
				Name:                 name,
				Document:             string(documents[name]),
				ModificationDateTime: now,
			},
			options.Replace().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("saving %s: %w", name, err)
		}
	}

	log.Info().Str("collection", m.Collection.Name()).Msg("Saved models")

	return nil
}

func (m *MongoStore) Load(ctx context.Context) (*models.ModelSet, error) {
	documents := map[string][]byte{}

	for _, name := range modelNames {
		var document modelDocument

		err := m.Collection.FindOne(ctx, bson.M{"_id": name}).Decode(&document)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrModelMissing, name)
		} else if err != nil {
			return nil, err
		}

		documents[name] = []byte(document.Document)
	}

	return decodeModels(documents)
}
