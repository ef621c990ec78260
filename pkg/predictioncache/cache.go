package predictioncache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/travigo/trainpredict/pkg/ctdf"
)

const Expiration = 3 * time.Hour

var ErrNotFound = errors.New("no cached predictions")

// Entry is the latest prediction made for a run
type Entry struct {
	RunNumber   string            `json:"run_number"`
	Starting    string            `json:"starting"`
	Visited     []string          `json:"visited,omitempty"`
	Observation string            `json:"observation"`
	Heartbeat   time.Time         `json:"heartbeat"`
	GeneratedAt time.Time         `json:"generated_at"`
	Predictions []ctdf.Prediction `json:"predictions"`
}

type Cache struct {
	predictions *cache.Cache[string]
}

func New(client *redis.Client) *Cache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(Expiration))

	return &Cache{
		predictions: cache.New[string](redisStore),
	}
}

func Key(runNumber string) string {
	return fmt.Sprintf("predictions:%s", runNumber)
}

func (c *Cache) Set(ctx context.Context, entry *Entry) error {
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return c.predictions.Set(ctx, Key(entry.RunNumber), string(entryJSON))
}

func (c *Cache) Get(ctx context.Context, runNumber string) (*Entry, error) {
	cached, err := c.predictions.Get(ctx, Key(runNumber))
	if errors.Is(err, redis.Nil) || errors.Is(err, store.NotFound{}) {
		return nil, fmt.Errorf("%w for run %s", ErrNotFound, runNumber)
	} else if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal([]byte(cached), &entry); err != nil {
		return nil, fmt.Errorf("decoding cached predictions for run %s: %w", runNumber, err)
	}

	return &entry, nil
}

func (c *Cache) Delete(ctx context.Context, runNumber string) error {
	return c.predictions.Delete(ctx, Key(runNumber))
}
