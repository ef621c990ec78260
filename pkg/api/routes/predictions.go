package routes

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/trainpredict/pkg/predictioncache"
)

type PredictionReader interface {
	Get(ctx context.Context, runNumber string) (*predictioncache.Entry, error)
}

func PredictionsRouter(router fiber.Router, predictions PredictionReader) {
	router.Get("/:run", getPredictions(predictions))
}

func getPredictions(predictions PredictionReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		runNumber := c.Params("run")

		entry, err := predictions.Get(c.UserContext(), runNumber)
		if errors.Is(err, predictioncache.ErrNotFound) {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": "No predictions for run",
				"run":   runNumber,
			})
		} else if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(entry)
	}
}
