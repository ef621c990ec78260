package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/trainpredict/pkg/api/routes"
)

func NewApp(predictions routes.PredictionReader) *fiber.App {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	webApp.Get("version", routes.APIVersion)

	routes.PredictionsRouter(webApp.Group("/predictions"), predictions)

	return webApp
}

func SetupServer(listen string, predictions routes.PredictionReader) error {
	return NewApp(predictions).Listen(listen)
}
