package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"alfredoptarigan/cv-screener/internal/metrics"
)

// Register mounts the API, health, metrics and banner routes on app.
func Register(app *fiber.App, screen *ScreenHandler, m *metrics.ScreeningMetrics) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().UTC(),
		})
	})

	api.Post("/process-cvs", screen.HandleProcess)
	api.Post("/process-cvs/export", screen.HandleExport)

	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI CV Screener API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/process-cvs",
				"POST /api/v1/process-cvs/export",
				"GET /api/v1/health",
				"GET /metrics",
			},
		})
	})
}
