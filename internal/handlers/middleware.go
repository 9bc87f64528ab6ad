package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/metrics"
	"alfredoptarigan/cv-screener/internal/models"
)

// AccessLog writes one entry per request and records the HTTP metrics.
func AccessLog(log *zap.Logger, m *metrics.ScreeningMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.StartRequest()

		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		latency := time.Since(start)
		path := c.Route().Path
		m.FinishRequest(c.Method(), path, status, latency)

		fields := []zap.Field{
			zap.Any("request_id", c.Locals("requestid")),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("request completed", fields...)
		case status >= fiber.StatusBadRequest:
			log.Warn("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}

		return err
	}
}

// ErrorHandler renders errors escaping the handlers in the API error shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Success: false,
		Error:   message,
	})
}
