package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/logiruta/logistica-api/pkg/metrics"
)

// MetricsMiddleware registra contador y latencia por request.
// Usa c.Route().Path (con :params) para no explotar la cardinalidad de labels.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())
		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), path, status).Observe(time.Since(start).Seconds())
		return err
	}
}
