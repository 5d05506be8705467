package health

import (
	"artbridge-backend/internal/health"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Rdb *redis.Client
	DB  health.DBPinger
}

// JSON GET /health/json — dependency status for monitors.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := health.CollectHealth(c.Context(), h.Rdb, h.DB)
	status := fiber.StatusOK
	if result.Status != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
