package portfolio

import (
	pfsvc "artbridge-backend/internal/application/portfolio"
	"artbridge-backend/internal/domain"
	"artbridge-backend/internal/middleware"
	"artbridge-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *pfsvc.Service
}

// ViewPortfolio GET /api/v1/portfolio/view-portfolio — stats plus valued
// holdings for the session user. Degraded valuations surface as warnings in
// metadata, never as a failed request.
func (h *Handlers) ViewPortfolio(c *fiber.Ctx) error {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	p, err := h.Service.ComputePortfolio(c.Context(), userID)
	if err != nil {
		if domain.IsUpstreamUnavailable(err) {
			return response.Error(c, "Service temporarily unavailable", fiber.StatusServiceUnavailable, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	var meta interface{}
	if len(p.Warnings) > 0 {
		meta = fiber.Map{"warnings": p.Warnings}
	}
	return response.Success(c, "Portfolio retrieved", fiber.Map{
		"stats":    p.Stats,
		"holdings": p.Holdings,
	}, meta)
}
