package transactions

import (
	"artbridge-backend/internal/application/ledger"
	"artbridge-backend/internal/middleware"
	"artbridge-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Ledger *ledger.Service
}

// GetTransactions GET /api/v1/transactions/get-transactions — the session
// user's ledger entries, optionally filtered by type and status.
func (h *Handlers) GetTransactions(c *fiber.Ctx) error {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	filter := ledger.TxFilter{
		BuyerUserID: &userID,
		Type:        c.Query("type"),
		Status:      c.Query("status"),
	}
	if c.Query("side") == "seller" {
		filter = ledger.TxFilter{
			SellerUserID: &userID,
			Type:         c.Query("type"),
			Status:       c.Query("status"),
		}
	}

	txs, err := h.Ledger.QueryTransactions(c.Context(), filter)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Transactions retrieved", txs, fiber.Map{"count": len(txs)})
}
