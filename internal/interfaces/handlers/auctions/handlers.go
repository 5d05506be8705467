package auctions

import (
	"time"

	aucsvc "artbridge-backend/internal/application/auctions"
	"artbridge-backend/internal/domain"
	"artbridge-backend/internal/middleware"
	"artbridge-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Coordinator *aucsvc.Coordinator
}

// CreateAuction POST /api/v1/auctions/create-auction
func (h *Handlers) CreateAuction(c *fiber.Ctx) error {
	var body struct {
		ArtworkID    string     `json:"artwork_id"`
		StartPrice   float64    `json:"start_price"`
		ReservePrice *float64   `json:"reserve_price"`
		StartsAt     *time.Time `json:"starts_at"`
		EndsAt       *time.Time `json:"ends_at"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.ArtworkID == "" || body.StartPrice == 0 {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	artworkID, err := uuid.Parse(body.ArtworkID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for artwork_id", fiber.StatusBadRequest, nil)
	}
	sellerID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	auction, err := h.Coordinator.CreateAuction(c.Context(), aucsvc.CreateAuctionInput{
		ArtworkID:    artworkID,
		SellerUserID: sellerID,
		StartPrice:   body.StartPrice,
		ReservePrice: body.ReservePrice,
		StartsAt:     body.StartsAt,
		EndsAt:       body.EndsAt,
	})
	if err != nil {
		return mapError(c, err)
	}
	return response.SuccessCreated(c, "Auction created", auction, nil)
}

// GetActiveAuctions GET /api/v1/auctions/get-active-auctions
func (h *Handlers) GetActiveAuctions(c *fiber.Ctx) error {
	views, err := h.Coordinator.ListActive(c.Context())
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Active auctions retrieved", views, fiber.Map{"count": len(views)})
}

// PlaceBid POST /api/v1/auctions/place-bid
func (h *Handlers) PlaceBid(c *fiber.Ctx) error {
	var body struct {
		AuctionID string  `json:"auction_id"`
		Amount    float64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.AuctionID == "" || body.Amount == 0 {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	auctionID, err := uuid.Parse(body.AuctionID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for auction_id", fiber.StatusBadRequest, nil)
	}
	bidderID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	bid, err := h.Coordinator.PlaceBid(c.Context(), auctionID, bidderID, body.Amount)
	if err != nil {
		return mapError(c, err)
	}
	return response.SuccessCreated(c, "Bid placed", bid, nil)
}

// CloseAuction POST /api/v1/auctions/close-auction
func (h *Handlers) CloseAuction(c *fiber.Ctx) error {
	var body struct {
		AuctionID string `json:"auction_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.AuctionID == "" {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	auctionID, err := uuid.Parse(body.AuctionID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for auction_id", fiber.StatusBadRequest, nil)
	}
	sellerID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	auction, err := h.Coordinator.Close(c.Context(), auctionID, sellerID)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Auction closed", auction, nil)
}

// CancelAuction POST /api/v1/auctions/cancel-auction
func (h *Handlers) CancelAuction(c *fiber.Ctx) error {
	var body struct {
		AuctionID string `json:"auction_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.AuctionID == "" {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	auctionID, err := uuid.Parse(body.AuctionID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for auction_id", fiber.StatusBadRequest, nil)
	}
	sellerID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	auction, err := h.Coordinator.Cancel(c.Context(), auctionID, sellerID)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Auction cancelled", auction, nil)
}

// GetBids GET /api/v1/auctions/get-bids/:auction_id
func (h *Handlers) GetBids(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("auction_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for auction_id", fiber.StatusBadRequest, nil)
	}
	bids, err := h.Coordinator.Bids(c.Context(), auctionID)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Bids retrieved", bids, fiber.Map{"count": len(bids)})
}

func mapError(c *fiber.Ctx, err error) error {
	switch {
	case domain.IsValidation(err):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	case domain.IsConflict(err):
		return response.Error(c, err.Error(), fiber.StatusConflict, nil)
	case domain.IsUpstreamUnavailable(err):
		return response.Error(c, "Service temporarily unavailable", fiber.StatusServiceUnavailable, nil)
	}
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}
