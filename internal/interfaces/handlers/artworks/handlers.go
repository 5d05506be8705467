package artworks

import (
	artsvc "artbridge-backend/internal/application/artworks"
	"artbridge-backend/internal/application/ledger"
	"artbridge-backend/internal/application/ownership"
	"artbridge-backend/internal/application/valuation"
	"artbridge-backend/internal/domain"
	"artbridge-backend/internal/middleware"
	"artbridge-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Artworks  *artsvc.Service
	Ledger    *ledger.Service
	Ownership *ownership.Aggregator
	Valuation *valuation.Service
}

// CreateArtwork POST /api/v1/artworks/create-artwork
func (h *Handlers) CreateArtwork(c *fiber.Ctx) error {
	var body struct {
		Title          string  `json:"title"`
		Description    *string `json:"description"`
		ImageURL       *string `json:"image_url"`
		PriceAmount    float64 `json:"price_amount"`
		PriceDenom     string  `json:"price_denom"`
		FractionsTotal int     `json:"fractions_total"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	ownerID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	artwork, err := h.Ledger.CreateArtwork(c.Context(), ledger.CreateArtworkInput{
		Title:          body.Title,
		Description:    body.Description,
		ImageURL:       body.ImageURL,
		OwnerUserID:    ownerID,
		PriceAmount:    body.PriceAmount,
		PriceDenom:     body.PriceDenom,
		FractionsTotal: body.FractionsTotal,
	})
	if err != nil {
		return mapError(c, err)
	}
	return response.SuccessCreated(c, "Artwork created", artwork, nil)
}

// GetAllArtworks GET /api/v1/artworks/get-all-artworks
func (h *Handlers) GetAllArtworks(c *fiber.Ctx) error {
	views, err := h.Artworks.ListArtworks(c.Context(), artsvc.Filter{
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		PriceRange: c.Query("price_range"),
		SortBy:     c.Query("sort_by"),
	})
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Artworks retrieved", views, fiber.Map{"count": len(views)})
}

// GetArtwork GET /api/v1/artworks/get-artwork/:artwork_id
func (h *Handlers) GetArtwork(c *fiber.Ctx) error {
	artworkID, err := uuid.Parse(c.Params("artwork_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for artwork_id", fiber.StatusBadRequest, nil)
	}
	artwork, err := h.Ledger.GetArtwork(c.Context(), artworkID)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Artwork retrieved", artwork, nil)
}

// PurchaseFraction POST /api/v1/artworks/purchase-fraction
func (h *Handlers) PurchaseFraction(c *fiber.Ctx) error {
	var body struct {
		ArtworkID           string  `json:"artwork_id"`
		Amount              float64 `json:"amount"`
		OwnershipPercentage float64 `json:"ownership_percentage"`
		FractionCount       int     `json:"fraction_count"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.ArtworkID == "" || body.Amount == 0 {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	artworkID, err := uuid.Parse(body.ArtworkID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for artwork_id", fiber.StatusBadRequest, nil)
	}
	buyerID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	artwork, err := h.Ledger.GetArtwork(c.Context(), artworkID)
	if err != nil {
		return mapError(c, err)
	}
	sellerID := artwork.OwnerUserID

	tx, err := h.Ledger.RecordTransaction(c.Context(), ledger.RecordTransactionInput{
		Type:                "fraction_purchase",
		BuyerUserID:         buyerID,
		SellerUserID:        &sellerID,
		ArtworkID:           artworkID,
		Amount:              body.Amount,
		Currency:            artwork.PriceDenom,
		Status:              "completed",
		OwnershipPercentage: body.OwnershipPercentage,
		FractionCount:       body.FractionCount,
	})
	if err != nil {
		return mapError(c, err)
	}

	// A trade moves the implied price, so drop the cached valuation.
	if h.Valuation != nil {
		h.Valuation.Invalidate(c.Context(), artworkID)
	}
	return response.SuccessCreated(c, "Purchase recorded", tx, nil)
}

// GetOwnership GET /api/v1/artworks/get-ownership/:artwork_id
func (h *Handlers) GetOwnership(c *fiber.Ctx) error {
	artworkID, err := uuid.Parse(c.Params("artwork_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for artwork_id", fiber.StatusBadRequest, nil)
	}
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	total, txs, err := h.Ownership.OwnershipForArtwork(c.Context(), userID, artworkID)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Ownership retrieved", fiber.Map{
		"artwork_id":           artworkID.String(),
		"ownership_percentage": total,
		"transactions":         txs,
	}, nil)
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
