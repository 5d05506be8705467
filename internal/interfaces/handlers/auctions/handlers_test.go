package auctions

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	aucsvc "artbridge-backend/internal/application/auctions"
	"artbridge-backend/internal/application/ledger"
	"artbridge-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuctionsTest(t *testing.T) (*Handlers, *gorm.DB, *domain.User, *domain.Auction) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Artwork{}, &domain.Transaction{},
		&domain.Auction{}, &domain.Bid{},
	))

	artist := &domain.User{DisplayName: "Maya Chen", Email: "maya@example.com", PasswordHash: "x", Role: "artist"}
	require.NoError(t, db.Create(artist).Error)
	artwork := &domain.Artwork{
		Title: "Dusk Over Harbor", OwnerUserID: artist.UserID, PriceAmount: 100,
		PriceDenom: "USD", FractionsTotal: 100, FractionsAvailable: 100, Status: "available",
	}
	require.NoError(t, db.Create(artwork).Error)

	coordinator := &aucsvc.Coordinator{DB: db, Ledger: &ledger.Service{DB: db}}
	auction, err := coordinator.CreateAuction(context.Background(), aucsvc.CreateAuctionInput{
		ArtworkID:    artwork.ArtworkID,
		SellerUserID: artist.UserID,
		StartPrice:   100,
	})
	require.NoError(t, err)

	return &Handlers{Coordinator: coordinator}, db, artist, auction
}

func bidApp(h *Handlers, userID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": userID, "role": "investor"})
		return c.Next()
	})
	app.Post("/place-bid", h.PlaceBid)
	return app
}

func TestPlaceBid_Created(t *testing.T) {
	h, db, _, auction := setupAuctionsTest(t)
	bidder := &domain.User{DisplayName: "Ida", Email: "ida@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(bidder).Error)

	app := bidApp(h, bidder.UserID.String())
	body, _ := json.Marshal(map[string]interface{}{"auction_id": auction.AuctionID.String(), "amount": 105.0})
	req := httptest.NewRequest("POST", "/place-bid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data, _ := result["data"].(map[string]interface{})
	assert.Equal(t, 105.0, data["amount"])
}

func TestPlaceBid_BelowMinimumIs400(t *testing.T) {
	h, db, _, auction := setupAuctionsTest(t)
	bidder := &domain.User{DisplayName: "Ida", Email: "ida@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(bidder).Error)

	app := bidApp(h, bidder.UserID.String())
	body, _ := json.Marshal(map[string]interface{}{"auction_id": auction.AuctionID.String(), "amount": 104.99})
	req := httptest.NewRequest("POST", "/place-bid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	errObj, _ := result["error"].(map[string]interface{})
	assert.Contains(t, errObj["message"], "105.00")
}

func TestPlaceBid_SellerIs400(t *testing.T) {
	h, _, artist, auction := setupAuctionsTest(t)
	app := bidApp(h, artist.UserID.String())

	body, _ := json.Marshal(map[string]interface{}{"auction_id": auction.AuctionID.String(), "amount": 200.0})
	req := httptest.NewRequest("POST", "/place-bid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGetActiveAuctions(t *testing.T) {
	h, _, _, _ := setupAuctionsTest(t)
	app := fiber.New()
	app.Get("/get-active-auctions", h.GetActiveAuctions)

	resp, err := app.Test(httptest.NewRequest("GET", "/get-active-auctions", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data, _ := result["data"].([]interface{})
	require.Len(t, data, 1)
	item, _ := data[0].(map[string]interface{})
	assert.Equal(t, "Dusk Over Harbor", item["artwork_title"])
	assert.Equal(t, 100.0, item["current_bid"])
}

func TestGetBids_InvalidUUID(t *testing.T) {
	h, _, _, _ := setupAuctionsTest(t)
	app := fiber.New()
	app.Get("/get-bids/:auction_id", h.GetBids)

	resp, err := app.Test(httptest.NewRequest("GET", "/get-bids/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
