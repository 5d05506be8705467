package transactions

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"artbridge-backend/internal/application/ledger"
	"artbridge-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTransactionsTest(t *testing.T) (*Handlers, *domain.User, *domain.User) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Artwork{}, &domain.Transaction{}))

	artist := &domain.User{DisplayName: "Maya Chen", Email: "maya@example.com", PasswordHash: "x", Role: "artist"}
	buyer := &domain.User{DisplayName: "Ida", Email: "ida@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(artist).Error)
	require.NoError(t, db.Create(buyer).Error)

	ls := &ledger.Service{DB: db}
	artwork, err := ls.CreateArtwork(context.Background(), ledger.CreateArtworkInput{
		Title: "Dusk Over Harbor", OwnerUserID: artist.UserID, PriceAmount: 100, FractionsTotal: 100,
	})
	require.NoError(t, err)

	sellerID := artist.UserID
	_, err = ls.RecordTransaction(context.Background(), ledger.RecordTransactionInput{
		Type:                "fraction_purchase",
		BuyerUserID:         buyer.UserID,
		SellerUserID:        &sellerID,
		ArtworkID:           artwork.ArtworkID,
		Amount:              10,
		Status:              "completed",
		OwnershipPercentage: 10,
	})
	require.NoError(t, err)
	_, err = ls.RecordTransaction(context.Background(), ledger.RecordTransactionInput{
		Type:        "bid",
		BuyerUserID: buyer.UserID,
		ArtworkID:   artwork.ArtworkID,
		Amount:      30,
	})
	require.NoError(t, err)

	return &Handlers{Ledger: ls}, buyer, artist
}

func transactionsApp(h *Handlers, userID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": userID})
		return c.Next()
	})
	app.Get("/get-transactions", h.GetTransactions)
	return app
}

func TestGetTransactions_BuyerSide(t *testing.T) {
	h, buyer, _ := setupTransactionsTest(t)
	app := transactionsApp(h, buyer.UserID.String())

	resp, err := app.Test(httptest.NewRequest("GET", "/get-transactions", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data, _ := result["data"].([]interface{})
	assert.Len(t, data, 2)
}

func TestGetTransactions_TypeAndStatusFilters(t *testing.T) {
	h, buyer, _ := setupTransactionsTest(t)
	app := transactionsApp(h, buyer.UserID.String())

	resp, err := app.Test(httptest.NewRequest("GET", "/get-transactions?type=fraction_purchase&status=completed", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data, _ := result["data"].([]interface{})
	require.Len(t, data, 1)
	tx, _ := data[0].(map[string]interface{})
	assert.Equal(t, "fraction_purchase", tx["transaction_type"])
	assert.Equal(t, 10.0, tx["amount"])
}

func TestGetTransactions_SellerSide(t *testing.T) {
	h, _, artist := setupTransactionsTest(t)
	app := transactionsApp(h, artist.UserID.String())

	resp, err := app.Test(httptest.NewRequest("GET", "/get-transactions?side=seller", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data, _ := result["data"].([]interface{})
	require.Len(t, data, 1)
	tx, _ := data[0].(map[string]interface{})
	assert.Equal(t, artist.UserID.String(), tx["seller_user_id"])
}

func TestGetTransactions_NoSessionIs401(t *testing.T) {
	h, _, _ := setupTransactionsTest(t)
	app := fiber.New()
	app.Get("/get-transactions", h.GetTransactions)

	resp, err := app.Test(httptest.NewRequest("GET", "/get-transactions", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
