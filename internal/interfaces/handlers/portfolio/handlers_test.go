package portfolio

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"artbridge-backend/internal/application/ledger"
	"artbridge-backend/internal/application/ownership"
	pfsvc "artbridge-backend/internal/application/portfolio"
	"artbridge-backend/internal/application/valuation"
	"artbridge-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPortfolioHandlers(t *testing.T) (*Handlers, *gorm.DB, *ledger.Service) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Artwork{}, &domain.Transaction{},
	))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	ls := &ledger.Service{DB: db}
	svc := &pfsvc.Service{
		DB:         db,
		Aggregator: &ownership.Aggregator{Ledger: ls},
		Estimator:  &valuation.Service{DB: db, Rdb: rdb},
	}
	return &Handlers{Service: svc}, db, ls
}

func TestViewPortfolio_Empty(t *testing.T) {
	h, db, _ := setupPortfolioHandlers(t)
	user := &domain.User{DisplayName: "Ida", Email: "ida@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": user.UserID.String()})
		return c.Next()
	})
	app.Get("/view-portfolio", h.ViewPortfolio)

	resp, err := app.Test(httptest.NewRequest("GET", "/view-portfolio", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data, _ := result["data"].(map[string]interface{})
	stats, _ := data["stats"].(map[string]interface{})
	assert.Equal(t, 0.0, stats["total_value"])
	assert.Equal(t, 0.0, stats["artworks_owned"])
}

func TestViewPortfolio_ValuedHoldings(t *testing.T) {
	h, db, ls := setupPortfolioHandlers(t)
	artist := &domain.User{DisplayName: "Maya", Email: "maya@example.com", PasswordHash: "x", Role: "artist"}
	buyer := &domain.User{DisplayName: "Ida", Email: "ida@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(artist).Error)
	require.NoError(t, db.Create(buyer).Error)

	artwork, err := ls.CreateArtwork(context.Background(), ledger.CreateArtworkInput{
		Title: "Dusk Over Harbor", OwnerUserID: artist.UserID, PriceAmount: 100, FractionsTotal: 100,
	})
	require.NoError(t, err)
	_, err = ls.RecordTransaction(context.Background(), ledger.RecordTransactionInput{
		Type: "fraction_purchase", BuyerUserID: buyer.UserID, ArtworkID: artwork.ArtworkID,
		Amount: 10, Status: "completed", OwnershipPercentage: 10, FractionCount: 10,
	})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": buyer.UserID.String()})
		return c.Next()
	})
	app.Get("/view-portfolio", h.ViewPortfolio)

	resp, err := app.Test(httptest.NewRequest("GET", "/view-portfolio", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data, _ := result["data"].(map[string]interface{})
	holdings, _ := data["holdings"].([]interface{})
	require.Len(t, holdings, 1)
	holding, _ := holdings[0].(map[string]interface{})
	assert.Equal(t, 10.0, holding["shares_owned"])
	assert.Equal(t, 10.0, holding["purchase_price"])
	assert.Equal(t, 10.0, holding["current_value"])
	assert.Equal(t, "Dusk Over Harbor", holding["artwork_title"])
}

func TestViewPortfolio_NoSessionIs401(t *testing.T) {
	h, _, _ := setupPortfolioHandlers(t)
	app := fiber.New()
	app.Get("/view-portfolio", h.ViewPortfolio)

	resp, err := app.Test(httptest.NewRequest("GET", "/view-portfolio", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
