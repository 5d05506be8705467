package health

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping() error { return f.err }

func healthApp(h *Handlers) *fiber.App {
	app := fiber.New()
	app.Get("/health/json", h.JSON)
	return app
}

func TestJSON_AllConnected(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := healthApp(&Handlers{Rdb: rdb, DB: &fakePinger{}})

	resp, err := app.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, "ok", result["status"])
	deps, _ := result["dependencies"].(map[string]interface{})
	dbDep, _ := deps["database"].(map[string]interface{})
	redisDep, _ := deps["redis"].(map[string]interface{})
	assert.Equal(t, "connected", dbDep["status"])
	assert.Equal(t, "connected", redisDep["status"])
}

func TestJSON_DatabaseErrorIsDegraded(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := healthApp(&Handlers{Rdb: rdb, DB: &fakePinger{err: errors.New("connection refused")}})

	resp, err := app.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, "degraded", result["status"])
	deps, _ := result["dependencies"].(map[string]interface{})
	dbDep, _ := deps["database"].(map[string]interface{})
	assert.Equal(t, "error", dbDep["status"])
}
