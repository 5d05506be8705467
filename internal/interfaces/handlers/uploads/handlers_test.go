package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	uploadsvc "artbridge-backend/internal/application/uploads"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	err    error
	bucket string
	path   string
}

func (f *fakeStorage) CreateSignedUploadURL(ctx context.Context, bucket, path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.bucket = bucket
	f.path = path
	return "https://storage.example.com/signed/" + path, nil
}

func uploadsApp(storage *fakeStorage) *fiber.App {
	h := &Handlers{Service: &uploadsvc.Service{Client: storage, StorageURL: "https://storage.example.com"}}
	app := fiber.New()
	app.Post("/artwork-image", h.UploadArtworkImage)
	return app
}

func TestUploadArtworkImage(t *testing.T) {
	storage := &fakeStorage{}
	app := uploadsApp(storage)

	body, _ := json.Marshal(map[string]interface{}{"file_name": "dusk.png"})
	req := httptest.NewRequest("POST", "/artwork-image", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data, _ := result["data"].(map[string]interface{})
	uploadURL, _ := data["uploadUrl"].(string)
	publicURL, _ := data["publicUrl"].(string)
	assert.Contains(t, uploadURL, "/signed/")
	assert.Contains(t, publicURL, "/storage/v1/object/public/artwork-images/")
	assert.True(t, strings.HasSuffix(publicURL, "-dusk.png"))
	assert.Equal(t, "artwork-images", storage.bucket)
}

func TestUploadArtworkImage_MissingFileName(t *testing.T) {
	app := uploadsApp(&fakeStorage{})

	body, _ := json.Marshal(map[string]interface{}{})
	req := httptest.NewRequest("POST", "/artwork-image", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestUploadArtworkImage_StorageErrorIs500(t *testing.T) {
	app := uploadsApp(&fakeStorage{err: errors.New("bucket unavailable")})

	body, _ := json.Marshal(map[string]interface{}{"file_name": "dusk.png"})
	req := httptest.NewRequest("POST", "/artwork-image", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}
