package uploads

import (
	uploadsvc "artbridge-backend/internal/application/uploads"
	"artbridge-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *uploadsvc.Service
}

// UploadArtworkImage POST /api/v1/uploads/artwork-image — returns a signed
// upload URL plus the public URL to store as the artwork's image_url.
func (h *Handlers) UploadArtworkImage(c *fiber.Ctx) error {
	var body struct {
		FileName string `json:"file_name"`
	}
	if err := c.BodyParser(&body); err != nil || body.FileName == "" {
		return response.Error(c, "file_name is required", fiber.StatusBadRequest, nil)
	}

	result, err := h.Service.GetArtworkImageUploadURL(c.Context(), body.FileName)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Signed upload URL created", result, nil)
}
