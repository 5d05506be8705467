package profile

import (
	profsvc "artbridge-backend/internal/application/profile"
	"artbridge-backend/internal/domain"
	"artbridge-backend/internal/middleware"
	"artbridge-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *profsvc.Service
}

// ViewProfile GET /api/v1/profile/view-profile
func (h *Handlers) ViewProfile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	u, err := h.Service.GetProfile(c.Context(), userID)
	if err != nil {
		if domain.IsValidation(err) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Profile retrieved", u, nil)
}

// UpdateProfile PUT /api/v1/profile/update-profile — display name and wallet
// address; refreshes the session user so /me stays consistent.
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		DisplayName   *string `json:"display_name"`
		WalletAddress *string `json:"wallet_address"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "No valid changes provided", fiber.StatusBadRequest, nil)
	}

	u, err := h.Service.UpdateProfile(c.Context(), userID, profsvc.UpdateInput{
		DisplayName:   body.DisplayName,
		WalletAddress: body.WalletAddress,
	})
	if err != nil {
		if domain.IsValidation(err) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:        u.UserID.String(),
		DisplayName:   u.DisplayName,
		Email:         u.Email,
		Role:          u.Role,
		WalletAddress: u.WalletAddress,
	})
	return response.Success(c, "Profile updated", u, nil)
}
