package contact

import (
	contactsvc "artbridge-backend/internal/application/contact"
	"artbridge-backend/internal/domain"
	"artbridge-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *contactsvc.Service
}

// Submit POST /api/v1/contact/submit — public endpoint.
func (h *Handlers) Submit(c *fiber.Ctx) error {
	var body struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Subject   string `json:"subject"`
		Message   string `json:"message"`
		Token     string `json:"token"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}

	correlationID, err := h.Service.Submit(c.Context(), contactsvc.SubmitInput{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		Subject:   body.Subject,
		Message:   body.Message,
		Token:     body.Token,
		RemoteIP:  c.IP(),
	})
	if err != nil {
		switch {
		case domain.IsValidation(err):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case domain.IsUpstreamUnavailable(err):
			return response.Error(c, "Failed to send email", fiber.StatusServiceUnavailable, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Emails sent successfully", fiber.Map{"correlation_id": correlationID}, nil)
}
