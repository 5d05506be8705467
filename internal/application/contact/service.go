package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"artbridge-backend/internal/application/emails"
	"artbridge-backend/internal/domain"
	"artbridge-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const turnstileAPI = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// TokenVerifier checks a bot-mitigation token with an external service.
type TokenVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// TurnstileVerifier verifies tokens against Cloudflare Turnstile.
// An empty secret disables verification (local development).
type TurnstileVerifier struct {
	SecretKey string
	Client    *http.Client
}

func (v *TurnstileVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	if v.SecretKey == "" {
		return nil
	}
	if token == "" {
		return domain.Validationf("Bot verification token is required")
	}
	body, _ := json.Marshal(map[string]string{
		"secret":   v.SecretKey,
		"response": token,
		"remoteip": remoteIP,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, turnstileAPI, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if v.Client == nil {
		v.Client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := v.Client.Do(req)
	if err != nil {
		return &domain.UpstreamUnavailable{Op: "token verification", Err: err}
	}
	defer resp.Body.Close()

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return &domain.UpstreamUnavailable{Op: "token verification", Err: err}
	}
	if !result.Success {
		return domain.Validationf("Bot verification failed")
	}
	return nil
}

type SubmitInput struct {
	FirstName string
	LastName  string
	Email     string
	Subject   string
	Message   string
	Token     string
	RemoteIP  string
}

// Service validates contact submissions and dispatches the confirmation and
// support-notification emails.
type Service struct {
	Verifier TokenVerifier
	Mailer   emails.Sender
}

// Submit returns a correlation id on success. Free-text fields are escaped by
// the mailer before being embedded in HTML.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (string, error) {
	if in.FirstName == "" || in.Email == "" || in.Message == "" {
		return "", domain.Validationf("Missing required fields")
	}
	if !validation.IsValidEmail(in.Email) {
		return "", domain.Validationf("Invalid email format")
	}
	if s.Verifier != nil {
		if err := s.Verifier.Verify(ctx, in.Token, in.RemoteIP); err != nil {
			return "", err
		}
	}

	correlationID := uuid.New().String()

	if err := s.Mailer.SendContactConfirmation(ctx, in.Email, in.FirstName, in.Subject, in.Message); err != nil {
		log.Error().Err(err).Str("correlation_id", correlationID).Msg("Contact confirmation email failed")
		return "", &domain.UpstreamUnavailable{Op: "email dispatch", Err: err}
	}
	fullName := in.FirstName
	if in.LastName != "" {
		fullName = in.FirstName + " " + in.LastName
	}
	if err := s.Mailer.SendContactNotification(ctx, fullName, in.Email, in.Subject, in.Message); err != nil {
		log.Error().Err(err).Str("correlation_id", correlationID).Msg("Contact notification email failed")
		return "", &domain.UpstreamUnavailable{Op: "email dispatch", Err: err}
	}

	log.Info().Str("correlation_id", correlationID).Msg("Contact emails sent")
	return correlationID, nil
}
