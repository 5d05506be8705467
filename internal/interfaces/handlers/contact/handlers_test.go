package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	contactsvc "artbridge-backend/internal/application/contact"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	err error
}

func (f *fakeVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	return f.err
}

type fakeMailer struct {
	confirmations int
	notifications int
	err           error
}

func (f *fakeMailer) SendContactConfirmation(ctx context.Context, to, firstName, subject, message string) error {
	if f.err != nil {
		return f.err
	}
	f.confirmations++
	return nil
}

func (f *fakeMailer) SendContactNotification(ctx context.Context, fullName, email, subject, message string) error {
	if f.err != nil {
		return f.err
	}
	f.notifications++
	return nil
}

func contactApp(mailer *fakeMailer, verifier *fakeVerifier) *fiber.App {
	h := &Handlers{Service: &contactsvc.Service{Verifier: verifier, Mailer: mailer}}
	app := fiber.New()
	app.Post("/submit", h.Submit)
	return app
}

func TestSubmit_SendsBothEmails(t *testing.T) {
	mailer := &fakeMailer{}
	app := contactApp(mailer, &fakeVerifier{})

	body, _ := json.Marshal(map[string]interface{}{
		"firstName": "Ida",
		"lastName":  "Stone",
		"email":     "ida@example.com",
		"subject":   "Question",
		"message":   "How do fractions work?",
		"token":     "tok",
	})
	req := httptest.NewRequest("POST", "/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1, mailer.confirmations)
	assert.Equal(t, 1, mailer.notifications)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data, _ := result["data"].(map[string]interface{})
	assert.NotEmpty(t, data["correlation_id"])
}

func TestSubmit_MissingFields(t *testing.T) {
	mailer := &fakeMailer{}
	app := contactApp(mailer, &fakeVerifier{})

	body, _ := json.Marshal(map[string]interface{}{"firstName": "Ida"})
	req := httptest.NewRequest("POST", "/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, 0, mailer.confirmations)
}

func TestSubmit_InvalidEmail(t *testing.T) {
	app := contactApp(&fakeMailer{}, &fakeVerifier{})

	body, _ := json.Marshal(map[string]interface{}{
		"firstName": "Ida", "email": "nope", "message": "hi",
	})
	req := httptest.NewRequest("POST", "/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestSubmit_MailerFailureIs503(t *testing.T) {
	app := contactApp(&fakeMailer{err: errors.New("resend down")}, &fakeVerifier{})

	body, _ := json.Marshal(map[string]interface{}{
		"firstName": "Ida", "email": "ida@example.com", "message": "hi",
	})
	req := httptest.NewRequest("POST", "/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}
