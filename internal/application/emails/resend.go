package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const resendAPI = "https://api.resend.com/emails"

// ResendSendRequest matches the Resend API send-email body.
type ResendSendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Sender dispatches transactional emails. Nil or empty API key = no-op.
type Sender interface {
	SendContactConfirmation(ctx context.Context, toEmail, firstName, subject, message string) error
	SendContactNotification(ctx context.Context, fromName, fromEmail, subject, message string) error
}

// ResendClient sends emails via the Resend API (RESEND_API_KEY, MAIL_FROM).
type ResendClient struct {
	APIKey       string
	MailFrom     string
	SupportEmail string
	Client       *http.Client
}

func (c *ResendClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "ArtBridge Support <onboarding@resend.dev>"
}

func (c *ResendClient) support() string {
	if c.SupportEmail != "" {
		return c.SupportEmail
	}
	return "support@artbridge.com"
}

func (c *ResendClient) send(ctx context.Context, to, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	body := ResendSendRequest{
		From:    c.from(),
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("resend send failed: status %d", resp.StatusCode)
	}
	return nil
}

// SendContactConfirmation acknowledges a contact-form submission to the sender.
// All free-text fields are escaped before embedding.
func (c *ResendClient) SendContactConfirmation(ctx context.Context, toEmail, firstName, subject, message string) error {
	if c.APIKey == "" {
		return nil
	}
	if subject == "" {
		subject = "No subject specified"
	}
	content := fmt.Sprintf(`
    <h2>Hi %s,</h2>
    <p>Thank you for contacting ArtBridge! We have received your message and will respond within 24 hours.</p>
    <div style="background-color: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <h3>Your Message:</h3>
      <p><strong>Subject:</strong> %s</p>
      <p style="font-style: italic;">"%s"</p>
    </div>
    <p>If you have any urgent concerns, please contact us directly at %s.</p>
    <p>Best regards,<br>The ArtBridge Team</p>
`, EscapeHTML(firstName), EscapeHTML(subject), EscapeHTML(message), c.support())
	return c.send(ctx, toEmail, "ArtBridge Query Received", EmailLayout(content))
}

// SendContactNotification forwards the submission to the support inbox.
func (c *ResendClient) SendContactNotification(ctx context.Context, fromName, fromEmail, subject, message string) error {
	if c.APIKey == "" {
		return nil
	}
	if subject == "" {
		subject = "No subject specified"
	}
	escaped := strings.ReplaceAll(EscapeHTML(message), "\n", "<br>")
	content := fmt.Sprintf(`
    <h2>New Contact Form Submission</h2>
    <div style="background-color: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <h3>Contact Details:</h3>
      <p><strong>Name:</strong> %s</p>
      <p><strong>Email:</strong> %s</p>
      <p><strong>Subject:</strong> %s</p>
    </div>
    <div style="background-color: #fff; border: 1px solid #ddd; padding: 20px; border-radius: 8px;">
      <h3>Message:</h3>
      <p>%s</p>
    </div>
    <p style="margin-top: 20px;"><strong>Response required within 24 hours.</strong></p>
`, EscapeHTML(fromName), EscapeHTML(fromEmail), EscapeHTML(subject), escaped)
	return c.send(ctx, c.support(), fmt.Sprintf("New query from %s", fromEmail), EmailLayout(content))
}
