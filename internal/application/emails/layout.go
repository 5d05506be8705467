package emails

import (
	"fmt"
	"strings"
)

const (
	themePrimary = "#ff6600"
	themeMuted   = "#666666"
)

// EmailLayout wraps content in the ArtBridge transactional email shell.
func EmailLayout(contentHTML string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: %s; text-align: center;">ArtBridge</h1>
  %s
  <hr style="margin: 30px 0; border: none; border-top: 1px solid #ddd;">
  <p style="text-align: center; color: %s; font-size: 12px;">
    This is an automated message. Please do not reply to this email.
  </p>
</div>`, themePrimary, contentHTML, themeMuted)
}

// EscapeHTML escapes HTML specials for safe interpolation of user input.
func EscapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
