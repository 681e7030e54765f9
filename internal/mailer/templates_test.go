package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordResetHTML(t *testing.T) {
	html := PasswordResetHTML("http://localhost:3000/reset-password/?token=abc123")

	assert.Contains(t, html, `href="http://localhost:3000/reset-password/?token=abc123"`)
	assert.Contains(t, html, "valid for one hour")
}

func TestInvitationHTML(t *testing.T) {
	html := InvitationHTML("New Parent", "Principal Kumar", "http://localhost:3000/set-password/?token=xyz789")

	assert.Contains(t, html, "Hello New Parent")
	assert.Contains(t, html, "Principal Kumar")
	assert.Contains(t, html, `href="http://localhost:3000/set-password/?token=xyz789"`)
	assert.Contains(t, html, "valid for 48 hours")
}

func TestTemplatesEscapeUserContent(t *testing.T) {
	html := InvitationHTML(`<script>alert(1)</script>`, "Admin", "http://localhost:3000/set-password/?token=t")

	assert.NotContains(t, html, "<script>alert(1)</script>")
}
