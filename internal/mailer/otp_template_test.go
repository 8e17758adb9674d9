package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestOtpMessage verifies that both bodies carry the passcode, the
// recipient name, and the expiry in minutes.
func TestOtpMessage(t *testing.T) {
	htmlBody, textBody := OtpMessage("Avery Reed", "482913", 3*time.Minute)

	assert.Contains(t, htmlBody, "482913")
	assert.Contains(t, htmlBody, "Avery Reed")
	assert.Contains(t, htmlBody, "3 minutes")

	assert.Contains(t, textBody, "482913")
	assert.Contains(t, textBody, "Avery Reed")
	assert.Contains(t, textBody, "3 minutes")
}

// TestBuildMessage verifies the MIME structure of the assembled message.
func TestBuildMessage(t *testing.T) {
	msg := buildMessage("Panel Portal", "noreply@example.com", "avery@example.com", OtpSubject, "<p>html</p>", "text")

	assert.Contains(t, msg, "From: Panel Portal <noreply@example.com>")
	assert.Contains(t, msg, "To: avery@example.com")
	assert.Contains(t, msg, "Subject: "+OtpSubject)
	assert.Contains(t, msg, "multipart/alternative")
	assert.Contains(t, msg, "text/plain")
	assert.Contains(t, msg, "text/html")
	assert.Contains(t, msg, "<p>html</p>")
}
