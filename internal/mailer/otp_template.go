package mailer

import (
	"fmt"
	"time"
)

// OtpSubject is the subject line of every passcode delivery.
const OtpSubject = "Your one-time passcode"

// OtpMessage renders the HTML and plain-text bodies of a passcode delivery.
// The plaintext passcode appears only in the returned bodies, which go
// straight to the SMTP transport.
func OtpMessage(userName, code string, ttl time.Duration) (htmlBody, textBody string) {
	minutes := int(ttl.Minutes())

	htmlBody = fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif;">
  <p>Hello %s,</p>
  <p>Your one-time passcode is:</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 4px;">%s</p>
  <p>It expires in %d minutes. If you did not request a passcode, you can ignore this message.</p>
</body>
</html>`, userName, code, minutes)

	textBody = fmt.Sprintf(
		"Hello %s,\n\nYour one-time passcode is: %s\n\nIt expires in %d minutes. If you did not request a passcode, you can ignore this message.\n",
		userName, code, minutes,
	)

	return htmlBody, textBody
}
