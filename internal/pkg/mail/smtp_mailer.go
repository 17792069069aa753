package mail

import (
	"fmt"
	"net/smtp"

	"github.com/gofiber/fiber/v2/log"

	"github.com/thangnm/rentacc/internal/pkg/env"
)

// SendMail delivers an HTML mail through the SMTP relay configured via
// SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD and SMTP_SENDER.
// Authentication is skipped when no credentials are configured.
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	if host == "" {
		return fmt.Errorf("smtp is not configured, SMTP_HOST is empty")
	}
	port := env.GetEnv("SMTP_PORT", "587")
	sender := env.GetEnv("SMTP_SENDER", "rentacc@localhost")

	var auth smtp.Auth
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n\r\n"

	addr := host + ":" + port
	if err := smtp.SendMail(addr, auth, sender, []string{to}, []byte(headers+body)); err != nil {
		return fmt.Errorf("failed to send mail to %s via %s: %w", to, addr, err)
	}
	log.Debugf("[Mail] sent %q to %s", subject, to)
	return nil
}
