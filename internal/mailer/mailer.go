// SPDX-License-Identifier: Apache-2.0

// Package mailer delivers transactional mail over SMTP. One-time passcodes
// are handed to it in plaintext for delivery and must never be logged.
package mailer

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/panelportal/server/internal/config"
	"github.com/panelportal/server/internal/logger"
)

// Mailer sends a single message to a single recipient.
type Mailer interface {
	Send(to, subject, htmlBody, textBody string) error
}

// smtpMailer talks to a real SMTP server. Three connection modes are
// supported: plain, STARTTLS upgrade (UseTLS), and implicit TLS (UseSSL).
type smtpMailer struct {
	cfg    config.SMTP
	logger *logger.Logger
}

// NewSMTP constructs a [Mailer] for the given SMTP settings.
func NewSMTP(cfg config.SMTP, log *logger.Logger) Mailer {
	return &smtpMailer{
		cfg:    cfg,
		logger: log,
	}
}

func (m *smtpMailer) Send(to, subject, htmlBody, textBody string) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	client, err := m.connect(addr)
	if err != nil {
		m.logger.Err(err).Str("func", "smtpMailer.Send").Str("host", m.cfg.Host).Msg("failed to connect to smtp server")
		return fmt.Errorf("error connecting to smtp server: %w", err)
	}
	defer client.Close()

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			m.logger.Err(err).Str("func", "smtpMailer.Send").Str("host", m.cfg.Host).Msg("smtp authentication failed")
			return fmt.Errorf("error authenticating against smtp server: %w", err)
		}
	}

	if err := client.Mail(m.cfg.FromEmail); err != nil {
		return fmt.Errorf("error setting smtp sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("error setting smtp recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("error opening smtp data stream: %w", err)
	}

	message := buildMessage(m.cfg.FromName, m.cfg.FromEmail, to, subject, htmlBody, textBody)
	if _, err := w.Write([]byte(message)); err != nil {
		return fmt.Errorf("error writing smtp message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("error closing smtp data stream: %w", err)
	}

	if err := client.Quit(); err != nil {
		m.logger.Warn().Err(err).Str("func", "smtpMailer.Send").Msg("smtp quit returned error")
	}

	m.logger.Info().Str("func", "smtpMailer.Send").Str("to", to).Str("subject", subject).Msg("mail delivered")

	return nil
}

func (m *smtpMailer) connect(addr string) (*smtp.Client, error) {
	if m.cfg.UseSSL {
		conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
		if err != nil {
			return nil, err
		}
		return smtp.NewClient(conn, m.cfg.Host)
	}

	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, err
	}

	if m.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			client.Close()
			return nil, err
		}
	}

	return client, nil
}

// buildMessage assembles a multipart/alternative MIME message with a plain
// text part and an HTML part.
func buildMessage(fromName, fromEmail, to, subject, htmlBody, textBody string) string {
	const boundary = "panel-portal-alt"

	headers := fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: multipart/alternative; boundary=%q\r\n\r\n",
		fromName, fromEmail, to, subject, boundary,
	)

	body := fmt.Sprintf(
		"--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n--%s--\r\n",
		boundary, textBody, boundary, htmlBody, boundary,
	)

	return headers + body
}

// noopMailer is used when no SMTP host is configured. It accepts every
// message without delivering it; message content is never logged.
type noopMailer struct {
	logger *logger.Logger
}

// NewNoop constructs a [Mailer] that silently drops all mail. Intended for
// local development.
func NewNoop(log *logger.Logger) Mailer {
	log.Warn().Msg("smtp host not configured, mail delivery disabled")
	return &noopMailer{logger: log}
}

func (m *noopMailer) Send(to, subject, _, _ string) error {
	m.logger.Warn().Str("func", "noopMailer.Send").Str("to", to).Str("subject", subject).Msg("dropping mail, delivery disabled")
	return nil
}
