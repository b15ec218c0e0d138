// Package email sends transactional mail over SMTP.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/DusanM998/ToDoApplication/internal/config"
)

// Sender delivers a single email message.
type Sender interface {
	// Send delivers a message with the given subject and HTML body to the
	// recipient address.
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPSender implements Sender using a plain SMTP relay with AUTH PLAIN.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   *slog.Logger
}

// NewSMTPSender creates a Sender backed by the configured SMTP relay.
func NewSMTPSender(cfg config.EmailConfig, logger *slog.Logger) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}

	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		logger:   logger.With(slog.String("component", "email_sender")),
	}
}

// Ensure SMTPSender implements Sender interface
var _ Sender = (*SMTPSender)(nil)

// Send implements the Sender interface.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg.String())); err != nil {
		s.logger.Error("failed to send email",
			"error", err,
			"to", to,
			"subject", subject)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debug("email sent",
		"to", to,
		"subject", subject)

	return nil
}
