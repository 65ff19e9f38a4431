// Package email delivers transactional email over plain SMTP.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Config holds the SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPEmailSender implements EmailSender over net/smtp. Authentication is
// used only when a username is configured, so a local relay works without
// credentials.
type SMTPEmailSender struct {
	cfg Config
}

// NewSMTPEmailSender creates an email sender for the given SMTP settings.
func NewSMTPEmailSender(cfg Config) (*SMTPEmailSender, error) {
	if cfg.Host == "" {
		return nil, errs.NewValueIsRequiredError("host")
	}
	if cfg.Port == 0 {
		return nil, errs.NewValueIsRequiredError("port")
	}
	if cfg.From == "" {
		return nil, errs.NewValueIsRequiredError("from")
	}

	return &SMTPEmailSender{cfg: cfg}, nil
}

// SendEmail sends one HTML email. The SMTP dialog itself cannot be
// cancelled mid-flight, so the context is checked before dialing.
func (s *SMTPEmailSender) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	if to == "" {
		return errs.NewValueIsRequiredError("to")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
