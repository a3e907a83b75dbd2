package notifier

import (
	"context"
	"crypto/tls"
	"fmt"

	"chatlink-auth/config"

	"gopkg.in/gomail.v2"
)

// mailDialer is the part of gomail.Dialer the email sender needs.
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailSender delivers messages over SMTP.
type EmailSender struct {
	dialer  mailDialer
	from    string
	subject string
}

// NewEmailSender builds an SMTP sender from the mail configuration.
func NewEmailSender(cfg config.Mail) *EmailSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}

	return &EmailSender{
		dialer:  d,
		from:    cfg.From,
		subject: cfg.Subject,
	}
}

func (s *EmailSender) Send(ctx context.Context, destination, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", destination)
	m.SetHeader("Subject", s.subject)
	m.SetBody("text/plain", message)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp delivery failed: %w", err)
	}

	return nil
}
