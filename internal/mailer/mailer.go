// Package mailer relays rendered emails to an SMTP server.
package mailer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends a single HTML email
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// sender abstracts gomail.Dialer for tests
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends through an authenticated SMTP relay
type SMTPMailer struct {
	from   string
	dialer sender
}

// NewSMTPMailer creates a mailer from the SMTP configuration
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send builds the message and hands it to the relay. gomail has no
// cancellation, so a cancelled ctx only stops the wait.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send email to %s: %w", to, ctx.Err())
	}
}

// LogMailer only logs outgoing mail. Used when no SMTP host is configured.
type LogMailer struct {
	logger logrus.FieldLogger
}

// NewLogMailer creates a logging mailer
func NewLogMailer(logger logrus.FieldLogger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the email and reports success
func (m *LogMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.logger.WithFields(logrus.Fields{
		"to":         to,
		"subject":    subject,
		"body_bytes": len(htmlBody),
	}).Info("📧 [DEV] Email not sent, SMTP disabled")
	return nil
}

// New picks the SMTP mailer when a host is configured
func New(cfg config.SMTPConfig, logger logrus.FieldLogger) Mailer {
	if cfg.Enabled() {
		return NewSMTPMailer(cfg)
	}
	return NewLogMailer(logger)
}
