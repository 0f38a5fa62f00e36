package email

import (
	"context"
	"fmt"

	"job-board-backend/config"
	"job-board-backend/internal/domain"
	"job-board-backend/pkg/logger"

	"gopkg.in/gomail.v2"
)

// SMTPSender delivers email through an SMTP relay
type SMTPSender struct {
	dialer     *gomail.Dialer
	fromEmail  string
	configured bool
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		dialer:     gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		fromEmail:  cfg.SMTPFromEmail,
		configured: cfg.SMTPHost != "" && cfg.SMTPUsername != "" && cfg.SMTPPassword != "",
	}
}

// IsConfigured checks if the sender has usable SMTP credentials
func (s *SMTPSender) IsConfigured() bool {
	return s.configured
}

func (s *SMTPSender) SendEmail(ctx context.Context, msg domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.fromEmail)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogSender writes emails to the application log instead of delivering them
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (LogSender) SendEmail(ctx context.Context, msg domain.Message) error {
	logger.Log.InfoContext(ctx, "Email not delivered, SMTP disabled", "to", msg.To, "subject", msg.Subject)
	return nil
}

// NewSender picks SMTP delivery when configured and logging otherwise
func NewSender(cfg *config.Config) domain.EmailSender {
	smtp := NewSMTPSender(cfg)
	if smtp.IsConfigured() {
		return smtp
	}
	logger.Log.Warn("SMTP credentials missing, emails will only be logged")
	return NewLogSender()
}
