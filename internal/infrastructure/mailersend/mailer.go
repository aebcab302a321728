package mailersendinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mailersend/mailersend-go"
	"github.com/otp-dashboard/internal/config"
)

// Mailer sends HTML emails through the MailerSend API.
type Mailer struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	timeout time.Duration
}

func NewMailer(cfg *config.Config) (*Mailer, error) {
	if cfg.MailerSendAPIKey == "" || cfg.SMTPFrom == "" {
		return nil, errors.New("MailerSend not configured")
	}
	return &Mailer{
		client:  mailersend.NewMailersend(cfg.MailerSendAPIKey),
		from:    mailersend.From{Name: cfg.MailFromName, Email: cfg.SMTPFrom},
		timeout: 10 * time.Second,
	}, nil
}

func (m *Mailer) SendEmail(to, subject, htmlBody string) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Email: to}})
	msg.SetSubject(subject)
	msg.SetHTML(htmlBody)

	if _, err := m.client.Email.Send(ctx, msg); err != nil {
		return fmt.Errorf("mailersend send to %s: %w", to, err)
	}
	return nil
}
