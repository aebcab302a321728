package devmail

import (
	"log/slog"
)

// Mailer logs outgoing emails instead of delivering them. Development only.
type Mailer struct {
	log *slog.Logger
}

func NewMailer(log *slog.Logger) *Mailer {
	return &Mailer{log: log}
}

func (m *Mailer) SendEmail(to, subject, htmlBody string) error {
	m.log.Info("[DEV MAIL] email not delivered", "to", to, "subject", subject, "html", htmlBody)
	return nil
}
