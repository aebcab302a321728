package smtp

import (
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/otp-dashboard/internal/config"
)

// Mailer sends HTML emails over SMTP.
type Mailer struct {
	host     string
	port     string
	from     mail.Address
	username string
	password string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     mail.Address{Name: cfg.MailFromName, Address: cfg.SMTPFrom},
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		send:     smtp.SendMail,
	}
}

func (m *Mailer) SendEmail(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := m.send(addr, auth, m.from.Address, []string{to}, buildMessage(m.from, to, subject, htmlBody)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from mail.Address, to, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from.String())
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
