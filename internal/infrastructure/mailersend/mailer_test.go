package mailersendinfra

import (
	"testing"

	"github.com/otp-dashboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailer_RequiresAPIKeyAndSender(t *testing.T) {
	_, err := NewMailer(&config.Config{SMTPFrom: "noreply@example.com"})
	assert.Error(t, err)

	_, err = NewMailer(&config.Config{MailerSendAPIKey: "key"})
	assert.Error(t, err)
}

func TestNewMailer_Configured(t *testing.T) {
	m, err := NewMailer(&config.Config{MailerSendAPIKey: "key", SMTPFrom: "noreply@example.com", MailFromName: "Assignment"})
	require.NoError(t, err)
	assert.Equal(t, "noreply@example.com", m.from.Email)
	assert.Equal(t, "Assignment", m.from.Name)
}
