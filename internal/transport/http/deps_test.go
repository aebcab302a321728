package http

import (
	"github.com/otp-dashboard/internal/infrastructure/devmail"
	"github.com/otp-dashboard/internal/infrastructure/dynamo"
	mailersendinfra "github.com/otp-dashboard/internal/infrastructure/mailersend"
	mongoinfra "github.com/otp-dashboard/internal/infrastructure/mongo"
	"github.com/otp-dashboard/internal/infrastructure/productapi"
	"github.com/otp-dashboard/internal/infrastructure/smtp"
)

var (
	_ Mailer = (*smtp.Mailer)(nil)
	_ Mailer = (*mailersendinfra.Mailer)(nil)
	_ Mailer = (*devmail.Mailer)(nil)

	_ UserRepository = (*dynamo.UserRepo)(nil)
	_ UserRepository = (*mongoinfra.UserRepo)(nil)

	_ ProductSource = (*productapi.Client)(nil)
)
