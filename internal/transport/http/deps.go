package http

import (
	"context"

	"github.com/otp-dashboard/internal/domain"
)

// UserRepository is the minimal interface the router requires from a user store.
// Both the DynamoDB and MongoDB repos satisfy it.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpsertOTP stores a fresh code. It fails with domain.ErrConditionFailed
	// when the user is verified or, if PrevSentAt is set, when sent_at moved.
	UpsertOTP(ctx context.Context, in domain.OTPUpsert) error
	// MarkVerified flips is_verified and drops the code, only if code still matches.
	MarkVerified(ctx context.Context, email, code string) error
}

// Mailer is the minimal interface the router requires from an email sender.
// The SMTP, MailerSend and log mailers satisfy it.
type Mailer interface {
	SendEmail(to, subject, htmlBody string) error
}

// ProductSource is the minimal interface the router requires from the product API.
type ProductSource interface {
	FetchProducts(ctx context.Context) (*domain.ProductPage, error)
}
