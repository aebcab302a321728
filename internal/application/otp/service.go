package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/otp-dashboard/internal/domain"
	"github.com/otp-dashboard/internal/pkg/id"
	"github.com/otp-dashboard/internal/pkg/token"
)

const (
	// CodeTTL is how long a sent code stays valid.
	CodeTTL = 5 * time.Minute
	// ResendCooldown is the fixed window after sent_at during which resend is refused.
	ResendCooldown = 60 * time.Second

	codeMin = 100000
	codeMax = 999999
)

type VerifyResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type Service interface {
	Send(ctx context.Context, email string) error
	Resend(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) (*VerifyResult, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpsertOTP(ctx context.Context, in domain.OTPUpsert) error
	MarkVerified(ctx context.Context, email, code string) error
}

type mailer interface {
	SendEmail(to, subject, htmlBody string) error
}

type tokenSigner interface {
	Sign(email string) (string, time.Time, error)
}

type service struct {
	users   userStore
	mailer  mailer
	signer  tokenSigner
	emails  *emailRenderer
	now     func() time.Time
	newCode func() (string, error)
}

type ServiceDeps struct {
	UserRepo userStore
	Mailer   mailer
	Signer   tokenSigner
	AppName  string
	Clock    func() time.Time // defaults to time.Now
}

func NewService(deps ServiceDeps) Service {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &service{
		users:   deps.UserRepo,
		mailer:  deps.Mailer,
		signer:  deps.Signer,
		emails:  newEmailRenderer(deps.AppName),
		now:     now,
		newCode: GenerateCode,
	}
}

func (s *service) Send(ctx context.Context, email string) error {
	if isBlank(email) {
		return domain.NewError(domain.ErrValidation, "Invalid email")
	}

	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return dependencyErr("load user", err)
	case u.IsVerified:
		return domain.NewError(domain.ErrConflict, "User already exists with this email")
	}

	err = s.issue(ctx, email, nil)
	if errors.Is(err, domain.ErrConditionFailed) {
		return domain.NewError(domain.ErrConflict, "User already exists with this email")
	}
	return err
}

func (s *service) Resend(ctx context.Context, email string) error {
	if isBlank(email) {
		return domain.NewError(domain.ErrValidation, "Invalid email")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewError(domain.ErrNotFound, "Cannot resend OTP. User does not exist.")
	}
	if err != nil {
		return dependencyErr("load user", err)
	}
	if u.IsVerified {
		return domain.NewError(domain.ErrConflict, "User already exists and is already verified")
	}
	if !u.HasCode() {
		return domain.NewError(domain.ErrInvalidState, "Cannot resend OTP. No OTP was previously generated for this user.")
	}
	// A record without sent_at has no window to wait out; the store then
	// requires sent_at to still be absent.
	if !u.OTP.SentAt.IsZero() {
		if elapsed := s.now().Sub(u.OTP.SentAt); elapsed < ResendCooldown {
			wait := ResendCooldown - elapsed
			if wait > ResendCooldown {
				wait = ResendCooldown
			}
			return &domain.RateLimitError{RetryAfter: wait}
		}
	}

	prev := u.OTP.SentAt
	err = s.issue(ctx, email, &prev)
	if errors.Is(err, domain.ErrConditionFailed) {
		// Another resend won the race and restarted the window.
		slog.WarnContext(ctx, "concurrent OTP resend rejected", "email", email)
		return &domain.RateLimitError{RetryAfter: ResendCooldown}
	}
	return err
}

// issue generates a fresh code, stores it and mails it. prevSentAt turns the
// store write into a compare-and-swap on the previous send time.
func (s *service) issue(ctx context.Context, email string, prevSentAt *time.Time) error {
	code, err := s.newCode()
	if err != nil {
		return err
	}
	now := s.now().UTC()
	err = s.users.UpsertOTP(ctx, domain.OTPUpsert{
		Email:      email,
		UserID:     id.New(),
		OTP:        domain.OTP{Code: code, SentAt: now, ExpiresAt: now.Add(CodeTTL)},
		PrevSentAt: prevSentAt,
		Now:        now,
	})
	if errors.Is(err, domain.ErrConditionFailed) {
		return err
	}
	if err != nil {
		return dependencyErr("store otp", err)
	}

	subject, body, err := s.emails.otp(code)
	if err != nil {
		return fmt.Errorf("render otp email: %w", err)
	}
	if err := s.mailer.SendEmail(email, subject, body); err != nil {
		return dependencyErr("send otp email", err)
	}
	slog.InfoContext(ctx, "otp sent", "email", email, "expires_at", now.Add(CodeTTL))
	return nil
}

func (s *service) Verify(ctx context.Context, email, code string) (*VerifyResult, error) {
	if isBlank(email) || isBlank(code) {
		return nil, domain.NewError(domain.ErrValidation, "Invalid input")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, dependencyErr("load user", err)
	}
	if u == nil || !u.HasCode() || subtle.ConstantTimeCompare([]byte(u.OTP.Code), []byte(code)) != 1 {
		return nil, domain.NewError(domain.ErrInvalidCode, "Invalid OTP")
	}
	if s.now().After(u.OTP.ExpiresAt) {
		return nil, domain.NewError(domain.ErrExpired, "OTP expired")
	}

	err = s.users.MarkVerified(ctx, email, code)
	if errors.Is(err, domain.ErrConditionFailed) {
		return nil, domain.NewError(domain.ErrInvalidCode, "Invalid OTP")
	}
	if err != nil {
		return nil, dependencyErr("mark verified", err)
	}
	u.IsVerified = true
	u.OTP = nil

	subject, body, err := s.emails.confirmation(email)
	if err != nil {
		return nil, fmt.Errorf("render confirmation email: %w", err)
	}
	if err := s.mailer.SendEmail(email, subject, body); err != nil {
		return nil, dependencyErr("send confirmation email", err)
	}

	tok, exp, err := s.signer.Sign(email)
	if err != nil {
		return nil, dependencyErr("sign session token", err)
	}
	slog.InfoContext(ctx, "email verified", "email", email, "user_id", u.UserID)
	return &VerifyResult{Token: tok, ExpiresAt: exp, User: u}, nil
}

// GenerateCode returns a uniformly random 6-digit code in [100000, 999999].
func GenerateCode() (string, error) {
	return token.NewNumericCode(codeMin, codeMax)
}

// isBlank reports whether s is empty or whitespace only. Non-blank input is
// used as sent.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func dependencyErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrDependency, err)
}
