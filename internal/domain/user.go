package domain

import "time"

// User is the per-email authentication record. PK: email.
type User struct {
	Email      string    `json:"email" dynamodbav:"email" bson:"email"`
	UserID     string    `json:"id" dynamodbav:"user_id" bson:"user_id"`
	IsVerified bool      `json:"is_verified" dynamodbav:"is_verified" bson:"is_verified"`
	OTP        *OTP      `json:"-" dynamodbav:"otp,omitempty" bson:"otp,omitempty"`
	CreatedAt  time.Time `json:"created_at" dynamodbav:"created_at" bson:"created_at"`
}

// OTP is the single live one-time code of a user. Each send overwrites it.
type OTP struct {
	Code      string    `dynamodbav:"code" bson:"code"`
	ExpiresAt time.Time `dynamodbav:"expires_at" bson:"expires_at"`
	SentAt    time.Time `dynamodbav:"sent_at" bson:"sent_at"`
}

// HasCode reports whether u carries a previously generated OTP.
func (u *User) HasCode() bool {
	return u.OTP != nil && u.OTP.Code != ""
}

// OTPUpsert describes a conditional create-or-update of a user's OTP.
// When PrevSentAt is set the write only succeeds if the stored otp.sent_at
// still equals it, or is still absent when PrevSentAt is the zero time;
// otherwise it only succeeds if the user is not verified.
type OTPUpsert struct {
	Email      string
	UserID     string // used only when the record is created
	OTP        OTP
	PrevSentAt *time.Time
	Now        time.Time
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required,notblank"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,notblank"`
	OTP   string `json:"otp" validate:"required,notblank"`
}
