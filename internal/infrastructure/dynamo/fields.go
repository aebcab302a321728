package dynamo

// DynamoDB attribute names of the users table.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEmail      = "email"
	fieldUserID     = "user_id"
	fieldIsVerified = "is_verified"
	fieldOTP        = "otp"
	fieldOTPCode    = "code"
	fieldOTPSentAt  = "sent_at"
	fieldCreatedAt  = "created_at"
)
