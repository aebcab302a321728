package mongoinfra

import (
	"context"
	"errors"
	"fmt"

	"github.com/otp-dashboard/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	fieldEmail      = "email"
	fieldUserID     = "user_id"
	fieldIsVerified = "is_verified"
	fieldOTP        = "otp"
	fieldCreatedAt  = "created_at"
)

// UserRepo stores users in a MongoDB collection with a unique email index.
type UserRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(coll *mongo.Collection) *UserRepo {
	return &UserRepo{coll: coll}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.coll.FindOne(ctx, bson.M{fieldEmail: email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertOTP creates the user if absent and overwrites its OTP, leaving it
// unverified. See upsertOTPQuery for the write conditions.
func (r *UserRepo) UpsertOTP(ctx context.Context, in domain.OTPUpsert) error {
	filter, update, upsert := upsertOTPQuery(in)
	res, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(upsert))
	if mongo.IsDuplicateKeyError(err) {
		// A verified document already holds this email.
		return fmt.Errorf("upsert otp for %s: %w", in.Email, domain.ErrConditionFailed)
	}
	if err != nil {
		return err
	}
	if !upsert && res.MatchedCount == 0 {
		return fmt.Errorf("upsert otp for %s: %w", in.Email, domain.ErrConditionFailed)
	}
	return nil
}

// MarkVerified flags the user verified and unsets its OTP, provided the
// stored code still equals code.
func (r *UserRepo) MarkVerified(ctx context.Context, email, code string) error {
	filter, update := markVerifiedQuery(email, code)
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("verify %s: %w", email, domain.ErrConditionFailed)
	}
	return nil
}

// upsertOTPQuery matches only unverified users. A first send upserts; a
// resend additionally requires otp.sent_at to be unchanged (or still missing)
// and never inserts.
func upsertOTPQuery(in domain.OTPUpsert) (filter, update bson.M, upsert bool) {
	filter = bson.M{
		fieldEmail:      in.Email,
		fieldIsVerified: bson.M{"$ne": true},
	}
	upsert = true
	if in.PrevSentAt != nil {
		if in.PrevSentAt.IsZero() {
			filter[fieldOTP+".sent_at"] = bson.M{"$exists": false}
		} else {
			filter[fieldOTP+".sent_at"] = *in.PrevSentAt
		}
		upsert = false
	}
	update = bson.M{
		"$set": bson.M{
			fieldOTP:        in.OTP,
			fieldIsVerified: false,
		},
		"$setOnInsert": bson.M{
			fieldUserID:    in.UserID,
			fieldCreatedAt: in.Now.UTC(),
		},
	}
	return filter, update, upsert
}

func markVerifiedQuery(email, code string) (filter, update bson.M) {
	filter = bson.M{fieldEmail: email, fieldOTP + ".code": code}
	update = bson.M{
		"$set":   bson.M{fieldIsVerified: true},
		"$unset": bson.M{fieldOTP: ""},
	}
	return filter, update
}
