package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/otp-dashboard/internal/domain"
)

// itemAPI is the subset of *dynamodb.Client used by the repos.
type itemAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// UserRepo provides typed DynamoDB operations for the users table.
// PK: email.
type UserRepo struct {
	client    itemAPI
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldEmail, email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &u, nil
}

// UpsertOTP creates the user if absent and overwrites its OTP, leaving it
// unverified. Without PrevSentAt the write is refused for verified users;
// with PrevSentAt it is refused unless otp.sent_at is unchanged.
func (r *UserRepo) UpsertOTP(ctx context.Context, in domain.OTPUpsert) error {
	ue, err := update{
		set: map[string]interface{}{
			fieldOTP:        in.OTP,
			fieldIsVerified: false,
		},
		setIfAbsent: map[string]interface{}{
			fieldUserID:    in.UserID,
			fieldCreatedAt: in.Now.UTC(),
		},
	}.build()
	if err != nil {
		return err
	}
	if err := ue.condition("verified", fieldIsVerified, false); err != nil {
		return err
	}
	cond := "attribute_not_exists(#verified) OR #verified = :verified"
	if in.PrevSentAt != nil {
		if err := ue.condition("otp", fieldOTP, nil); err != nil {
			return err
		}
		if in.PrevSentAt.IsZero() {
			if err := ue.condition("sent", fieldOTPSentAt, nil); err != nil {
				return err
			}
			cond = "#verified = :verified AND attribute_not_exists(#otp.#sent)"
		} else {
			if err := ue.condition("sent", fieldOTPSentAt, in.PrevSentAt.UTC()); err != nil {
				return err
			}
			cond = "#verified = :verified AND #otp.#sent = :sent"
		}
	}
	return r.conditionalUpdate(ctx, in.Email, ue, cond)
}

// MarkVerified flags the user verified and removes its OTP, provided the
// stored code still equals code.
func (r *UserRepo) MarkVerified(ctx context.Context, email, code string) error {
	ue, err := update{
		set:    map[string]interface{}{fieldIsVerified: true},
		remove: []string{fieldOTP},
	}.build()
	if err != nil {
		return err
	}
	if err := ue.condition("otp", fieldOTP, nil); err != nil {
		return err
	}
	if err := ue.condition("code", fieldOTPCode, code); err != nil {
		return err
	}
	return r.conditionalUpdate(ctx, email, ue, "#otp.#code = :code")
}

func (r *UserRepo) conditionalUpdate(ctx context.Context, email string, ue *updateExpr, cond string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldEmail, email),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String(cond),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("update user %s: %w", email, domain.ErrConditionFailed)
	}
	return err
}
