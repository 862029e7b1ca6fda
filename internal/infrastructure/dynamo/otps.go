package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/showcase-api/internal/domain"
)

// OTPRepo manages one-time passcode rows.
// PK: email, SK: otp_id — several rows can coexist for one address until
// the next issuance or a successful verification purges them all.
type OTPRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewOTPRepo(client *dynamodb.Client, tableName string) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName}
}

func (r *OTPRepo) Put(ctx context.Context, o *domain.OTP) error {
	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return fmt.Errorf("marshal otp: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put otp: %w", err)
	}
	return nil
}

// FindByEmailAndCode returns the first row matching both the email and the
// exact code string, or domain.ErrNotFound when no row matches.
func (r *OTPRepo) FindByEmailAndCode(ctx context.Context, email, code string) (*domain.OTP, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("email = :email"),
		FilterExpression:       aws.String("otp = :otp"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
			":otp":   &types.AttributeValueMemberS{Value: code},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query otp: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	var o domain.OTP
	if err := attributevalue.UnmarshalMap(out.Items[0], &o); err != nil {
		return nil, fmt.Errorf("unmarshal otp: %w", err)
	}
	return &o, nil
}

// DeleteAllForEmail removes every OTP row stored for the address, not just
// the most recent one.
func (r *OTPRepo) DeleteAllForEmail(ctx context.Context, email string) error {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
		ProjectionExpression: aws.String("email, otp_id"),
	})
	if err != nil {
		return fmt.Errorf("query otps for delete: %w", err)
	}

	for _, item := range out.Items {
		var key struct {
			Email string `dynamodbav:"email"`
			OTPID string `dynamodbav:"otp_id"`
		}
		if err := attributevalue.UnmarshalMap(item, &key); err != nil {
			return fmt.Errorf("unmarshal otp key: %w", err)
		}
		_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key:       compositeKey("email", key.Email, "otp_id", key.OTPID),
		})
		if err != nil {
			return fmt.Errorf("delete otp: %w", err)
		}
	}
	return nil
}
