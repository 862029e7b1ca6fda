package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/showcase-api/internal/config"
)

// Publisher emits application events to an SNS topic. Publishing is
// best-effort: callers log failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

type publisher struct {
	client   *sns.Client
	topicARN string
}

// NewPublisher creates an SNS publisher for cfg.SNSTopicARN. Returns an
// error when no topic is configured so callers can skip wiring it.
func NewPublisher(cfg *config.Config) (Publisher, error) {
	if cfg.SNSTopicARN == "" {
		return nil, fmt.Errorf("SNS_TOPIC_ARN not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	clientOpts := []func(*sns.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}

	return &publisher{
		client:   sns.NewFromConfig(awsCfg, clientOpts...),
		topicARN: cfg.SNSTopicARN,
	}, nil
}

func (p *publisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	body, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": payload,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
	})
	return err
}
