package mailer

import (
	"context"
	"fmt"

	"github.com/ArowuTest/zithara-mail-backend/internal/apperrors"
	appconfig "github.com/ArowuTest/zithara-mail-backend/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESClient delivers mail through the Amazon SES v2 API.
type SESClient struct {
	client *sesv2.Client
	from   string
}

// NewSESClient builds an SES client. Static credentials are used when both
// keys are configured, otherwise the default AWS credential chain applies.
func NewSESClient(ctx context.Context, cfg appconfig.MailConfig) (*SESClient, error) {
	if cfg.SES.Region == "" {
		return nil, apperrors.NewConfigurationError("AWS_REGION", nil)
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.SES.Region)}
	if cfg.SES.AccessKey != "" && cfg.SES.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.SES.AccessKey, cfg.SES.SecretKey, "")
		opts = append(opts, awsconfig.WithCredentialsProvider(creds))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &SESClient{
		client: sesv2.NewFromConfig(awsCfg),
		from:   FormatFrom(cfg),
	}, nil
}

// VerifyConnectivity checks the account is reachable with the configured
// credentials.
func (c *SESClient) VerifyConnectivity(ctx context.Context) error {
	if c.from == "" {
		return apperrors.NewConfigurationError("EMAIL_FROM", nil)
	}
	if _, err := c.client.GetAccount(ctx, &sesv2.GetAccountInput{}); err != nil {
		return apperrors.NewConfigurationError("AWS credentials", err)
	}
	return nil
}

// SendOne sends env through SES and returns the SES message id.
func (c *SESClient) SendOne(ctx context.Context, env Envelope) (string, error) {
	from := env.From
	if from == "" {
		from = c.from
	}

	body := &types.Body{
		Html: &types.Content{Data: aws.String(env.HTML), Charset: aws.String("UTF-8")},
	}
	if env.Text != "" {
		body.Text = &types.Content{Data: aws.String(env.Text), Charset: aws.String("UTF-8")}
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: []string{env.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(env.Subject), Charset: aws.String("UTF-8")},
				Body:    body,
			},
		},
	}

	out, err := c.client.SendEmail(ctx, input)
	if err != nil {
		return "", apperrors.NewDeliveryError(env.To, err)
	}
	return aws.ToString(out.MessageId), nil
}
