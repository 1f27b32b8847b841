package mailer

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"portfolio-relay/internal/model"
	"portfolio-relay/pkg/config"
)

const defaultSESRegion = "us-east-1"

// SESAPI is the subset of *ses.Client the mailer uses
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer sends through AWS SES with credentials from the default AWS chain
type SESMailer struct {
	client SESAPI
	logger *zap.Logger
}

func NewSESMailer(ctx context.Context, cfg config.SESConfig, logger *zap.Logger) (*SESMailer, error) {
	region := cfg.Region
	if region == "" {
		region = defaultSESRegion
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewSESMailerWithClient(ses.NewFromConfig(awsCfg), logger), nil
}

func NewSESMailerWithClient(client SESAPI, logger *zap.Logger) *SESMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SESMailer{client: client, logger: logger}
}

func (m *SESMailer) Name() string { return TransportSES }

func (m *SESMailer) Send(ctx context.Context, email model.OutboundEmail) error {
	body := &types.Body{
		Html: &types.Content{
			Data:    aws.String(email.HTMLBody),
			Charset: aws.String("UTF-8"),
		},
	}
	if email.TextBody != "" {
		body.Text = &types.Content{
			Data:    aws.String(email.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	input := &ses.SendEmailInput{
		Source:      aws.String(email.From),
		Destination: &types.Destination{ToAddresses: []string{email.To}},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(email.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: body,
		},
	}
	// Same as SMTP: an unparseable Reply-To is dropped, the address is still in the body
	if email.ReplyTo != "" {
		if addr, err := mail.ParseAddress(email.ReplyTo); err != nil {
			m.logger.Warn("Dropping unparseable Reply-To", zap.String("reply_to", email.ReplyTo), zap.Error(err))
		} else {
			input.ReplyToAddresses = []string{addr.Address}
		}
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send mail via ses: %w", err)
	}
	return nil
}
