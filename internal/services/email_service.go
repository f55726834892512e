package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	pkglogger "github.com/nskaret/lingoread/pkg/logger"
)

// AWSSESEmailService delivers activation codes using AWS SES
type AWSSESEmailService struct {
	sesClient   *ses.Client
	fromAddress string
	logger      *slog.Logger
}

// NewAWSSESEmailService creates a new AWS SES email service
func NewAWSSESEmailService(region, fromAddress string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

// SendActivationCode emails a one-time registration code to the recipient
func (s *AWSSESEmailService) SendActivationCode(ctx context.Context, to, code string) error {
	subject := "Your registration code"
	body := fmt.Sprintf(
		"Hello,\n\nUse the activation code below to register your account:\n\n    %s\n\nThe code can be used exactly once.\n",
		code,
	)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := s.sesClient.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send activation code email: %w", err)
	}

	s.logger.Info("activation code email sent",
		slog.String("recipient", pkglogger.SanitizedEmail(to)))

	return nil
}
