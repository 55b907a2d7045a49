package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/wexford-labs/widgetry/internal/config"
	"github.com/wexford-labs/widgetry/pkg/logger"
)

// EmailSender delivers transactional mail. Satisfied by EmailService and
// by test doubles.
type EmailSender interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

type EmailService struct {
	client *ses.Client
	from   string
	logger *slog.Logger
}

func NewEmailService(ctx context.Context, cfg config.EmailConfig, log *slog.Logger) (*EmailService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &EmailService{
		client: ses.NewFromConfig(awsCfg),
		from:   cfg.FromAddress,
		logger: log,
	}, nil
}

const passwordResetBody = `You are receiving this email because you (or someone else) has requested the reset of a password. Please make a PUT request to:

%s

If you did not request this, you can safely ignore this email. The link expires shortly.`

func (s *EmailService) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{
				Data:    aws.String("Password reset token"),
				Charset: aws.String("UTF-8"),
			},
			Body: &sestypes.Body{
				Text: &sestypes.Content{
					Data:    aws.String(fmt.Sprintf(passwordResetBody, resetURL)),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		s.logger.Error("failed to send password reset email",
			slog.String("to", logger.SanitizedEmail(to)),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	s.logger.Info("password reset email sent",
		slog.String("to", logger.SanitizedEmail(to)))
	return nil
}
