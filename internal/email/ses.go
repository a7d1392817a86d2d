package email

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Notifier sends activity notification emails. It lets handlers be tested
// without AWS credentials.
type Notifier interface {
	SendCommentNotification(ctx context.Context, toEmail, commenterName, annoyanceTitle, commentPreview string, annoyanceID uint) error
}

// EmailService handles sending emails via AWS SES
type EmailService struct {
	client    *ses.Client
	fromEmail string
	fromName  string
	baseURL   string
}

// NewEmailService creates a new email service using AWS SES
func NewEmailService(region, fromEmail, fromName, baseURL string) (*EmailService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := ses.NewFromConfig(cfg)

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   baseURL,
	}, nil
}

// SendCommentNotification emails a post author about a new comment on one of
// their annoyances.
func (e *EmailService) SendCommentNotification(ctx context.Context, toEmail, commenterName, annoyanceTitle, commentPreview string, annoyanceID uint) error {
	postURL := fmt.Sprintf("%s/annoyances/%d", e.baseURL, annoyanceID)

	subject := fmt.Sprintf("%s commented on \"%s\"", commenterName, annoyanceTitle)
	htmlBody := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.comment { padding: 12px 16px; background-color: #f5f5f5; border-left: 3px solid #ff6b35; margin: 16px 0; }
				.button { display: inline-block; padding: 12px 24px; background-color: #ff6b35; color: white; text-decoration: none; border-radius: 6px; margin: 20px 0; }
			</style>
		</head>
		<body>
			<div class="container">
				<h1>New comment on your post</h1>
				<p><strong>%s</strong> commented on "<strong>%s</strong>":</p>
				<div class="comment">%s</div>
				<a href="%s" class="button">View the conversation</a>
				<hr>
				<p style="color: #999; font-size: 12px;">You can turn off these emails in your profile settings. This is an automated message from Gotcha.</p>
			</div>
		</body>
		</html>
	`, commenterName, annoyanceTitle, commentPreview, postURL)

	textBody := fmt.Sprintf(`
New comment on your post

%s commented on "%s":

%s

View the conversation: %s

You can turn off these emails in your profile settings.

This is an automated message from Gotcha.
	`, commenterName, annoyanceTitle, commentPreview, postURL)

	from := e.fromEmail
	if e.fromName != "" {
		from = fmt.Sprintf("%s <%s>", e.fromName, e.fromEmail)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(htmlBody),
					Charset: aws.String("UTF-8"),
				},
				Text: &types.Content{
					Data:    aws.String(textBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := e.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send comment notification: %w", err)
	}

	return nil
}

var _ Notifier = (*EmailService)(nil)
