package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"spelldaily/internal/models"
)

// EmailService sends the operator's daily digest via Amazon SES: which codes
// completed their drill, scores and the words that were missed.
type EmailService struct {
	client    *sesv2.Client
	sender    string
	recipient string
	enabled   bool
}

// NewEmailService creates a new email service. When no recipient is
// configured the service is a no-op.
func NewEmailService(awsRegion, sender, recipient string) (*EmailService, error) {
	if sender == "" || recipient == "" {
		log.Println("Email service disabled: digest sender/recipient not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", sender, awsRegion)
	return &EmailService{
		client:    sesv2.NewFromConfig(cfg),
		sender:    sender,
		recipient: recipient,
		enabled:   true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendDailyDigest builds and sends the digest for a day.
func (s *EmailService) SendDailyDigest(ctx context.Context, analytics *AnalyticsService, day string) error {
	if !s.enabled {
		log.Printf("Skipping digest for %s: email service disabled", day)
		return nil
	}

	completions, err := analytics.CompletionsForDay(day)
	if err != nil {
		return fmt.Errorf("failed to load completions for digest: %w", err)
	}
	if len(completions) == 0 {
		log.Printf("No completions on %s, skipping digest", day)
		return nil
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Spelling drill results for %s\n\n", day)
	for _, c := range completions {
		fmt.Fprintf(&text, "- %s: %d/%d", c.Code, c.Correct, c.Total)
		if len(c.FailedWords) > 0 {
			fmt.Fprintf(&text, " (missed: %s)", strings.Join(c.FailedWords, ", "))
		}
		text.WriteString("\n")
	}

	var html strings.Builder
	fmt.Fprintf(&html, "<h2>Spelling drill results for %s</h2><ul>", day)
	for _, c := range completions {
		fmt.Fprintf(&html, "<li><strong>%s</strong>: %d/%d", c.Code, c.Correct, c.Total)
		if len(c.FailedWords) > 0 {
			fmt.Fprintf(&html, " &mdash; missed: %s", strings.Join(c.FailedWords, ", "))
		}
		html.WriteString("</li>")
	}
	html.WriteString("</ul>")

	subject := fmt.Sprintf("Spelling digest %s: %d sessions", day, len(completions))
	return s.sendEmail(ctx, subject, html.String(), text.String())
}

// NotifyCompletion sends a short best-effort email for a just-recorded
// completion. Runs asynchronously so the gameplay path never waits on SES.
func (s *EmailService) NotifyCompletion(c *models.SessionCompletion) {
	if !s.enabled {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		subject := fmt.Sprintf("Spelling done: %s scored %d/%d", c.Code, c.Correct, c.Total)
		text := fmt.Sprintf("%s completed the drill for %s: %d/%d.\n", c.Code, c.Day, c.Correct, c.Total)
		html := fmt.Sprintf("<p><strong>%s</strong> completed the drill for %s: %d/%d.</p>", c.Code, c.Day, c.Correct, c.Total)
		if len(c.FailedWords) > 0 {
			text += fmt.Sprintf("Missed words: %s\n", strings.Join(c.FailedWords, ", "))
			html += fmt.Sprintf("<p>Missed words: %s</p>", strings.Join(c.FailedWords, ", "))
		}

		if err := s.sendEmail(ctx, subject, html, text); err != nil {
			log.Printf("Error sending completion notice for %s: %v", c.Code, err)
		}
	}()
}

// RunDailyDigest sends yesterday's digest every day shortly after midnight
// until ctx is cancelled.
func (s *EmailService) RunDailyDigest(ctx context.Context, analytics *AnalyticsService) {
	if !s.enabled {
		return
	}

	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 0, 5, 0, 0, now.Location()).Add(24 * time.Hour)
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		day := Day(time.Now().Add(-24 * time.Hour))
		if err := s.SendDailyDigest(ctx, analytics, day); err != nil {
			log.Printf("Error sending digest for %s: %v", day, err)
		}
	}
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, subject, htmlBody, textBody string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{s.recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
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
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", s.recipient, err)
	}
	if result.MessageId != nil {
		log.Printf("Digest sent: subject=%q, message id=%s", subject, *result.MessageId)
	}
	return nil
}
