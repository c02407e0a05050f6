package utils

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/sirupsen/logrus"
)

// SESSendAPI is the slice of the SES client the mailer needs.
type SESSendAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Mailer sends plain-text notifications through SES.
type Mailer struct {
	client SESSendAPI
	from   string
}

func NewMailer(client SESSendAPI, from string) *Mailer {
	return &Mailer{client: client, from: from}
}

func NewMailerFromEnv(ctx context.Context, region, from string) (*Mailer, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config for SES: %w", err)
	}
	return NewMailer(ses.NewFromConfig(cfg), from), nil
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(m.from),
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		logrus.WithError(err).WithField("to", to).Warn("SES send failed")
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}

// SendMealPlan mails the link to an exported meal plan.
func (m *Mailer) SendMealPlan(ctx context.Context, to, clientName, planName, link string) error {
	greeting := "Hello"
	if clientName != "" {
		greeting = "Hello " + clientName
	}
	subject := fmt.Sprintf("Your meal plan: %s", planName)
	body := fmt.Sprintf("%s,\n\nYour meal plan \"%s\" is ready:\n%s\n\nEnjoy your meals!", greeting, planName, link)
	return m.send(ctx, to, subject, body)
}
