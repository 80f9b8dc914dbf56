package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"wardrobe-rental-backend/internal/logger"
)

// EmailService delivers plain-text and HTML messages to one recipient.
type EmailService interface {
	SendEmail(ctx context.Context, to, toName, subject, plainText, htmlContent string) error
}

type mailClient interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridEmailService struct {
	client    mailClient
	fromEmail string
	fromName  string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) SendEmail(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)
	response, err := s.client.Send(message)
	if err != nil {
		err = fmt.Errorf("failed to send email: %w", err)
		logger.ExternalServiceResult("sendgrid", "send", err, "to", to)
		return err
	}
	if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "send", err, "to", to)
		return err
	}

	logger.ExternalServiceResult("sendgrid", "send", nil, "to", to, "status", response.StatusCode)
	return nil
}

// logEmailService only logs. It stands in when no SendGrid key is configured.
type logEmailService struct{}

func NewLogEmailService() EmailService {
	return logEmailService{}
}

func (logEmailService) SendEmail(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	logger.Info("Email not sent, no mail provider configured", "to", to, "subject", subject)
	return nil
}
