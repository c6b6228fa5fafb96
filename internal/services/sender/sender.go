// Package sender реализует доставку уведомлений из очереди: SMS через
// провайдера и письма через SMTP.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bizportal/bizportal/internal/lib/sl"
	"github.com/bizportal/bizportal/internal/lib/smtp"
	"github.com/bizportal/bizportal/internal/models"
)

// SMSClient отправляет SMS и возвращает идентификатор сообщения у провайдера.
type SMSClient interface {
	Send(ctx context.Context, phone, text string) (string, error)
}

// SenderService доставляет сообщения очереди уведомлений конечным каналам.
type SenderService struct {
	sms       SMSClient
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(sms SMSClient, transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		sms:       sms,
		transport: transport,
		log:       log,
	}
}

// HandleSMS обрабатывает сообщение очереди notifications.sms.
func (s *SenderService) HandleSMS(body []byte) error {
	var message models.Notification
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal sms notification", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	messageID, err := s.sms.Send(context.Background(), message.Recipient, message.Body)
	if err != nil {
		s.log.Error("failed to send sms", sl.Err(err),
			slog.String("event", message.Event))
		return err
	}

	s.log.Info("sms sent",
		slog.String("event", message.Event),
		slog.String("provider_message_id", messageID))
	return nil
}

// HandleEmail обрабатывает сообщение очереди notifications.email.
func (s *SenderService) HandleEmail(body []byte) error {
	var message models.Notification
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal email notification", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	return s.sendEmail([]string{message.Recipient}, message.Subject, message.Body)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
