package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bizportal/bizportal/internal/lib/smtp"
	"github.com/bizportal/bizportal/internal/models"
)

type MockSMSClient struct {
	mock.Mock
}

func (m *MockSMSClient) Send(ctx context.Context, phone, text string) (string, error) {
	args := m.Called(ctx, phone, text)
	return args.String(0), args.Error(1)
}

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	return m.Called().String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	return m.Called(from).Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	return m.Called(to).Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	return m.Called().Error(0)
}

func (m *MockSMTPClient) Quit() error {
	return m.Called().Error(0)
}

type nopWriteCloser struct {
	bytes.Buffer
}

func (w *nopWriteCloser) Close() error { return nil }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandleSMS(t *testing.T) {
	message := models.Notification{
		Event:     models.EventOTPCode,
		Channel:   models.ChannelSMS,
		Recipient: "79990001122",
		Body:      "Код подтверждения: 123456. Никому его не сообщайте.",
	}
	body, err := json.Marshal(message)
	assert.NoError(t, err)

	t.Run("успешная доставка sms", func(t *testing.T) {
		sms := new(MockSMSClient)
		sms.On("Send", mock.Anything, "79990001122", message.Body).
			Return("msg-1", nil).Once()

		svc := NewSenderService(sms, new(MockTransport), newNoopLogger())
		assert.NoError(t, svc.HandleSMS(body))
		sms.AssertExpectations(t)
	})

	t.Run("сбой провайдера возвращается в очередь", func(t *testing.T) {
		sms := new(MockSMSClient)
		sms.On("Send", mock.Anything, "79990001122", message.Body).
			Return("", assert.AnError).Once()

		svc := NewSenderService(sms, new(MockTransport), newNoopLogger())
		assert.Error(t, svc.HandleSMS(body))
		sms.AssertExpectations(t)
	})

	t.Run("битое сообщение очереди", func(t *testing.T) {
		svc := NewSenderService(new(MockSMSClient), new(MockTransport), newNoopLogger())
		assert.Error(t, svc.HandleSMS([]byte("не json")))
	})
}

func TestHandleEmail(t *testing.T) {
	message := models.Notification{
		Event:     models.EventPaymentConfirmed,
		Channel:   models.ChannelEmail,
		Recipient: "user@example.com",
		Subject:   "Оплата получена",
		Body:      "Оплата по заявке получена, заявка передана в работу.",
	}
	body, err := json.Marshal(message)
	assert.NoError(t, err)

	t.Run("успешная отправка письма", func(t *testing.T) {
		writer := &nopWriteCloser{}
		client := new(MockSMTPClient)
		client.On("Mail", "portal@example.com").Return(nil).Once()
		client.On("Rcpt", "user@example.com").Return(nil).Once()
		client.On("Data").Return(writer, nil).Once()
		client.On("Quit").Return(nil).Once()
		client.On("Close").Return(nil).Once()

		transport := new(MockTransport)
		transport.On("Connect").Return(client, nil).Once()
		transport.On("GetSMTPUser").Return("portal@example.com")

		svc := NewSenderService(new(MockSMSClient), transport, newNoopLogger())
		assert.NoError(t, svc.HandleEmail(body))

		assert.Contains(t, writer.String(), "Subject: Оплата получена")
		assert.Contains(t, writer.String(), message.Body)
		client.AssertExpectations(t)
		transport.AssertExpectations(t)
	})

	t.Run("сбой подключения к SMTP", func(t *testing.T) {
		transport := new(MockTransport)
		transport.On("Connect").Return(nil, assert.AnError).Once()
		transport.On("GetSMTPUser").Return("portal@example.com")

		svc := NewSenderService(new(MockSMSClient), transport, newNoopLogger())
		assert.Error(t, svc.HandleEmail(body))
		transport.AssertExpectations(t)
	})
}
