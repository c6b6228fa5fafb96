package notify

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bizportal/bizportal/internal/lib/rabbitmq"
	"github.com/bizportal/bizportal/internal/models"
)

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(exchange, routingKey string, message any) error {
	return m.Called(exchange, routingKey, message).Error(0)
}

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestDispatchOTP(t *testing.T) {
	publisher := new(PublisherMock)
	publisher.On("Publish", rabbitmq.NotificationsExchange, rabbitmq.RoutingKeySMS,
		mock.MatchedBy(func(msg models.Notification) bool {
			return msg.Event == models.EventOTPCode &&
				msg.Channel == models.ChannelSMS &&
				msg.Recipient == "79990001122"
		})).Return(nil).Once()

	d := New(publisher, new(UsersMock), newNoopLogger())
	err := d.DispatchOTP(context.Background(), "79990001122", "123456")

	assert.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestDispatchStatus(t *testing.T) {
	entity := &models.Entity{
		ID:       "ent-1",
		OwnerUID: "uid-1",
		Kind:     models.KindLegal,
		Title:    "Регистрация ТОО",
		Status:   models.StatusPaid,
	}

	t.Run("sms владельцу и копия на почту", func(t *testing.T) {
		publisher := new(PublisherMock)
		users := new(UsersMock)
		users.On("GetUserByUID", mock.Anything, "uid-1").
			Return(&models.User{UUID: "uid-1", Phone: "79990001122", Email: "user@example.com"}, nil).Once()
		publisher.On("Publish", rabbitmq.NotificationsExchange, rabbitmq.RoutingKeySMS,
			mock.MatchedBy(func(msg models.Notification) bool {
				return msg.Event == models.EventPaymentConfirmed &&
					msg.Recipient == "79990001122" &&
					msg.EntityID == "ent-1"
			})).Return(nil).Once()
		publisher.On("Publish", rabbitmq.NotificationsExchange, rabbitmq.RoutingKeyEmail,
			mock.MatchedBy(func(msg models.Notification) bool {
				return msg.Channel == models.ChannelEmail &&
					msg.Recipient == "user@example.com"
			})).Return(nil).Once()

		d := New(publisher, users, newNoopLogger())
		err := d.DispatchStatus(context.Background(), models.EventPaymentConfirmed, entity)

		assert.NoError(t, err)
		publisher.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("без почты публикуется только sms", func(t *testing.T) {
		publisher := new(PublisherMock)
		users := new(UsersMock)
		users.On("GetUserByUID", mock.Anything, "uid-1").
			Return(&models.User{UUID: "uid-1", Phone: "79990001122"}, nil).Once()
		publisher.On("Publish", rabbitmq.NotificationsExchange, rabbitmq.RoutingKeySMS, mock.Anything).
			Return(nil).Once()

		d := New(publisher, users, newNoopLogger())
		err := d.DispatchStatus(context.Background(), models.EventCompleted, entity)

		assert.NoError(t, err)
		publisher.AssertExpectations(t)
	})

	t.Run("причина отклонения попадает в текст", func(t *testing.T) {
		reason := "неполный пакет документов"
		rejected := *entity
		rejected.Status = models.StatusRejected
		rejected.RejectionReason = &reason

		publisher := new(PublisherMock)
		users := new(UsersMock)
		users.On("GetUserByUID", mock.Anything, "uid-1").
			Return(&models.User{UUID: "uid-1", Phone: "79990001122"}, nil).Once()
		publisher.On("Publish", rabbitmq.NotificationsExchange, rabbitmq.RoutingKeySMS,
			mock.MatchedBy(func(msg models.Notification) bool {
				return msg.Event == models.EventRejected &&
					strings.Contains(msg.Body, reason)
			})).Return(nil).Once()

		d := New(publisher, users, newNoopLogger())
		err := d.DispatchStatus(context.Background(), models.EventRejected, &rejected)

		assert.NoError(t, err)
		publisher.AssertExpectations(t)
	})

	t.Run("неизвестное событие пропускается без публикации", func(t *testing.T) {
		publisher := new(PublisherMock)
		d := New(publisher, new(UsersMock), newNoopLogger())

		err := d.DispatchStatus(context.Background(), "unknown_event", entity)

		assert.NoError(t, err)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})
}
