// Package notify реализует диспетчер уведомлений.
//
// Диспетчер превращает бизнес-события (код отправлен, оплата подтверждена,
// заявка отклонена или завершена) в сообщения очереди и публикует их в
// RabbitMQ. Доставку выполняет отдельный сервис-отправитель; для вызывающей
// стороны диспетчеризация строго downstream — её сбой логируется и никогда
// не влияет на результат бизнес-операции.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/bizportal/bizportal/internal/lib/rabbitmq"
	"github.com/bizportal/bizportal/internal/models"
)

// Publisher публикует сообщение в обменник очереди.
type Publisher interface {
	Publish(exchange, routingKey string, message any) error
}

// ChannelPublisher реализует Publisher поверх канала AMQP.
type ChannelPublisher struct {
	Ch *amqp.Channel
}

// Publish публикует сообщение через lib/rabbitmq.
func (p *ChannelPublisher) Publish(exchange, routingKey string, message any) error {
	return rabbitmq.PublishMessage(p.Ch, exchange, routingKey, message)
}

// UserDirectory резолвит владельца заявки в контакты доставки.
type UserDirectory interface {
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
}

// Dispatcher отображает события жизненного цикла на шаблоны сообщений
// и каналы доставки.
type Dispatcher struct {
	publisher Publisher
	users     UserDirectory
	log       *slog.Logger
}

// New создает новый Dispatcher.
func New(publisher Publisher, users UserDirectory, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		users:     users,
		log:       log,
	}
}

// DispatchOTP ставит в очередь SMS с кодом подтверждения.
func (d *Dispatcher) DispatchOTP(ctx context.Context, phone, code string) error {
	const op = "notify.DispatchOTP"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	msg := models.Notification{
		Event:     models.EventOTPCode,
		Channel:   models.ChannelSMS,
		Recipient: phone,
		Body:      fmt.Sprintf("Код подтверждения: %s. Никому его не сообщайте.", code),
		CreatedAt: time.Now().UTC(),
	}
	if err := d.publisher.Publish(rabbitmq.NotificationsExchange, rabbitmq.RoutingKeySMS, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DispatchStatus ставит в очередь уведомление о смене статуса заявки.
// Неизвестные события пропускаются без ошибки.
func (d *Dispatcher) DispatchStatus(ctx context.Context, event string, entity *models.Entity) error {
	const op = "notify.DispatchStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var body, subject string
	switch event {
	case models.EventPaymentConfirmed:
		subject = "Оплата получена"
		body = fmt.Sprintf("Оплата по заявке %q получена, заявка передана в работу.", entity.Title)
	case models.EventRejected:
		subject = "Заявка отклонена"
		reason := ""
		if entity.RejectionReason != nil {
			reason = " Причина: " + *entity.RejectionReason
		}
		body = fmt.Sprintf("Заявка %q отклонена.%s", entity.Title, reason)
	case models.EventCompleted:
		subject = "Заявка завершена"
		body = fmt.Sprintf("Заявка %q выполнена.", entity.Title)
	default:
		d.log.Info("no notification template for event", slog.String("event", event))
		return nil
	}

	owner, err := d.users.GetUserByUID(ctx, entity.OwnerUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	msg := models.Notification{
		Event:     event,
		Channel:   models.ChannelSMS,
		Recipient: owner.Phone,
		Subject:   subject,
		Body:      body,
		EntityID:  entity.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.publisher.Publish(rabbitmq.NotificationsExchange, rabbitmq.RoutingKeySMS, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if owner.Email != "" {
		emailMsg := msg
		emailMsg.Channel = models.ChannelEmail
		emailMsg.Recipient = owner.Email
		if err := d.publisher.Publish(rabbitmq.NotificationsExchange, rabbitmq.RoutingKeyEmail, emailMsg); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
