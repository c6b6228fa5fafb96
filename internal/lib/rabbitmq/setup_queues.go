package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Топология очереди уведомлений.
const (
	NotificationsExchange = "notifications"

	QueueSMS   = "notifications.sms"
	QueueEmail = "notifications.email"

	RoutingKeySMS   = "sms"
	RoutingKeyEmail = "email"
)

// SetupChannel открывает канал и объявляет обменник уведомлений
// с очередями для SMS и email.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		NotificationsExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bindings := map[string]string{
		QueueSMS:   RoutingKeySMS,
		QueueEmail: RoutingKeyEmail,
	}
	for queue, key := range bindings {
		_, err = ch.QueueDeclare(
			queue,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = ch.QueueBind(queue, key, NotificationsExchange, false, nil); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return ch, nil
}
