package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// PublishMessage сериализует событие уведомления в JSON и публикует его
// с постоянным режимом доставки, чтобы сообщения переживали перезапуск
// брокера.
func PublishMessage(ch *amqp.Channel, exchange, routingKey string, message any) error {
	const op = "rabbitmq.PublishMessage"

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}
	if err := ch.Publish(exchange, routingKey, false, false, pub); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
