package models

import "time"

// Типы событий уведомлений.
const (
	EventOTPCode          = "otp_code"          // Отправка одноразового кода
	EventPaymentConfirmed = "payment_confirmed" // Платёж подтверждён
	EventRejected         = "rejected"          // Заявка отклонена
	EventCompleted        = "completed"         // Заявка завершена
)

// Каналы доставки уведомлений.
const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

// Notification представляет сообщение очереди уведомлений.
// Публикуется диспетчером после бизнес-перехода и доставляется отдельным
// сервисом-отправителем; сбой доставки никогда не откатывает переход.
type Notification struct {
	Event     string    `json:"event"`               // Тип события
	Channel   string    `json:"channel"`             // Канал доставки: sms или email
	Recipient string    `json:"recipient"`           // Телефон или адрес почты
	Subject   string    `json:"subject,omitempty"`   // Тема (для email)
	Body      string    `json:"body"`                // Текст сообщения
	EntityID  string    `json:"entity_id,omitempty"` // UUID заявки, если есть
	CreatedAt time.Time `json:"created_at"`          // Момент постановки в очередь
}
