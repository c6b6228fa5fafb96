package models

import "time"

// Виды платных заявок платформы.
const (
	KindLegal    = "legal"    // Юридическая заявка (регистрация, GST и т.п.)
	KindMentor   = "mentor"   // Бронирование сессии с ментором
	KindTraining = "training" // Запрос сертификата об обучении
)

// Статусы жизненного цикла заявки.
const (
	StatusDraft           = "draft"
	StatusAwaitingPayment = "awaiting_payment"
	StatusPaid            = "paid"
	StatusInProgress      = "in_progress"
	StatusCompleted       = "completed"
	StatusRejected        = "rejected"
	StatusWithdrawn       = "withdrawn"
)

// Entity представляет платную заявку — единственный общий мутируемый ресурс
// всех трёх рабочих процессов. Статус меняется только через машину состояний,
// прямые записи полей запрещены, история переходов append-only.
// GatewayOrderID назначается не более одного раза и далее неизменен.
type Entity struct {
	ID               string     // UUID заявки
	OwnerUID         string     // UUID владельца
	Kind             string     // Вид заявки: legal, mentor или training
	Title            string     // Краткое описание (название услуги/сессии/курса)
	Amount           int        // Сумма к оплате в минимальных единицах валюты
	Currency         string     // Код валюты, например INR
	Status           string     // Текущий статус жизненного цикла
	GatewayOrderID   *string    // Идентификатор заказа в платёжном шлюзе
	GatewayPaymentID *string    // Идентификатор платежа в платёжном шлюзе
	PaidAt           *time.Time // Момент подтверждения оплаты
	RejectionReason  *string    // Причина отклонения (только для legal)
	CreatedAt        time.Time  // Момент создания
}

// StatusChange представляет одну запись истории переходов заявки.
type StatusChange struct {
	ID         int       // Идентификатор записи
	EntityID   string    // UUID заявки
	FromStatus string    // Статус до перехода
	ToStatus   string    // Статус после перехода
	ActorUID   string    // UUID инициатора перехода
	Reason     string    // Причина/метаданные перехода
	CreatedAt  time.Time // Момент перехода
}

// DummyEntity используется для приёма данных новой заявки из JSON-запроса.
type DummyEntity struct {
	Title    string `json:"title" validate:"required"`          // Описание заявки
	Amount   int    `json:"amount" validate:"required,gt=0"`    // Сумма (>0)
	Currency string `json:"currency" validate:"required,len=3"` // Код валюты
}

// DummyTransition используется для приёма запроса на смену статуса из JSON.
type DummyTransition struct {
	ToStatus string `json:"to_status" validate:"required"` // Целевой статус
	Reason   string `json:"reason,omitempty"`              // Причина (обязательна для rejected)
}

// DummyConfirm используется для приёма полей платёжного колбэка из JSON.
// Поля приходят от клиентского виджета шлюза и проверяются по подписи,
// клиентскому "успеху" сервер не доверяет.
type DummyConfirm struct {
	GatewayOrderID   string `json:"gateway_order_id" validate:"required"`   // Заказ шлюза
	GatewayPaymentID string `json:"gateway_payment_id" validate:"required"` // Платёж шлюза
	Signature        string `json:"signature" validate:"required"`          // Подпись шлюза
}
