// Package models содержит доменные структуры платформы: одноразовые коды,
// платные заявки (submission/booking/certificate), пользователей и события
// уведомлений. Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Назначения одноразовых кодов.
const (
	PurposeRegister = "register" // Регистрация нового пользователя
	PurposeLogin    = "login"    // Вход по номеру телефона
)

// OneTimeCode представляет одноразовый код подтверждения, привязанный
// к номеру телефона и назначению. Сам код не хранится — только bcrypt-хэш.
// Активным считается код без ConsumedAt и с непросроченным ExpiresAt;
// новая отправка для той же пары (phone, purpose) гасит предыдущий код.
type OneTimeCode struct {
	ID                int        // Идентификатор записи
	Phone             string     // Номер телефона получателя
	CodeHash          string     // bcrypt-хэш кода
	Purpose           string     // Назначение: register или login
	ExpiresAt         time.Time  // Момент истечения срока действия
	AttemptsRemaining int        // Оставшиеся попытки ввода
	ConsumedAt        *time.Time // Момент успешного использования (nil — ещё активен)
	CreatedAt         time.Time  // Момент отправки
}

// Expired сообщает, истёк ли срок действия кода на момент now.
func (c *OneTimeCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// DummySendCode используется для приёма запроса на отправку кода из JSON.
type DummySendCode struct {
	Phone   string `json:"phone" validate:"required,numeric"`                // Номер телефона
	Purpose string `json:"purpose" validate:"required,oneof=register login"` // Назначение кода
}

// DummyVerifyCode используется для приёма запроса на проверку кода из JSON.
type DummyVerifyCode struct {
	Phone   string `json:"phone" validate:"required,numeric"`                // Номер телефона
	Code    string `json:"otp" validate:"required,numeric,len=6"`            // Введённый код
	Purpose string `json:"purpose" validate:"required,oneof=register login"` // Назначение кода
}
