// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и роль.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей платформы.
const (
	RoleUser   = "user"   // Конечный пользователь (владелец заявок)
	RoleCA     = "ca"     // Специалист по юридическим заявкам
	RoleMentor = "mentor" // Ментор
	RoleAdmin  = "admin"  // Администратор
)

// User представляет зарегистрированного пользователя системы.
// Пользователь может быть создан по паролю или автоматически при первом
// успешном подтверждении кода по номеру телефона.
type User struct {
	UUID          string     // Уникальный идентификатор пользователя
	Phone         string     // Номер телефона (уникальный)
	Email         string     // Электронная почта (опционально)
	PasswordHash  string     // Хэш пароля, пустой для телефонных аккаунтов
	Role          string     // Роль: user, ca, mentor или admin
	PhoneVerified bool       // Подтверждён ли номер телефона
	CreatedAt     time.Time  // Дата регистрации
	LastLoginAt   *time.Time // Дата последнего входа
}

// Principal описывает аутентифицированного участника запроса.
// Заполняется middleware из проверенного токена и передаётся через контекст —
// никакого глобального состояния сессии в процессе нет.
type Principal struct {
	UID  string // UUID пользователя
	Role string // Роль пользователя
}

// Privileged сообщает, может ли участник выполнять привилегированные
// переходы статусов (reject, in_progress, completed).
func (p Principal) Privileged() bool {
	return p.Role == RoleCA || p.Role == RoleMentor || p.Role == RoleAdmin
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Phone    string `json:"phone" validate:"required,numeric"`  // Номер телефона
	Email    string `json:"email" validate:"omitempty,email"`   // Электронная почта
	Password string `json:"password" validate:"required,min=8"` // Пароль
}

// DummyLogin используется для приёма данных входа по паролю из JSON-запроса.
type DummyLogin struct {
	Phone    string `json:"phone" validate:"required,numeric"` // Номер телефона
	Password string `json:"password" validate:"required"`      // Пароль
}
