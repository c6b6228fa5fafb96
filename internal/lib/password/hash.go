// Package password реализует функции для безопасного хеширования и проверки
// секретов: паролей пользователей и одноразовых кодов подтверждения.
//
// GetHash создает bcrypt-хеш для безопасного хранения.
// CompareHash сравнивает сохранённый bcrypt-хеш с введённым значением.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GetHash принимает секрет (пароль или одноразовый код) и возвращает его
// bcrypt‑хэш.
//
// Используется для безопасного хранения в базе данных: ни пароли,
// ни коды подтверждения в открытом виде не хранятся.
func GetHash(secret string) (string, error) {
	const op = "password.GetHash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым значением.
//
// Возвращает nil, если значение соответствует хэшу, иначе — ошибку.
func CompareHash(originalHash, external string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(external)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
