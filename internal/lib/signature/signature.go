// Package signature реализует проверку подлинности платёжных колбэков.
//
// Шлюз подписывает пару (orderID, paymentID) ключом HMAC-SHA256; сервер
// пересчитывает подпись тем же секретом и сравнивает за константное время.
// Без совпадения подписи колбэк не считается событием оплаты, каким бы
// корректным ни выглядело остальное тело запроса.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Compute возвращает hex-представление HMAC-SHA256 над "orderID|paymentID".
func Compute(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify сравнивает присланную подпись с пересчитанной.
// Сравнение через hmac.Equal, чтобы не утекать длину совпавшего префикса.
func Verify(secret, orderID, paymentID, provided string) bool {
	expected := Compute(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(provided))
}
