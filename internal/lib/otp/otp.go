// Package otp реализует генерацию одноразовых числовых кодов подтверждения.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeLength — длина генерируемого кода в цифрах.
const CodeLength = 6

var codeSpace = big.NewInt(1000000)

// GenerateCode возвращает случайный шестизначный код с ведущими нулями.
// Код — это учётные данные, поэтому используется crypto/rand.
func GenerateCode() (string, error) {
	const op = "otp.GenerateCode"
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
