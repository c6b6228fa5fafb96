// Package sl содержит мелкие помощники для структурированного логирования
// через slog, общие для API и отправителя уведомлений.
package sl

import "log/slog"

// Err оборачивает ошибку в slog.Attr с ключом "error", чтобы записи
// об ошибках имели одинаковое поле во всех сервисах.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
