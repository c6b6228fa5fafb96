// Package smtp инкапсулирует отправку писем о смене статуса заявки
// через внешний SMTP-сервер.
package smtp

import "io"

// Client описывает минимальный набор операций SMTP-сессии,
// используемый отправителем писем. За интерфейсом скрывается
// net/smtp.Client, в тестах — мок.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface открывает SMTP-сессии и сообщает адрес отправителя
// для заголовка From.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
