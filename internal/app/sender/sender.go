// Package sender собирает сервис доставки уведомлений: подключение к
// RabbitMQ, SMS-провайдер и SMTP-транспорт.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/bizportal/bizportal/internal/config"
	"github.com/bizportal/bizportal/internal/lib/rabbitmq"
	"github.com/bizportal/bizportal/internal/lib/sl"
	"github.com/bizportal/bizportal/internal/lib/sms"
	"github.com/bizportal/bizportal/internal/lib/smtp"
	senderservice "github.com/bizportal/bizportal/internal/services/sender"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQConnection, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	smsClient := sms.NewClient(cfg.SMSProvider, logger)
	transport := smtp.NewTransport(cfg.SMTPConnection, logger)
	senderService := senderservice.NewSenderService(smsClient, transport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.QueueSMS, a.senderService.HandleSMS)
	if err != nil {
		a.logger.Error("failed to start sms consumer", sl.Err(err))
		return err
	}

	err = rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.QueueEmail, a.senderService.HandleEmail)
	if err != nil {
		a.logger.Error("failed to start email consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}

	return nil
}
