// Package bizportal собирает HTTP-приложение портала: хранилище, кэш,
// очередь уведомлений, сервисы и маршруты.
package bizportal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/bizportal/bizportal/internal/cache"
	"github.com/bizportal/bizportal/internal/config"
	"github.com/bizportal/bizportal/internal/lib/jwt"
	"github.com/bizportal/bizportal/internal/lib/rabbitmq"
	"github.com/bizportal/bizportal/internal/lib/sl"
	"github.com/bizportal/bizportal/internal/migrations"
	"github.com/bizportal/bizportal/internal/paymentgateway"
	entityservice "github.com/bizportal/bizportal/internal/services/entity"
	"github.com/bizportal/bizportal/internal/services/identity"
	"github.com/bizportal/bizportal/internal/services/lifecycle"
	"github.com/bizportal/bizportal/internal/services/notify"
	orderservice "github.com/bizportal/bizportal/internal/services/order"
	paymentservice "github.com/bizportal/bizportal/internal/services/payment"
	"github.com/bizportal/bizportal/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	amqp   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQConnection, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	gatewayClient := paymentgateway.NewClient(cfg.Gateway)

	dispatcher := notify.New(&notify.ChannelPublisher{Ch: ch}, db, logger)
	identityService := identity.New(db, db, cacheRedis, dispatcher, jwtMaker, cfg.OTPPolicy, logger)
	entityService := entityservice.New(db, cacheRedis, logger)
	lifecycleService := lifecycle.New(db, cacheRedis, dispatcher, logger)
	orderService := orderservice.New(db, gatewayClient, lifecycleService, logger)
	paymentService := paymentservice.New(db, dispatcher, cacheRedis, cfg.WebhookSecret, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, identityService, entityService,
		lifecycleService, orderService, paymentService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		amqp:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close amqp channel", sl.Err(cerr))
		}
		if cerr := a.amqp.Close(); cerr != nil {
			a.logger.Error("failed to close amqp connection", sl.Err(cerr))
		}
		a.db.DB.Close()
		return err
	}
}
