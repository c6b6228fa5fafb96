// Package payment реализует проверку платёжных колбэков шлюза.
//
// Колбэк принимается в четыре шага: подпись, идемпотентность, привязка
// к заказу заявки и атомарный переход в paid. Клиентскому "успеху" сервер
// не доверяет — без подписи шлюза статус не меняется. Повторная доставка
// того же колбэка возвращает успех без нового перехода и без новой записи
// истории.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bizportal/bizportal/internal/lib/signature"
	"github.com/bizportal/bizportal/internal/lib/sl"
	"github.com/bizportal/bizportal/internal/metrics"
	"github.com/bizportal/bizportal/internal/models"
	"github.com/bizportal/bizportal/internal/services/notify"
	"github.com/bizportal/bizportal/internal/storage/repository"
)

// Ошибки проверки колбэка.
var (
	// ErrEntityNotFound — заявка не найдена.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrInvalidSignature — подпись колбэка не прошла проверку.
	ErrInvalidSignature = errors.New("invalid gateway signature")
	// ErrOrderMismatch — колбэк ссылается на чужой заказ шлюза.
	ErrOrderMismatch = errors.New("gateway order mismatch")
	// ErrIllegalTransition — заявка не в статусе ожидания оплаты.
	ErrIllegalTransition = errors.New("entity is not awaiting payment")
)

// Confirmation — результат обработки колбэка.
type Confirmation struct {
	Status  string `json:"status"`
	Applied bool   `json:"-"` // false — повторный колбэк, переход уже был
}

// Repository определяет методы хранилища, нужные проверке колбэков.
type Repository interface {
	// ConfirmEntityPayment атомарно применяет подтверждение оплаты.
	ConfirmEntityPayment(ctx context.Context, id, kind, orderID, paymentID, actorUID string) (bool, *models.Entity, error)
}

// Notifier ставит уведомление о подтверждённой оплате в очередь.
type Notifier interface {
	DispatchStatus(ctx context.Context, event string, entity *models.Entity) error
}

// Cache инвалидирует закешированные чтения заявки после подтверждения.
type Cache interface {
	Invalidate(key string) error
}

// Service реализует проверку и применение платёжных колбэков.
type Service struct {
	repo          Repository
	notifier      Notifier
	cache         Cache
	webhookSecret string
	log           *slog.Logger
}

// New создает новый Service проверки колбэков.
func New(repo Repository, notifier Notifier, cache Cache, webhookSecret string, log *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		notifier:      notifier,
		cache:         cache,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

// Confirm обрабатывает колбэк оплаты для заявки entityID от имени actor.
// Непустой kind сверяется с видом заявки, несовпадение отвечает
// "не найдено".
func (s *Service) Confirm(ctx context.Context, entityID, kind string, payload models.DummyConfirm, actor models.Principal) (*Confirmation, error) {
	const op = "payment.Confirm"

	if !signature.Verify(s.webhookSecret, payload.GatewayOrderID, payload.GatewayPaymentID, payload.Signature) {
		metrics.PaymentsRejectedTotal.WithLabelValues("invalid_signature").Inc()
		s.log.Warn("callback signature mismatch",
			slog.String("entity_id", entityID),
			slog.String("order_id", payload.GatewayOrderID),
			slog.String("payment_id", payload.GatewayPaymentID))
		return nil, ErrInvalidSignature
	}

	applied, entity, err := s.repo.ConfirmEntityPayment(ctx, entityID, kind,
		payload.GatewayOrderID, payload.GatewayPaymentID, actor.UID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrEntityNotFound
		case errors.Is(err, repository.ErrOrderMismatch):
			metrics.PaymentsRejectedTotal.WithLabelValues("order_mismatch").Inc()
			s.log.Warn("callback references foreign gateway order",
				slog.String("entity_id", entityID),
				slog.String("order_id", payload.GatewayOrderID))
			return nil, ErrOrderMismatch
		case errors.Is(err, repository.ErrConflict):
			metrics.PaymentsRejectedTotal.WithLabelValues("illegal_transition").Inc()
			return nil, ErrIllegalTransition
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !applied {
		s.log.Info("duplicate payment callback ignored",
			slog.String("entity_id", entityID),
			slog.String("payment_id", payload.GatewayPaymentID))
		return &Confirmation{Status: entity.Status, Applied: false}, nil
	}

	if err := s.cache.Invalidate("entity:" + entityID); err != nil {
		s.log.Warn("failed to invalidate entity cache",
			slog.String("entity_id", entityID), sl.Err(err))
	}

	metrics.PaymentsConfirmedTotal.WithLabelValues(entity.Kind).Inc()
	s.log.Info("payment confirmed",
		slog.String("entity_id", entityID),
		slog.String("payment_id", payload.GatewayPaymentID))

	// Уведомление строго после перехода, сбой доставки не откатывает оплату.
	if err := s.notifier.DispatchStatus(ctx, models.EventPaymentConfirmed, entity); err != nil {
		s.log.Error("failed to dispatch payment notification",
			slog.String("entity_id", entityID), sl.Err(err))
	}

	return &Confirmation{Status: entity.Status, Applied: true}, nil
}

var _ Notifier = (*notify.Dispatcher)(nil)
