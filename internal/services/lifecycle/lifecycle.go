// Package lifecycle реализует машину состояний платной заявки — общую для
// юридических заявок, бронирований менторских сессий и сертификатов.
//
// Все изменения статуса проходят через Transition: проверяется допустимость
// ребра для вида заявки и роли инициатора, затем переход применяется
// атомарно вместе с записью истории. Прямые записи статуса в обход машины
// состояний запрещены — история переходов остаётся полной.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bizportal/bizportal/internal/lib/sl"
	"github.com/bizportal/bizportal/internal/models"
	"github.com/bizportal/bizportal/internal/storage/repository"
)

// Ошибки машины состояний.
var (
	// ErrEntityNotFound — заявка не найдена.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrIllegalTransition — переход вне допустимого набора рёбер
	// или проигран конкурентному переходу.
	ErrIllegalTransition = errors.New("illegal status transition")
	// ErrForbidden — роль инициатора не даёт права на этот переход.
	ErrForbidden = errors.New("actor is not allowed to perform this transition")
	// ErrReasonRequired — отклонение без указания причины.
	ErrReasonRequired = errors.New("rejection requires a reason")
)

// Допустимые переходы статусов. Терминальные статусы (completed, rejected,
// withdrawn) исходящих рёбер не имеют.
var transitions = map[string]map[string]bool{
	models.StatusDraft: {
		models.StatusAwaitingPayment: true,
		models.StatusWithdrawn:       true,
	},
	models.StatusAwaitingPayment: {
		models.StatusPaid:      true,
		models.StatusRejected:  true,
		models.StatusWithdrawn: true,
	},
	models.StatusPaid: {
		models.StatusInProgress: true,
		models.StatusCompleted:  true,
		models.StatusRejected:   true,
	},
	models.StatusInProgress: {
		models.StatusCompleted: true,
		models.StatusRejected:  true,
	},
	models.StatusCompleted: {},
	models.StatusRejected:  {},
	models.StatusWithdrawn: {},
}

// Статусы, о которых владельцу заявки отправляется уведомление.
var notifiableEvents = map[string]string{
	models.StatusRejected:  models.EventRejected,
	models.StatusCompleted: models.EventCompleted,
}

// Переход paid -> in_progress есть только у юридических заявок;
// бронирования и сертификаты закрываются сразу из paid.
func allowedForKind(kind, from, to string) bool {
	if !transitions[from][to] {
		return false
	}
	if to == models.StatusInProgress && kind != models.KindLegal {
		return false
	}
	return true
}

// Repository определяет методы хранилища, нужные машине состояний.
type Repository interface {
	// ReadEntity возвращает заявку по ID.
	ReadEntity(ctx context.Context, id string) (*models.Entity, error)
	// ApplyTransition атомарно применяет переход с записью истории.
	ApplyTransition(ctx context.Context, change models.StatusChange) error
	// ListStatusHistory возвращает историю переходов заявки.
	ListStatusHistory(ctx context.Context, entityID string) ([]*models.StatusChange, error)
}

// Cache инвалидирует закешированные чтения заявки после перехода.
type Cache interface {
	Invalidate(key string) error
}

// Notifier ставит уведомление о смене статуса в очередь доставки.
type Notifier interface {
	DispatchStatus(ctx context.Context, event string, entity *models.Entity) error
}

// Service реализует проверку и применение переходов статусов.
type Service struct {
	repo     Repository
	cache    Cache
	notifier Notifier
	log      *slog.Logger
}

// New создает новый Service машины состояний.
func New(repo Repository, cache Cache, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

// Transition переводит заявку в статус toStatus от имени actor.
// Непустой kind сверяется с видом заявки: запрос по чужому разделу API
// отвечает "не найдено", не раскрывая существование заявки. Возвращает
// заявку после перехода.
func (s *Service) Transition(ctx context.Context, entityID, kind, toStatus string, actor models.Principal, reason string) (*models.Entity, error) {
	entity, err := s.repo.ReadEntity(ctx, entityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}
	if kind != "" && entity.Kind != kind {
		return nil, ErrEntityNotFound
	}

	if err := s.authorize(entity, toStatus, actor, reason); err != nil {
		return nil, err
	}
	if !allowedForKind(entity.Kind, entity.Status, toStatus) {
		s.log.Warn("illegal transition requested",
			slog.String("entity_id", entityID),
			slog.String("from", entity.Status),
			slog.String("to", toStatus),
			slog.String("actor_uid", actor.UID))
		return nil, ErrIllegalTransition
	}

	change := models.StatusChange{
		EntityID:   entityID,
		FromStatus: entity.Status,
		ToStatus:   toStatus,
		ActorUID:   actor.UID,
		Reason:     reason,
	}
	if err := s.repo.ApplyTransition(ctx, change); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Статус уже изменён конкурентной операцией.
			return nil, ErrIllegalTransition
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}

	if err := s.cache.Invalidate("entity:" + entityID); err != nil {
		s.log.Warn("failed to invalidate entity cache",
			slog.String("entity_id", entityID), sl.Err(err))
	}

	s.log.Info("status transition applied",
		slog.String("entity_id", entityID),
		slog.String("from", entity.Status),
		slog.String("to", toStatus),
		slog.String("actor_uid", actor.UID))

	updated, err := s.repo.ReadEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}

	if event, ok := notifiableEvents[toStatus]; ok {
		if err := s.notifier.DispatchStatus(ctx, event, updated); err != nil {
			// Недоставленное уведомление не откатывает переход.
			s.log.Error("failed to dispatch status notification",
				slog.String("entity_id", entityID),
				slog.String("event", event),
				sl.Err(err))
		}
	}

	return updated, nil
}

// History возвращает журнал переходов заявки.
func (s *Service) History(ctx context.Context, entityID string) ([]*models.StatusChange, error) {
	return s.repo.ListStatusHistory(ctx, entityID)
}

// authorize проверяет права инициатора на переход.
// Отклонять может только привилегированная роль и только с причиной;
// отзывать — только владелец и только до оплаты.
func (s *Service) authorize(entity *models.Entity, toStatus string, actor models.Principal, reason string) error {
	switch toStatus {
	case models.StatusPaid:
		// Оплата подтверждается только проверенным колбэком шлюза,
		// прямой перевод в paid недоступен никакой роли.
		return ErrForbidden
	case models.StatusRejected:
		if !actor.Privileged() {
			return ErrForbidden
		}
		if reason == "" {
			return ErrReasonRequired
		}
	case models.StatusWithdrawn:
		if entity.OwnerUID != actor.UID {
			return ErrForbidden
		}
	case models.StatusInProgress, models.StatusCompleted:
		if !actor.Privileged() {
			return ErrForbidden
		}
	case models.StatusAwaitingPayment:
		if entity.OwnerUID != actor.UID && !actor.Privileged() {
			return ErrForbidden
		}
	}
	return nil
}
