// Package order реализует брокер платёжных заказов.
//
// Брокер создает заказ в шлюзе для заявки в предоплатном статусе и
// закрепляет его за заявкой однократно. Повторный запрос возвращает уже
// закреплённый заказ — перезагрузка страницы или двойной клик не плодят
// заказы в шлюзе. Деньги брокер не принимает.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bizportal/bizportal/internal/models"
	"github.com/bizportal/bizportal/internal/paymentgateway"
	"github.com/bizportal/bizportal/internal/services/lifecycle"
	"github.com/bizportal/bizportal/internal/storage/repository"
)

// Ошибки брокера заказов.
var (
	// ErrEntityNotFound — заявка не найдена.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrNotOwner — заказ запрошен не владельцем заявки.
	ErrNotOwner = errors.New("actor does not own the entity")
	// ErrInvalidState — статус заявки не допускает создание заказа.
	ErrInvalidState = errors.New("entity is not awaiting payment")
)

// Order — данные заказа для клиентского виджета оплаты.
type Order struct {
	OrderID      string `json:"order_id"`
	Amount       int    `json:"amount"`
	Currency     string `json:"currency"`
	GatewayKeyID string `json:"gateway_key_id"`
}

// Repository определяет методы хранилища, нужные брокеру.
type Repository interface {
	ReadEntity(ctx context.Context, id string) (*models.Entity, error)
	// SetGatewayOrder закрепляет заказ за заявкой, false — заказ уже закреплён.
	SetGatewayOrder(ctx context.Context, id, orderID string, amount int) (bool, error)
}

// Gateway определяет операции платёжного шлюза.
type Gateway interface {
	CreateOrder(ctx context.Context, req paymentgateway.CreateOrderRequest) (*paymentgateway.CreateOrderResponse, error)
	KeyID() string
}

// Lifecycle применяет переходы статусов заявки.
type Lifecycle interface {
	Transition(ctx context.Context, entityID, kind, toStatus string, actor models.Principal, reason string) (*models.Entity, error)
}

// Service реализует брокер платёжных заказов.
type Service struct {
	repo      Repository
	gateway   Gateway
	lifecycle Lifecycle
	log       *slog.Logger
}

// New создает новый Service брокера заказов.
func New(repo Repository, gateway Gateway, lc Lifecycle, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		gateway:   gateway,
		lifecycle: lc,
		log:       log,
	}
}

// CreateOrder возвращает заказ шлюза для заявки, создавая его при
// необходимости. Из статуса draft заявка переводится в awaiting_payment.
// Непустой kind сверяется с видом заявки, несовпадение отвечает
// "не найдено".
func (s *Service) CreateOrder(ctx context.Context, entityID, kind string, actor models.Principal) (*Order, error) {
	const op = "order.CreateOrder"

	entity, err := s.repo.ReadEntity(ctx, entityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if kind != "" && entity.Kind != kind {
		return nil, ErrEntityNotFound
	}
	if entity.OwnerUID != actor.UID && !actor.Privileged() {
		return nil, ErrNotOwner
	}
	if entity.Status != models.StatusDraft && entity.Status != models.StatusAwaitingPayment {
		return nil, ErrInvalidState
	}

	// Идемпотентный повтор: заказ уже закреплён за заявкой.
	if entity.GatewayOrderID != nil {
		// Заявка могла остаться в draft, если между закреплением заказа
		// и переходом статуса процесс упал — повтор достраивает переход,
		// иначе оплату не подтвердить.
		if entity.Status == models.StatusDraft {
			if _, err := s.lifecycle.Transition(ctx, entityID, entity.Kind,
				models.StatusAwaitingPayment, actor, "order created"); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			s.log.Warn("repaired stale draft with assigned gateway order",
				slog.String("entity_id", entityID), slog.String("order_id", *entity.GatewayOrderID))
		}
		return s.orderFromEntity(entity), nil
	}

	created, err := s.gateway.CreateOrder(ctx, paymentgateway.CreateOrderRequest{
		Amount:   entity.Amount,
		Currency: entity.Currency,
		Receipt:  entity.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	assigned, err := s.repo.SetGatewayOrder(ctx, entityID, created.ID, entity.Amount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !assigned {
		// Конкурентный запрос успел закрепить заказ первым —
		// возвращаем его, лишний заказ шлюза остаётся неоплаченным.
		s.log.Warn("gateway order already assigned, returning stored one",
			slog.String("entity_id", entityID), slog.String("dropped_order_id", created.ID))
		entity, err = s.repo.ReadEntity(ctx, entityID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return s.orderFromEntity(entity), nil
	}

	if entity.Status == models.StatusDraft {
		if _, err := s.lifecycle.Transition(ctx, entityID, entity.Kind,
			models.StatusAwaitingPayment, actor, "order created"); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	s.log.Info("gateway order created",
		slog.String("entity_id", entityID), slog.String("order_id", created.ID))

	return &Order{
		OrderID:      created.ID,
		Amount:       entity.Amount,
		Currency:     entity.Currency,
		GatewayKeyID: s.gateway.KeyID(),
	}, nil
}

func (s *Service) orderFromEntity(entity *models.Entity) *Order {
	return &Order{
		OrderID:      *entity.GatewayOrderID,
		Amount:       entity.Amount,
		Currency:     entity.Currency,
		GatewayKeyID: s.gateway.KeyID(),
	}
}

var _ Lifecycle = (*lifecycle.Service)(nil)
