package order

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bizportal/bizportal/internal/models"
	"github.com/bizportal/bizportal/internal/paymentgateway"
	"github.com/bizportal/bizportal/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ReadEntity(ctx context.Context, id string) (*models.Entity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entity), args.Error(1)
}
func (m *RepoMock) SetGatewayOrder(ctx context.Context, id, orderID string, amount int) (bool, error) {
	args := m.Called(ctx, id, orderID, amount)
	return args.Bool(0), args.Error(1)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreateOrder(ctx context.Context, req paymentgateway.CreateOrderRequest) (*paymentgateway.CreateOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentgateway.CreateOrderResponse), args.Error(1)
}
func (m *GatewayMock) KeyID() string {
	return m.Called().String(0)
}

type LifecycleMock struct{ mock.Mock }

func (m *LifecycleMock) Transition(ctx context.Context, entityID, kind, toStatus string, actor models.Principal, reason string) (*models.Entity, error) {
	args := m.Called(ctx, entityID, kind, toStatus, actor, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entity), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestCreateOrder(t *testing.T) {
	owner := models.Principal{UID: "uid-1", Role: models.RoleUser}
	stranger := models.Principal{UID: "uid-2", Role: models.RoleUser}
	storedOrderID := "ord-stored"

	draftEntity := func() *models.Entity {
		return &models.Entity{
			ID:       "ent-1",
			OwnerUID: "uid-1",
			Kind:     models.KindLegal,
			Status:   models.StatusDraft,
			Amount:   5000,
			Currency: "KZT",
		}
	}

	tests := []struct {
		name        string
		actor       models.Principal
		setupMocks  func(r *RepoMock, g *GatewayMock, lc *LifecycleMock)
		wantOrderID string
		wantErr     error
	}{
		{
			name:  "первый заказ для черновика",
			actor: owner,
			setupMocks: func(r *RepoMock, g *GatewayMock, lc *LifecycleMock) {
				r.On("ReadEntity", mock.Anything, "ent-1").Return(draftEntity(), nil).Once()
				g.On("CreateOrder", mock.Anything, paymentgateway.CreateOrderRequest{
					Amount:   5000,
					Currency: "KZT",
					Receipt:  "ent-1",
				}).Return(&paymentgateway.CreateOrderResponse{ID: "ord-new"}, nil).Once()
				r.On("SetGatewayOrder", mock.Anything, "ent-1", "ord-new", 5000).
					Return(true, nil).Once()
				lc.On("Transition", mock.Anything, "ent-1", models.KindLegal, models.StatusAwaitingPayment, owner, "order created").
					Return(&models.Entity{ID: "ent-1", Status: models.StatusAwaitingPayment}, nil).Once()
				g.On("KeyID").Return("key-1").Once()
			},
			wantOrderID: "ord-new",
		},
		{
			name:  "повторный запрос возвращает закреплённый заказ",
			actor: owner,
			setupMocks: func(r *RepoMock, g *GatewayMock, _ *LifecycleMock) {
				entity := draftEntity()
				entity.Status = models.StatusAwaitingPayment
				entity.GatewayOrderID = &storedOrderID
				r.On("ReadEntity", mock.Anything, "ent-1").Return(entity, nil).Once()
				g.On("KeyID").Return("key-1").Once()
			},
			wantOrderID: storedOrderID,
		},
		{
			name:  "повтор после сбоя достраивает переход из draft",
			actor: owner,
			setupMocks: func(r *RepoMock, g *GatewayMock, lc *LifecycleMock) {
				entity := draftEntity()
				entity.GatewayOrderID = &storedOrderID
				r.On("ReadEntity", mock.Anything, "ent-1").Return(entity, nil).Once()
				lc.On("Transition", mock.Anything, "ent-1", models.KindLegal, models.StatusAwaitingPayment, owner, "order created").
					Return(&models.Entity{ID: "ent-1", Status: models.StatusAwaitingPayment}, nil).Once()
				g.On("KeyID").Return("key-1").Once()
			},
			wantOrderID: storedOrderID,
		},
		{
			name:  "проигрыш конкурентному закреплению",
			actor: owner,
			setupMocks: func(r *RepoMock, g *GatewayMock, _ *LifecycleMock) {
				r.On("ReadEntity", mock.Anything, "ent-1").Return(draftEntity(), nil).Once()
				g.On("CreateOrder", mock.Anything, mock.Anything).
					Return(&paymentgateway.CreateOrderResponse{ID: "ord-loser"}, nil).Once()
				r.On("SetGatewayOrder", mock.Anything, "ent-1", "ord-loser", 5000).
					Return(false, nil).Once()
				winner := draftEntity()
				winner.Status = models.StatusAwaitingPayment
				winner.GatewayOrderID = &storedOrderID
				r.On("ReadEntity", mock.Anything, "ent-1").Return(winner, nil).Once()
				g.On("KeyID").Return("key-1").Once()
			},
			wantOrderID: storedOrderID,
		},
		{
			name:  "чужая заявка",
			actor: stranger,
			setupMocks: func(r *RepoMock, _ *GatewayMock, _ *LifecycleMock) {
				r.On("ReadEntity", mock.Anything, "ent-1").Return(draftEntity(), nil).Once()
			},
			wantErr: ErrNotOwner,
		},
		{
			name:  "оплаченная заявка не принимает новый заказ",
			actor: owner,
			setupMocks: func(r *RepoMock, _ *GatewayMock, _ *LifecycleMock) {
				entity := draftEntity()
				entity.Status = models.StatusPaid
				r.On("ReadEntity", mock.Anything, "ent-1").Return(entity, nil).Once()
			},
			wantErr: ErrInvalidState,
		},
		{
			name:  "заявка не найдена",
			actor: owner,
			setupMocks: func(r *RepoMock, _ *GatewayMock, _ *LifecycleMock) {
				r.On("ReadEntity", mock.Anything, "ent-1").
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: ErrEntityNotFound,
		},
		{
			name:  "заявка другого вида недоступна через этот раздел",
			actor: owner,
			setupMocks: func(r *RepoMock, _ *GatewayMock, _ *LifecycleMock) {
				entity := draftEntity()
				entity.Kind = models.KindMentor
				r.On("ReadEntity", mock.Anything, "ent-1").Return(entity, nil).Once()
			},
			wantErr: ErrEntityNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			gateway := new(GatewayMock)
			lc := new(LifecycleMock)
			tt.setupMocks(repo, gateway, lc)

			svc := New(repo, gateway, lc, newNoopLogger())
			ord, err := svc.CreateOrder(context.Background(), "ent-1", models.KindLegal, tt.actor)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantOrderID, ord.OrderID)
				assert.Equal(t, 5000, ord.Amount)
			}

			repo.AssertExpectations(t)
			gateway.AssertExpectations(t)
			lc.AssertExpectations(t)
		})
	}
}
