package lifecycle

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bizportal/bizportal/internal/models"
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
func (m *RepoMock) ApplyTransition(ctx context.Context, change models.StatusChange) error {
	return m.Called(ctx, change).Error(0)
}
func (m *RepoMock) ListStatusHistory(ctx context.Context, entityID string) ([]*models.StatusChange, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StatusChange), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) DispatchStatus(ctx context.Context, event string, entity *models.Entity) error {
	return m.Called(ctx, event, entity).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func entityWith(kind, status string) *models.Entity {
	return &models.Entity{
		ID:       "ent-1",
		OwnerUID: "uid-owner",
		Kind:     kind,
		Status:   status,
	}
}

func TestTransition(t *testing.T) {
	owner := models.Principal{UID: "uid-owner", Role: models.RoleUser}
	admin := models.Principal{UID: "uid-admin", Role: models.RoleAdmin}
	ca := models.Principal{UID: "uid-ca", Role: models.RoleCA}
	stranger := models.Principal{UID: "uid-stranger", Role: models.RoleUser}

	tests := []struct {
		name       string
		entity     *models.Entity
		toStatus   string
		actor      models.Principal
		reason     string
		wantEvent  string // пустая строка — уведомления нет
		wantReason string
		wantErr    error
	}{
		{
			name:     "специалист берёт оплаченную юридическую заявку в работу",
			entity:   entityWith(models.KindLegal, models.StatusPaid),
			toStatus: models.StatusInProgress,
			actor:    ca,
		},
		{
			name:      "администратор завершает заявку в работе",
			entity:    entityWith(models.KindLegal, models.StatusInProgress),
			toStatus:  models.StatusCompleted,
			actor:     admin,
			wantEvent: models.EventCompleted,
		},
		{
			name:      "бронирование ментора завершается сразу из paid",
			entity:    entityWith(models.KindMentor, models.StatusPaid),
			toStatus:  models.StatusCompleted,
			actor:     admin,
			wantEvent: models.EventCompleted,
		},
		{
			name:     "бронирование ментора не берётся в работу",
			entity:   entityWith(models.KindMentor, models.StatusPaid),
			toStatus: models.StatusInProgress,
			actor:    admin,
			wantErr:  ErrIllegalTransition,
		},
		{
			name:       "отклонение с причиной",
			entity:     entityWith(models.KindLegal, models.StatusAwaitingPayment),
			toStatus:   models.StatusRejected,
			actor:      admin,
			reason:     "неполный пакет документов",
			wantEvent:  models.EventRejected,
			wantReason: "неполный пакет документов",
		},
		{
			name:     "отклонение без причины",
			entity:   entityWith(models.KindLegal, models.StatusAwaitingPayment),
			toStatus: models.StatusRejected,
			actor:    admin,
			wantErr:  ErrReasonRequired,
		},
		{
			name:     "отклонение обычным пользователем",
			entity:   entityWith(models.KindLegal, models.StatusAwaitingPayment),
			toStatus: models.StatusRejected,
			actor:    owner,
			reason:   "передумал",
			wantErr:  ErrForbidden,
		},
		{
			name:     "владелец отзывает черновик",
			entity:   entityWith(models.KindTraining, models.StatusDraft),
			toStatus: models.StatusWithdrawn,
			actor:    owner,
		},
		{
			name:     "чужой пользователь не может отозвать заявку",
			entity:   entityWith(models.KindTraining, models.StatusDraft),
			toStatus: models.StatusWithdrawn,
			actor:    stranger,
			wantErr:  ErrForbidden,
		},
		{
			name:     "отзыв после оплаты невозможен",
			entity:   entityWith(models.KindLegal, models.StatusPaid),
			toStatus: models.StatusWithdrawn,
			actor:    owner,
			wantErr:  ErrIllegalTransition,
		},
		{
			name:     "прямой перевод в paid запрещён даже администратору",
			entity:   entityWith(models.KindLegal, models.StatusAwaitingPayment),
			toStatus: models.StatusPaid,
			actor:    admin,
			wantErr:  ErrForbidden,
		},
		{
			name:     "завершённая заявка терминальна",
			entity:   entityWith(models.KindLegal, models.StatusCompleted),
			toStatus: models.StatusInProgress,
			actor:    admin,
			wantErr:  ErrIllegalTransition,
		},
		{
			name:     "отклонённая заявка терминальна",
			entity:   entityWith(models.KindLegal, models.StatusRejected),
			toStatus: models.StatusAwaitingPayment,
			actor:    owner,
			wantErr:  ErrIllegalTransition,
		},
		{
			name:     "пользователь не может завершить заявку",
			entity:   entityWith(models.KindLegal, models.StatusInProgress),
			toStatus: models.StatusCompleted,
			actor:    owner,
			wantErr:  ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			notifier := new(NotifierMock)

			repo.On("ReadEntity", mock.Anything, "ent-1").Return(tt.entity, nil).Once()
			if tt.wantErr == nil {
				updated := entityWith(tt.entity.Kind, tt.toStatus)
				repo.On("ApplyTransition", mock.Anything, models.StatusChange{
					EntityID:   "ent-1",
					FromStatus: tt.entity.Status,
					ToStatus:   tt.toStatus,
					ActorUID:   tt.actor.UID,
					Reason:     tt.wantReason,
				}).Return(nil).Once()
				cache.On("Invalidate", "entity:ent-1").Return(nil).Once()
				repo.On("ReadEntity", mock.Anything, "ent-1").Return(updated, nil).Once()
				if tt.wantEvent != "" {
					notifier.On("DispatchStatus", mock.Anything, tt.wantEvent, updated).
						Return(nil).Once()
				}
			}

			svc := New(repo, cache, notifier, newNoopLogger())
			entity, err := svc.Transition(context.Background(), "ent-1", tt.entity.Kind, tt.toStatus, tt.actor, tt.reason)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.toStatus, entity.Status)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestTransitionConflict(t *testing.T) {
	t.Run("проигрыш конкурентному переходу", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		admin := models.Principal{UID: "uid-admin", Role: models.RoleAdmin}

		repo.On("ReadEntity", mock.Anything, "ent-1").
			Return(entityWith(models.KindLegal, models.StatusPaid), nil).Once()
		repo.On("ApplyTransition", mock.Anything, mock.Anything).
			Return(repository.ErrConflict).Once()

		svc := New(repo, cache, new(NotifierMock), newNoopLogger())
		_, err := svc.Transition(context.Background(), "ent-1", models.KindLegal, models.StatusInProgress, admin, "")

		assert.ErrorIs(t, err, ErrIllegalTransition)
		repo.AssertExpectations(t)
	})

	t.Run("заявка не найдена", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ReadEntity", mock.Anything, "ent-404").
			Return(nil, repository.ErrNotFound).Once()

		svc := New(repo, new(CacheMock), new(NotifierMock), newNoopLogger())
		_, err := svc.Transition(context.Background(), "ent-404", models.KindLegal,
			models.StatusWithdrawn, models.Principal{UID: "uid-owner", Role: models.RoleUser}, "")

		assert.ErrorIs(t, err, ErrEntityNotFound)
		repo.AssertExpectations(t)
	})

	t.Run("несовпадение вида скрывает заявку", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ReadEntity", mock.Anything, "ent-1").
			Return(entityWith(models.KindMentor, models.StatusDraft), nil).Once()

		svc := New(repo, new(CacheMock), new(NotifierMock), newNoopLogger())
		_, err := svc.Transition(context.Background(), "ent-1", models.KindLegal,
			models.StatusWithdrawn, models.Principal{UID: "uid-owner", Role: models.RoleUser}, "")

		assert.ErrorIs(t, err, ErrEntityNotFound)
		repo.AssertExpectations(t)
	})
}

func TestHistory(t *testing.T) {
	repo := new(RepoMock)
	changes := []*models.StatusChange{
		{EntityID: "ent-1", FromStatus: "", ToStatus: models.StatusDraft},
		{EntityID: "ent-1", FromStatus: models.StatusDraft, ToStatus: models.StatusAwaitingPayment},
	}
	repo.On("ListStatusHistory", mock.Anything, "ent-1").Return(changes, nil).Once()

	svc := New(repo, new(CacheMock), new(NotifierMock), newNoopLogger())
	got, err := svc.History(context.Background(), "ent-1")

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	repo.AssertExpectations(t)
}
