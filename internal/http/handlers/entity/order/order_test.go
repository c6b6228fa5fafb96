package order

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bizportal/bizportal/internal/http/middlewarectx"
	"github.com/bizportal/bizportal/internal/models"
	orderservice "github.com/bizportal/bizportal/internal/services/order"
)

// MockService реализует интерфейс order.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateOrder(ctx context.Context, entityID, kind string, actor models.Principal) (*orderservice.Order, error) {
	args := m.Called(ctx, entityID, kind, actor)
	if res := args.Get(0); res != nil {
		return res.(*orderservice.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestOrderHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	owner := models.Principal{UID: "uid-1", Role: models.RoleUser}

	tests := []struct {
		name           string
		entityID       string
		principal      *models.Principal
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "успешное выставление заказа",
			entityID:  "ent-1",
			principal: &owner,
			setupMock: func(m *MockService) {
				m.On("CreateOrder", mock.Anything, "ent-1", "legal", owner).
					Return(&orderservice.Order{
						OrderID:      "ord-100",
						Amount:       5000,
						Currency:     "KZT",
						GatewayKeyID: "key-1",
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"order_id":"ord-100"`,
		},
		{
			name:           "запрос без авторизации",
			entityID:       "ent-1",
			principal:      nil,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `unauthorized`,
		},
		{
			name:      "заявка не найдена",
			entityID:  "ent-404",
			principal: &owner,
			setupMock: func(m *MockService) {
				m.On("CreateOrder", mock.Anything, "ent-404", "legal", owner).
					Return(nil, orderservice.ErrEntityNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `submission not found`,
		},
		{
			name:      "чужая заявка",
			entityID:  "ent-2",
			principal: &owner,
			setupMock: func(m *MockService) {
				m.On("CreateOrder", mock.Anything, "ent-2", "legal", owner).
					Return(nil, orderservice.ErrNotOwner)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `access denied`,
		},
		{
			name:      "заявка уже оплачена",
			entityID:  "ent-3",
			principal: &owner,
			setupMock: func(m *MockService) {
				m.On("CreateOrder", mock.Anything, "ent-3", "legal", owner).
					Return(nil, orderservice.ErrInvalidState)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `does not allow this operation`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/legal/submissions/"+tt.entityID+"/order", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("kind", "legal")
			rctx.URLParams.Add("id", tt.entityID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.principal != nil {
				ctx = context.WithValue(ctx, middlewarectx.PrincipalKey, *tt.principal)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
