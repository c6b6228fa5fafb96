package confirm

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
	paymentservice "github.com/bizportal/bizportal/internal/services/payment"
)

// MockService реализует интерфейс confirm.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Confirm(ctx context.Context, entityID, kind string, payload models.DummyConfirm, actor models.Principal) (*paymentservice.Confirmation, error) {
	args := m.Called(ctx, entityID, kind, payload, actor)
	if res := args.Get(0); res != nil {
		return res.(*paymentservice.Confirmation), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestConfirmHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	owner := models.Principal{UID: "uid-1", Role: models.RoleUser}
	validBody := `{"gateway_order_id":"ord-100","gateway_payment_id":"pay-1","signature":"cafe01"}`
	validPayload := models.DummyConfirm{
		GatewayOrderID:   "ord-100",
		GatewayPaymentID: "pay-1",
		Signature:        "cafe01",
	}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное подтверждение оплаты",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Confirm", mock.Anything, "ent-1", "legal", validPayload, owner).
					Return(&paymentservice.Confirmation{
						Status:  models.StatusPaid,
						Applied: true,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"applied":true`,
		},
		{
			name: "повторный колбэк обрабатывается идемпотентно",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Confirm", mock.Anything, "ent-1", "legal", validPayload, owner).
					Return(&paymentservice.Confirmation{
						Status:  models.StatusPaid,
						Applied: false,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"applied":false`,
		},
		{
			name:           "колбэк без подписи",
			body:           `{"gateway_order_id":"ord-100","gateway_payment_id":"pay-1"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Signature`,
		},
		{
			name: "поддельная подпись",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Confirm", mock.Anything, "ent-1", "legal", validPayload, owner).
					Return(nil, paymentservice.ErrInvalidSignature)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `invalid payment signature`,
		},
		{
			name: "заказ от другой заявки",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Confirm", mock.Anything, "ent-1", "legal", validPayload, owner).
					Return(nil, paymentservice.ErrOrderMismatch)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `does not match the submission order`,
		},
		{
			name: "заявка не ждёт оплату",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Confirm", mock.Anything, "ent-1", "legal", validPayload, owner).
					Return(nil, paymentservice.ErrIllegalTransition)
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

			req := httptest.NewRequest(http.MethodPost, "/legal/submissions/ent-1/payment", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("kind", "legal")
			rctx.URLParams.Add("id", "ent-1")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.PrincipalKey, owner)
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
