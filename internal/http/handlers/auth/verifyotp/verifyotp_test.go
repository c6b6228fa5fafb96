package verifyotp

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bizportal/bizportal/internal/models"
	"github.com/bizportal/bizportal/internal/services/identity"
)

// MockService реализует интерфейс verifyotp.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) VerifyCode(ctx context.Context, phone, code, purpose string) (*identity.Session, error) {
	args := m.Called(ctx, phone, code, purpose)
	if res := args.Get(0); res != nil {
		return res.(*identity.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestVerifyOTPHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная проверка кода",
			body: `{"phone":"79990001122","otp":"123456","purpose":"login"}`,
			setupMock: func(m *MockService) {
				session := &identity.Session{
					Token: "jwt-token",
					User:  &models.User{UUID: "uid-1", Role: models.RoleUser},
				}
				m.On("VerifyCode", mock.Anything, "79990001122", "123456", "login").
					Return(session, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"jwt-token"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{почти json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name:           "код короче шести цифр",
			body:           `{"phone":"79990001122","otp":"123","purpose":"login"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Code`,
		},
		{
			name: "неверный код",
			body: `{"phone":"79990001122","otp":"654321","purpose":"login"}`,
			setupMock: func(m *MockService) {
				m.On("VerifyCode", mock.Anything, "79990001122", "654321", "login").
					Return(nil, identity.ErrCodeInvalid)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `invalid code`,
		},
		{
			name: "код истёк",
			body: `{"phone":"79990001122","otp":"123456","purpose":"register"}`,
			setupMock: func(m *MockService) {
				m.On("VerifyCode", mock.Anything, "79990001122", "123456", "register").
					Return(nil, identity.ErrCodeExpired)
			},
			expectedStatus: http.StatusGone,
			expectedBody:   `code expired`,
		},
		{
			name: "исчерпаны попытки ввода",
			body: `{"phone":"79990001122","otp":"123456","purpose":"login"}`,
			setupMock: func(m *MockService) {
				m.On("VerifyCode", mock.Anything, "79990001122", "123456", "login").
					Return(nil, identity.ErrTooManyAttempts)
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedBody:   `too many attempts`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/auth/verify-otp", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
