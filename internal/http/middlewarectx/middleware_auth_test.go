package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bizportal/bizportal/internal/models"
	"github.com/bizportal/bizportal/internal/services/identity"
)

// MockAuthService реализует интерфейс middlewarectx.Service
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*models.Principal, error) {
	args := m.Called(ctx, token)
	if res := args.Get(0); res != nil {
		return res.(*models.Principal), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestJWTMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(*MockAuthService)
		expectedStatus int
		wantPrincipal  *models.Principal
	}{
		{
			name:       "валидный токен добавляет principal в контекст",
			authHeader: "Bearer good-token",
			setupMock: func(m *MockAuthService) {
				m.On("ValidateToken", mock.Anything, "good-token").
					Return(&models.Principal{UID: "uid-1", Role: models.RoleUser}, nil)
			},
			expectedStatus: http.StatusOK,
			wantPrincipal:  &models.Principal{UID: "uid-1", Role: models.RoleUser},
		},
		{
			name:           "запрос без заголовка Authorization",
			authHeader:     "",
			setupMock:      func(_ *MockAuthService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "заголовок без префикса Bearer",
			authHeader:     "Token abc",
			setupMock:      func(_ *MockAuthService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "просроченный токен",
			authHeader: "Bearer stale-token",
			setupMock: func(m *MockAuthService) {
				m.On("ValidateToken", mock.Anything, "stale-token").
					Return(nil, identity.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := new(MockAuthService)
			tt.setupMock(mockAuth)

			var gotPrincipal *models.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if p, ok := PrincipalFromContext(r.Context()); ok {
					gotPrincipal = &p
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/legal/submissions/ent-1", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			JWTMiddleware(mockAuth, logger)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.wantPrincipal != nil {
				assert.Equal(t, tt.wantPrincipal, gotPrincipal)
			} else {
				assert.Nil(t, gotPrincipal)
			}

			mockAuth.AssertExpectations(t)
		})
	}
}
