// Package bizportal предоставляет маршруты для основного приложения.
package bizportal

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/bizportal/bizportal/internal/http/handlers/auth/login"
	"github.com/bizportal/bizportal/internal/http/handlers/auth/loginotp"
	"github.com/bizportal/bizportal/internal/http/handlers/auth/register"
	"github.com/bizportal/bizportal/internal/http/handlers/auth/resendotp"
	"github.com/bizportal/bizportal/internal/http/handlers/auth/verifyotp"
	"github.com/bizportal/bizportal/internal/http/handlers/entity/confirm"
	"github.com/bizportal/bizportal/internal/http/handlers/entity/create"
	"github.com/bizportal/bizportal/internal/http/handlers/entity/history"
	"github.com/bizportal/bizportal/internal/http/handlers/entity/order"
	"github.com/bizportal/bizportal/internal/http/handlers/entity/read"
	"github.com/bizportal/bizportal/internal/http/handlers/entity/transition"
	"github.com/bizportal/bizportal/internal/http/middlewarectx"
	entityservice "github.com/bizportal/bizportal/internal/services/entity"
	"github.com/bizportal/bizportal/internal/services/identity"
	"github.com/bizportal/bizportal/internal/services/lifecycle"
	orderservice "github.com/bizportal/bizportal/internal/services/order"
	paymentservice "github.com/bizportal/bizportal/internal/services/payment"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	identityService *identity.Service,
	entityService *entityservice.Service,
	lifecycleService *lifecycle.Service,
	orderService *orderservice.Service,
	paymentService *paymentservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, identityService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, identityService).ServeHTTP)
		r.Post("/auth/login-otp", loginotp.New(logger, identityService).ServeHTTP)
		r.Post("/auth/verify-otp", verifyotp.New(logger, identityService).ServeHTTP)
		r.Post("/auth/resend-otp", resendotp.New(logger, identityService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(identityService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Route("/{kind}/submissions", func(r chi.Router) {
				r.Post("/", create.New(logger, entityService).ServeHTTP)
				r.Get("/{id}", read.New(logger, entityService).ServeHTTP)
				r.Post("/{id}/order", order.New(logger, orderService).ServeHTTP)
				r.Post("/{id}/payment", confirm.New(logger, paymentService).ServeHTTP)
				r.Post("/{id}/status", transition.New(logger, lifecycleService).ServeHTTP)
				r.Get("/{id}/status", history.New(logger, entityService, lifecycleService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
