// Package resendotp реализует HTTP-обработчик повторной отправки кода.
//
// Handler генерирует новый код для пары (телефон, назначение); предыдущий
// активный код при этом гасится. Отправка подпадает под почасовой лимит.
package resendotp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/bizportal/bizportal/internal/http/response"
	"github.com/bizportal/bizportal/internal/lib/sl"
	"github.com/bizportal/bizportal/internal/models"
)

// Handler управляет HTTP-запросами повторной отправки кода.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс повторной отправки кода подтверждения.
type Service interface {
	ResendCode(ctx context.Context, phone, purpose string) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отправить код повторно
// @Description Гасит предыдущий код и отправляет новый SMS с кодом.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummySendCode true "Телефон и назначение кода"
// @Success 200 {object} map[string]any "Статус доставки кода"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Превышен лимит отправки кодов"
// @Router /auth/resend-otp [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resendotp"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySendCode
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	delivery, err := h.service.ResendCode(r.Context(), req.Phone, req.Purpose)
	if err != nil {
		log.Error("failed to resend code", sl.Err(err))
		status, msg := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("code resent", slog.String("phone", req.Phone))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"delivery": delivery,
	}))
}
