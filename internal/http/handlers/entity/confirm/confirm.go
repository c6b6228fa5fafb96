// Package confirm реализует HTTP-обработчик колбэка об оплате.
//
// Handler принимает поля колбэка платёжного шлюза, проверяет подпись
// HMAC-SHA256 и при успехе переводит заявку в paid через сервис платежей.
// Повторный колбэк с тем же платёжным ID обрабатывается идемпотентно.
package confirm

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/bizportal/bizportal/internal/http/middlewarectx"
	"github.com/bizportal/bizportal/internal/http/response"
	"github.com/bizportal/bizportal/internal/lib/sl"
	"github.com/bizportal/bizportal/internal/models"
	paymentservice "github.com/bizportal/bizportal/internal/services/payment"
)

// Handler управляет HTTP-запросами подтверждения оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики подтверждения оплаты.
type Service interface {
	Confirm(ctx context.Context, entityID, kind string, payload models.DummyConfirm, actor models.Principal) (*paymentservice.Confirmation, error)
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
// @Summary Подтвердить оплату заявки
// @Description Проверяет подпись колбэка шлюза и переводит заявку в paid. Идемпотентно для повторов.
// @Tags Submissions
// @Accept  json
// @Produce  json
// @Param kind path string true "Вид заявки (legal, mentor, training)"
// @Param id path string true "ID заявки"
// @Param request body models.DummyConfirm true "Данные колбэка шлюза"
// @Success 200 {object} map[string]any "Статус заявки после обработки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Неверная подпись или чужой заказ"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 409 {object} response.ErrorResponse "Статус заявки не допускает оплату"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Security BearerAuth
// @Router /{kind}/submissions/{id}/payment [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entity.confirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyConfirm
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

	principal, ok := middlewarectx.PrincipalFromContext(r.Context())
	if !ok {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	kind := chi.URLParam(r, "kind")
	confirmation, err := h.service.Confirm(r.Context(), id, kind, req, principal)
	if err != nil {
		log.Error("failed to confirm payment", sl.Err(err))
		status, msg := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("payment callback processed",
		slog.String("entity_id", id),
		slog.Bool("applied", confirmation.Applied))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status":  confirmation.Status,
		"applied": confirmation.Applied,
	}))
}
