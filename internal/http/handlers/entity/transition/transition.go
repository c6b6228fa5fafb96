// Package transition реализует HTTP-обработчик смены статуса заявки.
//
// Handler принимает целевой статус и причину, проверяет права инициатора и
// применяет переход через машину состояний. Перевод в paid этим маршрутом
// недоступен, оплата подтверждается только колбэком шлюза.
package transition

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
)

// Handler управляет HTTP-запросами на смену статуса.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс машины состояний заявки.
type Service interface {
	Transition(ctx context.Context, entityID, kind, toStatus string, actor models.Principal, reason string) (*models.Entity, error)
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
// @Summary Сменить статус заявки
// @Description Применяет переход статуса (отклонение, отзыв, взятие в работу, завершение) с проверкой прав.
// @Tags Submissions
// @Accept  json
// @Produce  json
// @Param kind path string true "Вид заявки (legal, mentor, training)"
// @Param id path string true "ID заявки"
// @Param request body models.DummyTransition true "Целевой статус и причина"
// @Success 200 {object} map[string]any "Заявка после перехода"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Роль не даёт права на переход"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 409 {object} response.ErrorResponse "Недопустимый переход"
// @Failure 422 {object} response.ErrorResponse "Отклонение без причины"
// @Security BearerAuth
// @Router /{kind}/submissions/{id}/status [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entity.transition"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyTransition
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
	entity, err := h.service.Transition(r.Context(), id, kind, req.ToStatus, principal, req.Reason)
	if err != nil {
		log.Error("failed to apply transition", sl.Err(err))
		status, msg := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("submission status changed",
		slog.String("entity_id", id),
		slog.String("status", entity.Status))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"submission": entity,
	}))
}
