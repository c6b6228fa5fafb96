// Package read реализует HTTP-обработчик чтения заявки по ID.
//
// Handler извлекает ID из URL, читает заявку через сервис и возвращает её
// данные. Доступ имеют владелец и привилегированные роли.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/bizportal/bizportal/internal/http/middlewarectx"
	"github.com/bizportal/bizportal/internal/http/response"
	"github.com/bizportal/bizportal/internal/lib/sl"
	"github.com/bizportal/bizportal/internal/models"
)

// Handler обрабатывает запросы на получение заявки по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения заявки.
type Service interface {
	Read(ctx context.Context, id, kind string, actor models.Principal) (*models.Entity, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить заявку
// @Description Возвращает заявку по ID. Доступно владельцу и привилегированным ролям.
// @Tags Submissions
// @Produce  json
// @Param kind path string true "Вид заявки (legal, mentor, training)"
// @Param id path string true "ID заявки"
// @Success 200 {object} map[string]any "Данные заявки"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Доступ запрещён"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Security BearerAuth
// @Router /{kind}/submissions/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entity.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal, ok := middlewarectx.PrincipalFromContext(r.Context())
	if !ok {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	kind := chi.URLParam(r, "kind")
	entity, err := h.service.Read(r.Context(), id, kind, principal)
	if err != nil {
		log.Error("failed to read submission", sl.Err(err))
		status, msg := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("submission read", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"submission": entity,
	}))
}
