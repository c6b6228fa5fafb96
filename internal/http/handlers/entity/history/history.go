// Package history реализует HTTP-обработчик чтения журнала статусов заявки.
//
// Handler сначала читает заявку через сервис заявок, тем самым проверяя
// права доступа, затем возвращает полную историю переходов.
package history

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

// Handler обрабатывает запросы журнала статусов.
type Handler struct {
	log     *slog.Logger
	reader  Reader
	service Service
}

// Reader описывает чтение заявки с проверкой доступа.
type Reader interface {
	Read(ctx context.Context, id, kind string, actor models.Principal) (*models.Entity, error)
}

// Service описывает интерфейс журнала переходов.
type Service interface {
	History(ctx context.Context, entityID string) ([]*models.StatusChange, error)
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, reader Reader, service Service) *Handler {
	return &Handler{
		log:     log,
		reader:  reader,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить историю статусов заявки
// @Description Возвращает журнал переходов статусов заявки в хронологическом порядке.
// @Tags Submissions
// @Produce  json
// @Param kind path string true "Вид заявки (legal, mentor, training)"
// @Param id path string true "ID заявки"
// @Success 200 {object} map[string]any "История переходов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Доступ запрещён"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Security BearerAuth
// @Router /{kind}/submissions/{id}/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entity.history"
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
	if _, err := h.reader.Read(r.Context(), id, kind, principal); err != nil {
		log.Error("failed to read submission", sl.Err(err))
		status, msg := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	changes, err := h.service.History(r.Context(), id)
	if err != nil {
		log.Error("failed to read status history", sl.Err(err))
		status, msg := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("status history read", slog.String("entity_id", id), slog.Int("count", len(changes)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"history": changes,
	}))
}
