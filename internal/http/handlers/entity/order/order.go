// Package order реализует HTTP-обработчик выставления платёжного заказа.
//
// Handler создаёт заказ в платёжном шлюзе для заявки и переводит её в
// awaiting_payment. Повторный вызов для той же заявки возвращает уже
// привязанный заказ, дубли в шлюзе не создаются.
package order

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
	orderservice "github.com/bizportal/bizportal/internal/services/order"
)

// Handler управляет HTTP-запросами на выставление заказа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выставления заказа.
type Service interface {
	CreateOrder(ctx context.Context, entityID, kind string, actor models.Principal) (*orderservice.Order, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выставить платёжный заказ
// @Description Создает заказ в платёжном шлюзе и переводит заявку в ожидание оплаты. Идемпотентно.
// @Tags Submissions
// @Produce  json
// @Param kind path string true "Вид заявки (legal, mentor, training)"
// @Param id path string true "ID заявки"
// @Success 200 {object} map[string]any "Параметры заказа для виджета оплаты"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Доступ запрещён"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 409 {object} response.ErrorResponse "Статус заявки не допускает оплату"
// @Security BearerAuth
// @Router /{kind}/submissions/{id}/order [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entity.order"
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
	ord, err := h.service.CreateOrder(r.Context(), id, kind, principal)
	if err != nil {
		log.Error("failed to create payment order", sl.Err(err))
		status, msg := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("payment order issued",
		slog.String("entity_id", id),
		slog.String("order_id", ord.OrderID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"order_id": ord.OrderID,
		"amount":   ord.Amount,
		"currency": ord.Currency,
		"key_id":   ord.GatewayKeyID,
	}))
}
