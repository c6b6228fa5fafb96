// Package loginotp реализует HTTP-обработчик запроса кода для входа по SMS.
//
// Handler принимает телефон, ставит отправку кода в очередь через сервис
// идентификации и возвращает статус доставки. Завершается вход обработчиком
// verifyotp.
package loginotp

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

// Handler управляет HTTP-запросами кода для входа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс отправки кода подтверждения.
type Service interface {
	SendCode(ctx context.Context, phone, purpose string) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

type request struct {
	Phone string `json:"phone" validate:"required,numeric"` // Номер телефона
}

// ServeHTTP godoc
// @Summary Запросить код для входа
// @Description Отправляет SMS с одноразовым кодом для входа без пароля.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body request true "Номер телефона"
// @Success 200 {object} map[string]any "Статус доставки кода"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Превышен лимит отправки кодов"
// @Router /auth/login-otp [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.loginotp"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req request
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

	delivery, err := h.service.SendCode(r.Context(), req.Phone, models.PurposeLogin)
	if err != nil {
		log.Error("failed to send login code", sl.Err(err))
		status, msg := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("login code dispatched", slog.String("phone", req.Phone))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"delivery": delivery,
	}))
}
