// Package verifyotp реализует HTTP-обработчик проверки одноразового кода.
//
// Handler сверяет введённый код с активным кодом для пары (телефон,
// назначение); при совпадении телефон помечается подтверждённым и выдаётся
// JWT-токен сессии. Неверные попытки тратят лимит, исчерпанный лимит
// блокирует код даже при последующем верном вводе.
package verifyotp

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
	"github.com/bizportal/bizportal/internal/services/identity"
)

// Handler управляет HTTP-запросами на проверку кода.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс проверки кода подтверждения.
type Service interface {
	VerifyCode(ctx context.Context, phone, code, purpose string) (*identity.Session, error)
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
// @Summary Проверить одноразовый код
// @Description Сверяет код из SMS и возвращает JWT-токен сессии.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyVerifyCode true "Телефон, код и назначение"
// @Success 200 {object} map[string]any "Токен сессии"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Нет активного кода"
// @Failure 410 {object} response.ErrorResponse "Код истёк"
// @Failure 422 {object} response.ErrorResponse "Неверный код"
// @Failure 429 {object} response.ErrorResponse "Исчерпаны попытки ввода"
// @Router /auth/verify-otp [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verifyotp"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyVerifyCode
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

	session, err := h.service.VerifyCode(r.Context(), req.Phone, req.Code, req.Purpose)
	if err != nil {
		log.Error("failed to verify code", sl.Err(err))
		status, msg := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("code verified", slog.String("user_uid", session.User.UUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"token": session.Token,
		"role":  session.User.Role,
	}))
}
