// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате, а также
// переводит ошибки сервисов в коды HTTP.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"

	entityservice "github.com/bizportal/bizportal/internal/services/entity"
	"github.com/bizportal/bizportal/internal/services/identity"
	"github.com/bizportal/bizportal/internal/services/lifecycle"
	orderservice "github.com/bizportal/bizportal/internal/services/order"
	paymentservice "github.com/bizportal/bizportal/internal/services/payment"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "numeric":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "len":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s has wrong length", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too short", err.Field()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be positive", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s has unsupported value", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// MapError переводит ошибку сервисного слоя в HTTP-статус и сообщение
// для клиента. Неизвестные ошибки возвращаются как 500 без деталей.
func MapError(err error) (int, string) {
	switch {
	case errors.Is(err, identity.ErrRateLimited):
		return http.StatusTooManyRequests, "too many code requests, try again later"
	case errors.Is(err, identity.ErrCodeExpired):
		return http.StatusGone, "code expired, request a new one"
	case errors.Is(err, identity.ErrCodeNotFound):
		return http.StatusNotFound, "no active code for this phone"
	case errors.Is(err, identity.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "too many attempts, request a new code"
	case errors.Is(err, identity.ErrCodeInvalid):
		return http.StatusUnprocessableEntity, "invalid code"
	case errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid phone or password"
	case errors.Is(err, identity.ErrUserExists):
		return http.StatusConflict, "user already exists"

	case errors.Is(err, entityservice.ErrEntityNotFound),
		errors.Is(err, lifecycle.ErrEntityNotFound),
		errors.Is(err, orderservice.ErrEntityNotFound),
		errors.Is(err, paymentservice.ErrEntityNotFound):
		return http.StatusNotFound, "submission not found"
	case errors.Is(err, entityservice.ErrUnknownKind):
		return http.StatusNotFound, "unknown submission kind"
	case errors.Is(err, entityservice.ErrForbidden),
		errors.Is(err, lifecycle.ErrForbidden),
		errors.Is(err, orderservice.ErrNotOwner):
		return http.StatusForbidden, "access denied"

	case errors.Is(err, lifecycle.ErrReasonRequired):
		return http.StatusUnprocessableEntity, "rejection requires a reason"
	case errors.Is(err, lifecycle.ErrIllegalTransition),
		errors.Is(err, paymentservice.ErrIllegalTransition),
		errors.Is(err, orderservice.ErrInvalidState):
		return http.StatusConflict, "submission status does not allow this operation"

	case errors.Is(err, paymentservice.ErrInvalidSignature):
		return http.StatusForbidden, "invalid payment signature"
	case errors.Is(err, paymentservice.ErrOrderMismatch):
		return http.StatusForbidden, "payment does not match the submission order"
	}
	return http.StatusInternalServerError, "internal error"
}
