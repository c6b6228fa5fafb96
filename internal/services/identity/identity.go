// Package identity реализует проверку владения номером телефона и выдачу
// токенов сессии.
//
// Отправка кода гасит предыдущий активный код той же пары (phone, purpose)
// и ограничена лимитом отправок на номер. Проверка кода списывает попытки
// и после их исчерпания блокирует код — даже верное значение после
// блокировки не принимается. Доставка кода best-effort: сбой отправки
// логируется и отражается в статусе доставки, но не проваливает запрос.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bizportal/bizportal/internal/config"
	"github.com/bizportal/bizportal/internal/lib/jwt"
	"github.com/bizportal/bizportal/internal/lib/otp"
	"github.com/bizportal/bizportal/internal/lib/password"
	"github.com/bizportal/bizportal/internal/lib/sl"
	"github.com/bizportal/bizportal/internal/metrics"
	"github.com/bizportal/bizportal/internal/models"
	"github.com/bizportal/bizportal/internal/storage/repository"
)

// Ошибки сервиса идентификации.
var (
	// ErrRateLimited — превышен лимит отправок кодов на номер.
	ErrRateLimited = errors.New("too many code sends for this phone")
	// ErrCodeNotFound — активного кода для пары (phone, purpose) нет.
	ErrCodeNotFound = errors.New("no active code")
	// ErrCodeExpired — срок действия кода истёк.
	ErrCodeExpired = errors.New("code expired")
	// ErrCodeInvalid — код не совпал, попытка списана.
	ErrCodeInvalid = errors.New("code invalid")
	// ErrTooManyAttempts — попытки ввода исчерпаны, код заблокирован.
	ErrTooManyAttempts = errors.New("too many attempts")
	// ErrInvalidCredentials — неверная пара телефон/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists — пользователь с таким номером уже зарегистрирован.
	ErrUserExists = errors.New("user already exists")
)

// Статусы доставки кода.
const (
	DeliveryDispatched = "dispatched"
	DeliveryFailed     = "failed"
)

// CodeRepository определяет методы хранилища одноразовых кодов.
type CodeRepository interface {
	// ReplaceCode гасит предыдущий активный код и вставляет новый.
	ReplaceCode(ctx context.Context, code models.OneTimeCode) (int, error)
	// GetActiveCode возвращает последний непогашенный код.
	GetActiveCode(ctx context.Context, phone, purpose string) (*models.OneTimeCode, error)
	// GetLatestConsumedCode возвращает последний погашенный код.
	GetLatestConsumedCode(ctx context.Context, phone, purpose string) (*models.OneTimeCode, error)
	// DecrementAttempts списывает попытку и возвращает остаток.
	DecrementAttempts(ctx context.Context, id int) (int, error)
	// ConsumeCode помечает код использованным.
	ConsumeCode(ctx context.Context, id int) error
}

// UserRepository определяет методы хранилища пользователей.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	GetOrCreateUserByPhone(ctx context.Context, phone string) (*models.User, error)
}

// SendCounter ограничивает частоту отправок кодов на номер.
type SendCounter interface {
	// Incr увеличивает счётчик и возвращает его значение в текущем окне.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Notifier ставит уведомление с кодом в очередь доставки.
type Notifier interface {
	DispatchOTP(ctx context.Context, phone, code string) error
}

// Session — выданный токен сессии вместе с данными пользователя.
type Session struct {
	Token string
	User  *models.User
}

// Service отвечает за коды подтверждения, регистрацию, вход и валидацию JWT.
type Service struct {
	codes    CodeRepository
	users    UserRepository
	counter  SendCounter
	notifier Notifier
	jwtMaker jwt.Maker
	policy   config.OTPPolicy
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(codes CodeRepository, users UserRepository, counter SendCounter,
	notifier Notifier, jwtMaker jwt.Maker, policy config.OTPPolicy, log *slog.Logger) *Service {
	return &Service{
		codes:    codes,
		users:    users,
		counter:  counter,
		notifier: notifier,
		jwtMaker: jwtMaker,
		policy:   policy,
		log:      log,
	}
}

// SendCode генерирует код для пары (phone, purpose), сохраняет его хэш
// с TTL и ставит доставку в очередь. Возвращает статус доставки.
func (s *Service) SendCode(ctx context.Context, phone, purpose string) (string, error) {
	const op = "identity.SendCode"

	sends, err := s.counter.Incr(ctx, "otp:sends:"+phone, time.Hour)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if sends > int64(s.policy.MaxSendsPerHour) {
		return "", ErrRateLimited
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	hash, err := password.GetHash(code)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	record := models.OneTimeCode{
		Phone:             phone,
		CodeHash:          hash,
		Purpose:           purpose,
		ExpiresAt:         time.Now().UTC().Add(s.policy.CodeTTL),
		AttemptsRemaining: s.policy.MaxAttempts,
	}
	if _, err := s.codes.ReplaceCode(ctx, record); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	metrics.OTPSendsTotal.Inc()

	// Доставка строго после фиксации кода: сбой канала не откатывает запись.
	if err := s.notifier.DispatchOTP(ctx, phone, code); err != nil {
		s.log.Error("failed to dispatch otp code", sl.Err(err), slog.String("phone", phone))
		return DeliveryFailed, nil
	}
	return DeliveryDispatched, nil
}

// ResendCode повторно отправляет код. Семантика совпадает с SendCode:
// тот же лимит отправок, прежний код гасится.
func (s *Service) ResendCode(ctx context.Context, phone, purpose string) (string, error) {
	return s.SendCode(ctx, phone, purpose)
}

// VerifyCode проверяет введённый код и при совпадении выдаёт сессию,
// создавая пользователя при первом входе по этому номеру.
func (s *Service) VerifyCode(ctx context.Context, phone, code, purpose string) (*Session, error) {
	const op = "identity.VerifyCode"

	record, err := s.codes.GetActiveCode(ctx, phone, purpose)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if record.Expired(time.Now().UTC()) {
		return nil, ErrCodeExpired
	}
	if record.AttemptsRemaining <= 0 {
		return nil, ErrTooManyAttempts
	}

	if err := password.CompareHash(record.CodeHash, code); err != nil {
		// Код, заменённый повторной отправкой, сообщается как истёкший
		// и не списывает попытку действующего кода.
		if s.matchesConsumedCode(ctx, phone, purpose, code) {
			return nil, ErrCodeExpired
		}
		remaining, decErr := s.codes.DecrementAttempts(ctx, record.ID)
		if decErr != nil {
			return nil, fmt.Errorf("%s: %w", op, decErr)
		}
		if remaining <= 0 {
			return nil, ErrTooManyAttempts
		}
		return nil, ErrCodeInvalid
	}

	if err := s.codes.ConsumeCode(ctx, record.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.GetOrCreateUserByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.UUID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("code verified, session issued",
		slog.String("phone", phone), slog.String("purpose", purpose))
	return &Session{Token: token, User: user}, nil
}

// matchesConsumedCode сверяет введённое значение с последним погашенным
// кодом пары (phone, purpose). Ошибки поиска трактуются как несовпадение.
func (s *Service) matchesConsumedCode(ctx context.Context, phone, purpose, code string) bool {
	consumed, err := s.codes.GetLatestConsumedCode(ctx, phone, purpose)
	if err != nil {
		return false
	}
	return password.CompareHash(consumed.CodeHash, code) == nil
}

// Register создает нового пользователя с хэшированием пароля и дефолтной
// ролью user; подтверждение номера остаётся за отправкой кода.
func (s *Service) Register(ctx context.Context, phone, email, rawPassword string) (string, error) {
	const op = "identity.Register"

	if _, err := s.users.GetUserByPhone(ctx, phone); err == nil {
		return "", ErrUserExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Phone:        phone,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и выдаёт сессию.
func (s *Service) Login(ctx context.Context, phone, rawPassword string) (*Session, error) {
	const op = "identity.Login"

	user, err := s.users.GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(user.UUID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Session{Token: token, User: user}, nil
}

// ValidateToken проверяет JWT и возвращает участника запроса.
func (s *Service) ValidateToken(_ context.Context, token string) (*models.Principal, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.Principal{UID: claims.UserUID, Role: claims.Role}, nil
}
