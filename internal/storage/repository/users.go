package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bizportal/bizportal/internal/models"
)

// RegisterUser сохраняет нового пользователя и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (phone, email, password_hash, role, phone_verified)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid`
	var uid string
	err := s.DB.QueryRowContext(ctx, query,
		user.Phone, user.Email, user.PasswordHash, user.Role, user.PhoneVerified).Scan(&uid)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// GetUserByPhone возвращает пользователя по номеру телефона.
func (s *Storage) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	const op = "storage.GetUserByPhone"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, phone, email, password_hash, role, phone_verified, created_at, last_login_at
			  FROM users WHERE phone = $1`
	row := s.DB.QueryRowContext(ctx, query, phone)

	var result models.User
	err := row.Scan(&result.UUID, &result.Phone, &result.Email, &result.PasswordHash,
		&result.Role, &result.PhoneVerified, &result.CreatedAt, &result.LastLoginAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// GetUserByUID возвращает пользователя по его UID.
func (s *Storage) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, phone, email, password_hash, role, phone_verified, created_at, last_login_at
			  FROM users WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, uid)

	var result models.User
	err := row.Scan(&result.UUID, &result.Phone, &result.Email, &result.PasswordHash,
		&result.Role, &result.PhoneVerified, &result.CreatedAt, &result.LastLoginAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// GetOrCreateUserByPhone возвращает пользователя с данным номером, создавая
// учётную запись при первом успешном подтверждении кода. И в том и в другом
// случае номер помечается подтверждённым, а момент входа обновляется.
func (s *Storage) GetOrCreateUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	const op = "storage.GetOrCreateUserByPhone"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (phone, role, phone_verified, last_login_at)
			  VALUES ($1, 'user', true, now())
			  ON CONFLICT (phone) DO UPDATE
			  SET phone_verified = true, last_login_at = now()
			  RETURNING uid, phone, email, password_hash, role, phone_verified, created_at, last_login_at`
	row := s.DB.QueryRowContext(ctx, query, phone)

	var result models.User
	err := row.Scan(&result.UUID, &result.Phone, &result.Email, &result.PasswordHash,
		&result.Role, &result.PhoneVerified, &result.CreatedAt, &result.LastLoginAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}
