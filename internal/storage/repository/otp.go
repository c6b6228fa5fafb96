package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bizportal/bizportal/internal/models"
)

// ReplaceCode гасит предыдущий активный код для пары (phone, purpose)
// и вставляет новый одной транзакцией, возвращая ID новой записи.
// Атомарность исключает гонку, при которой два активных кода
// остаются одновременно.
func (s *Storage) ReplaceCode(ctx context.Context, code models.OneTimeCode) (int, error) {
	const op = "storage.ReplaceCode"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`UPDATE otp_codes SET consumed_at = now()
		 WHERE phone = $1 AND purpose = $2 AND consumed_at IS NULL`,
		code.Phone, code.Purpose)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO otp_codes (phone, code_hash, purpose, expires_at, attempts_remaining)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err = tx.QueryRowContext(ctx, query,
		code.Phone, code.CodeHash, code.Purpose, code.ExpiresAt, code.AttemptsRemaining).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetActiveCode возвращает последний непогашенный код для пары
// (phone, purpose). Истечение срока не проверяется — это делает
// сервис при верификации.
func (s *Storage) GetActiveCode(ctx context.Context, phone, purpose string) (*models.OneTimeCode, error) {
	const op = "storage.GetActiveCode"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, phone, code_hash, purpose, expires_at, attempts_remaining, consumed_at, created_at
			  FROM otp_codes
			  WHERE phone = $1 AND purpose = $2 AND consumed_at IS NULL
			  ORDER BY created_at DESC
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, phone, purpose)

	var result models.OneTimeCode
	err := row.Scan(&result.ID, &result.Phone, &result.CodeHash, &result.Purpose,
		&result.ExpiresAt, &result.AttemptsRemaining, &result.ConsumedAt, &result.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// GetLatestConsumedCode возвращает последний погашенный код для пары
// (phone, purpose) — им проверяется, не вводит ли пользователь код,
// заменённый повторной отправкой.
func (s *Storage) GetLatestConsumedCode(ctx context.Context, phone, purpose string) (*models.OneTimeCode, error) {
	const op = "storage.GetLatestConsumedCode"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, phone, code_hash, purpose, expires_at, attempts_remaining, consumed_at, created_at
			  FROM otp_codes
			  WHERE phone = $1 AND purpose = $2 AND consumed_at IS NOT NULL
			  ORDER BY consumed_at DESC
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, phone, purpose)

	var result models.OneTimeCode
	err := row.Scan(&result.ID, &result.Phone, &result.CodeHash, &result.Purpose,
		&result.ExpiresAt, &result.AttemptsRemaining, &result.ConsumedAt, &result.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// DecrementAttempts списывает одну попытку ввода кода и возвращает
// число оставшихся попыток.
func (s *Storage) DecrementAttempts(ctx context.Context, id int) (int, error) {
	const op = "storage.DecrementAttempts"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE otp_codes
			  SET attempts_remaining = attempts_remaining - 1
			  WHERE id = $1 AND attempts_remaining > 0
			  RETURNING attempts_remaining`
	var remaining int
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return remaining, nil
}

// ConsumeCode помечает код использованным после успешной проверки.
func (s *Storage) ConsumeCode(ctx context.Context, id int) error {
	const op = "storage.ConsumeCode"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE otp_codes SET consumed_at = now() WHERE id = $1 AND consumed_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}
	return nil
}
