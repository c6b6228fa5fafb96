package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bizportal/bizportal/internal/models"
)

// CreateEntity вставляет новую заявку вместе с начальной записью истории
// и возвращает её ID.
func (s *Storage) CreateEntity(ctx context.Context, entity models.Entity) (string, error) {
	const op = "storage.CreateEntity"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO entities (id, owner_uid, kind, title, amount, currency, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID string
	err = tx.QueryRowContext(ctx, query,
		entity.ID, entity.OwnerUID, entity.Kind, entity.Title,
		entity.Amount, entity.Currency, entity.Status).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entity_status_history (entity_id, from_status, to_status, actor_uid, reason)
		 VALUES ($1, '', $2, $3, 'created')`,
		newID, entity.Status, entity.OwnerUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadEntity возвращает данные заявки по её ID.
func (s *Storage) ReadEntity(ctx context.Context, id string) (*models.Entity, error) {
	const op = "storage.ReadEntity"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, owner_uid, kind, title, amount, currency, status,
				gateway_order_id, gateway_payment_id, paid_at, rejection_reason, created_at
			  FROM entities WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	result, err := scanEntity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SetGatewayOrder закрепляет заказ шлюза и снимок суммы за заявкой.
// Условие gateway_order_id IS NULL делает назначение однократным:
// возвращает false, если заказ уже был закреплён конкурентным запросом.
func (s *Storage) SetGatewayOrder(ctx context.Context, id, orderID string, amount int) (bool, error) {
	const op = "storage.SetGatewayOrder"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE entities
			  SET gateway_order_id = $2, amount = $3
			  WHERE id = $1 AND gateway_order_id IS NULL`
	result, err := s.DB.ExecContext(ctx, query, id, orderID, amount)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}

// ApplyTransition атомарно переводит заявку из статуса change.FromStatus
// в change.ToStatus и дописывает запись истории. Строка заявки блокируется
// на время транзакции, поэтому конкурентные переходы сериализуются;
// несовпадение текущего статуса возвращает ErrConflict.
func (s *Storage) ApplyTransition(ctx context.Context, change models.StatusChange) error {
	const op = "storage.ApplyTransition"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM entities WHERE id = $1 FOR UPDATE`, change.EntityID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if current != change.FromStatus {
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}

	if change.ToStatus == models.StatusRejected {
		_, err = tx.ExecContext(ctx,
			`UPDATE entities SET status = $2, rejection_reason = $3 WHERE id = $1 AND status = $4`,
			change.EntityID, change.ToStatus, change.Reason, change.FromStatus)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE entities SET status = $2 WHERE id = $1 AND status = $3`,
			change.EntityID, change.ToStatus, change.FromStatus)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entity_status_history (entity_id, from_status, to_status, actor_uid, reason)
		 VALUES ($1, $2, $3, $4, $5)`,
		change.EntityID, change.FromStatus, change.ToStatus, change.ActorUID, change.Reason)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConfirmEntityPayment выполняет подтверждение оплаты одной транзакцией:
// проверяет привязку заказа, применяет переход в paid и фиксирует
// идентификатор платежа. Непустой kind дополнительно сверяется с видом
// заявки, несовпадение возвращает ErrNotFound. Повторный колбэк с тем же
// paymentID возвращает applied=false без новой записи истории; paymentID,
// уже закреплённый за другой заявкой, отклоняется как ErrOrderMismatch.
// Два конкурентных подтверждения сериализуются блокировкой строки —
// переход в paid применяется один раз.
func (s *Storage) ConfirmEntityPayment(ctx context.Context, id, kind, orderID, paymentID, actorUID string) (bool, *models.Entity, error) {
	const op = "storage.ConfirmEntityPayment"
	select {
	case <-ctx.Done():
		return false, nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		`SELECT id, owner_uid, kind, title, amount, currency, status,
			gateway_order_id, gateway_payment_id, paid_at, rejection_reason, created_at
		 FROM entities WHERE id = $1 FOR UPDATE`, id)
	entity, err := scanEntity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return false, nil, fmt.Errorf("%s: %w", op, err)
	}

	if kind != "" && entity.Kind != kind {
		return false, nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if entity.GatewayOrderID == nil || *entity.GatewayOrderID != orderID {
		return false, nil, fmt.Errorf("%s: %w", op, ErrOrderMismatch)
	}

	if entity.GatewayPaymentID != nil && *entity.GatewayPaymentID == paymentID &&
		entity.Status == models.StatusPaid {
		return false, entity, nil
	}

	if entity.Status != models.StatusAwaitingPayment {
		return false, nil, fmt.Errorf("%s: %w", op, ErrConflict)
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE entities
		 SET status = $2, gateway_payment_id = $3, paid_at = $4
		 WHERE id = $1 AND status = $5`,
		id, models.StatusPaid, paymentID, now, models.StatusAwaitingPayment)
	if err != nil {
		if isUniqueViolation(err) {
			// paymentID уже закреплён за другой заявкой.
			return false, nil, fmt.Errorf("%s: %w", op, ErrOrderMismatch)
		}
		return false, nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entity_status_history (entity_id, from_status, to_status, actor_uid, reason)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, models.StatusAwaitingPayment, models.StatusPaid, actorUID, "payment "+paymentID)
	if err != nil {
		return false, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return false, nil, fmt.Errorf("%s: %w", op, err)
	}

	entity.Status = models.StatusPaid
	entity.GatewayPaymentID = &paymentID
	entity.PaidAt = &now
	return true, entity, nil
}

// ListStatusHistory возвращает историю переходов заявки в порядке применения.
func (s *Storage) ListStatusHistory(ctx context.Context, entityID string) ([]*models.StatusChange, error) {
	const op = "storage.ListStatusHistory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, entity_id, from_status, to_status, actor_uid, reason, created_at
			  FROM entity_status_history
			  WHERE entity_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result []*models.StatusChange
	for rows.Next() {
		var item models.StatusChange
		if err := rows.Scan(&item.ID, &item.EntityID, &item.FromStatus, &item.ToStatus,
			&item.ActorUID, &item.Reason, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	err = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (*models.Entity, error) {
	var result models.Entity
	err := row.Scan(&result.ID, &result.OwnerUID, &result.Kind, &result.Title,
		&result.Amount, &result.Currency, &result.Status,
		&result.GatewayOrderID, &result.GatewayPaymentID, &result.PaidAt,
		&result.RejectionReason, &result.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
