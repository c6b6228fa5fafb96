// Package repository реализует хранилище данных на основе PostgreSQL
// для платных заявок, одноразовых кодов и пользователей. Предоставляет
// методы создания и чтения записей, а также атомарные операции перехода
// статусов и подтверждения оплаты.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища. Сервисный слой переводит их
// в доменную таксономию.
var (
	// ErrNotFound — запрошенная запись отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrConflict — атомарная проверка статуса не прошла:
	// запись изменена конкурентной операцией.
	ErrConflict = errors.New("status conflict")
	// ErrOrderMismatch — колбэк ссылается не на тот заказ шлюза,
	// который закреплён за заявкой.
	ErrOrderMismatch = errors.New("gateway order mismatch")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с заявками, кодами и пользователями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'entities'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table entities missing or query error: %w", err)
	}
	return nil
}
