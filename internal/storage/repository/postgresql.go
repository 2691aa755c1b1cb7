// Package repository реализует хранилище данных на основе PostgreSQL
// для учётных записей пользователей и анкет-профилей. Предоставляет
// методы создания, чтения, обновления и удаления записей, а также
// транзакционную регистрацию пользователя вместе с профилем.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища. Сервисный слой сопоставляет их с ответами API.
var (
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrProfileNotFound возвращается, если профиль не найден.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrEmailExists возвращается при попытке занять уже существующий email.
	ErrEmailExists = errors.New("email already exists")
	// ErrTokenNotFound возвращается, если одноразовый токен не найден
	// или уже потреблён (в том числе при гонке двух запросов).
	ErrTokenNotFound = errors.New("token not found or expired")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями и профилями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
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

// CheckReady проверяет, что схема применена: обе рабочие таблицы
// существуют. Вызывается после прогона миграций при старте приложения.
func (s *Storage) CheckReady(ctx context.Context) error {
	const op = "storage.CheckReady"

	for _, table := range []string{"users", "profiles"} {
		var exists bool
		err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
	        SELECT FROM information_schema.tables
	        WHERE table_name = $1
	    )`, table).Scan(&exists)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return fmt.Errorf("%s: required table %s is missing", op, table)
		}
	}
	return nil
}
