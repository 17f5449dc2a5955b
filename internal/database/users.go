package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/Renal37/wastecollect/internal/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrDuplicateUser = errors.New("пользователь уже существует")

// SQL-запросы для работы с пользователями
const (
	userColumns = `
			id,
			login,
			hash
	`
	InsertUserQuery = `
		INSERT INTO
			users (login, hash)
		VALUES ($1, $2)
		RETURNING` + userColumns
	// UpsertUserQuery возвращает строку и для нового, и для уже существующего логина.
	// Хеш существующего пользователя не меняется.
	UpsertUserQuery = `
		INSERT INTO
			users (login, hash)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE SET login = EXCLUDED.login
		RETURNING` + userColumns
	SelectUserQuery = `
		SELECT` + userColumns + `
		FROM
			users
		WHERE
			login = $1
	`
)

type UserDB struct {
	models.User
}

func scanUser(row pgx.Row, user *UserDB) error {
	return row.Scan(&user.ID, &user.Login, &user.Hash)
}

// CreateUser создает пользователя; занятый логин дает ErrDuplicateUser
func (d *Database) CreateUser(ctx context.Context, user UserDB) (*UserDB, error) {
	created := &UserDB{}

	if err := scanUser(d.db.QueryRow(ctx, InsertUserQuery, user.Login, user.Hash), created); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	return created, nil
}

// EnsureUser создает пользователя, если логин свободен, иначе возвращает существующего
func (d *Database) EnsureUser(ctx context.Context, user UserDB) (*UserDB, error) {
	ensured := &UserDB{}

	if err := scanUser(d.db.QueryRow(ctx, UpsertUserQuery, user.Login, user.Hash), ensured); err != nil {
		return nil, fmt.Errorf("ошибка при создании пользователя %s: %w", user.Login, err)
	}

	return ensured, nil
}

// FindUser находит пользователя по логину; nil, если его нет
func (d *Database) FindUser(ctx context.Context, login string) (*UserDB, error) {
	user := &UserDB{}

	if err := scanUser(d.db.QueryRow(ctx, SelectUserQuery, login), user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	return user, nil
}
