package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Renal37/wastecollect/internal/models"
	"github.com/Renal37/wastecollect/internal/utils"
	"github.com/jackc/pgx/v5"
)

var ErrPaymentMethodNotFound = errors.New("способ оплаты не найден")

// SQL-запросы для работы со способами оплаты
const (
	InsertPaymentMethodQuery = `
		INSERT INTO
			payment_methods (owner_id, method_type, status)
		VALUES ($1, $2, 'ACTIVE')
		RETURNING
			id,
			owner_id,
			method_type,
			status,
			created_at
	`
	SelectPaymentMethodsQuery = `
		SELECT
			id,
			owner_id,
			method_type,
			status,
			created_at
		FROM
			payment_methods
		WHERE
			owner_id = $1
		ORDER BY
			created_at DESC, id DESC
	`
	// SelectActivePaymentMethodQuery выбирает самый свежий активный способ.
	// Фильтр по типу применяется, только если $2 не NULL.
	SelectActivePaymentMethodQuery = `
		SELECT
			id,
			owner_id,
			method_type,
			status,
			created_at
		FROM
			payment_methods
		WHERE
			owner_id = $1
			AND status = 'ACTIVE'
			AND ($2::varchar IS NULL OR method_type = $2::varchar)
		ORDER BY
			created_at DESC, id DESC
		LIMIT 1
	`
	DeactivatePaymentMethodQuery = `
		UPDATE
			payment_methods
		SET
			status = 'INACTIVE'
		WHERE
			id = $1
			AND owner_id = $2
	`
)

type PaymentMethodDB struct {
	ID         int64
	OwnerID    string
	MethodType string
	Status     string
	CreatedAt  time.Time
}

func (m PaymentMethodDB) ToModel() models.PaymentMethod {
	return models.PaymentMethod{
		ID:         m.ID,
		OwnerID:    m.OwnerID,
		MethodType: models.PaymentMethodType(m.MethodType),
		Status:     models.PaymentMethodStatus(m.Status),
		CreatedAt:  utils.RFC3339Date{Time: m.CreatedAt},
	}
}

func scanPaymentMethod(row pgx.Row, m *PaymentMethodDB) error {
	return row.Scan(&m.ID, &m.OwnerID, &m.MethodType, &m.Status, &m.CreatedAt)
}

// CreatePaymentMethod регистрирует активный способ оплаты пользователя
func (d *Database) CreatePaymentMethod(ctx context.Context, ownerID string, methodType models.PaymentMethodType) (*PaymentMethodDB, error) {
	method := &PaymentMethodDB{}

	if err := scanPaymentMethod(d.db.QueryRow(ctx, InsertPaymentMethodQuery, ownerID, string(methodType)), method); err != nil {
		return nil, fmt.Errorf("ошибка создания способа оплаты: %w", err)
	}

	return method, nil
}

// FindPaymentMethods возвращает все способы оплаты пользователя, новые первыми
func (d *Database) FindPaymentMethods(ctx context.Context, ownerID string) ([]PaymentMethodDB, error) {
	var result []PaymentMethodDB

	rows, err := d.db.Query(ctx, SelectPaymentMethodsQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("не удалось выполнить запрос способов оплаты: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item PaymentMethodDB
		if err := scanPaymentMethod(rows, &item); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании способа оплаты: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после чтения способов оплаты: %w", err)
	}

	return result, nil
}

// DeactivatePaymentMethod переводит способ оплаты в INACTIVE. Строка не удаляется:
// на нее могут ссылаться платежи.
func (d *Database) DeactivatePaymentMethod(ctx context.Context, ownerID string, methodID int64) error {
	tag, err := d.db.Exec(ctx, DeactivatePaymentMethodQuery, methodID, ownerID)
	if err != nil {
		return fmt.Errorf("ошибка отключения способа оплаты: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPaymentMethodNotFound
	}
	return nil
}

// FindActivePaymentMethod возвращает самый свежий активный способ оплаты или nil
func (t *txQueries) FindActivePaymentMethod(ctx context.Context, ownerID string, methodType *models.PaymentMethodType) (*PaymentMethodDB, error) {
	var typeFilter *string
	if methodType != nil {
		s := string(*methodType)
		typeFilter = &s
	}

	method := &PaymentMethodDB{}
	if err := scanPaymentMethod(t.q.QueryRow(ctx, SelectActivePaymentMethodQuery, ownerID, typeFilter), method); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка поиска способа оплаты: %w", err)
	}

	return method, nil
}
