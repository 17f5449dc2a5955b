package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/Renal37/wastecollect/internal/models"
	"github.com/Renal37/wastecollect/internal/utils"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDuplicatePayment = errors.New("платеж по заявке уже существует")
)

// SQL-запросы для работы с платежами
const (
	paymentColumns = `
			id,
			request_id,
			provider,
			provider_order_id,
			payment_key,
			payment_method_id,
			status,
			amount,
			currency,
			failure_code,
			failure_message,
			created_at,
			updated_at
	`
	InsertPaymentQuery = `
		INSERT INTO
			payments (request_id, provider, provider_order_id, payment_method_id, status, amount, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING` + paymentColumns
	SelectPaymentByOrderQuery = `
		SELECT` + paymentColumns + `
		FROM
			payments
		WHERE
			request_id = $1
	`
	// UpdatePaymentQuery обновляет единственную строку платежа на месте
	UpdatePaymentQuery = `
		UPDATE
			payments
		SET
			provider_order_id = $2,
			payment_key = $3,
			payment_method_id = $4,
			status = $5,
			failure_code = $6,
			failure_message = $7,
			updated_at = now()
		WHERE
			id = $1
	`
	SelectFailedPaymentsQuery = `
		SELECT` + paymentColumns + `
		FROM
			payments
		WHERE
			status = 'FAILED'
		ORDER BY
			updated_at DESC, id DESC
	`
)

// PaymentStatusDB хранит статус платежа в текстовой колонке
type PaymentStatusDB struct {
	models.PaymentStatus
}

func (s *PaymentStatusDB) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		return fmt.Errorf("статус платежа должен быть строкой, а не %T", value)
	}

	*s = PaymentStatusDB{models.PaymentStatus(strVal)}
	return nil
}

func (s PaymentStatusDB) Value() (driver.Value, error) {
	return string(s.PaymentStatus), nil
}

// PaymentDB: строка таблицы payments
type PaymentDB struct {
	ID              int64
	OrderID         int64
	Provider        string
	ProviderOrderID string
	PaymentKey      *string
	PaymentMethodID *int64
	Status          PaymentStatusDB
	Amount          int64
	Currency        string
	FailureCode     *string
	FailureMessage  *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (p PaymentDB) ToModel() models.Payment {
	return models.Payment{
		ID:              p.ID,
		OrderID:         p.OrderID,
		OrderNumber:     models.OrderNumber(p.OrderID),
		Provider:        p.Provider,
		ProviderOrderID: p.ProviderOrderID,
		PaymentKey:      p.PaymentKey,
		PaymentMethodID: p.PaymentMethodID,
		Status:          p.Status.PaymentStatus,
		Amount:          p.Amount,
		Currency:        p.Currency,
		FailureCode:     p.FailureCode,
		FailureMessage:  p.FailureMessage,
		CreatedAt:       utils.RFC3339Date{Time: p.CreatedAt},
		UpdatedAt:       utils.RFC3339Date{Time: p.UpdatedAt},
	}
}

func scanPayment(row pgx.Row, p *PaymentDB) error {
	return row.Scan(
		&p.ID,
		&p.OrderID,
		&p.Provider,
		&p.ProviderOrderID,
		&p.PaymentKey,
		&p.PaymentMethodID,
		&p.Status,
		&p.Amount,
		&p.Currency,
		&p.FailureCode,
		&p.FailureMessage,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func findPaymentByOrder(ctx context.Context, q DBExecutor, orderID int64) (*PaymentDB, error) {
	payment := &PaymentDB{}

	if err := scanPayment(q.QueryRow(ctx, SelectPaymentByOrderQuery, orderID), payment); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка поиска платежа: %w", err)
	}

	return payment, nil
}

// FindPaymentByOrder возвращает платеж заявки или nil
func (d *Database) FindPaymentByOrder(ctx context.Context, orderID int64) (*PaymentDB, error) {
	return findPaymentByOrder(ctx, d.db, orderID)
}

// FindFailedPayments возвращает неуспешные платежи для разбора операторами
func (d *Database) FindFailedPayments(ctx context.Context) ([]PaymentDB, error) {
	var result []PaymentDB

	rows, err := d.db.Query(ctx, SelectFailedPaymentsQuery)
	if err != nil {
		return nil, fmt.Errorf("не удалось выполнить запрос платежей: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item PaymentDB
		if err := scanPayment(rows, &item); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании строки платежа: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после чтения строк платежей: %w", err)
	}

	return result, nil
}

func (t *txQueries) FindPaymentByOrder(ctx context.Context, orderID int64) (*PaymentDB, error) {
	return findPaymentByOrder(ctx, t.q, orderID)
}

// CreatePayment вставляет платеж. Второй платеж по той же заявке отклоняется ограничением UNIQUE.
func (t *txQueries) CreatePayment(ctx context.Context, payment PaymentDB) (*PaymentDB, error) {
	created := &PaymentDB{}

	row := t.q.QueryRow(ctx, InsertPaymentQuery,
		payment.OrderID,
		payment.Provider,
		payment.ProviderOrderID,
		payment.PaymentMethodID,
		payment.Status,
		payment.Amount,
		payment.Currency,
	)
	if err := scanPayment(row, created); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return nil, ErrDuplicatePayment
		}
		return nil, fmt.Errorf("ошибка создания платежа: %w", err)
	}

	return created, nil
}

func (t *txQueries) UpdatePayment(ctx context.Context, payment PaymentDB) error {
	_, err := t.q.Exec(ctx, UpdatePaymentQuery,
		payment.ID,
		payment.ProviderOrderID,
		payment.PaymentKey,
		payment.PaymentMethodID,
		payment.Status,
		payment.FailureCode,
		payment.FailureMessage,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления платежа: %w", err)
	}
	return nil
}
