package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/Renal37/wastecollect/internal/models"
	"github.com/Renal37/wastecollect/internal/utils"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// SQL-запросы для работы с заявками
const (
	orderColumns = `
			id,
			customer_id,
			driver_id,
			address,
			note,
			status,
			measured_weight,
			final_amount,
			currency,
			created_at,
			updated_at
	`
	InsertOrderQuery = `
		INSERT INTO
			waste_requests (customer_id, address, note, status, currency)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING` + orderColumns
	SelectOrderQuery = `
		SELECT` + orderColumns + `
		FROM
			waste_requests
		WHERE
			id = $1
	`
	// SelectOrderForUpdateQuery блокирует строку заявки до конца транзакции
	SelectOrderForUpdateQuery = SelectOrderQuery + `
		FOR UPDATE
	`
	SelectCustomerOrdersQuery = `
		SELECT` + orderColumns + `
		FROM
			waste_requests
		WHERE
			customer_id = $1
		ORDER BY
			created_at DESC, id DESC
	`
	// SelectUnpaidMeasuredOrdersQuery находит взвешенные заявки, по которым автоплатеж не запускался
	SelectUnpaidMeasuredOrdersQuery = `
		SELECT` + orderColumns + `
		FROM
			waste_requests wr
		WHERE
			wr.status = 'MEASURED'
			AND NOT EXISTS (SELECT 1 FROM payments p WHERE p.request_id = wr.id)
		ORDER BY
			wr.id
	`
	UpdateOrderStatusQuery = `
		UPDATE
			waste_requests
		SET
			status = $2,
			updated_at = now()
		WHERE
			id = $1
	`
	UpdateOrderDriverQuery = `
		UPDATE
			waste_requests
		SET
			driver_id = $2,
			updated_at = now()
		WHERE
			id = $1
	`
	// UpdateOrderMeasurementQuery не перезаписывает уже сохраненный вес
	UpdateOrderMeasurementQuery = `
		UPDATE
			waste_requests
		SET
			measured_weight = $2,
			final_amount = $3,
			updated_at = now()
		WHERE
			id = $1
			AND measured_weight IS NULL
	`
)

var ErrOrderAlreadyMeasured = errors.New("вес заявки уже зафиксирован")

// Структура для хранения строки заявки
type OrderDB struct {
	ID             int64
	CustomerID     string
	DriverID       *string
	Address        string
	Note           string
	Status         OrderStatusDB
	MeasuredWeight decimal.NullDecimal
	FinalAmount    *int64
	Currency       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Определение статуса заказа с возможностью преобразования в/из базы данных
type OrderStatusDB struct {
	models.OrderStatus
}

// Реализация интерфейса sql.Scanner для чтения статуса заказа из базы данных
func (s *OrderStatusDB) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		return fmt.Errorf("статус заказа должен быть строкой, а не %T", value)
	}

	*s = OrderStatusDB{models.OrderStatus(strVal)}
	return nil
}

// Реализация интерфейса driver.Valuer для преобразования статуса заказа в строку перед записью в базу данных
func (s OrderStatusDB) Value() (driver.Value, error) {
	return string(s.OrderStatus), nil
}

func (o OrderDB) ToModel() models.Order {
	return models.Order{
		ID:             o.ID,
		Number:         models.OrderNumber(o.ID),
		CustomerID:     o.CustomerID,
		DriverID:       o.DriverID,
		Address:        o.Address,
		Note:           o.Note,
		Status:         o.Status.OrderStatus,
		MeasuredWeight: o.MeasuredWeight,
		FinalAmount:    o.FinalAmount,
		Currency:       o.Currency,
		CreatedAt:      utils.RFC3339Date{Time: o.CreatedAt},
		UpdatedAt:      utils.RFC3339Date{Time: o.UpdatedAt},
	}
}

func scanOrder(row pgx.Row, order *OrderDB) error {
	return row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.DriverID,
		&order.Address,
		&order.Note,
		&order.Status,
		&order.MeasuredWeight,
		&order.FinalAmount,
		&order.Currency,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
}

func findOrder(ctx context.Context, q DBExecutor, query string, orderID int64) (*OrderDB, error) {
	order := &OrderDB{}

	if err := scanOrder(q.QueryRow(ctx, query, orderID), order); err != nil {
		// Если заказ не найден, возвращаем nil без ошибки
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка поиска заявки: %w", err)
	}

	return order, nil
}

func findOrders(ctx context.Context, q DBExecutor, query string, args ...interface{}) ([]OrderDB, error) {
	var result []OrderDB

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска заявок: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderDB
		if err := scanOrder(rows, &item); err != nil {
			return nil, fmt.Errorf("ошибка обработки строки с заявкой: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации по строкам: %w", err)
	}

	return result, nil
}

// FindOrder ищет заявку без блокировки, для чтения
func (d *Database) FindOrder(ctx context.Context, orderID int64) (*OrderDB, error) {
	return findOrder(ctx, d.db, SelectOrderQuery, orderID)
}

// FindCustomerOrders возвращает заявки клиента, новые первыми
func (d *Database) FindCustomerOrders(ctx context.Context, customerID string) ([]OrderDB, error) {
	return findOrders(ctx, d.db, SelectCustomerOrdersQuery, customerID)
}

// FindUnpaidMeasuredOrders возвращает заявки, застрявшие между взвешиванием и автоплатежом
func (d *Database) FindUnpaidMeasuredOrders(ctx context.Context) ([]OrderDB, error) {
	return findOrders(ctx, d.db, SelectUnpaidMeasuredOrdersQuery)
}

// CreateOrder создает заявку внутри транзакции
func (t *txQueries) CreateOrder(ctx context.Context, order OrderDB) (*OrderDB, error) {
	created := &OrderDB{}

	row := t.q.QueryRow(ctx, InsertOrderQuery, order.CustomerID, order.Address, order.Note, order.Status, order.Currency)
	if err := scanOrder(row, created); err != nil {
		return nil, fmt.Errorf("ошибка создания заявки: %w", err)
	}

	return created, nil
}

// LockOrder читает заявку с блокировкой строки (SELECT ... FOR UPDATE)
func (t *txQueries) LockOrder(ctx context.Context, orderID int64) (*OrderDB, error) {
	return findOrder(ctx, t.q, SelectOrderForUpdateQuery, orderID)
}

func (t *txQueries) UpdateOrderStatus(ctx context.Context, orderID int64, status OrderStatusDB) error {
	if _, err := t.q.Exec(ctx, UpdateOrderStatusQuery, orderID, status); err != nil {
		return fmt.Errorf("ошибка обновления статуса заявки: %w", err)
	}
	return nil
}

func (t *txQueries) UpdateOrderDriver(ctx context.Context, orderID int64, driverID string) error {
	if _, err := t.q.Exec(ctx, UpdateOrderDriverQuery, orderID, driverID); err != nil {
		return fmt.Errorf("ошибка назначения водителя: %w", err)
	}
	return nil
}

func (t *txQueries) UpdateOrderMeasurement(ctx context.Context, orderID int64, weight decimal.Decimal, amount int64) error {
	tag, err := t.q.Exec(ctx, UpdateOrderMeasurementQuery, orderID, weight, amount)
	if err != nil {
		return fmt.Errorf("ошибка сохранения веса: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderAlreadyMeasured
	}
	return nil
}
