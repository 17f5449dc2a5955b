package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Renal37/wastecollect/internal/models"
	"github.com/Renal37/wastecollect/internal/utils"
)

const (
	// InsertAuditEntryQuery используется для вставки записи журнала статусов.
	// Журнал только пополняется: UPDATE и DELETE для него не предусмотрены.
	InsertAuditEntryQuery = `
		INSERT INTO
			waste_status_history (request_id, from_status, to_status, actor)
		VALUES ($1, $2, $3, $4)
	`

	// SelectAuditEntriesQuery используется для выборки журнала заявки в порядке записи
	SelectAuditEntriesQuery = `
		SELECT
			id,
			request_id,
			from_status,
			to_status,
			actor,
			created_at
		FROM
			waste_status_history
		WHERE
			request_id = $1
		ORDER BY
			id
	`
)

// AuditEntryDB представляет собой запись журнала смены статусов
type AuditEntryDB struct {
	ID         int64
	OrderID    int64
	FromStatus *OrderStatusDB // Пусто только для события создания
	ToStatus   OrderStatusDB
	Actor      string
	CreatedAt  time.Time
}

func (e AuditEntryDB) ToModel() models.AuditEntry {
	entry := models.AuditEntry{
		ID:        e.ID,
		OrderID:   e.OrderID,
		ToStatus:  e.ToStatus.OrderStatus,
		Actor:     e.Actor,
		CreatedAt: utils.RFC3339Date{Time: e.CreatedAt},
	}
	if e.FromStatus != nil {
		from := e.FromStatus.OrderStatus
		entry.FromStatus = &from
	}
	return entry
}

// InsertAuditEntry добавляет запись в журнал в рамках текущей транзакции
func (t *txQueries) InsertAuditEntry(ctx context.Context, entry AuditEntryDB) error {
	var from interface{}
	if entry.FromStatus != nil {
		from = *entry.FromStatus
	}

	if _, err := t.q.Exec(ctx, InsertAuditEntryQuery, entry.OrderID, from, entry.ToStatus, entry.Actor); err != nil {
		return fmt.Errorf("не удалось записать журнал статусов: %w", err)
	}

	return nil
}

// FindAuditEntries возвращает журнал статусов заявки
func (d *Database) FindAuditEntries(ctx context.Context, orderID int64) ([]AuditEntryDB, error) {
	var result []AuditEntryDB

	rows, err := d.db.Query(ctx, SelectAuditEntriesQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("не удалось выполнить запрос журнала: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item AuditEntryDB
		var from *string

		if err := rows.Scan(&item.ID, &item.OrderID, &from, &item.ToStatus, &item.Actor, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании строки журнала: %w", err)
		}

		if from != nil {
			item.FromStatus = &OrderStatusDB{models.OrderStatus(*from)}
		}

		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после чтения строк журнала: %w", err)
	}

	return result, nil
}
