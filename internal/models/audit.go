package models

import "github.com/Renal37/wastecollect/internal/utils"

// AuditEntry: неизменяемая запись об одной смене статуса.
// FromStatus пуст только у события создания заявки.
type AuditEntry struct {
	ID         int64             `json:"id"`
	OrderID    int64             `json:"order_id"`
	FromStatus *OrderStatus      `json:"from_status"`
	ToStatus   OrderStatus       `json:"to_status"`
	Actor      string            `json:"actor"`
	CreatedAt  utils.RFC3339Date `json:"created_at"`
}
