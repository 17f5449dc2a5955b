package models

import (
	"fmt"

	"github.com/Renal37/wastecollect/internal/utils"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusRequested      OrderStatus = "REQUESTED"
	StatusAssigned       OrderStatus = "ASSIGNED"
	StatusMeasured       OrderStatus = "MEASURED"
	StatusPaymentPending OrderStatus = "PAYMENT_PENDING"
	StatusPaid           OrderStatus = "PAID"
	StatusPaymentFailed  OrderStatus = "PAYMENT_FAILED"
	StatusCompleted      OrderStatus = "COMPLETED"
	StatusCanceled       OrderStatus = "CANCELED"
)

// AllowedTransitions: граф допустимых переходов между статусами заявки.
// COMPLETED и CANCELED терминальные.
var AllowedTransitions = map[OrderStatus][]OrderStatus{
	StatusRequested:      {StatusAssigned, StatusCanceled},
	StatusAssigned:       {StatusMeasured},
	StatusMeasured:       {StatusPaymentPending},
	StatusPaymentPending: {StatusPaid, StatusPaymentFailed},
	StatusPaid:           {StatusCompleted},
	StatusPaymentFailed:  {StatusPaymentPending},
	StatusCompleted:      {},
	StatusCanceled:       {},
}

// AllStatuses перечисляет статусы в порядке жизненного цикла.
var AllStatuses = []OrderStatus{
	StatusRequested,
	StatusAssigned,
	StatusMeasured,
	StatusPaymentPending,
	StatusPaid,
	StatusPaymentFailed,
	StatusCompleted,
	StatusCanceled,
}

// CanTransitionTo проверяет, есть ли ребро s -> to в графе переходов.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, allowed := range AllowedTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s OrderStatus) Valid() bool {
	_, ok := AllowedTransitions[s]
	return ok
}

// OrderNumber возвращает номер заявки для людей: WR-000042, WR-1500000.
func OrderNumber(id int64) string {
	if id < 1_000_000 {
		return fmt.Sprintf("WR-%06d", id)
	}
	return fmt.Sprintf("WR-%d", id)
}

// Order: снимок заявки на вывоз отходов.
type Order struct {
	ID             int64               `json:"id"`
	Number         string              `json:"number"`
	CustomerID     string              `json:"customer_id"`
	DriverID       *string             `json:"driver_id,omitempty"`
	Address        string              `json:"address"`
	Note           string              `json:"note,omitempty"`
	Status         OrderStatus         `json:"status"`
	MeasuredWeight decimal.NullDecimal `json:"measured_weight"`
	FinalAmount    *int64              `json:"final_amount,omitempty"`
	Currency       string              `json:"currency"`
	CreatedAt      utils.RFC3339Date   `json:"created_at"`
	UpdatedAt      utils.RFC3339Date   `json:"updated_at"`
}

// WithStatus возвращает копию заявки в новом статусе, если переход разрешен.
func (o Order) WithStatus(to OrderStatus) (Order, error) {
	if !o.Status.CanTransitionTo(to) {
		return o, fmt.Errorf("переход %s -> %s не разрешен", o.Status, to)
	}
	o.Status = to
	return o, nil
}

// WithMeasurement фиксирует вес и итоговую сумму. Повторное взвешивание запрещено.
func (o Order) WithMeasurement(weight decimal.Decimal, unitPrice int64) (Order, error) {
	if o.MeasuredWeight.Valid || o.FinalAmount != nil {
		return o, fmt.Errorf("заявка %d уже взвешена", o.ID)
	}
	if !weight.IsPositive() {
		return o, fmt.Errorf("вес должен быть положительным, получено %s", weight)
	}
	amount := weight.Mul(decimal.NewFromInt(unitPrice)).Round(0).IntPart()
	o.MeasuredWeight = decimal.NullDecimal{Decimal: weight, Valid: true}
	o.FinalAmount = &amount
	return o, nil
}

// NewOrder: данные для создания заявки.
type NewOrder struct {
	Address *string `json:"address"`
	Note    *string `json:"note"`
}

type Assignment struct {
	Driver *string `json:"driver"`
}

type Measurement struct {
	Weight *decimal.Decimal `json:"weight"`
}

// OrderDetails: заявка вместе с платежом, если он уже создан.
type OrderDetails struct {
	Order
	Payment *Payment `json:"payment,omitempty"`
}
