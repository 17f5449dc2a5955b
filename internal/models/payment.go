package models

import "github.com/Renal37/wastecollect/internal/utils"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentSucceeded PaymentStatus = "SUCCEEDED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// Коды отказа автоматического списания.
const (
	FailureNoActivePaymentMethod    = "NO_ACTIVE_PAYMENT_METHOD"
	FailureUnsupportedPaymentMethod = "UNSUPPORTED_AUTO_PAYMENT_METHOD"
	FailureGatewayError             = "GATEWAY_ERROR"
)

type PaymentMethodType string

const (
	MethodCard   PaymentMethodType = "CARD"
	MethodWallet PaymentMethodType = "WALLET"
)

func (t PaymentMethodType) Valid() bool {
	return t == MethodCard || t == MethodWallet
}

type PaymentMethodStatus string

const (
	MethodActive   PaymentMethodStatus = "ACTIVE"
	MethodInactive PaymentMethodStatus = "INACTIVE"
)

// Payment: единственная запись об оплате заявки.
type Payment struct {
	ID              int64             `json:"id"`
	OrderID         int64             `json:"order_id"`
	OrderNumber     string            `json:"order_number"`
	Provider        string            `json:"provider"`
	ProviderOrderID string            `json:"provider_order_id"`
	PaymentKey      *string           `json:"payment_key,omitempty"`
	PaymentMethodID *int64            `json:"payment_method_id,omitempty"`
	Status          PaymentStatus     `json:"status"`
	Amount          int64             `json:"amount"`
	Currency        string            `json:"currency"`
	FailureCode     *string           `json:"failure_code,omitempty"`
	FailureMessage  *string           `json:"failure_message,omitempty"`
	CreatedAt       utils.RFC3339Date `json:"created_at"`
	UpdatedAt       utils.RFC3339Date `json:"updated_at"`
}

type PaymentMethod struct {
	ID         int64               `json:"id"`
	OwnerID    string              `json:"-"`
	MethodType PaymentMethodType   `json:"method_type"`
	Status     PaymentMethodStatus `json:"status"`
	CreatedAt  utils.RFC3339Date   `json:"created_at"`
}

type NewPaymentMethod struct {
	MethodType *PaymentMethodType `json:"method_type"`
}
