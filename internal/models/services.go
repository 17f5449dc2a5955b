package models

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

// ActorResolver находит пользователя, от имени которого выполняется действие
type ActorResolver interface {
	GetUser(ctx context.Context, login string) (*User, error)
}

//go:generate mockgen -destination=mocks/mock_auth.go . AuthService
type AuthService interface {
	ActorResolver

	Register(ctx context.Context, user UnknownUser) error

	Login(ctx context.Context, user UnknownUser) error
}

//go:generate mockgen -destination=mocks/mock_jwt.go . JWTService
type JWTService interface {
	GenerateJWT(subject string) (string, error)

	ValidateToken(token string) (*jwt.Token, error)
}

//go:generate mockgen -destination=mocks/mock_order.go . OrderService
type OrderService interface {
	CreateOrder(ctx context.Context, customer User, data NewOrder) (Order, error)

	GetOrders(ctx context.Context, customerID string) ([]Order, error)

	GetOrder(ctx context.Context, orderID int64) (OrderDetails, error)

	GetHistory(ctx context.Context, orderID int64) ([]AuditEntry, error)

	Assign(ctx context.Context, orderID int64, driver, actor string) (Order, error)

	Measure(ctx context.Context, orderID int64, weight decimal.Decimal, actor string) (Order, error)

	Cancel(ctx context.Context, orderID int64, actor string) (Order, error)
}

//go:generate mockgen -destination=mocks/mock_payment.go . PaymentService
type PaymentService interface {
	AttemptAutoPayment(ctx context.Context, orderID int64, actor string) (Order, error)

	StartPendingAutoPayments(ctx context.Context) error
}

//go:generate mockgen -destination=mocks/mock_payment_retry.go . PaymentRetryService
type PaymentRetryService interface {
	Retry(ctx context.Context, orderID int64, actor string) (Order, error)

	GetFailedPayments(ctx context.Context) ([]Payment, error)
}

//go:generate mockgen -destination=mocks/mock_payment_method.go . PaymentMethodService
type PaymentMethodService interface {
	RegisterMethod(ctx context.Context, ownerID string, methodType PaymentMethodType) (PaymentMethod, error)

	GetMethods(ctx context.Context, ownerID string) ([]PaymentMethod, error)

	DeactivateMethod(ctx context.Context, ownerID string, methodID int64) error
}
