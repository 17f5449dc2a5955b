package services

import (
	"context"
	"fmt"

	"github.com/Renal37/wastecollect/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChargeRequest: данные для списания по заявке
type ChargeRequest struct {
	ProviderOrderID string
	OrderNumber     string
	PaymentMethodID int64
	Amount          int64
	Currency        string
}

// ChargeError описывает отказ платежного шлюза
type ChargeError struct {
	Code    string
	Message string
}

func (e *ChargeError) Error() string {
	return fmt.Sprintf("платеж отклонен: %s: %s", e.Code, e.Message)
}

// PaymentGateway списывает деньги и возвращает ключ платежа провайдера
type PaymentGateway interface {
	Provider() string

	Charge(ctx context.Context, req ChargeRequest) (string, error)
}

// MockGateway всегда проводит списание успешно
type MockGateway struct{}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (g *MockGateway) Provider() string {
	return "MOCK"
}

func (g *MockGateway) Charge(ctx context.Context, req ChargeRequest) (string, error) {
	key := "mock_" + uuid.NewString()

	logger.Log.Debug("mock charge accepted",
		zap.String("providerOrderID", req.ProviderOrderID),
		zap.String("orderNumber", req.OrderNumber),
		zap.Int64("amount", req.Amount),
		zap.String("currency", req.Currency),
	)

	return key, nil
}
