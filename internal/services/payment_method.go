package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Renal37/wastecollect/internal/database"
	"github.com/Renal37/wastecollect/internal/models"
)

var (
	ErrInvalidPaymentMethod  = errors.New("неизвестный тип способа оплаты")
	ErrPaymentMethodNotFound = errors.New("способ оплаты не найден")
)

// PaymentMethodService управляет способами оплаты клиента
type PaymentMethodService struct {
	storage paymentMethodStorage
}

type paymentMethodStorage interface {
	CreatePaymentMethod(ctx context.Context, ownerID string, methodType models.PaymentMethodType) (*database.PaymentMethodDB, error)
	FindPaymentMethods(ctx context.Context, ownerID string) ([]database.PaymentMethodDB, error)
	DeactivatePaymentMethod(ctx context.Context, ownerID string, methodID int64) error
}

func NewPaymentMethodService(storage paymentMethodStorage) *PaymentMethodService {
	return &PaymentMethodService{storage: storage}
}

func (pm *PaymentMethodService) RegisterMethod(ctx context.Context, ownerID string, methodType models.PaymentMethodType) (models.PaymentMethod, error) {
	if !methodType.Valid() {
		return models.PaymentMethod{}, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, methodType)
	}

	method, err := pm.storage.CreatePaymentMethod(ctx, ownerID, methodType)
	if err != nil {
		return models.PaymentMethod{}, err
	}

	return method.ToModel(), nil
}

func (pm *PaymentMethodService) GetMethods(ctx context.Context, ownerID string) ([]models.PaymentMethod, error) {
	methods, err := pm.storage.FindPaymentMethods(ctx, ownerID)
	if err != nil {
		return []models.PaymentMethod{}, err
	}

	result := make([]models.PaymentMethod, len(methods))
	for i, method := range methods {
		result[i] = method.ToModel()
	}

	return result, nil
}

// DeactivateMethod отключает способ оплаты; платежи, которые на него ссылаются, не меняются
func (pm *PaymentMethodService) DeactivateMethod(ctx context.Context, ownerID string, methodID int64) error {
	if err := pm.storage.DeactivatePaymentMethod(ctx, ownerID, methodID); err != nil {
		if errors.Is(err, database.ErrPaymentMethodNotFound) {
			return ErrPaymentMethodNotFound
		}
		return err
	}
	return nil
}
