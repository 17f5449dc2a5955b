package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Renal37/wastecollect/internal/database"
	"github.com/Renal37/wastecollect/internal/logger"
	"github.com/Renal37/wastecollect/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Ошибки входных данных заявки
var (
	ErrInvalidOrder   = errors.New("адрес заявки не может быть пустым")
	ErrInvalidWeight  = errors.New("вес должен быть положительным")
	ErrDriverNotFound = errors.New("водитель не найден")
)

// OrderService создает заявки и проводит их через назначение и взвешивание
type OrderService struct {
	storage   orderStorage
	machine   *StateMachine
	unitPrice int64
	currency  string
}

// Интерфейс хранилища для работы с заявками
type orderStorage interface {
	txRunner

	FindOrder(ctx context.Context, orderID int64) (*database.OrderDB, error)
	FindCustomerOrders(ctx context.Context, customerID string) ([]database.OrderDB, error)
	FindPaymentByOrder(ctx context.Context, orderID int64) (*database.PaymentDB, error)
	FindAuditEntries(ctx context.Context, orderID int64) ([]database.AuditEntryDB, error)
}

// NewOrderService создает новый экземпляр OrderService.
// unitPrice: цена килограмма в минимальных единицах валюты currency.
func NewOrderService(storage orderStorage, machine *StateMachine, unitPrice int64, currency string) *OrderService {
	return &OrderService{
		storage:   storage,
		machine:   machine,
		unitPrice: unitPrice,
		currency:  currency,
	}
}

// CreateOrder создает заявку в статусе REQUESTED вместе с записью журнала о создании
func (o *OrderService) CreateOrder(ctx context.Context, customer models.User, data models.NewOrder) (models.Order, error) {
	if data.Address == nil || strings.TrimSpace(*data.Address) == "" {
		return models.Order{}, ErrInvalidOrder
	}

	order := database.OrderDB{
		CustomerID: customer.ID,
		Address:    strings.TrimSpace(*data.Address),
		Status:     database.OrderStatusDB{OrderStatus: models.StatusRequested},
		Currency:   o.currency,
	}
	if data.Note != nil {
		order.Note = *data.Note
	}

	var result models.Order
	err := o.storage.InTx(ctx, func(tx database.Tx) error {
		created, err := tx.CreateOrder(ctx, order)
		if err != nil {
			return err
		}

		if err := tx.InsertAuditEntry(ctx, database.AuditEntryDB{
			OrderID:  created.ID,
			ToStatus: created.Status,
			Actor:    customer.Login,
		}); err != nil {
			return err
		}

		result = created.ToModel()
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	logger.Log.Info("order created", zap.Int64("orderID", result.ID), zap.String("number", result.Number))
	return result, nil
}

// GetOrders возвращает заявки клиента, новые первыми
func (o *OrderService) GetOrders(ctx context.Context, customerID string) ([]models.Order, error) {
	orders, err := o.storage.FindCustomerOrders(ctx, customerID)
	if err != nil {
		return []models.Order{}, err
	}

	result := make([]models.Order, len(orders))
	for i, order := range orders {
		result[i] = order.ToModel()
	}

	return result, nil
}

// GetOrder возвращает заявку и ее платеж, если он есть
func (o *OrderService) GetOrder(ctx context.Context, orderID int64) (models.OrderDetails, error) {
	order, err := o.storage.FindOrder(ctx, orderID)
	if err != nil {
		return models.OrderDetails{}, err
	}
	if order == nil {
		return models.OrderDetails{}, ErrOrderNotFound
	}

	details := models.OrderDetails{Order: order.ToModel()}

	payment, err := o.storage.FindPaymentByOrder(ctx, orderID)
	if err != nil {
		return models.OrderDetails{}, err
	}
	if payment != nil {
		p := payment.ToModel()
		details.Payment = &p
	}

	return details, nil
}

// GetHistory возвращает журнал статусов в порядке записи
func (o *OrderService) GetHistory(ctx context.Context, orderID int64) ([]models.AuditEntry, error) {
	order, err := o.storage.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	entries, err := o.storage.FindAuditEntries(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := make([]models.AuditEntry, len(entries))
	for i, entry := range entries {
		result[i] = entry.ToModel()
	}

	return result, nil
}

// Assign назначает водителя. Пустой driver означает самого actor.
func (o *OrderService) Assign(ctx context.Context, orderID int64, driver, actor string) (models.Order, error) {
	if _, err := o.machine.resolveActor(ctx, actor); err != nil {
		return models.Order{}, err
	}

	if driver == "" {
		driver = actor
	}

	driverUser, err := o.machine.actors.GetUser(ctx, driver)
	if err != nil {
		if errors.Is(err, ErrUserIsNotExist) {
			return models.Order{}, fmt.Errorf("%w: %s", ErrDriverNotFound, driver)
		}
		return models.Order{}, err
	}

	var result models.Order
	err = runTx(ctx, o.storage, func(tx database.Tx, events *afterCommit) error {
		order, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if err := o.machine.apply(ctx, tx, events, order, models.StatusAssigned, actor); err != nil {
			return err
		}

		if err := tx.UpdateOrderDriver(ctx, order.ID, driverUser.ID); err != nil {
			return err
		}

		order.DriverID = &driverUser.ID
		result = order.ToModel()
		return nil
	})

	return result, err
}

// Measure фиксирует вес и итоговую сумму в одной транзакции с переходом в MEASURED
func (o *OrderService) Measure(ctx context.Context, orderID int64, weight decimal.Decimal, actor string) (models.Order, error) {
	if !weight.IsPositive() {
		return models.Order{}, ErrInvalidWeight
	}

	if _, err := o.machine.resolveActor(ctx, actor); err != nil {
		return models.Order{}, err
	}

	var result models.Order
	err := runTx(ctx, o.storage, func(tx database.Tx, events *afterCommit) error {
		order, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if err := o.machine.apply(ctx, tx, events, order, models.StatusMeasured, actor); err != nil {
			return err
		}

		measured, err := order.ToModel().WithMeasurement(weight, o.unitPrice)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrTransitionConflict, err.Error())
		}

		if err := tx.UpdateOrderMeasurement(ctx, order.ID, weight, *measured.FinalAmount); err != nil {
			if errors.Is(err, database.ErrOrderAlreadyMeasured) {
				return fmt.Errorf("%w: %s", ErrTransitionConflict, err.Error())
			}
			return err
		}

		result = measured
		return nil
	})

	return result, err
}

// Cancel отменяет заявку от имени ее владельца
func (o *OrderService) Cancel(ctx context.Context, orderID int64, actor string) (models.Order, error) {
	return o.machine.TransitionAsOwner(ctx, orderID, models.StatusCanceled, actor)
}
