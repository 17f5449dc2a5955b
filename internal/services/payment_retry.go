package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Renal37/wastecollect/internal/database"
	"github.com/Renal37/wastecollect/internal/metrics"
	"github.com/Renal37/wastecollect/internal/models"
	"github.com/google/uuid"
)

var (
	ErrRetryConflict   = errors.New("повтор оплаты невозможен в текущем состоянии")
	ErrPaymentNotFound = errors.New("платеж не найден")
)

// PaymentRetryService повторяет оплату заявок в статусе PAYMENT_FAILED.
// Повтор использует только способы оплаты типа CARD.
type PaymentRetryService struct {
	settlement
	storage retryStorage
}

type retryStorage interface {
	txRunner

	FindFailedPayments(ctx context.Context) ([]database.PaymentDB, error)
}

func NewPaymentRetryService(storage retryStorage, machine *StateMachine, gateway PaymentGateway, lifecycle *metrics.Lifecycle) *PaymentRetryService {
	return &PaymentRetryService{
		settlement: settlement{machine: machine, gateway: gateway, lifecycle: lifecycle},
		storage:    storage,
	}
}

// Retry обновляет существующую строку платежа, новую не создает
func (rs *PaymentRetryService) Retry(ctx context.Context, orderID int64, actor string) (models.Order, error) {
	if _, err := rs.machine.resolveActor(ctx, actor); err != nil {
		return models.Order{}, err
	}

	var result models.Order
	err := runTx(ctx, rs.storage, func(tx database.Tx, events *afterCommit) error {
		order, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if order.Status.OrderStatus != models.StatusPaymentFailed {
			return fmt.Errorf("%w: заявка в статусе %s", ErrRetryConflict, order.Status.OrderStatus)
		}

		payment, err := tx.FindPaymentByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if payment == nil {
			return ErrPaymentNotFound
		}
		if payment.Status.PaymentStatus != models.PaymentFailed {
			return fmt.Errorf("%w: платеж в статусе %s", ErrRetryConflict, payment.Status.PaymentStatus)
		}

		if err := rs.machine.apply(ctx, tx, events, order, models.StatusPaymentPending, actor); err != nil {
			return err
		}

		card := models.MethodCard
		method, err := tx.FindActivePaymentMethod(ctx, order.CustomerID, &card)
		if err != nil {
			return err
		}

		payment.Status = database.PaymentStatusDB{PaymentStatus: models.PaymentPending}
		payment.ProviderOrderID = uuid.NewString()
		payment.PaymentKey = nil
		payment.PaymentMethodID = nil
		payment.FailureCode = nil
		payment.FailureMessage = nil
		if method != nil {
			payment.PaymentMethodID = &method.ID
		}

		if err := tx.UpdatePayment(ctx, *payment); err != nil {
			return err
		}

		if method == nil {
			err = rs.fail(ctx, tx, events, order, payment, models.FailureUnsupportedPaymentMethod,
				"для автоматического повтора нужна активная карта", actor, flowRetry)
		} else {
			err = rs.charge(ctx, tx, events, order, payment, actor, flowRetry)
		}
		if err != nil {
			return err
		}

		result = order.ToModel()
		return nil
	})

	return result, err
}

// GetFailedPayments возвращает неуспешные платежи, последние первыми
func (rs *PaymentRetryService) GetFailedPayments(ctx context.Context) ([]models.Payment, error) {
	payments, err := rs.storage.FindFailedPayments(ctx)
	if err != nil {
		return []models.Payment{}, err
	}

	result := make([]models.Payment, len(payments))
	for i, payment := range payments {
		result[i] = payment.ToModel()
	}

	return result, nil
}
