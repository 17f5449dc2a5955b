package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Renal37/wastecollect/internal/database"
	"github.com/Renal37/wastecollect/internal/logger"
	"github.com/Renal37/wastecollect/internal/metrics"
	"github.com/Renal37/wastecollect/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrOrderHasNoAmount = errors.New("у заявки нет итоговой суммы")

// PaymentAutomationService проводит взвешенную заявку до COMPLETED или PAYMENT_FAILED
type PaymentAutomationService struct {
	settlement
	storage  paymentStorage
	jobQueue paymentJobQueue
}

type paymentStorage interface {
	txRunner

	FindUnpaidMeasuredOrders(ctx context.Context) ([]database.OrderDB, error)
}

type paymentJobQueue interface {
	Enqueue(job Job) error

	ScheduleJob(job Job, delay time.Duration)
}

// retryEnqueueDelay: пауза перед повторной постановкой, если очередь заполнена
const retryEnqueueDelay = time.Second

func NewPaymentAutomationService(
	storage paymentStorage,
	machine *StateMachine,
	gateway PaymentGateway,
	jobQueue paymentJobQueue,
	lifecycle *metrics.Lifecycle,
) *PaymentAutomationService {
	return &PaymentAutomationService{
		settlement: settlement{machine: machine, gateway: gateway, lifecycle: lifecycle},
		storage:    storage,
		jobQueue:   jobQueue,
	}
}

// AttemptAutoPayment идемпотентна: если платеж по заявке уже есть,
// заявка возвращается как есть и ничего не меняется.
func (ps *PaymentAutomationService) AttemptAutoPayment(ctx context.Context, orderID int64, actor string) (models.Order, error) {
	if _, err := ps.machine.resolveActor(ctx, actor); err != nil {
		return models.Order{}, err
	}

	var result models.Order
	err := runTx(ctx, ps.storage, func(tx database.Tx, events *afterCommit) error {
		order, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		existing, err := tx.FindPaymentByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			logger.Log.Debug("auto payment already attempted",
				zap.Int64("orderID", order.ID),
				zap.Int64("paymentID", existing.ID),
			)
			result = order.ToModel()
			return nil
		}

		if order.Status.CanTransitionTo(models.StatusPaymentPending) && order.FinalAmount == nil {
			return fmt.Errorf("заявка %d: %w", order.ID, ErrOrderHasNoAmount)
		}

		if err := ps.machine.apply(ctx, tx, events, order, models.StatusPaymentPending, actor); err != nil {
			return err
		}

		method, err := tx.FindActivePaymentMethod(ctx, order.CustomerID, nil)
		if err != nil {
			return err
		}

		payment := database.PaymentDB{
			OrderID:         order.ID,
			Provider:        ps.gateway.Provider(),
			ProviderOrderID: uuid.NewString(),
			Status:          database.PaymentStatusDB{PaymentStatus: models.PaymentPending},
			Amount:          *order.FinalAmount,
			Currency:        order.Currency,
		}
		if method != nil {
			payment.PaymentMethodID = &method.ID
		}

		created, err := tx.CreatePayment(ctx, payment)
		if err != nil {
			return err
		}

		if method == nil {
			err = ps.fail(ctx, tx, events, order, created, models.FailureNoActivePaymentMethod,
				"у клиента нет активного способа оплаты", actor, flowAuto)
		} else {
			err = ps.charge(ctx, tx, events, order, created, actor, flowAuto)
		}
		if err != nil {
			return err
		}

		result = order.ToModel()
		return nil
	})

	return result, err
}

// StartPendingAutoPayments ставит в очередь заявки, взвешенные, но не дошедшие до автоплатежа
func (ps *PaymentAutomationService) StartPendingAutoPayments(ctx context.Context) error {
	orders, err := ps.storage.FindUnpaidMeasuredOrders(ctx)
	if err != nil {
		return fmt.Errorf("ошибка поиска неоплаченных заявок: %w", err)
	}

	for _, order := range orders {
		orderID := order.ID

		job := func(ctx context.Context) {
			if _, err := ps.AttemptAutoPayment(ctx, orderID, models.SystemActor); err != nil {
				logger.Log.Error("failed to run pending auto payment", zap.Int64("orderID", orderID), zap.Error(err))
			}
		}

		if err := ps.jobQueue.Enqueue(job); err != nil {
			if !errors.Is(err, ErrJobQueueIsFull) {
				return fmt.Errorf("ошибка постановки автоплатежа в очередь: %w", err)
			}
			logger.Log.Warn("job queue is full, auto payment rescheduled", zap.Int64("orderID", orderID))
			ps.jobQueue.ScheduleJob(job, retryEnqueueDelay)
		}
	}

	logger.Log.Info("pending auto payments enqueued", zap.Int("count", len(orders)))
	return nil
}
