package services

import (
	"context"
	"errors"

	"github.com/Renal37/wastecollect/internal/database"
	"github.com/Renal37/wastecollect/internal/logger"
	"github.com/Renal37/wastecollect/internal/metrics"
	"github.com/Renal37/wastecollect/internal/models"
	"go.uber.org/zap"
)

// Потоки оплаты для логов и метрик
const (
	flowAuto  = "auto"
	flowRetry = "retry"
)

// settlement доводит платеж в статусе PENDING до конечного исхода
// и переводит заявку по графу в том же tx.
type settlement struct {
	machine   *StateMachine
	gateway   PaymentGateway
	lifecycle *metrics.Lifecycle
}

// charge списывает деньги по выбранному способу оплаты.
// Отказ шлюза завершает платеж как FAILED и ошибкой не считается.
func (s settlement) charge(ctx context.Context, tx database.Tx, events *afterCommit, order *database.OrderDB, payment *database.PaymentDB, actor, flow string) error {
	key, err := s.gateway.Charge(ctx, ChargeRequest{
		ProviderOrderID: payment.ProviderOrderID,
		OrderNumber:     models.OrderNumber(order.ID),
		PaymentMethodID: *payment.PaymentMethodID,
		Amount:          payment.Amount,
		Currency:        payment.Currency,
	})
	if err != nil {
		code, message := models.FailureGatewayError, err.Error()

		var declined *ChargeError
		if errors.As(err, &declined) {
			code, message = declined.Code, declined.Message
		}

		return s.fail(ctx, tx, events, order, payment, code, message, actor, flow)
	}

	payment.Status = database.PaymentStatusDB{PaymentStatus: models.PaymentSucceeded}
	payment.PaymentKey = &key
	payment.FailureCode = nil
	payment.FailureMessage = nil

	if err := tx.UpdatePayment(ctx, *payment); err != nil {
		return err
	}

	if err := s.machine.apply(ctx, tx, events, order, models.StatusPaid, actor); err != nil {
		return err
	}
	if err := s.machine.apply(ctx, tx, events, order, models.StatusCompleted, actor); err != nil {
		return err
	}

	orderID, paymentID := order.ID, payment.ID
	events.add(func() {
		logger.Log.Info("payment succeeded",
			zap.String("flow", flow),
			zap.Int64("orderID", orderID),
			zap.Int64("paymentID", paymentID),
		)
		s.lifecycle.ObservePayment(flow, string(models.PaymentSucceeded))
	})

	return nil
}

// fail помечает платеж FAILED и переводит заявку в PAYMENT_FAILED
func (s settlement) fail(ctx context.Context, tx database.Tx, events *afterCommit, order *database.OrderDB, payment *database.PaymentDB, code, message, actor, flow string) error {
	payment.Status = database.PaymentStatusDB{PaymentStatus: models.PaymentFailed}
	payment.PaymentKey = nil
	payment.FailureCode = &code
	payment.FailureMessage = &message

	if err := tx.UpdatePayment(ctx, *payment); err != nil {
		return err
	}

	if err := s.machine.apply(ctx, tx, events, order, models.StatusPaymentFailed, actor); err != nil {
		return err
	}

	orderID, paymentID := order.ID, payment.ID
	events.add(func() {
		logger.Log.Warn("payment failed",
			zap.String("flow", flow),
			zap.Int64("orderID", orderID),
			zap.Int64("paymentID", paymentID),
			zap.String("failureCode", code),
		)
		s.lifecycle.ObservePayment(flow, code)
	})

	return nil
}
