package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Renal37/wastecollect/internal/database"
	"github.com/Renal37/wastecollect/internal/logger"
	"github.com/Renal37/wastecollect/internal/metrics"
	"github.com/Renal37/wastecollect/internal/models"
	"go.uber.org/zap"
)

// Ошибки жизненного цикла заявки
var (
	ErrOrderNotFound      = errors.New("заявка не найдена")
	ErrActorNotFound      = errors.New("инициатор действия не найден")
	ErrTransitionConflict = errors.New("переход статуса не разрешен")
)

// txRunner открывает единицу работы над заявкой
type txRunner interface {
	InTx(ctx context.Context, fn func(tx database.Tx) error) error
}

// StateMachine: единственное место, где меняется статус заявки.
// Каждый переход пишет ровно одну запись журнала в той же транзакции.
type StateMachine struct {
	storage   txRunner
	actors    models.ActorResolver
	lifecycle *metrics.Lifecycle
}

func NewStateMachine(storage txRunner, actors models.ActorResolver, lifecycle *metrics.Lifecycle) *StateMachine {
	return &StateMachine{storage: storage, actors: actors, lifecycle: lifecycle}
}

// Transition переводит заявку в статус to от имени actor
func (sm *StateMachine) Transition(ctx context.Context, orderID int64, to models.OrderStatus, actor string) (models.Order, error) {
	if _, err := sm.resolveActor(ctx, actor); err != nil {
		return models.Order{}, err
	}

	var result models.Order
	err := runTx(ctx, sm.storage, func(tx database.Tx, events *afterCommit) error {
		order, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if err := sm.apply(ctx, tx, events, order, to, actor); err != nil {
			return err
		}

		result = order.ToModel()
		return nil
	})

	return result, err
}

// TransitionAsOwner работает как Transition, но чужая заявка для actor не существует
func (sm *StateMachine) TransitionAsOwner(ctx context.Context, orderID int64, to models.OrderStatus, actor string) (models.Order, error) {
	user, err := sm.resolveActor(ctx, actor)
	if err != nil {
		return models.Order{}, err
	}

	var result models.Order
	err = runTx(ctx, sm.storage, func(tx database.Tx, events *afterCommit) error {
		order, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if order.CustomerID != user.ID {
			return ErrOrderNotFound
		}

		if err := sm.apply(ctx, tx, events, order, to, actor); err != nil {
			return err
		}

		result = order.ToModel()
		return nil
	})

	return result, err
}

func (sm *StateMachine) resolveActor(ctx context.Context, actor string) (*models.User, error) {
	if actor == "" {
		return nil, ErrActorNotFound
	}

	user, err := sm.actors.GetUser(ctx, actor)
	if err != nil {
		if errors.Is(err, ErrUserIsNotExist) {
			return nil, ErrActorNotFound
		}
		return nil, fmt.Errorf("ошибка при проверке инициатора: %w", err)
	}

	return user, nil
}

// apply проверяет ребро графа и, если оно есть, меняет статус и пишет журнал.
// order должен быть заблокирован в tx. Лог и метрика перехода попадают в events.
func (sm *StateMachine) apply(ctx context.Context, tx database.Tx, events *afterCommit, order *database.OrderDB, to models.OrderStatus, actor string) error {
	from := order.Status

	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionConflict, from.OrderStatus, to)
	}

	next := database.OrderStatusDB{OrderStatus: to}
	if err := tx.UpdateOrderStatus(ctx, order.ID, next); err != nil {
		return err
	}

	if err := tx.InsertAuditEntry(ctx, database.AuditEntryDB{
		OrderID:    order.ID,
		FromStatus: &from,
		ToStatus:   next,
		Actor:      actor,
	}); err != nil {
		return err
	}

	order.Status = next

	orderID := order.ID
	events.add(func() {
		logger.Log.Info("order status changed",
			zap.Int64("orderID", orderID),
			zap.String("from", string(from.OrderStatus)),
			zap.String("to", string(to)),
			zap.String("actor", actor),
		)
		sm.lifecycle.ObserveTransition(string(from.OrderStatus), string(to))
	})

	return nil
}

// afterCommit копит события транзакции: логи и метрики публикуются
// только после успешного коммита.
type afterCommit []func()

func (a *afterCommit) add(fn func()) {
	*a = append(*a, fn)
}

// runTx выполняет fn в транзакции storage и после коммита публикует события
func runTx(ctx context.Context, storage txRunner, fn func(tx database.Tx, events *afterCommit) error) error {
	var events afterCommit

	err := storage.InTx(ctx, func(tx database.Tx) error {
		events = events[:0]
		return fn(tx, &events)
	})
	if err != nil {
		return err
	}

	for _, publish := range events {
		publish()
	}
	return nil
}

func lockOrder(ctx context.Context, tx database.Tx, orderID int64) (*database.OrderDB, error) {
	order, err := tx.LockOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
