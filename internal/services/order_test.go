package services

import (
	"context"
	"testing"

	"github.com/Renal37/wastecollect/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderService(store *fakeStore) *OrderService {
	machine := NewStateMachine(store, defaultActors(), nil)
	return NewOrderService(store, machine, 1000, "KRW")
}

func TestCreateOrder(t *testing.T) {
	customer := models.User{ID: "customer-id", Login: "customer"}

	t.Run("Должен отклонить заявку без адреса", func(t *testing.T) {
		store := newFakeStore()
		service := newOrderService(store)
		blank := "   "

		_, err := service.CreateOrder(context.Background(), customer, models.NewOrder{Address: &blank})

		assert.ErrorIs(t, err, ErrInvalidOrder)
		assert.Empty(t, store.orders)
	})

	t.Run("Должен создать заявку с записью журнала о создании", func(t *testing.T) {
		store := newFakeStore()
		service := newOrderService(store)
		address := " Seoul, Jongno-gu 1 "
		note := "two bags"

		order, err := service.CreateOrder(context.Background(), customer, models.NewOrder{Address: &address, Note: &note})
		require.NoError(t, err)

		assert.Equal(t, models.StatusRequested, order.Status)
		assert.Equal(t, "Seoul, Jongno-gu 1", order.Address)
		assert.Equal(t, "two bags", order.Note)
		assert.Equal(t, "KRW", order.Currency)
		assert.Equal(t, models.OrderNumber(order.ID), order.Number)

		entries := store.auditFor(order.ID)
		require.Len(t, entries, 1)
		assert.Nil(t, entries[0].FromStatus)
		assert.Equal(t, models.StatusRequested, entries[0].ToStatus.OrderStatus)
		assert.Equal(t, "customer", entries[0].Actor)
	})
}

func TestAssign(t *testing.T) {
	t.Run("Должен назначить указанного водителя", func(t *testing.T) {
		store := newFakeStore()
		service := newOrderService(store)
		orderID := store.seedOrder("customer-id", models.StatusRequested, 0)

		order, err := service.Assign(context.Background(), orderID, "driver", "operator")
		require.NoError(t, err)

		assert.Equal(t, models.StatusAssigned, order.Status)
		require.NotNil(t, order.DriverID)
		assert.Equal(t, "driver-id", *order.DriverID)
		assert.Equal(t, "operator", store.auditFor(orderID)[0].Actor)
	})

	t.Run("Должен назначить самого инициатора, если водитель не указан", func(t *testing.T) {
		store := newFakeStore()
		service := newOrderService(store)
		orderID := store.seedOrder("customer-id", models.StatusRequested, 0)

		order, err := service.Assign(context.Background(), orderID, "", "driver")
		require.NoError(t, err)

		require.NotNil(t, order.DriverID)
		assert.Equal(t, "driver-id", *order.DriverID)
	})

	t.Run("Должен вернуть ошибку для неизвестного водителя", func(t *testing.T) {
		store := newFakeStore()
		service := newOrderService(store)
		orderID := store.seedOrder("customer-id", models.StatusRequested, 0)

		_, err := service.Assign(context.Background(), orderID, "ghost", "operator")

		assert.ErrorIs(t, err, ErrDriverNotFound)
		assert.Empty(t, store.auditFor(orderID))
	})

	t.Run("Должен запретить повторное назначение", func(t *testing.T) {
		store := newFakeStore()
		service := newOrderService(store)
		orderID := store.seedOrder("customer-id", models.StatusAssigned, 0)

		_, err := service.Assign(context.Background(), orderID, "driver", "operator")

		assert.ErrorIs(t, err, ErrTransitionConflict)
		assert.Nil(t, store.order(orderID).DriverID)
	})
}

func TestMeasure(t *testing.T) {
	t.Run("Должен зафиксировать вес и итоговую сумму", func(t *testing.T) {
		store := newFakeStore()
		service := newOrderService(store)
		orderID := store.seedOrder("customer-id", models.StatusAssigned, 0)

		order, err := service.Measure(context.Background(), orderID, decimal.RequireFromString("12.3455"), "driver")
		require.NoError(t, err)

		assert.Equal(t, models.StatusMeasured, order.Status)
		require.NotNil(t, order.FinalAmount)
		assert.Equal(t, int64(12346), *order.FinalAmount)

		stored := store.order(orderID)
		require.True(t, stored.MeasuredWeight.Valid)
		assert.True(t, decimal.RequireFromString("12.3455").Equal(stored.MeasuredWeight.Decimal))
		assert.Equal(t, int64(12346), *stored.FinalAmount)
		assert.Len(t, store.auditFor(orderID), 1)
	})

	t.Run("Должен отклонить неположительный вес", func(t *testing.T) {
		store := newFakeStore()
		service := newOrderService(store)
		orderID := store.seedOrder("customer-id", models.StatusAssigned, 0)

		_, err := service.Measure(context.Background(), orderID, decimal.Zero, "driver")

		assert.ErrorIs(t, err, ErrInvalidWeight)
		assert.Equal(t, models.StatusAssigned, store.order(orderID).Status.OrderStatus)
	})

	t.Run("Должен отклонить взвешивание неназначенной заявки", func(t *testing.T) {
		store := newFakeStore()
		service := newOrderService(store)
		orderID := store.seedOrder("customer-id", models.StatusRequested, 0)

		_, err := service.Measure(context.Background(), orderID, decimal.NewFromInt(3), "driver")

		assert.ErrorIs(t, err, ErrTransitionConflict)
		assert.False(t, store.order(orderID).MeasuredWeight.Valid)
		assert.Empty(t, store.auditFor(orderID))
	})
}

func TestGetOrderAndHistory(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	service := newOrderService(store)
	automation := newAutomation(store, NewMockGateway(), &recordingQueue{})

	store.seedMethod("customer-id", models.MethodCard, models.MethodActive)
	orderID := store.seedOrder("customer-id", models.StatusMeasured, 4000)

	details, err := service.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Nil(t, details.Payment)

	_, err = automation.AttemptAutoPayment(ctx, orderID, "driver")
	require.NoError(t, err)

	details, err = service.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, details.Status)
	require.NotNil(t, details.Payment)
	assert.Equal(t, models.PaymentSucceeded, details.Payment.Status)

	history, err := service.GetHistory(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, models.StatusMeasured, *history[0].FromStatus)
	assert.Equal(t, models.StatusCompleted, history[2].ToStatus)

	_, err = service.GetOrder(ctx, 404)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = service.GetHistory(ctx, 404)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGetOrdersAndCancel(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	service := newOrderService(store)

	first := store.seedOrder("customer-id", models.StatusRequested, 0)
	second := store.seedOrder("customer-id", models.StatusRequested, 0)
	store.seedOrder("other-id", models.StatusRequested, 0)

	orders, err := service.GetOrders(ctx, "customer-id")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second, orders[0].ID)
	assert.Equal(t, first, orders[1].ID)

	canceled, err := service.Cancel(ctx, first, "customer")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCanceled, canceled.Status)

	_, err = service.Cancel(ctx, second, "other")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
