package services

import (
	"context"
	"sync"
	"testing"

	"github.com/Renal37/wastecollect/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// race запускает call в n горутинах одновременно и возвращает их ошибки
func race(n int, call func() error) []error {
	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = call()
		}(i)
	}

	close(start)
	wg.Wait()
	return errs
}

func countNil(errs []error) int {
	count := 0
	for _, err := range errs {
		if err == nil {
			count++
		}
	}
	return count
}

func TestConcurrentCallsOnOneOrder(t *testing.T) {
	const callers = 20

	testCases := []struct {
		testName       string
		seed           func(store *fakeStore) int64
		call           func(store *fakeStore, orderID int64) error
		expectedWins   int
		expectedErr    error
		expectedStatus models.OrderStatus
		expectedAudit  int
	}{
		{
			testName: "Автоплатеж создает ровно один платеж",
			seed: func(store *fakeStore) int64 {
				store.seedMethod("customer-id", models.MethodCard, models.MethodActive)
				return store.seedOrder("customer-id", models.StatusMeasured, 4200)
			},
			call: func(store *fakeStore, orderID int64) error {
				_, err := newAutomation(store, NewMockGateway(), &recordingQueue{}).AttemptAutoPayment(context.Background(), orderID, "driver")
				return err
			},
			expectedWins:   callers,
			expectedStatus: models.StatusCompleted,
			expectedAudit:  3,
		},
		{
			testName: "Автоплатеж без способа оплаты завершается одной неудачей",
			seed: func(store *fakeStore) int64 {
				return store.seedOrder("customer-id", models.StatusMeasured, 4200)
			},
			call: func(store *fakeStore, orderID int64) error {
				_, err := newAutomation(store, NewMockGateway(), &recordingQueue{}).AttemptAutoPayment(context.Background(), orderID, "driver")
				return err
			},
			expectedWins:   callers,
			expectedStatus: models.StatusPaymentFailed,
			expectedAudit:  2,
		},
		{
			testName: "Назначение выигрывает только один вызов",
			seed: func(store *fakeStore) int64 {
				return store.seedOrder("customer-id", models.StatusRequested, 0)
			},
			call: func(store *fakeStore, orderID int64) error {
				_, err := NewStateMachine(store, defaultActors(), nil).Transition(context.Background(), orderID, models.StatusAssigned, "driver")
				return err
			},
			expectedWins:   1,
			expectedErr:    ErrTransitionConflict,
			expectedStatus: models.StatusAssigned,
			expectedAudit:  1,
		},
		{
			testName: "Повтор оплаты выигрывает только один вызов",
			seed: func(store *fakeStore) int64 {
				store.seedMethod("customer-id", models.MethodCard, models.MethodActive)
				orderID := store.seedOrder("customer-id", models.StatusPaymentFailed, 4200)
				store.seedFailedPayment(orderID, models.FailureGatewayError)
				return orderID
			},
			call: func(store *fakeStore, orderID int64) error {
				_, err := newRetry(store, NewMockGateway()).Retry(context.Background(), orderID, "operator")
				return err
			},
			expectedWins:   1,
			expectedErr:    ErrRetryConflict,
			expectedStatus: models.StatusCompleted,
			expectedAudit:  3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			store := newFakeStore()
			orderID := tc.seed(store)

			errs := race(callers, func() error { return tc.call(store, orderID) })

			require.Equal(t, tc.expectedWins, countNil(errs))
			for _, err := range errs {
				if err != nil {
					assert.ErrorIs(t, err, tc.expectedErr)
				}
			}

			assert.Equal(t, tc.expectedStatus, store.order(orderID).Status.OrderStatus)
			assert.Len(t, store.auditFor(orderID), tc.expectedAudit)
			if tc.expectedStatus != models.StatusAssigned {
				assert.Equal(t, 1, store.paymentCount())
			}
		})
	}
}
