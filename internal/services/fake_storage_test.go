package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Renal37/wastecollect/internal/database"
	"github.com/Renal37/wastecollect/internal/models"
	"github.com/shopspring/decimal"
)

// fakeStore: хранилище в памяти с транзакциями: InTx держит общий мьютекс
// (аналог блокировки строки) и откатывает состояние при ошибке.
type fakeStore struct {
	mu       sync.Mutex
	now      time.Time
	nextID   int64
	orders   map[int64]database.OrderDB
	audit    []database.AuditEntryDB
	payments map[int64]database.PaymentDB
	methods  []database.PaymentMethodDB

	// commitErr, если задан, возвращается вместо коммита после успешного fn
	commitErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		now:      time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		orders:   map[int64]database.OrderDB{},
		payments: map[int64]database.PaymentDB{},
	}
}

func (s *fakeStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

// seedOrder кладет заявку напрямую, без записи журнала
func (s *fakeStore) seedOrder(customerID string, status models.OrderStatus, amount int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.id()
	order := database.OrderDB{
		ID:         id,
		CustomerID: customerID,
		Address:    "Seoul, Mapo-gu 12",
		Status:     database.OrderStatusDB{OrderStatus: status},
		Currency:   "KRW",
		CreatedAt:  s.tick(),
	}
	if amount > 0 {
		order.MeasuredWeight = decimal.NullDecimal{Decimal: decimal.NewFromInt(amount).Div(decimal.NewFromInt(1000)), Valid: true}
		order.FinalAmount = &amount
	}
	order.UpdatedAt = order.CreatedAt
	s.orders[id] = order
	return id
}

func (s *fakeStore) seedMethod(ownerID string, methodType models.PaymentMethodType, status models.PaymentMethodStatus) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.id()
	s.methods = append(s.methods, database.PaymentMethodDB{
		ID:         id,
		OwnerID:    ownerID,
		MethodType: string(methodType),
		Status:     string(status),
		CreatedAt:  s.tick(),
	})
	return id
}

func (s *fakeStore) seedFailedPayment(orderID int64, code string) database.PaymentDB {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := s.orders[orderID]
	payment := database.PaymentDB{
		ID:              s.id(),
		OrderID:         orderID,
		Provider:        "MOCK",
		ProviderOrderID: "seed-provider-order",
		Status:          database.PaymentStatusDB{PaymentStatus: models.PaymentFailed},
		Amount:          *order.FinalAmount,
		Currency:        order.Currency,
		FailureCode:     &code,
		CreatedAt:       s.tick(),
	}
	payment.UpdatedAt = payment.CreatedAt
	s.payments[orderID] = payment
	return payment
}

func (s *fakeStore) order(id int64) database.OrderDB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id]
}

func (s *fakeStore) payment(orderID int64) (database.PaymentDB, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[orderID]
	return p, ok
}

func (s *fakeStore) paymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}

func (s *fakeStore) auditFor(orderID int64) []database.AuditEntryDB {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []database.AuditEntryDB
	for _, e := range s.audit {
		if e.OrderID == orderID {
			result = append(result, e)
		}
	}
	return result
}

type fakeSnapshot struct {
	nextID   int64
	orders   map[int64]database.OrderDB
	audit    []database.AuditEntryDB
	payments map[int64]database.PaymentDB
	methods  []database.PaymentMethodDB
}

func (s *fakeStore) snapshot() fakeSnapshot {
	snap := fakeSnapshot{
		nextID:   s.nextID,
		orders:   make(map[int64]database.OrderDB, len(s.orders)),
		audit:    append([]database.AuditEntryDB(nil), s.audit...),
		payments: make(map[int64]database.PaymentDB, len(s.payments)),
		methods:  append([]database.PaymentMethodDB(nil), s.methods...),
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.payments {
		snap.payments[k] = v
	}
	return snap
}

func (s *fakeStore) restore(snap fakeSnapshot) {
	s.nextID = snap.nextID
	s.orders = snap.orders
	s.audit = snap.audit
	s.payments = snap.payments
	s.methods = snap.methods
}

func (s *fakeStore) InTx(ctx context.Context, fn func(tx database.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&fakeTx{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	if s.commitErr != nil {
		s.restore(snap)
		return s.commitErr
	}
	return nil
}

func (s *fakeStore) FindOrder(ctx context.Context, orderID int64) (*database.OrderDB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func (s *fakeStore) FindCustomerOrders(ctx context.Context, customerID string) ([]database.OrderDB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []database.OrderDB
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (s *fakeStore) FindUnpaidMeasuredOrders(ctx context.Context) ([]database.OrderDB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []database.OrderDB
	for id, o := range s.orders {
		if _, paid := s.payments[id]; !paid && o.Status.OrderStatus == models.StatusMeasured {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *fakeStore) FindPaymentByOrder(ctx context.Context, orderID int64) (*database.PaymentDB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[orderID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *fakeStore) FindFailedPayments(ctx context.Context) ([]database.PaymentDB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []database.PaymentDB
	for _, p := range s.payments {
		if p.Status.PaymentStatus == models.PaymentFailed {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.After(result[j].UpdatedAt) })
	return result, nil
}

func (s *fakeStore) FindAuditEntries(ctx context.Context, orderID int64) ([]database.AuditEntryDB, error) {
	return s.auditFor(orderID), nil
}

// fakeTx вызывается только под s.mu, взятым в InTx
type fakeTx struct {
	s *fakeStore
}

func (t *fakeTx) CreateOrder(ctx context.Context, order database.OrderDB) (*database.OrderDB, error) {
	order.ID = t.s.id()
	order.CreatedAt = t.s.tick()
	order.UpdatedAt = order.CreatedAt
	t.s.orders[order.ID] = order
	return &order, nil
}

func (t *fakeTx) LockOrder(ctx context.Context, orderID int64) (*database.OrderDB, error) {
	order, ok := t.s.orders[orderID]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func (t *fakeTx) UpdateOrderStatus(ctx context.Context, orderID int64, status database.OrderStatusDB) error {
	order := t.s.orders[orderID]
	order.Status = status
	order.UpdatedAt = t.s.tick()
	t.s.orders[orderID] = order
	return nil
}

func (t *fakeTx) UpdateOrderDriver(ctx context.Context, orderID int64, driverID string) error {
	order := t.s.orders[orderID]
	order.DriverID = &driverID
	t.s.orders[orderID] = order
	return nil
}

func (t *fakeTx) UpdateOrderMeasurement(ctx context.Context, orderID int64, weight decimal.Decimal, amount int64) error {
	order := t.s.orders[orderID]
	if order.MeasuredWeight.Valid {
		return database.ErrOrderAlreadyMeasured
	}
	order.MeasuredWeight = decimal.NullDecimal{Decimal: weight, Valid: true}
	order.FinalAmount = &amount
	t.s.orders[orderID] = order
	return nil
}

func (t *fakeTx) InsertAuditEntry(ctx context.Context, entry database.AuditEntryDB) error {
	entry.ID = t.s.id()
	entry.CreatedAt = t.s.tick()
	t.s.audit = append(t.s.audit, entry)
	return nil
}

func (t *fakeTx) FindPaymentByOrder(ctx context.Context, orderID int64) (*database.PaymentDB, error) {
	p, ok := t.s.payments[orderID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (t *fakeTx) CreatePayment(ctx context.Context, payment database.PaymentDB) (*database.PaymentDB, error) {
	if _, ok := t.s.payments[payment.OrderID]; ok {
		return nil, database.ErrDuplicatePayment
	}
	payment.ID = t.s.id()
	payment.CreatedAt = t.s.tick()
	payment.UpdatedAt = payment.CreatedAt
	t.s.payments[payment.OrderID] = payment
	return &payment, nil
}

func (t *fakeTx) UpdatePayment(ctx context.Context, payment database.PaymentDB) error {
	stored, ok := t.s.payments[payment.OrderID]
	if !ok || stored.ID != payment.ID {
		return errors.New("платеж не найден")
	}
	payment.CreatedAt = stored.CreatedAt
	payment.UpdatedAt = t.s.tick()
	t.s.payments[payment.OrderID] = payment
	return nil
}

func (t *fakeTx) FindActivePaymentMethod(ctx context.Context, ownerID string, methodType *models.PaymentMethodType) (*database.PaymentMethodDB, error) {
	var found *database.PaymentMethodDB
	for i := range t.s.methods {
		m := t.s.methods[i]
		if m.OwnerID != ownerID || m.Status != string(models.MethodActive) {
			continue
		}
		if methodType != nil && m.MethodType != string(*methodType) {
			continue
		}
		if found == nil || m.CreatedAt.After(found.CreatedAt) || (m.CreatedAt.Equal(found.CreatedAt) && m.ID > found.ID) {
			found = &m
		}
	}
	return found, nil
}

// fakeActors: справочник пользователей по логину
type fakeActors map[string]models.User

func (a fakeActors) GetUser(ctx context.Context, login string) (*models.User, error) {
	user, ok := a[login]
	if !ok {
		return nil, ErrUserIsNotExist
	}
	return &user, nil
}

func defaultActors() fakeActors {
	return fakeActors{
		"customer":         {ID: "customer-id", Login: "customer"},
		"other":            {ID: "other-id", Login: "other"},
		"driver":           {ID: "driver-id", Login: "driver"},
		"operator":         {ID: "operator-id", Login: "operator"},
		models.SystemActor: {ID: "system-id", Login: models.SystemActor},
	}
}

// declineGateway отклоняет каждое списание
type declineGateway struct {
	err error
}

func (g declineGateway) Provider() string { return "MOCK" }

func (g declineGateway) Charge(ctx context.Context, req ChargeRequest) (string, error) {
	return "", g.err
}
