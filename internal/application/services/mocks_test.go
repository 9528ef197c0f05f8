package services_test

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/filmhaus/payment-service/internal/application"
	"github.com/filmhaus/payment-service/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// mockPaymentRepository is an in-memory PaymentRepository with per-method
// overrides and call counters.
type mockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	InsertFn        func(ctx context.Context, payment *domain.Payment) error
	FindByIDFn      func(ctx context.Context, id string) (*domain.Payment, error)
	FindByOrderIDFn func(ctx context.Context, orderID string) (*domain.Payment, error)
	MarkPaidFn      func(ctx context.Context, id string) (bool, error)
	MarkRefundedFn  func(ctx context.Context, id string) (bool, error)

	insertCalls       int
	markPaidCalls     int
	markRefundedCalls int
}

func newMockPaymentRepository() *mockPaymentRepository {
	return &mockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *mockPaymentRepository) Insert(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertCalls++
	if m.InsertFn != nil {
		return m.InsertFn(ctx, payment)
	}
	for _, p := range m.payments {
		if p.OrderID == payment.OrderID {
			return domain.NewDuplicateOrderError(payment.OrderID)
		}
	}
	m.payments[payment.ID] = payment
	return nil
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, domain.NewPaymentNotFoundError(id)
}

func (m *mockPaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindByOrderIDFn != nil {
		return m.FindByOrderIDFn(ctx, orderID)
	}
	for _, p := range m.payments {
		if p.OrderID == orderID {
			return p, nil
		}
	}
	return nil, domain.NewPaymentNotFoundError(orderID)
}

func (m *mockPaymentRepository) MarkPaid(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markPaidCalls++
	if m.MarkPaidFn != nil {
		return m.MarkPaidFn(ctx, id)
	}
	p, ok := m.payments[id]
	if !ok || p.Status != domain.StatusCreated {
		return false, nil
	}
	return true, p.MarkPaid(time.Now())
}

func (m *mockPaymentRepository) MarkRefunded(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markRefundedCalls++
	if m.MarkRefundedFn != nil {
		return m.MarkRefundedFn(ctx, id)
	}
	p, ok := m.payments[id]
	if !ok || p.Status == domain.StatusRefunded {
		return false, nil
	}
	return true, p.MarkRefunded(time.Now())
}

// mockProcessorClient counts calls so tests can assert at-most-once effects.
type mockProcessorClient struct {
	mu sync.Mutex

	CreateIntentFn func(ctx context.Context, req application.CreateIntentRequest, idempotencyKey string) (*application.Intent, error)
	CreateRefundFn func(ctx context.Context, paymentIntentID string) (*application.Refund, error)

	createIntentCalls int
	createRefundCalls int
}

func (m *mockProcessorClient) CreateIntent(ctx context.Context, req application.CreateIntentRequest, idempotencyKey string) (*application.Intent, error) {
	m.mu.Lock()
	m.createIntentCalls++
	m.mu.Unlock()
	if m.CreateIntentFn != nil {
		return m.CreateIntentFn(ctx, req, idempotencyKey)
	}
	return &application.Intent{
		ID:           "pi_" + idempotencyKey,
		ClientSecret: "secret_" + idempotencyKey,
		Status:       "requires_payment_method",
	}, nil
}

func (m *mockProcessorClient) CreateRefund(ctx context.Context, paymentIntentID string) (*application.Refund, error) {
	m.mu.Lock()
	m.createRefundCalls++
	m.mu.Unlock()
	if m.CreateRefundFn != nil {
		return m.CreateRefundFn(ctx, paymentIntentID)
	}
	return &application.Refund{ID: "re_1", Status: "succeeded"}, nil
}
