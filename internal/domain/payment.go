// Package domain encodes the payment entity and its lifecycle rules.
package domain

import (
	"slices"
	"time"
)

// PaymentStatus represents the current state of a payment in its lifecycle
type PaymentStatus string

const (
	StatusCreated  PaymentStatus = "created"
	StatusPaid     PaymentStatus = "paid"
	StatusRefunded PaymentStatus = "refunded"
)

// Payment tracks one processor payment intent. ID is the processor-assigned
// intent identifier; OrderID is the caller's business key and doubles as the
// idempotency key for creation.
type Payment struct {
	ID          string
	OrderID     string
	AmountCents int64
	Currency    string
	Status      PaymentStatus

	CreatedAt  time.Time
	PaidAt     *time.Time
	RefundedAt *time.Time
}

func NewPayment(id string, orderID string, amount Money) (*Payment, error) {
	if id == "" {
		return nil, NewMissingRequiredFieldError("payment ID")
	}
	if orderID == "" {
		return nil, NewMissingRequiredFieldError("order ID")
	}

	return &Payment{
		ID:          id,
		OrderID:     orderID,
		AmountCents: amount.Amount,
		Currency:    amount.Currency,
		Status:      StatusCreated,
		CreatedAt:   time.Now(),
	}, nil
}

// MarkPaid records processor confirmation of the intent.
func (p *Payment) MarkPaid(paidAt time.Time) error {
	if err := p.transition(StatusPaid); err != nil {
		return err
	}
	p.PaidAt = &paidAt
	return nil
}

// MarkRefunded transitions the payment to its terminal state. Allowed from
// both created and paid: an operator may refund before the confirmation
// webhook is ever observed.
func (p *Payment) MarkRefunded(refundedAt time.Time) error {
	if err := p.transition(StatusRefunded); err != nil {
		return err
	}
	p.RefundedAt = &refundedAt
	return nil
}

func (p *Payment) transition(target PaymentStatus) error {
	if err := p.canTransitionTo(target); err != nil {
		return err
	}
	p.Status = target
	return nil
}

// Status only ever moves forward; refunded is terminal.
func (p *Payment) canTransitionTo(target PaymentStatus) error {
	switch p.Status {
	case StatusCreated:
		return p.allow(target, StatusPaid, StatusRefunded)
	case StatusPaid:
		return p.allow(target, StatusRefunded)
	}
	return NewInvalidTransitionError(p.Status, target)
}

// Helper to check allowed state transitions
func (p *Payment) allow(target PaymentStatus, allowed ...PaymentStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidTransitionError(p.Status, target)
}

func (p *Payment) IsTerminal() bool {
	return p.Status == StatusRefunded
}

// Reconstitute - Special constructor for loading from DB
func Reconstitute(
	id string, orderID string,
	amountCents int64, currency string,
	status PaymentStatus,
	createdAt time.Time,
	paidAt, refundedAt *time.Time,
) *Payment {
	return &Payment{
		ID:          id,
		OrderID:     orderID,
		AmountCents: amountCents,
		Currency:    currency,
		Status:      status,
		CreatedAt:   createdAt,
		PaidAt:      paidAt,
		RefundedAt:  refundedAt,
	}
}
