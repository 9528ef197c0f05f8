package postgres

import (
	"time"
)

// PaymentModel mirrors the payments table row.
type PaymentModel struct {
	ID          string
	OrderID     string
	AmountCents int64
	Currency    string
	Status      string
	CreatedAt   time.Time
	PaidAt      *time.Time
	RefundedAt  *time.Time
}
