package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/filmhaus/payment-service/internal/domain"
	"github.com/jackc/pgx/v5"
)

type PaymentRepository struct {
	db *DB
}

func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Insert persists a new payment. The unique constraint on order_id is the sole
// arbiter between concurrent creators; a violation surfaces as DUPLICATE_ORDER.
func (r *PaymentRepository) Insert(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, amount_cents, currency, status, created_at, paid_at, refunded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	p := toDBModel(payment)
	_, err := r.db.Pool.Exec(ctx, query,
		p.ID,
		p.OrderID,
		p.AmountCents,
		p.Currency,
		p.Status,
		p.CreatedAt,
		p.PaidAt,
		p.RefundedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewDuplicateOrderError(payment.OrderID)
		}
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

// FindByID retrieves a payment by the processor-assigned intent id.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `
		SELECT id, order_id, amount_cents, currency, status, created_at, paid_at, refunded_at
		FROM payments WHERE id = $1
	`

	row := r.db.Pool.QueryRow(ctx, query, id)
	return scanPayment(row, id)
}

// FindByOrderID retrieves a payment by the caller's business key.
func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	query := `
		SELECT id, order_id, amount_cents, currency, status, created_at, paid_at, refunded_at
		FROM payments WHERE order_id = $1
	`

	row := r.db.Pool.QueryRow(ctx, query, orderID)
	return scanPayment(row, orderID)
}

// MarkPaid transitions created -> paid as a single compare-and-swap. Returns
// false when no row was in created, which covers both duplicate webhook
// deliveries and unknown ids.
func (r *PaymentRepository) MarkPaid(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE payments
		SET status = $1, paid_at = $2
		WHERE id = $3 AND status = $4
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		string(domain.StatusPaid), time.Now(), id, string(domain.StatusCreated),
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment paid: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// MarkRefunded transitions created or paid -> refunded atomically. Returns
// false when the row was already refunded (or missing).
func (r *PaymentRepository) MarkRefunded(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE payments
		SET status = $1, refunded_at = $2
		WHERE id = $3 AND status IN ($4, $5)
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		string(domain.StatusRefunded), time.Now(), id,
		string(domain.StatusCreated), string(domain.StatusPaid),
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment refunded: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// scanPayment converts a database row into a domain Payment.
// Returns a PAYMENT_NOT_FOUND domain error if the row doesn't exist.
func scanPayment(row pgx.Row, key string) (*domain.Payment, error) {
	var m PaymentModel
	err := row.Scan(
		&m.ID, &m.OrderID, &m.AmountCents, &m.Currency, &m.Status,
		&m.CreatedAt, &m.PaidAt, &m.RefundedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewPaymentNotFoundError(key)
		}
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	return toDomainModel(m), nil
}
