package application

import (
	"context"

	"github.com/filmhaus/payment-service/internal/domain"
)

// PaymentRepository is the port for persistence.
//
// Insert must fail with a DUPLICATE_ORDER domain error when the order_id is
// already taken; the database uniqueness constraint, not a pre-check, arbitrates
// concurrent creators. MarkPaid and MarkRefunded are atomic compare-and-swap
// updates: they return false when no row was in an eligible state, which is how
// duplicate webhook deliveries and refunds degrade to no-ops.
type PaymentRepository interface {
	Insert(ctx context.Context, payment *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	MarkPaid(ctx context.Context, id string) (bool, error)
	MarkRefunded(ctx context.Context, id string) (bool, error)
}

type CreateIntentRequest struct {
	AmountCents int64
	Currency    string
}

// Intent is the processor's representation of an attempted charge.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

type Refund struct {
	ID     string
	Status string
}

// ProcessorClient is the port for the external payment processor. Creates are
// keyed by the caller's order_id and refunds by the intent id, so retried
// requests deduplicate processor-side as well.
type ProcessorClient interface {
	CreateIntent(ctx context.Context, req CreateIntentRequest, idempotencyKey string) (*Intent, error)
	CreateRefund(ctx context.Context, paymentIntentID string) (*Refund, error)
}

// WebhookEvent is a verified, parsed processor notification.
type WebhookEvent struct {
	ID       string
	Type     string
	IntentID string
}

// WebhookVerifier validates that a raw webhook payload was produced by the
// processor. Verification runs over the exact bytes received, never a
// re-serialized form.
type WebhookVerifier interface {
	VerifyAndParse(payload []byte, signatureHeader string) (*WebhookEvent, error)
}

// TokenVerifier is the port for the access guard on mutating endpoints.
type TokenVerifier interface {
	Verify(token string) error
}
