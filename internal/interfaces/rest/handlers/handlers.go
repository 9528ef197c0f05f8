package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/filmhaus/payment-service/internal/application"
	"github.com/filmhaus/payment-service/internal/application/services"
	"github.com/go-playground/validator"
)

type CreateService interface {
	Create(ctx context.Context, cmd services.CreateCommand) (*services.CreateResult, error)
}

type RefundService interface {
	Refund(ctx context.Context, orderID string) (*services.RefundResult, error)
}

type WebhookService interface {
	HandleEvent(ctx context.Context, event *application.WebhookEvent) error
}

type PaymentHandler struct {
	createService  CreateService
	refundService  RefundService
	webhookService WebhookService
	verifier       application.WebhookVerifier
	validate       *validator.Validate
	logger         *slog.Logger
}

func NewPaymentHandler(
	createService CreateService,
	refundService RefundService,
	webhookService WebhookService,
	verifier application.WebhookVerifier,
	logger *slog.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		createService:  createService,
		refundService:  refundService,
		webhookService: webhookService,
		verifier:       verifier,
		validate:       validator.New(),
		logger:         logger,
	}
}

// RegisterRoutes wires the three endpoints. The webhook route skips the bearer
// guard: its trust comes from the payload signature.
func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.Handle("POST /payments", requireAuth(http.HandlerFunc(h.HandleCreatePayment)))
	mux.Handle("POST /refund", requireAuth(http.HandlerFunc(h.HandleRefund)))
	mux.HandleFunc("POST /webhook", h.HandleWebhook)
}
