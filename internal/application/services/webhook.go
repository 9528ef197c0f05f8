package services

import (
	"context"
	"log/slog"

	"github.com/filmhaus/payment-service/internal/application"
	"github.com/filmhaus/payment-service/internal/domain"
)

const eventPaymentIntentSucceeded = "payment_intent.succeeded"

type WebhookService struct {
	paymentRepo application.PaymentRepository
	logger      *slog.Logger
}

func NewWebhookService(paymentRepo application.PaymentRepository, logger *slog.Logger) *WebhookService {
	return &WebhookService{
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// HandleEvent applies a verified processor event. Deliveries are at-least-once
// and unordered, so the handler is idempotent per event: duplicate or unknown
// events are acknowledged without touching state, and status never regresses.
func (s *WebhookService) HandleEvent(ctx context.Context, event *application.WebhookEvent) error {
	if event.Type != eventPaymentIntentSucceeded {
		s.logger.Debug("ignoring webhook event", "event_id", event.ID, "type", event.Type)
		return nil
	}

	payment, err := s.paymentRepo.FindByID(ctx, event.IntentID)
	if err != nil {
		if domain.IsErrorCode(err, domain.ErrCodePaymentNotFound) {
			s.logger.Warn("webhook for unknown payment", "event_id", event.ID, "intent_id", event.IntentID)
			return nil
		}
		return application.NewInternalError(err)
	}

	if payment.Status != domain.StatusCreated {
		s.logger.Debug("duplicate webhook delivery",
			"event_id", event.ID,
			"payment_id", payment.ID,
			"status", payment.Status,
		)
		return nil
	}

	ok, err := s.paymentRepo.MarkPaid(ctx, payment.ID)
	if err != nil {
		return application.NewInternalError(err)
	}
	if ok {
		s.logger.Info("payment confirmed", "payment_id", payment.ID, "order_id", payment.OrderID)
	}
	return nil
}
