package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/filmhaus/payment-service/internal/application"
	"github.com/filmhaus/payment-service/internal/domain"
)

// RefundResult reports whether a refund actually happened. Refunded is false
// when there was nothing to refund: unknown order, already refunded, or a
// concurrent refund finishing first.
type RefundResult struct {
	Payment  *domain.Payment
	Refunded bool
}

type RefundService struct {
	paymentRepo application.PaymentRepository
	processor   application.ProcessorClient
	logger      *slog.Logger
}

func NewRefundService(
	paymentRepo application.PaymentRepository,
	processor application.ProcessorClient,
	logger *slog.Logger,
) *RefundService {
	return &RefundService{
		paymentRepo: paymentRepo,
		processor:   processor,
		logger:      logger,
	}
}

// Refund issues a processor refund for the order's payment and transitions it
// to refunded. Repeat calls for the same order never reach the processor a
// second time.
func (s *RefundService) Refund(ctx context.Context, orderID string) (*RefundResult, error) {
	payment, err := s.paymentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if domain.IsErrorCode(err, domain.ErrCodePaymentNotFound) {
			return &RefundResult{}, nil
		}
		return nil, application.NewInternalError(err)
	}

	if payment.Status == domain.StatusRefunded {
		return &RefundResult{Payment: payment}, nil
	}

	refund, err := s.processor.CreateRefund(ctx, payment.ID)
	if err != nil {
		s.logger.Error("processor refund failed", "payment_id", payment.ID, "order_id", orderID, "error", err)
		return nil, application.NewProcessorError(err)
	}

	ok, err := s.paymentRepo.MarkRefunded(ctx, payment.ID)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	if !ok {
		// Lost a race with another refund; the record is already terminal.
		return &RefundResult{Payment: payment}, nil
	}

	if err := payment.MarkRefunded(time.Now()); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("payment refunded",
		"payment_id", payment.ID,
		"order_id", orderID,
		"refund_id", refund.ID,
	)

	return &RefundResult{Payment: payment, Refunded: true}, nil
}
