package services

import (
	"context"
	"log/slog"

	"github.com/filmhaus/payment-service/internal/application"
	"github.com/filmhaus/payment-service/internal/domain"
)

type CreateCommand struct {
	OrderID     string
	AmountCents int64
	Currency    string
}

// CreateResult carries either the client secret of a fresh intent or the
// existing record when the order_id was seen before.
type CreateResult struct {
	Payment       *domain.Payment
	ClientSecret  string
	AlreadyExists bool
}

type CreateService struct {
	paymentRepo application.PaymentRepository
	processor   application.ProcessorClient
	logger      *slog.Logger
}

func NewCreateService(
	paymentRepo application.PaymentRepository,
	processor application.ProcessorClient,
	logger *slog.Logger,
) *CreateService {
	return &CreateService{
		paymentRepo: paymentRepo,
		processor:   processor,
		logger:      logger,
	}
}

// Create makes payment creation idempotent on order_id. A known order returns
// the stored record without touching the processor, even if amount or currency
// differ; the stored record is authoritative. A processor failure aborts before
// any store write, so no partial record is ever left behind.
func (s *CreateService) Create(ctx context.Context, cmd CreateCommand) (*CreateResult, error) {
	existing, err := s.paymentRepo.FindByOrderID(ctx, cmd.OrderID)
	if err == nil {
		return &CreateResult{Payment: existing, AlreadyExists: true}, nil
	}
	if !domain.IsErrorCode(err, domain.ErrCodePaymentNotFound) {
		return nil, application.NewInternalError(err)
	}

	money, err := domain.NewMoney(cmd.AmountCents, cmd.Currency)
	if err != nil {
		return nil, application.NewInvalidInputError(err)
	}

	intent, err := s.processor.CreateIntent(ctx, application.CreateIntentRequest{
		AmountCents: money.Amount,
		Currency:    money.Currency,
	}, cmd.OrderID)
	if err != nil {
		s.logger.Error("processor intent creation failed", "order_id", cmd.OrderID, "error", err)
		return nil, application.NewProcessorError(err)
	}

	payment, err := domain.NewPayment(intent.ID, cmd.OrderID, money)
	if err != nil {
		return nil, application.NewInvalidInputError(err)
	}

	if err := s.paymentRepo.Insert(ctx, payment); err != nil {
		if domain.IsErrorCode(err, domain.ErrCodeDuplicateOrder) {
			// A concurrent creator won the race; its record is the real one.
			winner, findErr := s.paymentRepo.FindByOrderID(ctx, cmd.OrderID)
			if findErr != nil {
				return nil, application.NewInternalError(findErr)
			}
			return &CreateResult{Payment: winner, AlreadyExists: true}, nil
		}
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("payment created",
		"payment_id", payment.ID,
		"order_id", payment.OrderID,
		"amount_cents", payment.AmountCents,
		"currency", payment.Currency,
	)

	return &CreateResult{Payment: payment, ClientSecret: intent.ClientSecret}, nil
}
