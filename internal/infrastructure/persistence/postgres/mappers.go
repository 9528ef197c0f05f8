package postgres

import (
	"github.com/filmhaus/payment-service/internal/domain"
)

// toDomainModel: maps db model to domain entity
func toDomainModel(m PaymentModel) *domain.Payment {
	return domain.Reconstitute(
		m.ID,
		m.OrderID,
		m.AmountCents,
		m.Currency,
		domain.PaymentStatus(m.Status),
		m.CreatedAt,
		m.PaidAt,
		m.RefundedAt,
	)
}

// toDBModel: maps domain entity to db model
func toDBModel(p *domain.Payment) *PaymentModel {
	return &PaymentModel{
		ID:          p.ID,
		OrderID:     p.OrderID,
		AmountCents: p.AmountCents,
		Currency:    p.Currency,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		PaidAt:      p.PaidAt,
		RefundedAt:  p.RefundedAt,
	}
}
