package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/filmhaus/payment-service/internal/application/services"
)

const defaultCurrency = "eur"

type CreatePaymentRequest struct {
	OrderID  string `json:"order_id" validate:"required"`
	Amount   int64  `json:"amount" validate:"required,gt=0"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
}

type CreatePaymentResponse struct {
	ClientSecret string `json:"client_secret"`
}

type ExistingPaymentResponse struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

// HandleCreatePayment creates a payment intent for an order. Repeating the
// request for a known order_id returns the existing record instead.
func (h *PaymentHandler) HandleCreatePayment(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var req CreatePaymentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondWithDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondWithDetail(w, http.StatusBadRequest, "order_id and a positive amount are required")
		return
	}

	if req.Currency == "" {
		req.Currency = defaultCurrency
	}

	result, err := h.createService.Create(r.Context(), services.CreateCommand{
		OrderID:     req.OrderID,
		AmountCents: req.Amount,
		Currency:    req.Currency,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}

	if result.AlreadyExists {
		respondWithJSON(w, http.StatusOK, ExistingPaymentResponse{
			PaymentID: result.Payment.ID,
			Status:    string(result.Payment.Status),
		})
		return
	}

	respondWithJSON(w, http.StatusOK, CreatePaymentResponse{
		ClientSecret: result.ClientSecret,
	})
}
