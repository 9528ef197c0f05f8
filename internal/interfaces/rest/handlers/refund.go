package handlers

import (
	"net/http"
)

type RefundResponse struct {
	Status string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// HandleRefund refunds the payment behind an order. Unknown orders and
// already-refunded payments get a no-op acknowledgment, not an error.
func (h *PaymentHandler) HandleRefund(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("order_id")
	if orderID == "" {
		respondWithDetail(w, http.StatusBadRequest, "order_id is required")
		return
	}

	result, err := h.refundService.Refund(r.Context(), orderID)
	if err != nil {
		respondWithError(w, err)
		return
	}

	if !result.Refunded {
		respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Nothing to refund"})
		return
	}

	respondWithJSON(w, http.StatusOK, RefundResponse{Status: "refunded"})
}
