package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/filmhaus/payment-service/internal/infrastructure/stripe"
)

type WebhookAck struct {
	OK bool `json:"ok"`
}

// HandleWebhook verifies the processor signature over the raw body before
// anything else touches state. Events the service does not know or care about
// are still acknowledged; only verification failures are rejected, so the
// sender does not retry forever.
func (h *PaymentHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithDetail(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	event, err := h.verifier.VerifyAndParse(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, stripe.ErrInvalidPayload):
			respondWithDetail(w, http.StatusBadRequest, "Invalid payload")
		case errors.Is(err, stripe.ErrInvalidSignature):
			respondWithDetail(w, http.StatusBadRequest, "Invalid signature")
		default:
			respondWithError(w, err)
		}
		return
	}

	if err := h.webhookService.HandleEvent(r.Context(), event); err != nil {
		h.logger.Error("webhook handling failed", "event_id", event.ID, "error", err)
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, WebhookAck{OK: true})
}
