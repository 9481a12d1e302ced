package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"eventhub/internal/auth"
	"eventhub/internal/checkout"
	"eventhub/internal/logger"
	"eventhub/internal/models"
)

type Handler struct {
	CheckoutService *checkout.Service
	Logger          *logger.Logger
}

// Checkout creates a hosted payment session and returns its URL for
// redirect.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	buyerAuthID := auth.SubjectFromRequest(r)
	if buyerAuthID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Checkout: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.EventID == "" {
		http.Error(w, "event_id is required", http.StatusBadRequest)
		return
	}

	resp, err := h.CheckoutService.CreateSession(req.EventID, buyerAuthID)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEventNotFound), errors.Is(err, checkout.ErrBuyerNotFound):
			h.Logger.Warn("API", fmt.Sprintf("Checkout: %v", err))
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, checkout.ErrAlreadyPurchased):
			h.Logger.Warn("API", fmt.Sprintf("Checkout: %v", err))
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			h.Logger.Error("API", fmt.Sprintf("Checkout: %v", err))
			http.Error(w, "Could not create checkout session: "+err.Error(), http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Checkout: failed to encode response: %v", err))
	}
}

// StripeWebhook receives payment confirmations. Stripe retries on
// non-2xx, so the status code comes from the classified error.
func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	if err := h.CheckoutService.HandleWebhook(r); err != nil {
		var webhookErr *checkout.WebhookError
		if errors.As(err, &webhookErr) {
			http.Error(w, webhookErr.PublicError, webhookErr.StatusCode)
			return
		}
		http.Error(w, "Webhook processing error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
