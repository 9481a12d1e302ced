package models

// CheckoutRequest asks for a hosted payment session for one event.
type CheckoutRequest struct {
	EventID string `json:"event_id"`
}

// CheckoutResponse carries the hosted session URL the client redirects to.
type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}
