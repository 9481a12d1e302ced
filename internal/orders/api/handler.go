package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"eventhub/internal/logger"
	"eventhub/internal/orders"
	"eventhub/internal/pagination"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	OrderService *orders.Service
	Logger       *logger.Logger
}

// GetOrdersByEvent lists an event's orders, optionally filtered with
// ?q= buyer-name search.
func (h *Handler) GetOrdersByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	search := r.URL.Query().Get("q")

	items, err := h.OrderService.GetOrdersByEvent(eventID, search)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrdersByEvent: %v", err))
		http.Error(w, "Could not list orders: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(items); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrdersByEvent: failed to encode response: %v", err))
	}
}

func (h *Handler) GetOrdersByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	p := pagination.FromQuery(r.URL.Query(), 3)

	page, err := h.OrderService.GetOrdersByUser(userID, p)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrdersByUser: %v", err))
		http.Error(w, "Could not list orders: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(page); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrdersByUser: failed to encode response: %v", err))
	}
}

// GetTicket serves the order's QR ticket as a PNG.
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	png, err := h.OrderService.TicketQR(orderID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetTicket: %v", err))
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetTicket: failed to write response: %v", err))
	}
}
