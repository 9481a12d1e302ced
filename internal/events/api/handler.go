package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"eventhub/internal/auth"
	"eventhub/internal/events"
	"eventhub/internal/logger"
	"eventhub/internal/models"
	"eventhub/internal/pagination"

	"github.com/go-chi/chi/v5"
)

// OrganizerResolver maps the token subject to the stored user row.
// Events are keyed by internal user ids, not by the identity provider's.
type OrganizerResolver interface {
	GetUserByAuthID(authID string) (*models.User, error)
}

type Handler struct {
	EventService *events.Service
	Users        OrganizerResolver
	Logger       *logger.Logger
}

func (h *Handler) organizerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	authID := auth.SubjectFromRequest(r)
	if authID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}

	organizer, err := h.Users.GetUserByAuthID(authID)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("No user record for auth subject %s: %v", authID, err))
		http.Error(w, "Unknown user", http.StatusForbidden)
		return "", false
	}
	return organizer.ID, true
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := h.organizerID(w, r)
	if !ok {
		return
	}

	var req models.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	event, err := h.EventService.CreateEvent(organizerID, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: %v", err))
		http.Error(w, "Could not create event: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(event); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: failed to encode response: %v", err))
	}
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	event, err := h.EventService.GetEvent(eventID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetEvent: %v", err))
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(event); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetEvent: failed to encode response: %v", err))
	}
}

// GetAllEvents supports ?q= title search, ?category= name filter and
// page/limit pagination.
func (h *Handler) GetAllEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := pagination.FromQuery(q, pagination.DefaultLimit)

	page, err := h.EventService.GetAllEvents(models.EventQuery{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Page:     p.Page,
		Limit:    p.Limit,
	})
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetAllEvents: %v", err))
		http.Error(w, "Could not list events: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(page); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetAllEvents: failed to encode response: %v", err))
	}
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := h.organizerID(w, r)
	if !ok {
		return
	}
	eventID := chi.URLParam(r, "eventId")

	var req models.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateEvent: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	event, err := h.EventService.UpdateEvent(organizerID, eventID, req)
	if err != nil {
		if errors.Is(err, events.ErrNotOwner) {
			h.Logger.Warn("API", fmt.Sprintf("UpdateEvent: %s rejected for organizer %s", eventID, organizerID))
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("UpdateEvent: %v", err))
		http.Error(w, "Could not update event: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(event); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateEvent: failed to encode response: %v", err))
	}
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := h.organizerID(w, r)
	if !ok {
		return
	}
	eventID := chi.URLParam(r, "eventId")

	if err := h.EventService.DeleteEvent(organizerID, eventID); err != nil {
		if errors.Is(err, events.ErrNotOwner) {
			h.Logger.Warn("API", fmt.Sprintf("DeleteEvent: %s rejected for organizer %s", eventID, organizerID))
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("DeleteEvent: %v", err))
		http.Error(w, "Could not delete event: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetEventsByOrganizer(w http.ResponseWriter, r *http.Request) {
	organizerID := chi.URLParam(r, "userId")
	p := pagination.FromQuery(r.URL.Query(), pagination.DefaultLimit)

	page, err := h.EventService.GetEventsByOrganizer(organizerID, p)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetEventsByOrganizer: %v", err))
		http.Error(w, "Could not list events: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(page); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetEventsByOrganizer: failed to encode response: %v", err))
	}
}

func (h *Handler) GetRelatedEvents(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	p := pagination.FromQuery(r.URL.Query(), 3)

	page, err := h.EventService.GetRelatedEvents(eventID, p)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetRelatedEvents: %v", err))
		http.Error(w, "Could not list related events: "+err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(page); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetRelatedEvents: failed to encode response: %v", err))
	}
}
