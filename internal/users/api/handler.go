package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"eventhub/internal/logger"
	"eventhub/internal/models"
	"eventhub/internal/users"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	UserService *users.Service
	Logger      *logger.Logger
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateUser: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.UserService.CreateUser(req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateUser: %v", err))
		http.Error(w, "Could not create user: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(user); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateUser: failed to encode response: %v", err))
	}
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	user, err := h.UserService.GetUser(userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetUser: %v", err))
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(user); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetUser: failed to encode response: %v", err))
	}
}

// UpdateUser is keyed by the external auth id so identity-provider
// webhooks can sync profile changes without knowing internal ids.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	authID := chi.URLParam(r, "authId")

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateUser: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.UserService.UpdateUser(authID, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateUser: %v", err))
		http.Error(w, "Could not update user: "+err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(user); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateUser: failed to encode response: %v", err))
	}
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	if err := h.UserService.DeleteUser(userID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteUser: %v", err))
		http.Error(w, "Could not delete user: "+err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
