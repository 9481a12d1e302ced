package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"eventhub/internal/categories"
	"eventhub/internal/logger"
	"eventhub/internal/models"
)

type Handler struct {
	CategoryService *categories.Service
	Logger          *logger.Logger
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateCategory: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Creating an existing name returns the existing row rather than a
	// duplicate error.
	category, err := h.CategoryService.FindOrCreateCategory(req.Name)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateCategory: %v", err))
		http.Error(w, "Could not create category: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(category); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateCategory: failed to encode response: %v", err))
	}
}

func (h *Handler) GetAllCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.CategoryService.GetAllCategories()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetAllCategories: %v", err))
		http.Error(w, "Could not list categories: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(categories); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetAllCategories: failed to encode response: %v", err))
	}
}
