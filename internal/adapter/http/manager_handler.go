package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/YelzhanWeb/chefmenu/internal/adapter/logger"
	"github.com/YelzhanWeb/chefmenu/internal/domain"
	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

type ManagerHandler struct {
	service interfaces.ManagerService
	logger  logger.Logger
}

func NewManagerHandler(service interfaces.ManagerService, logger logger.Logger) *ManagerHandler {
	return &ManagerHandler{
		service: service,
		logger:  logger,
	}
}

type CreateDishRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Course      string `json:"course"`
	// Price is taken as typed into the form, e.g. "12.50".
	Price json.RawMessage `json:"price"`
}

type DishListResponse struct {
	Dishes []DishResponse `json:"dishes"`
	Count  int            `json:"count"`
}

type CreateDishResponse struct {
	Dish     DishResponse `json:"dish"`
	MenuSize int          `json:"menu_size"`
	Warning  string       `json:"warning,omitempty"`
}

type DeleteDishResponse struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
	Warning string `json:"warning,omitempty"`
}

func (h *ManagerHandler) ListDishes(w http.ResponseWriter, r *http.Request) {
	dishes := h.service.ListDishes(r.Context())
	respondJSON(w, http.StatusOK, DishListResponse{
		Dishes: toDishResponses(dishes),
		Count:  len(dishes),
	})
}

func (h *ManagerHandler) CreateDish(w http.ResponseWriter, r *http.Request) {
	var req CreateDishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	draft := domain.DishDraft{
		Name:        req.Name,
		Description: req.Description,
		Course:      req.Course,
		Price:       priceText(req.Price),
	}

	result, err := h.service.AddDish(r.Context(), draft)
	if err != nil {
		h.logger.Debug("dish_rejected", "Dish creation rejected", RequestID(r.Context()), map[string]interface{}{
			"error": err.Error(),
		})
		respondServiceError(w, r, h.logger, "dish_creation_failed", err)
		return
	}

	respondJSON(w, http.StatusCreated, CreateDishResponse{
		Dish:     toDishResponse(result.Dish),
		MenuSize: result.MenuSize,
		Warning:  warning(result.Saved),
	})
}

// DeleteDish removes a dish only when the request carries confirm=true.
func (h *ManagerHandler) DeleteDish(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	var question string
	confirm := interfaces.ConfirmFunc(func(ctx context.Context, message string) bool {
		question = message
		return confirmed
	})

	result, err := h.service.RemoveDish(r.Context(), id, confirm)
	if err != nil {
		respondServiceError(w, r, h.logger, "dish_removal_failed", err)
		return
	}
	if !result.Confirmed {
		respondError(w, fmt.Sprintf("%s Repeat the request with confirm=true", question), http.StatusConflict, nil)
		return
	}

	respondJSON(w, http.StatusOK, DeleteDishResponse{
		ID:      id,
		Removed: result.Removed,
		Warning: warning(result.Saved),
	})
}

// priceText accepts the price as a JSON string or number.
func priceText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}
