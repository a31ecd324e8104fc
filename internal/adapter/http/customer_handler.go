package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YelzhanWeb/chefmenu/internal/adapter/logger"
	"github.com/YelzhanWeb/chefmenu/internal/domain"
	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

type CustomerHandler struct {
	service interfaces.CustomerService
	logger  logger.Logger
}

func NewCustomerHandler(service interfaces.CustomerService, logger logger.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		logger:  logger,
	}
}

type CourseAverageResponse struct {
	Course       domain.Course `json:"course"`
	Count        int           `json:"count"`
	AveragePrice float64       `json:"average_price"`
	Display      string        `json:"display"`
}

type AveragesResponse struct {
	Averages []CourseAverageResponse `json:"averages"`
}

type CartLineResponse struct {
	Dish             DishResponse `json:"dish"`
	Quantity         int          `json:"quantity"`
	LineTotal        float64      `json:"line_total"`
	LineTotalDisplay string       `json:"line_total_display"`
}

type CartResponse struct {
	Lines        []CartLineResponse `json:"lines"`
	TotalItems   int                `json:"total_items"`
	TotalPrice   float64            `json:"total_price"`
	TotalDisplay string             `json:"total_display"`
	Warning      string             `json:"warning,omitempty"`
}

type AdjustCartRequest struct {
	Delta *float64 `json:"delta"`
}

type SetQuantityRequest struct {
	Quantity *float64 `json:"quantity"`
}

func (h *CustomerHandler) ListDishes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dishes, err := h.service.Browse(r.Context(), q.Get("course"), q.Get("q"))
	if err != nil {
		respondServiceError(w, r, h.logger, "browse_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, DishListResponse{
		Dishes: toDishResponses(dishes),
		Count:  len(dishes),
	})
}

func (h *CustomerHandler) Averages(w http.ResponseWriter, r *http.Request) {
	stats := h.service.Averages(r.Context())

	resp := AveragesResponse{Averages: make([]CourseAverageResponse, 0, len(domain.Courses))}
	for _, c := range domain.Courses {
		s := stats[c]
		resp.Averages = append(resp.Averages, CourseAverageResponse{
			Course:       c,
			Count:        s.Count,
			AveragePrice: s.AveragePrice,
			Display:      domain.FormatAverage(s),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CustomerHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toCartResponse(h.service.Cart(r.Context())))
}

// AdjustCart adds delta (1 when omitted) to the dish quantity.
func (h *CustomerHandler) AdjustCart(w http.ResponseWriter, r *http.Request) {
	var req AdjustCartRequest
	if err := decodeOptional(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	delta := 1
	if req.Delta != nil {
		d, err := domain.Quantity(*req.Delta)
		if err != nil {
			respondError(w, quantityMessage("delta", err), http.StatusBadRequest, nil)
			return
		}
		delta = d
	}

	result, err := h.service.AddToCart(r.Context(), chi.URLParam(r, "id"), delta)
	h.respondCart(w, r, "cart_adjust_failed", result, err)
}

func (h *CustomerHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if req.Quantity == nil {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
			{Field: "quantity", Message: "quantity is required"},
		})
		return
	}

	qty, err := domain.Quantity(*req.Quantity)
	if err != nil {
		respondError(w, quantityMessage("quantity", err), http.StatusBadRequest, nil)
		return
	}

	result, err := h.service.SetQuantity(r.Context(), chi.URLParam(r, "id"), qty)
	h.respondCart(w, r, "cart_set_failed", result, err)
}

func (h *CustomerHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.RemoveFromCart(r.Context(), chi.URLParam(r, "id"))
	h.respondCart(w, r, "cart_remove_failed", result, err)
}

func (h *CustomerHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ClearCart(r.Context())
	h.respondCart(w, r, "cart_clear_failed", result, err)
}

func (h *CustomerHandler) respondCart(w http.ResponseWriter, r *http.Request, action string, result *interfaces.CartResponse, err error) {
	if err != nil {
		respondServiceError(w, r, h.logger, action, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(result))
}

func toCartResponse(cart *interfaces.CartResponse) CartResponse {
	lines := make([]CartLineResponse, len(cart.Lines))
	for i, l := range cart.Lines {
		lines[i] = CartLineResponse{
			Dish:             toDishResponse(l.Dish),
			Quantity:         l.Quantity,
			LineTotal:        l.LineTotal,
			LineTotalDisplay: domain.FormatPrice(l.LineTotal),
		}
	}
	return CartResponse{
		Lines:        lines,
		TotalItems:   cart.Totals.TotalItems,
		TotalPrice:   cart.Totals.TotalPrice,
		TotalDisplay: domain.FormatPrice(cart.Totals.TotalPrice),
		Warning:      warning(cart.Saved),
	}
}

func quantityMessage(field string, err error) string {
	if errors.Is(err, domain.ErrQuantityTooLarge) {
		return fmt.Sprintf("%s must be between -%d and %d", field, domain.MaxQuantity, domain.MaxQuantity)
	}
	return field + " must be an integer"
}

// decodeOptional decodes a JSON body, treating an empty body as {}.
func decodeOptional(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
