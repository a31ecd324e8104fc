package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/YelzhanWeb/chefmenu/internal/adapter/logger"
	"github.com/YelzhanWeb/chefmenu/internal/domain"
)

const unsavedWarning = "changes were not saved"

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type DishResponse struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Course       domain.Course `json:"course"`
	Price        float64       `json:"price"`
	PriceDisplay string        `json:"price_display"`
	Initials     string        `json:"initials"`
	CreatedAt    int64         `json:"created_at"`
}

func toDishResponse(d domain.Dish) DishResponse {
	return DishResponse{
		ID:           d.ID,
		Name:         d.Name,
		Description:  d.Description,
		Course:       d.Course,
		Price:        d.Price,
		PriceDisplay: domain.FormatPrice(d.Price),
		Initials:     domain.Initials(d.Name),
		CreatedAt:    d.CreatedAt,
	}
}

func toDishResponses(dishes []domain.Dish) []DishResponse {
	out := make([]DishResponse, len(dishes))
	for i, d := range dishes {
		out[i] = toDishResponse(d)
	}
	return out
}

func warning(saved bool) string {
	if saved {
		return ""
	}
	return unsavedWarning
}

func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, message string, statusCode int, validationErrors []ValidationError) {
	respondJSON(w, statusCode, ErrorResponse{
		Error:  message,
		Errors: validationErrors,
	})
}

// respondServiceError maps domain errors onto status codes.
func respondServiceError(w http.ResponseWriter, r *http.Request, log logger.Logger, action string, err error) {
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		out := make([]ValidationError, len(verrs))
		for i, e := range verrs {
			out[i] = ValidationError{Field: e.Field, Message: e.Message}
		}
		respondError(w, "Validation failed", http.StatusBadRequest, out)
	case errors.Is(err, domain.ErrDishNotFound):
		respondError(w, "Dish not found", http.StatusNotFound, nil)
	case errors.Is(err, domain.ErrUnknownCourse):
		respondError(w, "Unknown course", http.StatusBadRequest, nil)
	case errors.Is(err, domain.ErrInvalidArgument):
		respondError(w, err.Error(), http.StatusBadRequest, nil)
	default:
		log.Error(action, "Request failed", RequestID(r.Context()), nil, err)
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
	}
}
