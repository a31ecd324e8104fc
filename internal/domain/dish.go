package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Dish represents a single menu entry
type Dish struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Course      Course  `json:"course"`
	Price       float64 `json:"price"`
	CreatedAt   int64   `json:"createdAt"` // unix milliseconds
}

// DishDraft is the manager's unvalidated form input.
type DishDraft struct {
	Name        string
	Description string
	Course      string
	Price       string
}

// NewDish validates the draft and builds a dish with the given id,
// stamped with now.
func NewDish(draft DishDraft, id string, now time.Time) (Dish, error) {
	var errs ValidationErrors

	name := strings.TrimSpace(draft.Name)
	if name == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "enter dish name"})
	}

	course, err := ParseCourse(draft.Course)
	if err != nil {
		errs = append(errs, ValidationError{Field: "course", Message: "choose a course"})
	}

	price, ok := ParsePrice(draft.Price)
	if !ok {
		errs = append(errs, ValidationError{Field: "price", Message: "enter valid price"})
	}

	if len(errs) > 0 {
		return Dish{}, errs
	}

	return Dish{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(draft.Description),
		Course:      course,
		Price:       price,
		CreatedAt:   now.UnixMilli(),
	}, nil
}

// ParsePrice parses the whole trimmed text as a finite, non-negative number.
func ParsePrice(s string) (float64, bool) {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0, false
	}
	if p == 0 {
		p = 0 // drop the sign of -0
	}
	return p, true
}

// Validate checks a dish read back from storage.
func (d Dish) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(d.ID) == "" {
		errs = append(errs, ValidationError{Field: "id", Message: "missing id"})
	}
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "enter dish name"})
	}
	if !d.Course.Valid() {
		errs = append(errs, ValidationError{Field: "course", Message: "choose a course"})
	}
	if math.IsNaN(d.Price) || math.IsInf(d.Price, 0) || d.Price < 0 {
		errs = append(errs, ValidationError{Field: "price", Message: "enter valid price"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AddDish returns a new menu with dish appended.
func AddDish(menu []Dish, dish Dish) []Dish {
	next := make([]Dish, 0, len(menu)+1)
	next = append(next, menu...)
	return append(next, dish)
}

// RemoveDish returns the menu without the dish with the given id and
// whether anything was removed.
func RemoveDish(menu []Dish, id string) ([]Dish, bool) {
	next := make([]Dish, 0, len(menu))
	removed := false
	for _, d := range menu {
		if d.ID == id {
			removed = true
			continue
		}
		next = append(next, d)
	}
	return next, removed
}

func FindDish(menu []Dish, id string) (Dish, bool) {
	for _, d := range menu {
		if d.ID == id {
			return d, true
		}
	}
	return Dish{}, false
}
