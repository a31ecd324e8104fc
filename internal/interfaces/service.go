package interfaces

import (
	"context"

	"github.com/YelzhanWeb/chefmenu/internal/domain"
)

// Confirmer asks the user a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

type ConfirmFunc func(ctx context.Context, message string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, message string) bool {
	return f(ctx, message)
}

// Интерфейсы Сервисов (Business Logic)
type ManagerService interface {
	ListDishes(ctx context.Context) []domain.Dish
	AddDish(ctx context.Context, draft domain.DishDraft) (*AddDishResponse, error)
	RemoveDish(ctx context.Context, id string, confirm Confirmer) (*RemoveDishResponse, error)
}

type CustomerService interface {
	Browse(ctx context.Context, courseFilter, search string) ([]domain.Dish, error)
	Averages(ctx context.Context) map[domain.Course]domain.CourseStats
	Cart(ctx context.Context) *CartResponse
	AddToCart(ctx context.Context, id string, delta int) (*CartResponse, error)
	SetQuantity(ctx context.Context, id string, quantity int) (*CartResponse, error)
	RemoveFromCart(ctx context.Context, id string) (*CartResponse, error)
	ClearCart(ctx context.Context) (*CartResponse, error)
}

// Ответы сервисов. Saved is false when the change stayed in memory only.
type AddDishResponse struct {
	Dish     domain.Dish
	MenuSize int
	Saved    bool
}

type RemoveDishResponse struct {
	Removed   bool
	Confirmed bool
	Saved     bool
}

type CartResponse struct {
	Lines  []domain.CartLine
	Totals domain.CartTotals
	Saved  bool
}
