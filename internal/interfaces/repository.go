package interfaces

import (
	"context"
	"errors"

	"github.com/YelzhanWeb/chefmenu/internal/domain"
)

// ErrNotFound is returned by a KeyValueStore for a key that was never written.
var ErrNotFound = errors.New("record not found")

// Интерфейс хранилища (Adapter/Postgres, Adapter/Redis, Adapter/Memory)
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// MenuGateway persists the menu and the cart as two independent records.
// Loads never fail: missing or unreadable records come back empty.
type MenuGateway interface {
	LoadMenu(ctx context.Context) []domain.Dish
	SaveMenu(ctx context.Context, menu []domain.Dish) error
	LoadCart(ctx context.Context) domain.Cart
	SaveCart(ctx context.Context, cart domain.Cart) error
}
