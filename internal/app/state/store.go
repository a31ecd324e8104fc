package state

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/YelzhanWeb/chefmenu/internal/adapter/logger"
	"github.com/YelzhanWeb/chefmenu/internal/domain"
	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

// Snapshot is a copy of the application state; changing it does not
// touch the store.
type Snapshot struct {
	Menu []domain.Dish
	Cart domain.Cart
}

// Store owns the menu and the cart. All mutations go through Update.
type Store struct {
	mu      sync.Mutex
	menu    []domain.Dish
	cart    domain.Cart
	gateway interfaces.MenuGateway
	logger  logger.Logger
}

// Load builds the store from whatever the gateway has persisted.
func Load(ctx context.Context, gateway interfaces.MenuGateway, logger logger.Logger) *Store {
	s := &Store{
		menu:    gateway.LoadMenu(ctx),
		cart:    gateway.LoadCart(ctx),
		gateway: gateway,
		logger:  logger,
	}
	if s.menu == nil {
		s.menu = []domain.Dish{}
	}
	if s.cart == nil {
		s.cart = domain.Cart{}
	}

	logger.Info("state_loaded", "Menu and cart loaded", "startup", map[string]interface{}{
		"dishes":       len(s.menu),
		"cart_entries": len(s.cart),
	})
	return s
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Menu: slices.Clone(s.menu),
		Cart: maps.Clone(s.cart),
	}
}

// Update is Commit without a follow-up.
func (s *Store) Update(ctx context.Context, fn func(Snapshot) (Snapshot, error)) (Snapshot, bool, error) {
	return s.Commit(ctx, fn, nil)
}

// Commit applies fn to the current state and swaps the result in. Each
// collection that changed is then persisted as a whole; a failed save is
// logged and reported through saved=false but the in-memory state is kept.
// An error from fn leaves the state untouched. after, when set, runs once
// the change is persisted and before the next mutation can start.
func (s *Store) Commit(ctx context.Context, fn func(Snapshot) (Snapshot, error), after func(next Snapshot, saved bool)) (next Snapshot, saved bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err = fn(s.snapshotLocked())
	if err != nil {
		return s.snapshotLocked(), true, err
	}
	if next.Menu == nil {
		next.Menu = []domain.Dish{}
	}
	if next.Cart == nil {
		next.Cart = domain.Cart{}
	}

	menuChanged := !slices.Equal(s.menu, next.Menu)
	cartChanged := !maps.Equal(s.cart, next.Cart)
	s.menu = slices.Clone(next.Menu)
	s.cart = maps.Clone(next.Cart)

	// the request may go away; the write should not
	ctx = context.WithoutCancel(ctx)

	saved = true
	if menuChanged {
		if err := s.gateway.SaveMenu(ctx, s.menu); err != nil {
			s.logger.Error("menu_save_failed", "Failed to save menu, change kept in memory", "", map[string]interface{}{
				"dishes": len(s.menu),
			}, err)
			saved = false
		}
	}
	if cartChanged {
		if err := s.gateway.SaveCart(ctx, s.cart); err != nil {
			s.logger.Error("cart_save_failed", "Failed to save cart, change kept in memory", "", map[string]interface{}{
				"cart_entries": len(s.cart),
			}, err)
			saved = false
		}
	}

	next = s.snapshotLocked()
	if after != nil {
		after(next, saved)
	}
	return next, saved, nil
}
