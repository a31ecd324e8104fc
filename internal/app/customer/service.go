package customer

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/chefmenu/internal/adapter/logger"
	"github.com/YelzhanWeb/chefmenu/internal/app/state"
	"github.com/YelzhanWeb/chefmenu/internal/domain"
	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

type Service struct {
	store     *state.Store
	publisher interfaces.EventPublisher
	logger    logger.Logger
	now       func() time.Time
}

func NewService(store *state.Store, publisher interfaces.EventPublisher, logger logger.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) Browse(ctx context.Context, courseFilter, search string) ([]domain.Dish, error) {
	filter, err := domain.ParseFilter(courseFilter)
	if err != nil {
		return nil, err
	}
	return domain.VisibleDishes(s.store.Snapshot().Menu, filter, search), nil
}

func (s *Service) Averages(ctx context.Context) map[domain.Course]domain.CourseStats {
	return domain.CourseAverages(s.store.Snapshot().Menu)
}

func (s *Service) Cart(ctx context.Context) *interfaces.CartResponse {
	return cartResponse(s.store.Snapshot(), true)
}

// AddToCart moves the quantity by delta, floored at zero.
func (s *Service) AddToCart(ctx context.Context, id string, delta int) (*interfaces.CartResponse, error) {
	return s.updateCart(ctx, id, func(cart domain.Cart) (domain.Cart, bool) {
		return domain.AdjustQuantity(cart, id, delta), delta > 0
	})
}

func (s *Service) SetQuantity(ctx context.Context, id string, quantity int) (*interfaces.CartResponse, error) {
	return s.updateCart(ctx, id, func(cart domain.Cart) (domain.Cart, bool) {
		return domain.SetQuantity(cart, id, quantity), quantity > cart[id]
	})
}

func (s *Service) RemoveFromCart(ctx context.Context, id string) (*interfaces.CartResponse, error) {
	return s.updateCart(ctx, id, func(cart domain.Cart) (domain.Cart, bool) {
		return domain.RemoveFromCart(cart, id), false
	})
}

func (s *Service) ClearCart(ctx context.Context) (*interfaces.CartResponse, error) {
	var before int
	snap, saved, err := s.store.Commit(ctx, func(snap state.Snapshot) (state.Snapshot, error) {
		before = len(snap.Cart)
		snap.Cart = domain.ClearCart(snap.Cart)
		return snap, nil
	}, func(snap state.Snapshot, saved bool) {
		if before == 0 {
			return
		}
		s.logger.Info("cart_cleared", "Cart cleared", "", map[string]interface{}{
			"entries": before,
			"saved":   saved,
		})
		s.publish(ctx, interfaces.MenuEvent{
			Type:     interfaces.EventCartCleared,
			MenuSize: len(snap.Menu),
		})
	})
	if err != nil {
		return nil, err
	}

	return cartResponse(snap, saved), nil
}

// updateCart applies change to the cart. change also reports whether it
// grows the entry, which is only allowed for dishes still on the menu.
func (s *Service) updateCart(ctx context.Context, id string, change func(domain.Cart) (domain.Cart, bool)) (*interfaces.CartResponse, error) {
	var before int
	snap, saved, err := s.store.Commit(ctx, func(snap state.Snapshot) (state.Snapshot, error) {
		before = snap.Cart[id]
		next, grows := change(snap.Cart)
		if grows {
			if _, ok := domain.FindDish(snap.Menu, id); !ok {
				return snap, fmt.Errorf("dish %s: %w", id, domain.ErrDishNotFound)
			}
		}
		snap.Cart = next
		return snap, nil
	}, func(snap state.Snapshot, saved bool) {
		s.cartChanged(ctx, id, before, snap, saved)
	})
	if err != nil {
		s.logger.Debug("cart_update_rejected", "Cart update rejected", "", map[string]interface{}{
			"dish_id": id,
			"error":   err.Error(),
		})
		return nil, err
	}

	return cartResponse(snap, saved), nil
}

// cartChanged runs under the store lock so events leave in mutation order.
func (s *Service) cartChanged(ctx context.Context, id string, before int, snap state.Snapshot, saved bool) {
	after := snap.Cart[id]
	if after == before {
		return
	}
	s.logger.Debug("cart_updated", "Cart quantity changed", "", map[string]interface{}{
		"dish_id": id,
		"from":    before,
		"to":      after,
		"saved":   saved,
	})

	event := interfaces.MenuEvent{
		Type:      interfaces.EventCartUpdated,
		DishID:    id,
		Quantity:  after,
		MenuSize:  len(snap.Menu),
		CartItems: domain.Totals(snap.Menu, snap.Cart).TotalItems,
	}
	if dish, ok := domain.FindDish(snap.Menu, id); ok {
		event.DishName = dish.Name
		event.Course = dish.Course
		event.Price = dish.Price
	}
	s.publish(ctx, event)
}

func (s *Service) publish(ctx context.Context, event interfaces.MenuEvent) {
	event.Timestamp = s.now().UTC()
	if err := s.publisher.PublishMenuEvent(ctx, event); err != nil {
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish menu event", "", map[string]interface{}{
			"type": event.Type,
		}, err)
	}
}

func cartResponse(snap state.Snapshot, saved bool) *interfaces.CartResponse {
	return &interfaces.CartResponse{
		Lines:  domain.CartLines(snap.Menu, snap.Cart),
		Totals: domain.Totals(snap.Menu, snap.Cart),
		Saved:  saved,
	}
}
