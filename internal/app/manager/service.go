package manager

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/YelzhanWeb/chefmenu/internal/adapter/logger"
	"github.com/YelzhanWeb/chefmenu/internal/app/state"
	"github.com/YelzhanWeb/chefmenu/internal/domain"
	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

const RemoveConfirmation = "Delete this dish?"

type Service struct {
	store     *state.Store
	publisher interfaces.EventPublisher
	logger    logger.Logger
	newID     func() string
	now       func() time.Time
}

func NewService(store *state.Store, publisher interfaces.EventPublisher, logger logger.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
		newID:     func() string { return uuid.New().String() },
		now:       time.Now,
	}
}

func (s *Service) ListDishes(ctx context.Context) []domain.Dish {
	return s.store.Snapshot().Menu
}

func (s *Service) AddDish(ctx context.Context, draft domain.DishDraft) (*interfaces.AddDishResponse, error) {
	// 1. Валидация и создание доменной сущности
	dish, err := domain.NewDish(draft, s.newID(), s.now())
	if err != nil {
		s.logger.Debug("validation_failed", "Dish validation failed", "", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// 2. Добавление в меню, сохранение и уведомление
	snap, saved, err := s.store.Commit(ctx, func(snap state.Snapshot) (state.Snapshot, error) {
		if _, exists := domain.FindDish(snap.Menu, dish.ID); exists {
			return snap, fmt.Errorf("dish id %s already taken: %w", dish.ID, domain.ErrInvalidArgument)
		}
		snap.Menu = domain.AddDish(snap.Menu, dish)
		return snap, nil
	}, func(snap state.Snapshot, saved bool) {
		s.logger.Info("dish_added", fmt.Sprintf("Dish %s added", dish.Name), "", map[string]interface{}{
			"dish_id": dish.ID,
			"course":  dish.Course,
			"saved":   saved,
		})
		s.publish(ctx, interfaces.EventDishAdded, dish, snap)
	})
	if err != nil {
		return nil, err
	}

	return &interfaces.AddDishResponse{
		Dish:     dish,
		MenuSize: len(snap.Menu),
		Saved:    saved,
	}, nil
}

// RemoveDish asks confirm before deleting; a nil confirm removes without
// asking. The dish's cart entry goes with it. Removing an unknown id is a
// no-op.
func (s *Service) RemoveDish(ctx context.Context, id string, confirm interfaces.Confirmer) (*interfaces.RemoveDishResponse, error) {
	if confirm != nil && !confirm.Confirm(ctx, RemoveConfirmation) {
		s.logger.Debug("remove_declined", "Dish removal not confirmed", "", map[string]interface{}{"dish_id": id})
		return &interfaces.RemoveDishResponse{Confirmed: false, Saved: true}, nil
	}

	var removed domain.Dish
	var found bool
	_, saved, err := s.store.Commit(ctx, func(snap state.Snapshot) (state.Snapshot, error) {
		removed, found = domain.FindDish(snap.Menu, id)
		snap.Menu, _ = domain.RemoveDish(snap.Menu, id)
		snap.Cart = domain.RemoveFromCart(snap.Cart, id)
		return snap, nil
	}, func(snap state.Snapshot, saved bool) {
		if !found {
			return
		}
		s.logger.Info("dish_removed", fmt.Sprintf("Dish %s removed", removed.Name), "", map[string]interface{}{
			"dish_id": id,
			"saved":   saved,
		})
		s.publish(ctx, interfaces.EventDishRemoved, removed, snap)
	})
	if err != nil {
		return nil, err
	}

	if !found {
		return &interfaces.RemoveDishResponse{Confirmed: true, Removed: false, Saved: saved}, nil
	}

	return &interfaces.RemoveDishResponse{Confirmed: true, Removed: true, Saved: saved}, nil
}

// publish runs under the store lock so events leave in mutation order.
func (s *Service) publish(ctx context.Context, eventType interfaces.EventType, dish domain.Dish, snap state.Snapshot) {
	event := interfaces.MenuEvent{
		Type:      eventType,
		DishID:    dish.ID,
		DishName:  dish.Name,
		Course:    dish.Course,
		Price:     dish.Price,
		MenuSize:  len(snap.Menu),
		CartItems: domain.Totals(snap.Menu, snap.Cart).TotalItems,
		Timestamp: s.now().UTC(),
	}
	if err := s.publisher.PublishMenuEvent(ctx, event); err != nil {
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish menu event", "", map[string]interface{}{
			"type": event.Type,
		}, err)
	}
}
