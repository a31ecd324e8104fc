package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/chefmenu/internal/domain"
)

type EventType string

const (
	EventDishAdded   EventType = "dish_added"
	EventDishRemoved EventType = "dish_removed"
	EventCartUpdated EventType = "cart_updated"
	EventCartCleared EventType = "cart_cleared"
)

// Сообщения RabbitMQ
type MenuEvent struct {
	Type      EventType     `json:"type"`
	DishID    string        `json:"dish_id,omitempty"`
	DishName  string        `json:"dish_name,omitempty"`
	Course    domain.Course `json:"course,omitempty"`
	Price     float64       `json:"price,omitempty"`
	Quantity  int           `json:"quantity,omitempty"`
	MenuSize  int           `json:"menu_size"`
	CartItems int           `json:"cart_items"`
	Timestamp time.Time     `json:"timestamp"`
}

// Интерфейсы Messaging (Adapter/RabbitMQ)
type EventPublisher interface {
	PublishMenuEvent(ctx context.Context, event MenuEvent) error
}

type EventConsumer interface {
	ConsumeMenuEvents(ctx context.Context, handler EventHandler) error
}

type EventHandler func(ctx context.Context, body []byte) error

// Notifier delivers a short text to restaurant staff.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
