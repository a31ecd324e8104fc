package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/YelzhanWeb/chefmenu/internal/adapter/logger"
	"github.com/YelzhanWeb/chefmenu/internal/domain"
	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

// Service turns menu events into staff notifications.
type Service struct {
	notifier interfaces.Notifier
	logger   logger.Logger
}

func NewService(notifier interfaces.Notifier, logger logger.Logger) *Service {
	return &Service{
		notifier: notifier,
		logger:   logger,
	}
}

func (s *Service) ProcessEvent(ctx context.Context, event interfaces.MenuEvent) error {
	// 1. Формирование текста
	text, err := FormatEvent(event)
	if err != nil {
		s.logger.Error("event_rejected", "Unknown menu event", "", map[string]interface{}{"type": event.Type}, err)
		return err
	}

	s.logger.Debug("event_processing_started", text, "", map[string]interface{}{
		"type":    event.Type,
		"dish_id": event.DishID,
	})

	// 2. Отправка уведомления
	if err := s.notifier.Notify(ctx, text); err != nil {
		s.logger.Error("notify_failed", "Failed to deliver notification", "", map[string]interface{}{
			"type": event.Type,
		}, err)
		return fmt.Errorf("failed to notify: %w", err)
	}

	s.logger.Info("notification_sent", text, "", map[string]interface{}{"type": event.Type})
	return nil
}

// FormatEvent renders the one-line staff message for an event.
func FormatEvent(event interfaces.MenuEvent) (string, error) {
	switch event.Type {
	case interfaces.EventDishAdded:
		return fmt.Sprintf("New dish on the menu: %s (%s) %s",
			event.DishName, event.Course, domain.FormatPrice(event.Price)), nil
	case interfaces.EventDishRemoved:
		return fmt.Sprintf("Dish removed from the menu: %s (%s), %d left",
			event.DishName, event.Course, event.MenuSize), nil
	case interfaces.EventCartUpdated:
		name := event.DishName
		if name == "" {
			name = event.DishID
		}
		return fmt.Sprintf("Cart updated: %s x%d, %d items in cart",
			name, event.Quantity, event.CartItems), nil
	case interfaces.EventCartCleared:
		return "Cart cleared", nil
	default:
		return "", fmt.Errorf("unknown event type %q: %w", event.Type, domain.ErrInvalidArgument)
	}
}

type writerNotifier struct {
	w io.Writer
}

// NewWriterNotifier prints notifications, one per line. It stands in for
// Telegram when no bot is configured.
func NewWriterNotifier(w io.Writer) interfaces.Notifier {
	return &writerNotifier{w: w}
}

func (n *writerNotifier) Notify(ctx context.Context, text string) error {
	_, err := fmt.Fprintf(n.w, "Notification: %s\n", text)
	return err
}
