package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/YelzhanWeb/chefmenu/internal/adapter/logger"
	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

type EventProcessor interface {
	ProcessEvent(ctx context.Context, event interfaces.MenuEvent) error
}

type NotificationHandler struct {
	service EventProcessor
	logger  logger.Logger
}

func NewNotificationHandler(service EventProcessor, logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger,
	}
}

// HandleNotification decodes one menu event and passes it on. It matches
// interfaces.EventHandler.
func (h *NotificationHandler) HandleNotification(ctx context.Context, body []byte) error {
	var msg interfaces.MenuEvent
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse menu event", "", nil, err)
		return fmt.Errorf("failed to parse menu event: %w", err)
	}

	h.logger.Debug("notification_received", fmt.Sprintf("Received %s event", msg.Type), "", map[string]interface{}{
		"type":       msg.Type,
		"dish_id":    msg.DishID,
		"menu_size":  msg.MenuSize,
		"cart_items": msg.CartItems,
	})

	return h.service.ProcessEvent(ctx, msg)
}
