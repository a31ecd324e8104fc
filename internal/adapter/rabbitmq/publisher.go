package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

const exchangeKind = "fanout"

type publisher struct {
	conn     Connection
	exchange string
}

func NewPublisher(conn Connection, exchange string) interfaces.EventPublisher {
	return &publisher{conn: conn, exchange: exchange}
}

func (p *publisher) PublishMenuEvent(ctx context.Context, event interfaces.MenuEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	// Declare exchange
	if err := ch.ExchangeDeclare(p.exchange, exchangeKind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    event.Timestamp,
		Type:         string(event.Type),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

type discardPublisher struct{}

// NewDiscardPublisher is used when RabbitMQ is disabled.
func NewDiscardPublisher() interfaces.EventPublisher {
	return discardPublisher{}
}

func (discardPublisher) PublishMenuEvent(context.Context, interfaces.MenuEvent) error {
	return nil
}
