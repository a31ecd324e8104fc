package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YelzhanWeb/chefmenu/internal/adapter/logger"
	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

const defaultReconnectDelay = 5 * time.Second

type consumer struct {
	conn           Connection
	exchange       string
	queue          string
	prefetch       int
	logger         logger.Logger
	reconnectDelay time.Duration
}

func NewConsumer(conn Connection, exchange, queue string, prefetch int, logger logger.Logger) interfaces.EventConsumer {
	return &consumer{
		conn:           conn,
		exchange:       exchange,
		queue:          queue,
		prefetch:       prefetch,
		logger:         logger,
		reconnectDelay: defaultReconnectDelay,
	}
}

// ConsumeMenuEvents delivers every message to handler until ctx is done,
// reopening the channel (and the connection if it dropped) after failures.
func (c *consumer) ConsumeMenuEvents(ctx context.Context, handler interfaces.EventHandler) error {
	for {
		err := c.consume(ctx, handler)

		// Если контекст отменен - выходим
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err == nil {
			return nil
		}

		c.logger.Error("consumer_disconnected", "Menu events consumer disconnected, reconnecting", "", map[string]interface{}{
			"queue": c.queue,
			"delay": c.reconnectDelay.String(),
		}, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.reconnectDelay):
		}

		if c.conn.IsClosed() {
			if err := c.conn.Reconnect(); err != nil {
				c.logger.Error("rabbitmq_reconnect_failed", "Failed to reconnect to RabbitMQ", "", nil, err)
			}
		}
	}
}

func (c *consumer) consume(ctx context.Context, handler interfaces.EventHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	// Отслеживаем закрытие канала
	closeChan := ch.NotifyClose()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	if err := c.setup(ch); err != nil {
		return err
	}

	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return errors.New("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return errors.New("messages channel closed")
			}

			if err := handler(ctx, msg.Body); err != nil {
				// в DLQ/discard, без requeue
				if nackErr := msg.Nack(false, false); nackErr != nil {
					return fmt.Errorf("failed to nack message: %w", nackErr)
				}
				continue
			}
			if err := msg.Ack(false); err != nil {
				return fmt.Errorf("failed to ack message: %w", err)
			}
		}
	}
}

func (c *consumer) setup(ch Channel) error {
	if err := ch.ExchangeDeclare(c.exchange, exchangeKind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(c.queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", c.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	return nil
}
