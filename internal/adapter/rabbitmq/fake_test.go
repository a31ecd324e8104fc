package rabbitmq

import (
	"context"
	"errors"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeConn struct {
	mu         sync.Mutex
	channels   []*fakeChannel
	opened     int
	closed     bool
	reconnects int
}

func (c *fakeConn) Channel() (Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opened >= len(c.channels) {
		return nil, errors.New("no channel available")
	}
	ch := c.channels[c.opened]
	c.opened++
	return ch, nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reconnects++
	c.closed = false
	return nil
}

type binding struct {
	queue, key, exchange string
}

type fakeChannel struct {
	mu         sync.Mutex
	exchanges  map[string]string
	queues     []string
	bindings   []binding
	published  []published
	prefetch   int
	closed     bool
	publishErr error

	deliveries chan amqp.Delivery
	closeCh    chan *amqp.Error
}

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		exchanges:  map[string]string{},
		deliveries: make(chan amqp.Delivery, 8),
		closeCh:    make(chan *amqp.Error, 1),
	}
}

func (ch *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.exchanges[name] = kind
	return nil
}

func (ch *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (Queue, error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.queues = append(ch.queues, name)
	return Queue{Name: name}, nil
}

func (ch *fakeChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.bindings = append(ch.bindings, binding{queue: name, key: key, exchange: exchange})
	return nil
}

func (ch *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.publishErr != nil {
		return ch.publishErr
	}
	ch.published = append(ch.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (ch *fakeChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return ch.deliveries, nil
}

func (ch *fakeChannel) Qos(prefetchCount, prefetchSize int, global bool) error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.prefetch = prefetchCount
	return nil
}

func (ch *fakeChannel) Close() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.closed = true
	return nil
}

func (ch *fakeChannel) NotifyClose() <-chan *amqp.Error { return ch.closeCh }

func (ch *fakeChannel) isClosed() bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.closed
}

// acker records delivery outcomes by tag.
type acker struct {
	mu     sync.Mutex
	acked  []uint64
	nacked []uint64
}

func (a *acker) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *acker) Nack(tag uint64, multiple, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked = append(a.nacked, tag)
	return nil
}

func (a *acker) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func (a *acker) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.acked), len(a.nacked)
}
