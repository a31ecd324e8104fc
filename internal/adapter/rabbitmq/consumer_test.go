package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/YelzhanWeb/chefmenu/internal/adapter/logger"
	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

func newTestConsumer(conn Connection) *consumer {
	c := NewConsumer(conn, "menu_events", "menu_notifications", 4, logger.Nop()).(*consumer)
	c.reconnectDelay = time.Millisecond
	return c
}

type bodies struct {
	mu  sync.Mutex
	got []string
}

func (b *bodies) handler(fail string) interfaces.EventHandler {
	return func(ctx context.Context, body []byte) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.got = append(b.got, string(body))
		if string(body) == fail {
			return errors.New("bad message")
		}
		return nil
	}
}

func (b *bodies) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.got)
}

func TestConsumeAcksAndNacks(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := newFakeChannel()
	conn := &fakeConn{channels: []*fakeChannel{ch}}
	ack := &acker{}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(`ok`)}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte(`broken`)}

	ctx, cancel := context.WithCancel(context.Background())
	got := &bodies{}
	done := make(chan error, 1)
	go func() { done <- newTestConsumer(conn).ConsumeMenuEvents(ctx, got.handler("broken")) }()

	require.Eventually(t, func() bool {
		acked, nacked := ack.counts()
		return acked == 1 && nacked == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	assert.Equal(t, []uint64{1}, ack.acked)
	assert.Equal(t, []uint64{2}, ack.nacked)
	assert.Equal(t, 4, ch.prefetch)
	assert.Equal(t, "fanout", ch.exchanges["menu_events"])
	assert.Equal(t, []string{"menu_notifications"}, ch.queues)
	assert.Equal(t, []binding{{queue: "menu_notifications", key: "", exchange: "menu_events"}}, ch.bindings)
	assert.True(t, ch.isClosed())
}

func TestConsumeReconnectsAfterChannelClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	first, second := newFakeChannel(), newFakeChannel()
	conn := &fakeConn{channels: []*fakeChannel{first, second}, closed: true}
	first.closeCh <- &amqp.Error{Code: amqp.ConnectionForced, Reason: "broker restart"}

	ack := &acker{}
	second.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: []byte(`after`)}

	ctx, cancel := context.WithCancel(context.Background())
	got := &bodies{}
	done := make(chan error, 1)
	go func() { done <- newTestConsumer(conn).ConsumeMenuEvents(ctx, got.handler("")) }()

	require.Eventually(t, func() bool { return got.len() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	assert.True(t, first.isClosed())
	assert.Equal(t, 1, conn.reconnects)
	assert.Equal(t, []string{"after"}, got.got)
}

func TestConsumeStopsWhileWaitingToReconnect(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := newTestConsumer(&fakeConn{})
	c.reconnectDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.ConsumeMenuEvents(ctx, func(context.Context, []byte) error { return nil }) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}
