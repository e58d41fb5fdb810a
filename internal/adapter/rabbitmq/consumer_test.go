package rabbitmq

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
)

type bodies struct {
	mu  sync.Mutex
	got []string
}

func (b *bodies) add(body []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, string(body))
}

func (b *bodies) list() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.got...)
}

func TestConsumeNotifications(t *testing.T) {
	ch := newFakeChannel()
	conn := &fakeConnection{channels: []*fakeChannel{ch}}
	c := NewConsumer(conn, 1, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got bodies
	done := make(chan error, 1)
	go func() {
		done <- c.ConsumeNotifications(ctx, func(_ context.Context, body []byte) error {
			got.add(body)
			if string(body) == "bad" {
				return errors.New("cannot decode")
			}
			return nil
		})
	}()

	acker := &fakeAcker{}
	ch.deliveries <- acker.delivery(1, "bad")
	ch.deliveries <- acker.delivery(2, "first")

	require.Eventually(t, func() bool {
		acked, nacked := acker.settled()
		return len(acked)+len(nacked) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"bad", "first"}, got.list())

	acked, nacked := acker.settled()
	assert.Equal(t, []uint64{2}, acked)
	assert.Equal(t, []uint64{1}, nacked)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}

	assert.Equal(t, "fanout", ch.exchanges[notificationsExchange])
	assert.Contains(t, ch.bindings, "notifications_fanout/->amq.gen-test")
	assert.Equal(t, 1, ch.prefetch)
	assert.False(t, ch.autoAck, "prefetch only applies to manually acknowledged deliveries")
}

func TestConsumeNotificationsResubscribes(t *testing.T) {
	first := newFakeChannel()
	second := newFakeChannel()
	conn := &fakeConnection{channels: []*fakeChannel{first, second}, closed: true}

	c := &consumer{conn: conn, prefetch: 1, logger: logger.Discard(), delay: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got bodies
	done := make(chan error, 1)
	go func() {
		done <- c.ConsumeNotifications(ctx, func(_ context.Context, body []byte) error {
			got.add(body)
			return nil
		})
	}()

	first.closeCh <- amqp.ErrClosed
	second.deliveries <- (&fakeAcker{}).delivery(1, "after")

	require.Eventually(t, func() bool { return len(got.list()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"after"}, got.list())

	cancel()
	<-done

	conn.mu.Lock()
	defer conn.mu.Unlock()
	assert.Equal(t, 1, conn.reconnects)
}

func TestConsumeOrders(t *testing.T) {
	ch := newFakeChannel()
	conn := &fakeConnection{channels: []*fakeChannel{ch}}
	c := NewConsumer(conn, 5, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got bodies
	done := make(chan error, 1)
	go func() {
		done <- c.ConsumeOrders(ctx, func(_ context.Context, body []byte) error {
			got.add(body)
			if string(body) == "broken" {
				return errors.New("not an order")
			}
			return nil
		})
	}()

	acker := &fakeAcker{}
	ch.deliveries <- acker.delivery(7, `{"order_number":"ORD_20240115_001"}`)
	ch.deliveries <- acker.delivery(8, "broken")

	require.Eventually(t, func() bool {
		acked, nacked := acker.settled()
		return len(acked)+len(nacked) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	acked, nacked := acker.settled()
	assert.Equal(t, []uint64{7}, acked)
	assert.Equal(t, []uint64{8}, nacked, "rejected orders go to the dead letter queue")

	ch.mu.Lock()
	defer ch.mu.Unlock()
	assert.Equal(t, ordersQueue, ch.consumed)
	assert.Equal(t, 5, ch.prefetch)
	assert.Equal(t, "topic", ch.exchanges[ordersExchange])
	assert.Contains(t, ch.queues, ordersDLQQueue)
	assert.Contains(t, ch.bindings, "orders_dlq/orders_queue_dlq->orders_queue_dlq")
}
