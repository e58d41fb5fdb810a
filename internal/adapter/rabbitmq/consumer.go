package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

const reconnectDelay = 5 * time.Second

type consumer struct {
	conn     Connection
	prefetch int
	logger   logger.Logger
	delay    time.Duration
}

func NewConsumer(conn Connection, prefetch int, logger logger.Logger) interfaces.MessageConsumer {
	return &consumer{conn: conn, prefetch: prefetch, logger: logger, delay: reconnectDelay}
}

// ConsumeNotifications follows the notifications fanout through a temporary
// exclusive queue
func (c *consumer) ConsumeNotifications(ctx context.Context, handler interfaces.MessageHandler) error {
	return c.run(ctx, "notifications", func(ch Channel) (string, error) {
		if err := ch.ExchangeDeclare(notificationsExchange, "fanout", true, false, false, false, nil); err != nil {
			return "", errors.Wrap(err, "failed to declare exchange")
		}

		// Временная эксклюзивная очередь на каждого подписчика
		q, err := ch.QueueDeclare("", false, true, true, false, nil)
		if err != nil {
			return "", errors.Wrap(err, "failed to declare queue")
		}

		if err := ch.QueueBind(q.Name, "", notificationsExchange, false, nil); err != nil {
			return "", errors.Wrap(err, "failed to bind queue")
		}
		return q.Name, nil
	}, handler)
}

// ConsumeOrders works the durable orders queue. Rejected orders are
// dead-lettered to orders_queue_dlq.
func (c *consumer) ConsumeOrders(ctx context.Context, handler interfaces.MessageHandler) error {
	return c.run(ctx, "orders", func(ch Channel) (string, error) {
		if err := setupOrdersInfrastructure(ch); err != nil {
			return "", err
		}
		return ordersQueue, nil
	}, handler)
}

func (c *consumer) run(ctx context.Context, name string, subscribe func(Channel) (string, error), handler interfaces.MessageHandler) error {
	for {
		err := c.consume(ctx, subscribe, handler)

		// Если контекст отменен или соединение закрыто намеренно - выходим
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err == nil {
			return nil
		}

		c.logger.Error("consumer_disconnected", fmt.Sprintf("%s consumer disconnected, reconnecting in %s", name, c.delay), "", nil, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.delay):
		}

		if c.conn.IsClosed() {
			if err := c.conn.Reconnect(); err != nil {
				c.logger.Error("reconnect_failed", "Failed to reconnect to RabbitMQ", "", nil, err)
			}
		}
	}
}

func (c *consumer) consume(ctx context.Context, subscribe func(Channel) (string, error), handler interfaces.MessageHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return errors.Wrap(err, "failed to open channel")
	}
	defer ch.Close()

	// Отслеживаем закрытие канала
	closeChan := ch.NotifyClose()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return errors.Wrap(err, "failed to set QoS")
	}

	queue, err := subscribe(ch)
	if err != nil {
		return err
	}

	// Ручное подтверждение, чтобы prefetch ограничивал число сообщений в работе
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start consuming")
	}

	c.logger.Info("consumer_started", "Listening for messages", "", map[string]interface{}{"queue": queue})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return errors.Wrap(err, "channel closed")
			}
			return errors.New("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return errors.New("messages channel closed")
			}

			// Ошибки обработки не останавливают подписчика; сообщение
			// отклоняется без повторной доставки
			if err := handler(ctx, msg.Body); err != nil {
				c.logger.Debug("message_rejected", "Message handler failed", "", map[string]interface{}{
					"queue":      queue,
					"message_id": msg.MessageId,
					"error":      err.Error(),
				})
				if err := msg.Nack(false, false); err != nil {
					return errors.Wrap(err, "failed to reject message")
				}
				continue
			}

			if err := msg.Ack(false); err != nil {
				return errors.Wrap(err, "failed to acknowledge message")
			}
		}
	}
}
