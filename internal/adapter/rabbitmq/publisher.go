package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/YelzhanWeb/carta/internal/interfaces"
)

const (
	ordersExchange        = "orders_topic"
	ordersDLQExchange     = "orders_dlq"
	ordersQueue           = "orders_queue"
	ordersDLQQueue        = "orders_queue_dlq"
	notificationsExchange = "notifications_fanout"
)

type publisher struct {
	conn Connection
}

func NewPublisher(conn Connection) interfaces.MessagePublisher {
	return &publisher{conn: conn}
}

// PublishOrderPlaced hands the order to the restaurant queue and announces
// it on the notifications exchange
func (p *publisher) PublishOrderPlaced(ctx context.Context, msg interfaces.OrderPlacedMessage) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return errors.Wrap(err, "failed to open channel")
	}
	defer ch.Close()

	if err := setupOrdersInfrastructure(ch); err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal message")
	}

	err = ch.PublishWithContext(ctx, ordersExchange, placedRoutingKey(msg.Zone), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    msg.OrderNumber,
		Body:         body,
	})
	if err != nil {
		return errors.Wrap(err, "failed to publish order")
	}

	return notify(ctx, ch, interfaces.Notification{
		Type:        interfaces.NotificationOrderPlaced,
		OrderPlaced: &msg,
	})
}

func (p *publisher) PublishStatusUpdate(ctx context.Context, msg interfaces.StatusUpdateMessage) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return errors.Wrap(err, "failed to open channel")
	}
	defer ch.Close()

	return notify(ctx, ch, interfaces.Notification{
		Type:         interfaces.NotificationStatusUpdate,
		StatusUpdate: &msg,
	})
}

func notify(ctx context.Context, ch Channel, n interfaces.Notification) error {
	if err := ch.ExchangeDeclare(notificationsExchange, "fanout", true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "failed to declare exchange")
	}

	body, err := json.Marshal(n)
	if err != nil {
		return errors.Wrap(err, "failed to marshal notification")
	}

	err = ch.PublishWithContext(ctx, notificationsExchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Type:        string(n.Type),
		Body:        body,
	})
	if err != nil {
		return errors.Wrap(err, "failed to publish notification")
	}
	return nil
}

func placedRoutingKey(zone string) string {
	zone = strings.ToLower(strings.TrimSpace(zone))
	if zone == "" {
		zone = "unknown"
	}
	return fmt.Sprintf("orders.placed.%s", zone)
}

// setupOrdersInfrastructure declares the durable restaurant queue so placed
// orders survive until someone consumes them; rejected ones go to the DLQ
func setupOrdersInfrastructure(ch Channel) error {
	if err := ch.ExchangeDeclare(ordersExchange, "topic", true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "failed to declare orders exchange")
	}

	if err := ch.ExchangeDeclare(ordersDLQExchange, "direct", true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "failed to declare DLQ exchange")
	}

	if _, err := ch.QueueDeclare(ordersDLQQueue, true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "failed to declare DLQ")
	}

	// direct exchange: dead letters carry the DLQ name as routing key
	if err := ch.QueueBind(ordersDLQQueue, ordersDLQQueue, ordersDLQExchange, false, nil); err != nil {
		return errors.Wrap(err, "failed to bind DLQ")
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    ordersDLQExchange,
		"x-dead-letter-routing-key": ordersDLQQueue,
	}

	q, err := ch.QueueDeclare(ordersQueue, true, false, false, false, args)
	if err != nil {
		return errors.Wrap(err, "failed to declare orders queue")
	}

	if err := ch.QueueBind(q.Name, "orders.#", ordersExchange, false, nil); err != nil {
		return errors.Wrap(err, "failed to bind orders queue")
	}

	return nil
}
