package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

type NotificationHandler struct {
	logger logger.Logger
	out    io.Writer
}

// NewNotificationHandler prints every notification to out and logs it
func NewNotificationHandler(logger logger.Logger, out io.Writer) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
		out:    out,
	}
}

func (h *NotificationHandler) HandleNotification(ctx context.Context, body []byte) error {
	var n interfaces.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse notification", "", nil, err)
		return errors.Wrap(err, "failed to parse notification")
	}

	switch n.Type {
	case interfaces.NotificationOrderPlaced:
		if n.OrderPlaced == nil {
			return errors.New("order_placed notification without payload")
		}
		return h.orderPlaced(*n.OrderPlaced)
	case interfaces.NotificationStatusUpdate:
		if n.StatusUpdate == nil {
			return errors.New("status_update notification without payload")
		}
		return h.statusUpdate(*n.StatusUpdate)
	default:
		h.logger.Debug("notification_ignored", "Unknown notification type", "", map[string]interface{}{
			"type": n.Type,
		})
		return errors.Errorf("unknown notification type %q", n.Type)
	}
}

func (h *NotificationHandler) orderPlaced(msg interfaces.OrderPlacedMessage) error {
	h.logger.Info("notification_received", fmt.Sprintf("New order %s", msg.OrderNumber),
		msg.OrderNumber, map[string]interface{}{
			"order_number": msg.OrderNumber,
			"zone":         msg.Zone,
			"total_price":  msg.TotalPrice,
			"items":        len(msg.Items),
		})

	_, err := fmt.Fprintf(h.out, "New order %s from %s (%s): %d item(s), total €%s\n",
		msg.OrderNumber, msg.CustomerName, msg.Zone, len(msg.Items), msg.TotalPrice)
	return err
}

func (h *NotificationHandler) statusUpdate(msg interfaces.StatusUpdateMessage) error {
	h.logger.Info("notification_received", fmt.Sprintf("Received status update for order %s", msg.OrderNumber),
		msg.OrderNumber, map[string]interface{}{
			"order_number": msg.OrderNumber,
			"new_status":   msg.NewStatus,
		})

	_, err := fmt.Fprintf(h.out, "Notification for order %s: Status changed from '%s' to '%s' by %s\n",
		msg.OrderNumber, msg.OldStatus, msg.NewStatus, msg.ChangedBy)
	return err
}
