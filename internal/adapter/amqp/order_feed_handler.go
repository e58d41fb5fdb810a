package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

// OrderFeedHandler prints a kitchen ticket for every order taken from the
// orders queue
type OrderFeedHandler struct {
	logger logger.Logger
	out    io.Writer
}

func NewOrderFeedHandler(logger logger.Logger, out io.Writer) *OrderFeedHandler {
	return &OrderFeedHandler{
		logger: logger,
		out:    out,
	}
}

// HandleOrder rejects bodies that are not a placed order so that they end up
// in the dead letter queue
func (h *OrderFeedHandler) HandleOrder(ctx context.Context, body []byte) error {
	var msg interfaces.OrderPlacedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse order", "", nil, err)
		return errors.Wrap(err, "failed to parse order")
	}
	if msg.OrderNumber == "" || len(msg.Items) == 0 {
		return errors.New("order message without number or items")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===\n", msg.OrderNumber)
	fmt.Fprintf(&b, "%s | %s | %s %s, %s\n", msg.CustomerName, msg.Phone, msg.Street, msg.HouseNumber, msg.Zone)
	for _, item := range msg.Items {
		fmt.Fprintf(&b, "  %d x %s  €%s\n", item.Quantity, item.Name, item.Subtotal)
	}
	if msg.Notes != "" {
		fmt.Fprintf(&b, "  Notes: %s\n", msg.Notes)
	}
	fmt.Fprintf(&b, "Total €%s\n", msg.TotalPrice)

	if _, err := io.WriteString(h.out, b.String()); err != nil {
		return errors.Wrap(err, "failed to print ticket")
	}

	h.logger.Info("order_ticket_printed", fmt.Sprintf("Ticket printed for order %s", msg.OrderNumber),
		msg.OrderNumber, map[string]interface{}{
			"zone":  msg.Zone,
			"items": len(msg.Items),
		})
	return nil
}
