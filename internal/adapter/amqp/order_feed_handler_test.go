package amqp

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

func TestHandleOrderPrintsTicket(t *testing.T) {
	var out bytes.Buffer
	h := NewOrderFeedHandler(logger.Discard(), &out)

	body, err := json.Marshal(interfaces.OrderPlacedMessage{
		OrderNumber:  "ORD_20240115_001",
		CustomerName: "Ana",
		Phone:        "+34600111222",
		Street:       "Calle Real",
		HouseNumber:  "12",
		Zone:         "ardales",
		Notes:        "Timbre roto",
		Items:        []interfaces.OrderPlacedItem{{ProductID: 1, Name: "Pizza Margarita", Quantity: 2, Subtotal: "25.00"}},
		TotalPrice:   "25.00",
	})
	require.NoError(t, err)

	require.NoError(t, h.HandleOrder(context.Background(), body))
	assert.Equal(t, "=== ORD_20240115_001 ===\n"+
		"Ana | +34600111222 | Calle Real 12, ardales\n"+
		"  2 x Pizza Margarita  €25.00\n"+
		"  Notes: Timbre roto\n"+
		"Total €25.00\n", out.String())
}

func TestHandleOrderRejectsInvalidMessages(t *testing.T) {
	var out bytes.Buffer
	h := NewOrderFeedHandler(logger.Discard(), &out)

	assert.Error(t, h.HandleOrder(context.Background(), []byte(`{`)))
	assert.Error(t, h.HandleOrder(context.Background(), []byte(`{"order_number": "X"}`)))
	assert.Empty(t, out.String())
}
