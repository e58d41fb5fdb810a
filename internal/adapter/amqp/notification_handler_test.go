package amqp

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

func encode(t *testing.T, n interfaces.Notification) []byte {
	t.Helper()
	body, err := json.Marshal(n)
	require.NoError(t, err)
	return body
}

func TestHandleOrderPlaced(t *testing.T) {
	var out bytes.Buffer
	h := NewNotificationHandler(logger.Discard(), &out)

	body := encode(t, interfaces.Notification{
		Type: interfaces.NotificationOrderPlaced,
		OrderPlaced: &interfaces.OrderPlacedMessage{
			OrderNumber:  "ORD_20240115_001",
			CustomerName: "Ana",
			Zone:         "Ardales",
			TotalPrice:   "21.00",
			Items:        []interfaces.OrderPlacedItem{{ProductID: 1}, {ProductID: 2}},
		},
	})

	require.NoError(t, h.HandleNotification(context.Background(), body))
	assert.Equal(t, "New order ORD_20240115_001 from Ana (Ardales): 2 item(s), total €21.00\n", out.String())
}

func TestHandleStatusUpdate(t *testing.T) {
	var out bytes.Buffer
	h := NewNotificationHandler(logger.Discard(), &out)

	body := encode(t, interfaces.Notification{
		Type: interfaces.NotificationStatusUpdate,
		StatusUpdate: &interfaces.StatusUpdateMessage{
			OrderNumber: "ORD_20240115_001",
			OldStatus:   domain.StatusPending,
			NewStatus:   domain.StatusConfirmed,
			ChangedBy:   "staff",
		},
	})

	require.NoError(t, h.HandleNotification(context.Background(), body))
	assert.Equal(t, "Notification for order ORD_20240115_001: Status changed from 'pending' to 'confirmed' by staff\n", out.String())
}

func TestHandleInvalidNotifications(t *testing.T) {
	var out bytes.Buffer
	h := NewNotificationHandler(logger.Discard(), &out)

	tests := []struct {
		name string
		body []byte
	}{
		{"malformed json", []byte("{")},
		{"unknown type", []byte(`{"type":"refund"}`)},
		{"missing order payload", []byte(`{"type":"order_placed"}`)},
		{"missing status payload", []byte(`{"type":"status_update"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, h.HandleNotification(context.Background(), tt.body))
		})
	}
	assert.Empty(t, out.String())
}
