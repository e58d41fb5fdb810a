package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

type fakeMailer struct {
	sent []interfaces.Email
	fail map[string]error
}

func (m *fakeMailer) Send(ctx context.Context, email interfaces.Email) error {
	if err := m.fail[email.ToAddress]; err != nil {
		return err
	}
	m.sent = append(m.sent, email)
	return nil
}

type fakeSettings struct {
	settings domain.CompanySettings
	err      error
}

func (f fakeSettings) GetSettings(ctx context.Context) (domain.CompanySettings, error) {
	return f.settings, f.err
}

type fakeOrders struct {
	interfaces.OrderRepository
	orders map[string]*domain.Order
}

func (f fakeOrders) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	o, ok := f.orders[number]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func body(t *testing.T, n interfaces.Notification) []byte {
	t.Helper()
	raw, err := json.Marshal(n)
	require.NoError(t, err)
	return raw
}

func placed(locale, customerEmail string) interfaces.Notification {
	return interfaces.Notification{
		Type: interfaces.NotificationOrderPlaced,
		OrderPlaced: &interfaces.OrderPlacedMessage{
			OrderNumber:   "ORD_20240115_001",
			CustomerName:  "Ana <b>",
			CustomerEmail: customerEmail,
			Locale:        locale,
			Street:        "Calle Real",
			HouseNumber:   "12",
			Zone:          "ardales",
			Phone:         "+34600111222",
			Items:         []interfaces.OrderPlacedItem{{Name: "Pizza Margarita", Quantity: 2, Subtotal: "25.00"}},
			TotalPrice:    "25.00",
		},
	}
}

func TestOrderPlacedEmails(t *testing.T) {
	mailer := &fakeMailer{}
	settings := fakeSettings{settings: domain.CompanySettings{Name: "Equus Pub", Email: "pedidos@equus.es"}}
	svc := NewService(mailer, nil, settings, "fallback@carta.es", logger.Discard())

	require.NoError(t, svc.HandleNotification(context.Background(), body(t, placed("es", "ana@example.com"))))

	require.Len(t, mailer.sent, 2)
	customer, company := mailer.sent[0], mailer.sent[1]

	assert.Equal(t, "ana@example.com", customer.ToAddress)
	assert.Equal(t, "✓ Pedido Confirmado #ORD_20240115_001 - Equus Pub", customer.Subject)
	assert.Contains(t, customer.HTML, "2 x Pizza Margarita")
	assert.Contains(t, customer.HTML, "€25.00")
	assert.Contains(t, customer.HTML, "Ana &lt;b&gt;", "customer input is escaped")

	assert.Equal(t, "pedidos@equus.es", company.ToAddress, "settings email wins over configuration")
	assert.Equal(t, "🔔 Nuevo Pedido #ORD_20240115_001 - Ana <b>", company.Subject)
	assert.Contains(t, company.HTML, "Ardales")
}

func TestOrderPlacedEnglishWithoutCustomerEmail(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, nil, nil, "fallback@carta.es", logger.Discard())

	require.NoError(t, svc.HandleNotification(context.Background(), body(t, placed("en", ""))))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "fallback@carta.es", mailer.sent[0].ToAddress)

	mailer.sent = nil
	require.NoError(t, svc.HandleNotification(context.Background(), body(t, placed("en", "ana@example.com"))))
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "✓ Order Confirmed #ORD_20240115_001 - Carta", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].HTML, "Thank you for your order")
}

func TestOrderPlacedCustomerFailureStillNotifiesCompany(t *testing.T) {
	mailer := &fakeMailer{fail: map[string]error{"ana@example.com": errors.New("bounced")}}
	svc := NewService(mailer, nil, nil, "pedidos@carta.es", logger.Discard())

	err := svc.HandleNotification(context.Background(), body(t, placed("es", "ana@example.com")))

	assert.ErrorContains(t, err, "customer email")
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "pedidos@carta.es", mailer.sent[0].ToAddress)
}

func TestCancellationEmail(t *testing.T) {
	mailer := &fakeMailer{}
	orders := fakeOrders{orders: map[string]*domain.Order{
		"ORD_20240115_002": {
			Number:       "ORD_20240115_002",
			CustomerName: "Luis",
			Delivery:     domain.DeliveryInfo{Street: "Calle Mayor", HouseNumber: "3", Zone: "carratraca", Phone: "+34611000000"},
			Items: []domain.OrderItem{{
				ProductName: "Calzone", Quantity: 1,
				UnitPrice: decimal.RequireFromString("11"), Subtotal: decimal.RequireFromString("11"),
			}},
			TotalPrice: decimal.RequireFromString("11"),
		},
	}}
	svc := NewService(mailer, orders, nil, "pedidos@carta.es", logger.Discard())

	confirmed := interfaces.Notification{
		Type:         interfaces.NotificationStatusUpdate,
		StatusUpdate: &interfaces.StatusUpdateMessage{OrderNumber: "ORD_20240115_002", NewStatus: domain.StatusConfirmed},
	}
	require.NoError(t, svc.HandleNotification(context.Background(), body(t, confirmed)))
	assert.Empty(t, mailer.sent)

	cancelled := confirmed
	cancelled.StatusUpdate = &interfaces.StatusUpdateMessage{OrderNumber: "ORD_20240115_002", NewStatus: domain.StatusCancelled}
	require.NoError(t, svc.HandleNotification(context.Background(), body(t, cancelled)))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "❌ Pedido Cancelado #ORD_20240115_002 - Luis", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].HTML, "1 x Calzone")
	assert.Contains(t, mailer.sent[0].HTML, "€11.00")

	missing := confirmed
	missing.StatusUpdate = &interfaces.StatusUpdateMessage{OrderNumber: "ORD_X", NewStatus: domain.StatusCancelled}
	assert.ErrorIs(t, svc.HandleNotification(context.Background(), body(t, missing)), domain.ErrOrderNotFound)
}

func TestSettingsFailureFallsBackToConfiguredAddress(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, nil, fakeSettings{err: errors.New("timeout")}, "pedidos@carta.es", logger.Discard())

	require.NoError(t, svc.HandleNotification(context.Background(), body(t, placed("es", ""))))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "pedidos@carta.es", mailer.sent[0].ToAddress)
}

func TestMalformedNotification(t *testing.T) {
	svc := NewService(&fakeMailer{}, nil, nil, "", logger.Discard())

	assert.Error(t, svc.HandleNotification(context.Background(), []byte(`{`)))
}
