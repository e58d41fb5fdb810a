package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/carta/internal/domain"
)

// Сообщения RabbitMQ
type OrderPlacedMessage struct {
	OrderNumber   string            `json:"order_number"`
	CustomerName  string            `json:"customer_name"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	Locale        string            `json:"locale"`
	Street        string            `json:"street"`
	HouseNumber   string            `json:"house_number"`
	Zone          string            `json:"zone"`
	Phone         string            `json:"phone"`
	Notes         string            `json:"notes,omitempty"`
	Items         []OrderPlacedItem `json:"items"`
	TotalPrice    string            `json:"total_price"`
	Status        domain.Status     `json:"status"`
	WhatsAppURL   string            `json:"whatsapp_url"`
	PlacedAt      time.Time         `json:"placed_at"`
}

type OrderPlacedItem struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

type StatusUpdateMessage struct {
	OrderNumber string        `json:"order_number"`
	OldStatus   domain.Status `json:"old_status"`
	NewStatus   domain.Status `json:"new_status"`
	ChangedBy   string        `json:"changed_by"`
	Timestamp   time.Time     `json:"timestamp"`
}

// Notification is the envelope broadcast on the notifications exchange
type Notification struct {
	Type         NotificationType     `json:"type"`
	OrderPlaced  *OrderPlacedMessage  `json:"order_placed,omitempty"`
	StatusUpdate *StatusUpdateMessage `json:"status_update,omitempty"`
}

type NotificationType string

const (
	NotificationOrderPlaced  NotificationType = "order_placed"
	NotificationStatusUpdate NotificationType = "status_update"
)

// Интерфейсы Messaging (Adapter/RabbitMQ)
type MessagePublisher interface {
	PublishOrderPlaced(ctx context.Context, msg OrderPlacedMessage) error
	PublishStatusUpdate(ctx context.Context, msg StatusUpdateMessage) error
}

type MessageConsumer interface {
	ConsumeNotifications(ctx context.Context, handler MessageHandler) error
	ConsumeOrders(ctx context.Context, handler MessageHandler) error
}

// MessageHandler processes one delivery. A returned error rejects the
// message without requeueing it.
type MessageHandler func(ctx context.Context, body []byte) error

// Email is one transactional message
type Email struct {
	ToAddress string
	ToName    string
	Subject   string
	HTML      string
}

// Mailer delivers transactional email (Adapter/Email)
type Mailer interface {
	Send(ctx context.Context, email Email) error
}
