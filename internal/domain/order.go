package domain

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const MaxOrderNotes = 500

// Order represents a placed delivery order
type Order struct {
	ID            int
	Number        string
	SessionKey    string
	CustomerName  string
	CustomerEmail string
	Locale        string
	Delivery      DeliveryInfo
	Items         []OrderItem
	TotalPrice    decimal.Decimal
	Status        Status
	Message       string
	ChangedBy     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem represents a product line of a placed order
type OrderItem struct {
	ID            int
	OrderID       int
	ProductID     int
	ProductName   string
	Quantity      int
	UnitPrice     decimal.Decimal
	Subtotal      decimal.Decimal
	Customization *Customization
}

// NewOrder builds a pending order from a cart snapshot
func NewOrder(sessionKey string, lines []CartLine, delivery DeliveryInfo, locale string) (*Order, error) {
	now := time.Now()
	order := &Order{
		SessionKey: sessionKey,
		Locale:     locale,
		Delivery:   delivery,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	for _, line := range lines {
		order.Items = append(order.Items, OrderItem{
			ProductID:     line.Product.ID,
			ProductName:   line.Product.Translations.Resolve(DefaultLanguage),
			Quantity:      line.Quantity,
			UnitPrice:     line.Product.UnitPrice(),
			Subtotal:      line.Subtotal(),
			Customization: line.Customization.Clone(),
		})
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	order.CalculateTotal()

	return order, nil
}

// Validate applies business validation rules
func (o *Order) Validate() error {
	if len(o.Items) < 1 {
		return ErrEmptyOrder
	}

	for _, item := range o.Items {
		if item.Quantity < 1 {
			return errors.New("item quantity must be at least 1")
		}
		if item.UnitPrice.IsNegative() {
			return errors.New("item unit price must not be negative")
		}
	}

	if utf8.RuneCountInString(o.Delivery.Notes) > MaxOrderNotes {
		return errors.New("delivery notes must not exceed 500 characters")
	}

	return nil
}

// CalculateTotal calculates the total amount of the order
func (o *Order) CalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	o.TotalPrice = total
}

// TransitionTo transitions the order to a new status
func (o *Order) TransitionTo(newStatus Status, changedBy string) error {
	if !o.CanTransitionTo(newStatus) {
		return ErrInvalidStatusTransition
	}

	o.Status = newStatus
	o.UpdatedAt = time.Now()

	if changedBy != "" {
		o.ChangedBy = &changedBy
	}

	return nil
}

// CanTransitionTo checks if the order can transition to the new status
func (o *Order) CanTransitionTo(newStatus Status) bool {
	validTransitions := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusCompleted, StatusCancelled},
		StatusCompleted: {},
		StatusCancelled: {},
	}

	allowed := validTransitions[o.Status]
	for _, s := range allowed {
		if s == newStatus {
			return true
		}
	}
	return false
}

// IsCancellable reports whether the customer may still cancel the order
func (o *Order) IsCancellable() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrEmptyOrder              = errors.New("order must have at least 1 item")
	ErrOrderNotFound           = errors.New("order not found")
)
