package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/carta/internal/domain"
)

// Интерфейсы Сервисов (Business Logic)
type CartService interface {
	Snapshot(ctx context.Context, sessionKey string) CartSnapshot
	AddItem(ctx context.Context, sessionKey string, product domain.Product, quantity int, customization *domain.Customization) (string, CartSnapshot)
	IncrementItem(ctx context.Context, sessionKey, lineID string) (CartSnapshot, bool)
	DecrementItem(ctx context.Context, sessionKey, lineID string) (CartSnapshot, bool)
	RemoveItem(ctx context.Context, sessionKey, lineID string) (CartSnapshot, bool)
	UpdateCustomization(ctx context.Context, sessionKey, lineID string, customization *domain.Customization) (CartSnapshot, bool)
	RemoveOrdered(ctx context.Context, sessionKey string, ordered []domain.CartLine)
	Clear(ctx context.Context, sessionKey string)
}

type CheckoutService interface {
	PlaceOrder(ctx context.Context, cmd CheckoutCommand) (*CheckoutResult, error)
}

type OrderService interface {
	GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error)
	GetOrderHistory(ctx context.Context, orderNumber string) ([]*domain.StatusLog, error)
	UpdateStatus(ctx context.Context, orderNumber string, status domain.Status, changedBy string) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderNumber, changedBy string) (*domain.Order, error)
}

type CatalogService interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListIngredients(ctx context.Context, extrasOnly bool) ([]domain.Ingredient, error)
	Reprice(ctx context.Context, lines []domain.CartLine) ([]domain.CartLine, error)
}

type CompanyService interface {
	UpdateSettings(ctx context.Context, settings domain.CompanySettings) (domain.CompanySettings, error)
}

type AvailabilityService interface {
	Status() AvailabilityStatus
	Refresh(ctx context.Context) AvailabilityStatus
	Settings() domain.CompanySettings
}

// Команды для сервисов
type CheckoutCommand struct {
	SessionKey    string
	CustomerName  string
	CustomerEmail string
	Locale        string
	Delivery      domain.DeliveryInfo
}

// Ответы сервисов
type CartSnapshot struct {
	Lines      []domain.CartLine
	ItemCount  int
	TotalPrice decimal.Decimal
}

type CheckoutResult struct {
	OrderNumber string
	Message     string
	WhatsAppURL string
	TotalPrice  decimal.Decimal
	ItemCount   int
}

type AvailabilityStatus struct {
	OrderingEnabled bool
	DayEnabled      bool
	WithinHours     bool
	Weekday         string
	CheckedAt       time.Time
}
