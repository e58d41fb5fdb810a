package interfaces

import (
	"context"
	"errors"

	"github.com/YelzhanWeb/carta/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// Интерфейсы Репозиториев (Adapter/Postgres, Adapter/Memory)

// CartStorage keeps the serialized cart of one session under a key
type CartStorage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByNumber(ctx context.Context, number string) (*domain.Order, error)
	GenerateOrderNumber(ctx context.Context) (string, error)
	UpdateStatusWithLog(ctx context.Context, order *domain.Order, status domain.Status, changedBy string) error
	GetStatusHistory(ctx context.Context, orderID int) ([]*domain.StatusLog, error)
}

// SettingsProvider returns the current company settings
type SettingsProvider interface {
	GetSettings(ctx context.Context) (domain.CompanySettings, error)
}

// SettingsStore persists company settings edited from the back office
type SettingsStore interface {
	SaveSettings(ctx context.Context, settings domain.CompanySettings) (domain.CompanySettings, error)
}

// ProductRepository reads the menu catalog
type ProductRepository interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	FindProducts(ctx context.Context, ids []int) (map[int]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListIngredients(ctx context.Context, extrasOnly bool) ([]domain.Ingredient, error)
	FindIngredients(ctx context.Context, ids []int) (map[int]domain.Ingredient, error)
}
