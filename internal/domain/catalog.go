package domain

import (
	"errors"
	"strings"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Category groups menu products
type Category struct {
	ID           int          `json:"id"`
	Translations Translations `json:"translations"`
	Position     int          `json:"position"`
}

// Product list orderings
const (
	OrderByID           = ""
	OrderByPrice        = "price"
	OrderByPriceDesc    = "-price"
	OrderByNewest       = "-created_at"
	OrderByOldest       = "created_at"
	maxSearchTermLength = 100
)

// ProductFilter narrows the product list. Zero values do not filter.
type ProductFilter struct {
	Available    *bool
	CategoryID   int
	IngredientID int
	Search       string
	Ordering     string
}

func (f ProductFilter) Validate() error {
	var errs ValidationErrors

	switch f.Ordering {
	case OrderByID, OrderByPrice, OrderByPriceDesc, OrderByNewest, OrderByOldest:
	default:
		errs.add("ordering", "unknown ordering %q", f.Ordering)
	}
	if len([]rune(strings.TrimSpace(f.Search))) > maxSearchTermLength {
		errs.add("search", "search must not exceed %d characters", maxSearchTermLength)
	}
	if f.CategoryID < 0 {
		errs.add("categories", "category must be a positive id")
	}
	if f.IngredientID < 0 {
		errs.add("ingredients", "ingredient must be a positive id")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
