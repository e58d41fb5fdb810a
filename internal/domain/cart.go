package domain

import (
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Customization describes how a line deviates from the product defaults
type Customization struct {
	DeselectedIngredients []string     `json:"deselected_ingredients"`
	SelectedExtras        []Ingredient `json:"selected_extras"`
	AdditionalNotes       string       `json:"additional_notes"`
}

// IsEmpty reports whether c carries no deviation at all. A nil
// customization is empty.
func (c *Customization) IsEmpty() bool {
	if c == nil {
		return true
	}
	return len(c.DeselectedIngredients) == 0 &&
		len(c.SelectedExtras) == 0 &&
		strings.TrimSpace(c.AdditionalNotes) == ""
}

// Normalize returns nil for an empty customization, otherwise a copy with
// duplicate ingredient names removed and notes trimmed.
func (c *Customization) Normalize() *Customization {
	if c.IsEmpty() {
		return nil
	}

	out := &Customization{
		DeselectedIngredients: make([]string, 0, len(c.DeselectedIngredients)),
		SelectedExtras:        make([]Ingredient, len(c.SelectedExtras)),
		AdditionalNotes:       strings.TrimSpace(c.AdditionalNotes),
	}

	seen := make(map[string]bool, len(c.DeselectedIngredients))
	for _, name := range c.DeselectedIngredients {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out.DeselectedIngredients = append(out.DeselectedIngredients, name)
	}
	copy(out.SelectedExtras, c.SelectedExtras)

	return out
}

// Clone deep-copies c
func (c *Customization) Clone() *Customization {
	if c == nil {
		return nil
	}
	return &Customization{
		DeselectedIngredients: slices.Clone(c.DeselectedIngredients),
		SelectedExtras:        slices.Clone(c.SelectedExtras),
		AdditionalNotes:       c.AdditionalNotes,
	}
}

// CartLine is one row of the shopping cart
type CartLine struct {
	ID            string         `json:"id"`
	Product       Product        `json:"product"`
	Quantity      int            `json:"quantity"`
	Customization *Customization `json:"customization"`
}

// Subtotal is the unit price times the quantity
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Clone deep-copies the line
func (l CartLine) Clone() CartLine {
	out := l
	out.Product.Ingredients = slices.Clone(l.Product.Ingredients)
	out.Product.Categories = slices.Clone(l.Product.Categories)
	out.Product.Translations = maps.Clone(l.Product.Translations)
	out.Customization = l.Customization.Clone()
	return out
}

// SameUnmodifiedProduct decides whether b can be merged into a: both lines
// reference the same product and neither carries a customization.
// Customized lines never merge, even with an identical payload.
func SameUnmodifiedProduct(a, b CartLine) bool {
	if a.Product.ID != b.Product.ID {
		return false
	}
	return a.Customization.IsEmpty() && b.Customization.IsEmpty()
}
