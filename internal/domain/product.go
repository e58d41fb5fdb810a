package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

const DefaultLanguage = "es"

// Translation holds the localized texts of a menu entity
type Translation struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Translations maps a language code to its texts
type Translations map[string]Translation

// Resolve returns the name for lang, falling back to Spanish, English and
// finally to any non-empty translation in code order.
func (t Translations) Resolve(lang string) string {
	for _, code := range []string{lang, DefaultLanguage, "en"} {
		if tr, ok := t[code]; ok && tr.Name != "" {
			return tr.Name
		}
	}

	codes := make([]string, 0, len(t))
	for code := range t {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		if t[code].Name != "" {
			return t[code].Name
		}
	}
	return ""
}

// Ingredient is a product component or an optional extra
type Ingredient struct {
	ID           int          `json:"id"`
	Translations Translations `json:"translations"`
	Icon         string       `json:"icon,omitempty"`
	Price        *string      `json:"price,omitempty"`
	IsExtra      bool         `json:"is_extra"`
}

// ExtraPrice parses the extra price; missing or malformed prices count as zero
func (i Ingredient) ExtraPrice() decimal.Decimal {
	if i.Price == nil {
		return decimal.Zero
	}
	return ParsePrice(*i.Price)
}

// Product is a read-only snapshot of a menu product
type Product struct {
	ID           int          `json:"id"`
	Translations Translations `json:"translations"`
	Price        string       `json:"price"`
	Ingredients  []Ingredient `json:"ingredients,omitempty"`
	Categories   []int        `json:"categories,omitempty"`
	Available    bool         `json:"available"`
}

// UnitPrice parses the product price; malformed prices count as zero
func (p Product) UnitPrice() decimal.Decimal {
	return ParsePrice(p.Price)
}

// ParsePrice converts an external decimal string into a decimal value.
// Parsing failures yield zero.
func ParsePrice(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
