package message

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/carta/internal/domain"
)

const (
	currencySymbol = "€"
	separator      = "━━━━━━━━━━━━━━━"
)

// Item is one ordered product as the formatter sees it
type Item struct {
	Product       domain.Product
	Quantity      int
	Customization *domain.Customization
}

type Customer struct {
	Name  string
	Email string
}

// Order carries everything rendered in the message. Total is rendered as
// given; the formatter never recomputes it.
type Order struct {
	Items     []Item
	Delivery  domain.DeliveryInfo
	Customer  Customer
	Total     decimal.Decimal
	Locale    string
	Locations []domain.DeliveryLocation
}

// NameResolver picks the display name out of a translation map
type NameResolver func(translations domain.Translations, lang string) string

func ResolveName(translations domain.Translations, lang string) string {
	return translations.Resolve(lang)
}

type section func(b *strings.Builder, o Order, lang string, l labels, resolve NameResolver)

// Sections in the order they appear inside every language block
var sections = []section{
	writeHeader,
	writeCustomer,
	writeItems,
	writeDelivery,
	writeTotal,
}

// layout returns the languages rendered for locale, in order. Spanish
// renders alone; any other locale renders its own block (English when it
// has no labels) followed by a Spanish one for the restaurant.
func layout(locale string) []string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == domain.DefaultLanguage {
		return []string{domain.DefaultLanguage}
	}
	if _, ok := catalog[locale]; !ok {
		locale = "en"
	}
	return []string{locale, domain.DefaultLanguage}
}

// Format renders the order summary handed off to the restaurant
func Format(o Order, resolve NameResolver) string {
	if resolve == nil {
		resolve = ResolveName
	}

	langs := layout(o.Locale)
	blocks := make([]string, 0, len(langs))

	for _, lang := range langs {
		l := catalog[lang]

		var b strings.Builder
		if len(langs) > 1 {
			b.WriteString(l.language)
			b.WriteString("\n\n")
		}
		for _, write := range sections {
			write(&b, o, lang, l, resolve)
		}
		blocks = append(blocks, strings.TrimRight(b.String(), "\n"))
	}

	return strings.Join(blocks, "\n\n"+separator+"\n\n")
}

func writeHeader(b *strings.Builder, _ Order, _ string, l labels, _ NameResolver) {
	b.WriteString(l.header)
	b.WriteString("\n\n")
}

func writeCustomer(b *strings.Builder, o Order, _ string, l labels, _ NameResolver) {
	name := strings.TrimSpace(o.Customer.Name)
	email := strings.TrimSpace(o.Customer.Email)
	if name == "" && email == "" {
		return
	}

	if name != "" {
		fmt.Fprintf(b, "%s: %s\n", l.customer, name)
	}
	if email != "" {
		fmt.Fprintf(b, "%s: %s\n", l.email, email)
	}
	b.WriteString("\n")
}

func writeItems(b *strings.Builder, o Order, lang string, l labels, resolve NameResolver) {
	if len(o.Items) == 0 {
		return
	}

	b.WriteString(l.products)
	b.WriteString("\n")

	for i, item := range o.Items {
		fmt.Fprintf(b, "%d. %s\n", i+1, resolve(item.Product.Translations, lang))
		fmt.Fprintf(b, "   %s: %d\n", l.quantity, item.Quantity)
		writeCustomization(b, item.Customization, lang, l, resolve)
	}
	b.WriteString("\n")
}

func writeCustomization(b *strings.Builder, c *domain.Customization, lang string, l labels, resolve NameResolver) {
	if c.IsEmpty() {
		return
	}

	if len(c.DeselectedIngredients) > 0 {
		fmt.Fprintf(b, "   %s: %s\n", l.without, strings.Join(c.DeselectedIngredients, ", "))
	}

	if len(c.SelectedExtras) > 0 {
		extras := make([]string, 0, len(c.SelectedExtras))
		for _, extra := range c.SelectedExtras {
			name := resolve(extra.Translations, lang)
			if price := extra.ExtraPrice(); price.IsPositive() {
				name = fmt.Sprintf("%s (+%s)", name, formatMoney(price))
			}
			extras = append(extras, name)
		}
		fmt.Fprintf(b, "   %s: %s\n", l.extras, strings.Join(extras, ", "))
	}

	if notes := strings.TrimSpace(c.AdditionalNotes); notes != "" {
		fmt.Fprintf(b, "   %s: %s\n", l.notes, notes)
	}
}

func writeDelivery(b *strings.Builder, o Order, _ string, l labels, _ NameResolver) {
	d := o.Delivery
	zone := domain.ZoneDisplayName(d.Zone, o.Locations)

	var lines []string
	if v := strings.TrimSpace(d.Street); v != "" {
		lines = append(lines, fmt.Sprintf("%s: %s", l.street, v))
	}
	if v := strings.TrimSpace(d.HouseNumber); v != "" {
		lines = append(lines, fmt.Sprintf("%s: %s", l.number, v))
	}
	if zone != "" {
		lines = append(lines, fmt.Sprintf("%s: %s", l.zone, zone))
	}
	if d.Phone != "" {
		lines = append(lines, fmt.Sprintf("%s: %s", l.phone, d.Phone))
	}
	if v := strings.TrimSpace(d.Notes); v != "" {
		lines = append(lines, fmt.Sprintf("%s: %s", l.deliveryNotes, v))
	}
	if len(lines) == 0 {
		return
	}

	b.WriteString(l.delivery)
	b.WriteString("\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
}

func writeTotal(b *strings.Builder, o Order, _ string, l labels, _ NameResolver) {
	fmt.Fprintf(b, "%s: %s*\n", l.total, formatMoney(o.Total))
}

func formatMoney(d decimal.Decimal) string {
	return currencySymbol + d.StringFixed(2)
}
