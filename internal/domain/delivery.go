package domain

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeliveryInfo is what the shopper fills in at checkout
type DeliveryInfo struct {
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
	Zone        string `json:"zone"`
	Phone       string `json:"phone"`
	Notes       string `json:"notes,omitempty"`
}

// DeliveryLocation is a zone configured in the company settings
type DeliveryLocation struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
}

const (
	maxStreet      = 200
	maxHouseNumber = 20
	maxZone        = 100
	maxPhone       = 20
)

// Validate checks the delivery form against the configured zones. All
// problems are reported at once.
func (d DeliveryInfo) Validate(locations []DeliveryLocation) error {
	var errs ValidationErrors

	errs.require("street", d.Street, maxStreet)
	errs.require("house_number", d.HouseNumber, maxHouseNumber)
	errs.require("zone", d.Zone, maxZone)
	errs.require("phone", d.Phone, maxPhone)

	if zone := strings.TrimSpace(d.Zone); zone != "" && !ZoneEnabled(zone, locations) {
		errs.add("zone", "delivery is not available in %s", ZoneDisplayName(zone, locations))
	}

	if utf8.RuneCountInString(d.Notes) > MaxOrderNotes {
		errs.add("notes", "notes must not exceed %d characters", MaxOrderNotes)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

const (
	ZoneArdales    = "ardales"
	ZoneCarratraca = "carratraca"
)

var defaultZoneNames = map[string]string{
	ZoneArdales:    "Ardales",
	ZoneCarratraca: "Carratraca",
}

// DefaultDeliveryLocations is used when the company has not configured any
func DefaultDeliveryLocations() []DeliveryLocation {
	return []DeliveryLocation{
		{ID: 1, Name: "Ardales", Value: ZoneArdales, Enabled: true},
		{ID: 2, Name: "Carratraca", Value: ZoneCarratraca, Enabled: true},
	}
}

// ZoneDisplayName maps a zone code to its display name. Configured locations
// win over the built-in table; unknown codes are title-cased.
func ZoneDisplayName(code string, locations []DeliveryLocation) string {
	key := strings.ToLower(strings.TrimSpace(code))
	if key == "" {
		return ""
	}

	for _, loc := range locations {
		if strings.EqualFold(loc.Value, key) && loc.Name != "" {
			return loc.Name
		}
	}

	if name, ok := defaultZoneNames[key]; ok {
		return name
	}

	return cases.Title(language.Spanish).String(strings.ReplaceAll(key, "_", " "))
}

// ZoneEnabled reports whether orders can be delivered to code
func ZoneEnabled(code string, locations []DeliveryLocation) bool {
	if len(locations) == 0 {
		locations = DefaultDeliveryLocations()
	}
	for _, loc := range locations {
		if strings.EqualFold(loc.Value, strings.TrimSpace(code)) {
			return loc.Enabled
		}
	}
	return false
}
