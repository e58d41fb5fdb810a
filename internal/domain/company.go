package domain

import (
	"strings"
	"time"
)

const (
	DefaultBusinessHours = "Lun-Dom: 08:00 - 23:00"
	DefaultWhatsAppPhone = "+34623736566"
)

// CompanySettings is the subset of the company profile the ordering flow
// depends on
type CompanySettings struct {
	Name                string             `json:"name"`
	WhatsAppPhone       string             `json:"whatsapp_phone"`
	Email               string             `json:"email,omitempty"`
	BusinessHours       string             `json:"business_hours"`
	DeliveryEnabledDays map[string]bool    `json:"delivery_enabled_days"`
	DeliveryLocations   []DeliveryLocation `json:"delivery_locations"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// DefaultCompanySettings is what the service assumes before any settings
// were fetched
func DefaultCompanySettings() CompanySettings {
	return CompanySettings{
		WhatsAppPhone:       DefaultWhatsAppPhone,
		BusinessHours:       DefaultBusinessHours,
		DeliveryEnabledDays: map[string]bool{},
		DeliveryLocations:   DefaultDeliveryLocations(),
	}
}

// Locations returns the configured delivery locations or the defaults
func (s CompanySettings) Locations() []DeliveryLocation {
	if len(s.DeliveryLocations) == 0 {
		return DefaultDeliveryLocations()
	}
	return s.DeliveryLocations
}

const (
	maxCompanyName  = 100
	maxCompanyEmail = 100
	maxHoursText    = 1000
	maxDayKey       = 20
	maxLocationName = 100
)

// Validate checks settings submitted from the back office
func (s CompanySettings) Validate() error {
	var errs ValidationErrors

	errs.require("name", s.Name, maxCompanyName)
	errs.require("whatsapp_phone", s.WhatsAppPhone, maxPhone)
	errs.require("business_hours", s.BusinessHours, maxHoursText)

	if email := strings.TrimSpace(s.Email); email != "" {
		switch {
		case len([]rune(email)) > maxCompanyEmail:
			errs.add("email", "email must not exceed %d characters", maxCompanyEmail)
		case !strings.Contains(email, "@"):
			errs.add("email", "email is not a valid address")
		}
	}

	for day := range s.DeliveryEnabledDays {
		if strings.TrimSpace(day) == "" || len([]rune(day)) > maxDayKey {
			errs.add("delivery_enabled_days", "invalid day key %q", day)
		}
	}

	seen := make(map[string]bool, len(s.DeliveryLocations))
	for _, loc := range s.DeliveryLocations {
		value := strings.ToLower(strings.TrimSpace(loc.Value))
		switch {
		case value == "":
			errs.add("delivery_locations", "location value is required")
		case seen[value]:
			errs.add("delivery_locations", "duplicate location %q", loc.Value)
		case strings.TrimSpace(loc.Name) == "" || len([]rune(loc.Name)) > maxLocationName:
			errs.add("delivery_locations", "location %q needs a name up to %d characters", loc.Value, maxLocationName)
		}
		seen[value] = true
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
