package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanySettingsValidate(t *testing.T) {
	settings := DefaultCompanySettings()
	settings.Name = "Carta"
	require.NoError(t, settings.Validate())

	tests := []struct {
		name   string
		mutate func(*CompanySettings)
		field  string
	}{
		{"missing name", func(s *CompanySettings) { s.Name = " " }, "name"},
		{"long name", func(s *CompanySettings) { s.Name = strings.Repeat("n", 101) }, "name"},
		{"missing phone", func(s *CompanySettings) { s.WhatsAppPhone = "" }, "whatsapp_phone"},
		{"missing hours", func(s *CompanySettings) { s.BusinessHours = "" }, "business_hours"},
		{"bad email", func(s *CompanySettings) { s.Email = "pedidos" }, "email"},
		{"blank day", func(s *CompanySettings) { s.DeliveryEnabledDays = map[string]bool{" ": true} }, "delivery_enabled_days"},
		{"duplicate location", func(s *CompanySettings) {
			s.DeliveryLocations = []DeliveryLocation{{Name: "A", Value: "ardales"}, {Name: "B", Value: "Ardales"}}
		}, "delivery_locations"},
		{"unnamed location", func(s *CompanySettings) {
			s.DeliveryLocations = []DeliveryLocation{{Value: "ardales"}}
		}, "delivery_locations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultCompanySettings()
			s.Name = "Carta"
			tt.mutate(&s)

			var errs ValidationErrors
			require.ErrorAs(t, s.Validate(), &errs)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}
