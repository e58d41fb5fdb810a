package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegotiateLocale(t *testing.T) {
	cases := []struct {
		name       string
		candidates []string
		want       string
	}{
		{"plain code", []string{"en"}, "en"},
		{"regional tag", []string{"en-GB"}, "en"},
		{"accept language header", []string{"", "fr-CH, fr;q=0.9, en;q=0.8"}, "fr"},
		{"first candidate wins", []string{"es", "en-US"}, "es"},
		{"unsupported passes through", []string{"de-DE"}, "de"},
		{"supported later in header", []string{"de-DE, en;q=0.5"}, "en"},
		{"nothing usable", []string{"", "  "}, "es"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NegotiateLocale(tc.candidates...))
		})
	}
}
