package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/carta/internal/domain"
)

func serve(t *testing.T, status int, body string) *SettingsClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewSettingsClient(srv.URL, srv.Client())
}

func TestSettingsClientObject(t *testing.T) {
	client := serve(t, http.StatusOK, `{
		"whatsapp_phone": "+34600111222",
		"business_hours": "Lun-Vie: 09:00 - 22:00\nSáb: cerrado",
		"delivery_enabled_days": {"Dom": false},
		"delivery_locations": [{"id": 1, "name": "Ardales", "value": "ardales", "enabled": true}],
		"translations": {"es": {"name": "La Carta"}}
	}`)

	settings, err := client.GetSettings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "La Carta", settings.Name)
	assert.Equal(t, "+34600111222", settings.WhatsAppPhone)
	assert.Equal(t, map[string]bool{"Dom": false}, settings.DeliveryEnabledDays)
	assert.Len(t, settings.DeliveryLocations, 1)
}

func TestSettingsClientListAndPage(t *testing.T) {
	for _, body := range []string{
		`[{"business_hours": "Lun: cerrado"}, {"business_hours": "ignored"}]`,
		`{"count": 1, "results": [{"business_hours": "Lun: cerrado"}]}`,
	} {
		settings, err := serve(t, http.StatusOK, body).GetSettings(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Lun: cerrado", settings.BusinessHours)
		assert.Equal(t, domain.DefaultWhatsAppPhone, settings.WhatsAppPhone)
	}
}

func TestSettingsClientDefaultsHours(t *testing.T) {
	settings, err := serve(t, http.StatusOK, `{"name": "Carta"}`).GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBusinessHours, settings.BusinessHours)
	assert.Equal(t, "Carta", settings.Name)
}

func TestSettingsClientErrors(t *testing.T) {
	_, err := serve(t, http.StatusServiceUnavailable, ``).GetSettings(context.Background())
	assert.ErrorContains(t, err, "status 503")

	_, err = serve(t, http.StatusOK, `[]`).GetSettings(context.Background())
	assert.ErrorContains(t, err, "no company configured")

	_, err = serve(t, http.StatusOK, `{"delivery_locations": "nope"}`).GetSettings(context.Background())
	assert.Error(t, err)
}
