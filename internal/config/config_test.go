package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db.internal
  port: 6432
  user: menu
  password: secret
  database: menu
company:
  timezone: Europe/Madrid
  refresh_interval: 30s
cart:
  storage: memory
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Equal(t, 30*time.Second, cfg.Company.RefreshInterval)
	assert.Equal(t, CartStorageMemory, cfg.Cart.Storage)
	assert.Equal(t, "localhost", cfg.RabbitMQ.Host)
	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, "+34623736566", cfg.Company.WhatsappPhone)
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	path := writeConfig(t, "http:\n  port: 8080\n")
	t.Setenv("CARTA_HTTP_PORT", "9090")
	t.Setenv("CARTA_DATABASE_HOST", "pg")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "pg", cfg.Database.Host)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Company, cfg.Company)
}

func TestLoadRejectsHTTPSettingsWithoutURL(t *testing.T) {
	path := writeConfig(t, "company:\n  settings_source: http\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, CompanyConfig{Timezone: "Nowhere/Land"}.Location())
}

func TestLoadIgnoresBareShellVariables(t *testing.T) {
	path := writeConfig(t, `
database:
  user: carta
  port: 5432
rabbitmq:
  user: guest
  port: 5672
http:
  port: 3000
`)
	t.Setenv("USER", "root")
	t.Setenv("PORT", "8080")
	t.Setenv("HOST", "elsewhere")
	t.Setenv("PASSWORD", "leaked")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "carta", cfg.Database.User)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, "guest", cfg.RabbitMQ.User)
	assert.Equal(t, 5672, cfg.RabbitMQ.Port)
	assert.Equal(t, 3000, cfg.HTTP.Port)
}

func TestLoadMultiWordEnvKeys(t *testing.T) {
	t.Setenv("CARTA_COMPANY_REFRESH_INTERVAL", "45s")
	t.Setenv("CARTA_COMPANY_WHATSAPP_PHONE", "+34600000000")
	t.Setenv("CARTA_DATABASE_USER", "menu")
	t.Setenv("CARTA_CART_IDLE_TIMEOUT", "5m")
	t.Setenv("CARTA_HTTP_ADMIN_TOKEN", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Company.RefreshInterval)
	assert.Equal(t, "+34600000000", cfg.Company.WhatsappPhone)
	assert.Equal(t, "menu", cfg.Database.User)
	assert.Equal(t, 5*time.Minute, cfg.Cart.IdleTimeout)
	assert.Equal(t, "s3cret", cfg.HTTP.AdminToken)
}

func TestLoadRequiresSenderWithEmailKey(t *testing.T) {
	path := writeConfig(t, "email:\n  api_key: xkeysib\n")

	_, err := Load(path)
	assert.Error(t, err)

	path = writeConfig(t, "email:\n  api_key: xkeysib\n  sender_address: pedidos@example.com\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Email.Enabled())
	assert.Equal(t, "https://api.brevo.com/v3/smtp/email", cfg.Email.APIURL)
}
