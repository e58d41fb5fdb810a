package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Env keys are built from the field path only, e.g. CARTA_DATABASE_HOST or
// CARTA_COMPANY_REFRESH_INTERVAL. Fields carry no envconfig name tags: a
// tag would make envconfig also read the bare name (USER, PORT) from the
// shell.
const envPrefix = "CARTA"

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Company  CompanyConfig  `yaml:"company"`
	Cart     CartConfig     `yaml:"cart"`
	Email    EmailConfig    `yaml:"email"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
	// AdminToken guards the back-office routes; empty disables them
	AdminToken string `yaml:"admin_token" split_words:"true"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SettingsSource string

const (
	SettingsFromPostgres SettingsSource = "postgres"
	SettingsFromHTTP     SettingsSource = "http"
)

type CompanyConfig struct {
	WhatsappPhone   string         `yaml:"whatsapp_phone" split_words:"true"`
	Email           string         `yaml:"email"`
	Timezone        string         `yaml:"timezone"`
	SettingsSource  SettingsSource `yaml:"settings_source" split_words:"true"`
	SettingsURL     string         `yaml:"settings_url" split_words:"true"`
	RefreshInterval time.Duration  `yaml:"refresh_interval" split_words:"true"`
}

type CartStorage string

const (
	CartStoragePostgres CartStorage = "postgres"
	CartStorageMemory   CartStorage = "memory"
)

type CartConfig struct {
	Storage CartStorage `yaml:"storage"`
	// IdleTimeout is how long an untouched session stays in memory
	IdleTimeout   time.Duration `yaml:"idle_timeout" split_words:"true"`
	SweepInterval time.Duration `yaml:"sweep_interval" split_words:"true"`
}

// EmailConfig configures order emails sent through the Brevo HTTP API.
// Emails are off while APIKey is empty.
type EmailConfig struct {
	APIURL        string        `yaml:"api_url" split_words:"true"`
	APIKey        string        `yaml:"api_key" split_words:"true"`
	SenderName    string        `yaml:"sender_name" split_words:"true"`
	SenderAddress string        `yaml:"sender_address" split_words:"true"`
	Timeout       time.Duration `yaml:"timeout"`
}

func (c EmailConfig) Enabled() bool {
	return c.APIKey != ""
}

func Default() Config {
	return Config{
		Database: DatabaseConfig{Host: "localhost", Port: 5432, User: "carta", Database: "carta"},
		RabbitMQ: RabbitMQConfig{Host: "localhost", Port: 5672, User: "guest", Password: "guest"},
		HTTP:     HTTPConfig{Port: 3000},
		Log:      LogConfig{Level: "info"},
		Company: CompanyConfig{
			WhatsappPhone:   "+34623736566",
			Timezone:        "Europe/Madrid",
			SettingsSource:  SettingsFromPostgres,
			RefreshInterval: time.Minute,
		},
		Cart: CartConfig{
			Storage:       CartStoragePostgres,
			IdleTimeout:   30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Email: EmailConfig{
			APIURL:     "https://api.brevo.com/v3/smtp/email",
			SenderName: "Carta",
			Timeout:    10 * time.Second,
		},
	}
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides such as CARTA_DATABASE_HOST. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Company.SettingsSource {
	case SettingsFromPostgres:
	case SettingsFromHTTP:
		if c.Company.SettingsURL == "" {
			return fmt.Errorf("company.settings_url is required for settings_source %q", c.Company.SettingsSource)
		}
	default:
		return fmt.Errorf("unknown company.settings_source %q", c.Company.SettingsSource)
	}

	switch c.Cart.Storage {
	case CartStoragePostgres, CartStorageMemory:
	default:
		return fmt.Errorf("unknown cart.storage %q", c.Cart.Storage)
	}

	if c.Email.Enabled() && c.Email.SenderAddress == "" {
		return fmt.Errorf("email.sender_address is required when email.api_key is set")
	}

	if c.Company.RefreshInterval <= 0 {
		c.Company.RefreshInterval = time.Minute
	}
	if c.Cart.IdleTimeout <= 0 {
		c.Cart.IdleTimeout = 30 * time.Minute
	}
	if c.Cart.SweepInterval <= 0 {
		c.Cart.SweepInterval = time.Minute
	}
	if c.Email.Timeout <= 0 {
		c.Email.Timeout = 10 * time.Second
	}

	return nil
}

// Location resolves the configured timezone, falling back to UTC
func (c CompanyConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
