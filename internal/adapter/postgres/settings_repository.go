package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

type settingsRepository struct {
	db DB
}

// NewSettingsRepository reads the single company_settings row
func NewSettingsRepository(db DB) interfaces.SettingsProvider {
	return &settingsRepository{db: db}
}

// NewSettingsStore writes the single company_settings row
func NewSettingsStore(db DB) interfaces.SettingsStore {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetSettings(ctx context.Context) (domain.CompanySettings, error) {
	query := `
		SELECT name, whatsapp_phone, business_hours, delivery_enabled_days, delivery_locations, updated_at, email
		FROM company_settings
		ORDER BY id
		LIMIT 1
	`

	var (
		settings  domain.CompanySettings
		days      []byte
		locations []byte
	)
	err := r.db.QueryRow(ctx, query).Scan(
		&settings.Name, &settings.WhatsAppPhone, &settings.BusinessHours, &days, &locations, &settings.UpdatedAt,
		&settings.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DefaultCompanySettings(), nil
		}
		return domain.CompanySettings{}, errors.Wrap(err, "failed to load company settings")
	}

	if len(days) > 0 {
		if err := json.Unmarshal(days, &settings.DeliveryEnabledDays); err != nil {
			return domain.CompanySettings{}, errors.Wrap(err, "failed to decode delivery_enabled_days")
		}
	}
	if len(locations) > 0 {
		if err := json.Unmarshal(locations, &settings.DeliveryLocations); err != nil {
			return domain.CompanySettings{}, errors.Wrap(err, "failed to decode delivery_locations")
		}
	}

	return settings, nil
}

func (r *settingsRepository) SaveSettings(ctx context.Context, settings domain.CompanySettings) (domain.CompanySettings, error) {
	days, err := json.Marshal(settings.DeliveryEnabledDays)
	if err != nil {
		return domain.CompanySettings{}, errors.Wrap(err, "failed to encode delivery_enabled_days")
	}
	locations, err := json.Marshal(settings.DeliveryLocations)
	if err != nil {
		return domain.CompanySettings{}, errors.Wrap(err, "failed to encode delivery_locations")
	}

	query := `
		INSERT INTO company_settings
			(id, name, whatsapp_phone, email, business_hours, delivery_enabled_days, delivery_locations, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			whatsapp_phone = EXCLUDED.whatsapp_phone,
			email = EXCLUDED.email,
			business_hours = EXCLUDED.business_hours,
			delivery_enabled_days = EXCLUDED.delivery_enabled_days,
			delivery_locations = EXCLUDED.delivery_locations,
			updated_at = now()
		RETURNING updated_at
	`

	err = r.db.QueryRow(ctx, query,
		settings.Name, settings.WhatsAppPhone, settings.Email, settings.BusinessHours, days, locations,
	).Scan(&settings.UpdatedAt)
	if err != nil {
		return domain.CompanySettings{}, errors.Wrap(err, "failed to save company settings")
	}

	return settings, nil
}
