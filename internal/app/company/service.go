package company

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

// ErrSettingsReadOnly is returned when settings come from an external
// endpoint that this service cannot write to
var ErrSettingsReadOnly = errors.New("company settings are read-only")

type Service struct {
	store        interfaces.SettingsStore
	availability interfaces.AvailabilityService
	logger       logger.Logger
}

// NewService builds the settings editor. A nil store makes every update
// fail with ErrSettingsReadOnly.
func NewService(store interfaces.SettingsStore, availability interfaces.AvailabilityService, logger logger.Logger) *Service {
	return &Service{store: store, availability: availability, logger: logger}
}

// UpdateSettings validates and stores the settings, then re-evaluates
// availability so the new hours apply immediately
func (s *Service) UpdateSettings(ctx context.Context, settings domain.CompanySettings) (domain.CompanySettings, error) {
	if s.store == nil {
		return domain.CompanySettings{}, ErrSettingsReadOnly
	}

	settings = normalize(settings)
	if err := settings.Validate(); err != nil {
		return domain.CompanySettings{}, err
	}

	saved, err := s.store.SaveSettings(ctx, settings)
	if err != nil {
		s.logger.Error("settings_save_failed", "Failed to save company settings", "", nil, err)
		return domain.CompanySettings{}, fmt.Errorf("failed to save settings: %w", err)
	}

	status := s.availability.Refresh(ctx)
	s.logger.Info("settings_updated", "Company settings updated", "", map[string]interface{}{
		"ordering_enabled": status.OrderingEnabled,
		"locations":        len(saved.DeliveryLocations),
	})

	return saved, nil
}

func normalize(s domain.CompanySettings) domain.CompanySettings {
	s.Name = strings.TrimSpace(s.Name)
	s.WhatsAppPhone = strings.TrimSpace(s.WhatsAppPhone)
	s.Email = strings.TrimSpace(s.Email)
	s.BusinessHours = strings.TrimSpace(s.BusinessHours)
	if s.DeliveryEnabledDays == nil {
		s.DeliveryEnabledDays = map[string]bool{}
	}

	locations := make([]domain.DeliveryLocation, len(s.DeliveryLocations))
	for i, loc := range s.DeliveryLocations {
		loc.Name = strings.TrimSpace(loc.Name)
		loc.Value = strings.ToLower(strings.TrimSpace(loc.Value))
		locations[i] = loc
	}
	s.DeliveryLocations = locations
	return s
}
