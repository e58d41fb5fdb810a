package http

import (
	"net/http"
	"time"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

type AvailabilityHandler struct {
	service interfaces.AvailabilityService
	logger  logger.Logger
}

func NewAvailabilityHandler(service interfaces.AvailabilityService, logger logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		logger:  logger,
	}
}

type AvailabilityResponse struct {
	OrderingEnabled   bool                      `json:"ordering_enabled"`
	DayEnabled        bool                      `json:"day_enabled"`
	WithinHours       bool                      `json:"within_hours"`
	Weekday           string                    `json:"weekday"`
	BusinessHours     string                    `json:"business_hours"`
	DeliveryLocations []domain.DeliveryLocation `json:"delivery_locations"`
	CheckedAt         time.Time                 `json:"checked_at"`
}

func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.response(h.service.Status()))
}

func (h *AvailabilityHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	status := h.service.Refresh(r.Context())
	h.logger.Debug("availability_refreshed", "Availability refreshed on demand", RequestID(r.Context()), map[string]interface{}{
		"ordering_enabled": status.OrderingEnabled,
	})
	respondJSON(w, http.StatusOK, h.response(status))
}

func (h *AvailabilityHandler) response(status interfaces.AvailabilityStatus) AvailabilityResponse {
	settings := h.service.Settings()

	var locations []domain.DeliveryLocation
	for _, loc := range settings.Locations() {
		if loc.Enabled {
			locations = append(locations, loc)
		}
	}

	return AvailabilityResponse{
		OrderingEnabled:   status.OrderingEnabled,
		DayEnabled:        status.DayEnabled,
		WithinHours:       status.WithinHours,
		Weekday:           status.Weekday,
		BusinessHours:     settings.BusinessHours,
		DeliveryLocations: locations,
		CheckedAt:         status.CheckedAt,
	}
}
