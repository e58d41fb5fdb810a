package http

import (
	"errors"
	"net/http"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/app/company"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

type CompanyHandler struct {
	service interfaces.CompanyService
	logger  logger.Logger
}

func NewCompanyHandler(service interfaces.CompanyService, logger logger.Logger) *CompanyHandler {
	return &CompanyHandler{
		service: service,
		logger:  logger,
	}
}

func (h *CompanyHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	requestID := RequestID(r.Context())

	var req domain.CompanySettings
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	saved, err := h.service.UpdateSettings(r.Context(), req)
	if err != nil {
		var verrs domain.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			respondError(w, "Validation failed", http.StatusBadRequest, toValidationErrors(verrs))
		case errors.Is(err, company.ErrSettingsReadOnly):
			respondError(w, err.Error(), http.StatusConflict, nil)
		default:
			h.logger.Error("settings_update_failed", "Failed to update settings", requestID, nil, err)
			respondError(w, "Internal server error", http.StatusInternalServerError, nil)
		}
		return
	}

	respondJSON(w, http.StatusOK, saved)
}
