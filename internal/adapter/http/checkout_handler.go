package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/app/checkout"
	"github.com/YelzhanWeb/carta/internal/app/message"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

type CheckoutHandler struct {
	service interfaces.CheckoutService
	logger  logger.Logger
}

func NewCheckoutHandler(service interfaces.CheckoutService, logger logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger,
	}
}

type CheckoutRequest struct {
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	Locale        string              `json:"locale"`
	Delivery      domain.DeliveryInfo `json:"delivery"`
}

type CheckoutResponse struct {
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsapp_url"`
	TotalPrice  string `json:"total_price"`
	ItemCount   int    `json:"item_count"`
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	requestID := RequestID(r.Context())

	var req CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	cmd := interfaces.CheckoutCommand{
		SessionKey:    mux.Vars(r)["session"],
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		Locale:        message.NegotiateLocale(req.Locale, r.Header.Get("Accept-Language")),
		Delivery:      req.Delivery,
	}

	result, err := h.service.PlaceOrder(r.Context(), cmd)
	if err != nil {
		var validation domain.ValidationErrors
		switch {
		case errors.As(err, &validation):
			h.logger.Debug("validation_failed", "Checkout validation failed", requestID, map[string]interface{}{
				"errors": validation,
			})
			respondError(w, "Validation failed", http.StatusBadRequest, toValidationErrors(validation))
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, err.Error(), http.StatusBadRequest, nil)
		case errors.Is(err, checkout.ErrOrderingClosed):
			respondError(w, err.Error(), http.StatusConflict, nil)
		default:
			h.logger.Error("checkout_failed", "Failed to place order", requestID, nil, err)
			respondError(w, "Failed to place order", http.StatusInternalServerError, nil)
		}
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponse{
		OrderNumber: result.OrderNumber,
		Status:      string(domain.StatusPending),
		Message:     result.Message,
		WhatsAppURL: result.WhatsAppURL,
		TotalPrice:  result.TotalPrice.StringFixed(2),
		ItemCount:   result.ItemCount,
	})
}
