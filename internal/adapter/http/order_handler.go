package http

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

type UpdateStatusRequest struct {
	Status    string `json:"status"`
	ChangedBy string `json:"changed_by"`
}

type CancelOrderRequest struct {
	ChangedBy string `json:"changed_by"`
}

type OrderItemResponse struct {
	ProductID     int                   `json:"product_id"`
	ProductName   string                `json:"product_name"`
	Quantity      int                   `json:"quantity"`
	UnitPrice     string                `json:"unit_price"`
	Subtotal      string                `json:"subtotal"`
	Customization *domain.Customization `json:"customization,omitempty"`
}

type OrderResponse struct {
	OrderNumber  string              `json:"order_number"`
	Status       string              `json:"status"`
	CustomerName string              `json:"customer_name,omitempty"`
	Locale       string              `json:"locale"`
	Delivery     domain.DeliveryInfo `json:"delivery"`
	Items        []OrderItemResponse `json:"items"`
	TotalPrice   string              `json:"total_price"`
	ChangedBy    *string             `json:"changed_by,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type StatusLogResponse struct {
	Status    string    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	Timestamp time.Time `json:"timestamp"`
}

func newOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice.StringFixed(2),
			Subtotal:      item.Subtotal.StringFixed(2),
			Customization: item.Customization,
		}
	}

	return OrderResponse{
		OrderNumber:  order.Number,
		Status:       string(order.Status),
		CustomerName: order.CustomerName,
		Locale:       order.Locale,
		Delivery:     order.Delivery,
		Items:        items,
		TotalPrice:   order.TotalPrice.StringFixed(2),
		ChangedBy:    order.ChangedBy,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newOrderResponse(order))
}

func (h *OrderHandler) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.GetOrderHistory(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	resp := make([]StatusLogResponse, 0, len(history))
	for _, entry := range history {
		resp = append(resp, StatusLogResponse{
			Status:    string(entry.Status),
			ChangedBy: entry.ChangedBy,
			Timestamp: entry.ChangedAt,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	status := domain.Status(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.IsValid() {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{{
			Field:   "status",
			Message: "status must be one of: pending, confirmed, completed, cancelled",
		}})
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), mux.Vars(r)["number"], status, strings.TrimSpace(req.ChangedBy))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newOrderResponse(order))
}

// CancelOrder accepts an empty body; the change is then attributed to the
// customer
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	req := CancelOrderRequest{ChangedBy: "customer"}
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if req.ChangedBy == "" {
		req.ChangedBy = "customer"
	}

	order, err := h.service.CancelOrder(r.Context(), mux.Vars(r)["number"], strings.TrimSpace(req.ChangedBy))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newOrderResponse(order))
}

func (h *OrderHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		respondError(w, "Order not found", http.StatusNotFound, nil)
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		respondError(w, err.Error(), http.StatusConflict, nil)
	default:
		h.logger.Error("order_request_failed", "Order request failed", RequestID(r.Context()), map[string]interface{}{
			"path": r.URL.Path,
		}, err)
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
	}
}
