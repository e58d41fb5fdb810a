package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

type CartHandler struct {
	service interfaces.CartService
	logger  logger.Logger
}

func NewCartHandler(service interfaces.CartService, logger logger.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger,
	}
}

type AddItemRequest struct {
	Product       domain.Product        `json:"product"`
	Quantity      *int                  `json:"quantity,omitempty"`
	Customization *domain.Customization `json:"customization,omitempty"`
}

type UpdateCustomizationRequest struct {
	Customization *domain.Customization `json:"customization"`
}

type CartLineResponse struct {
	ID            string                `json:"id"`
	Product       domain.Product        `json:"product"`
	Quantity      int                   `json:"quantity"`
	Customization *domain.Customization `json:"customization"`
	Subtotal      string                `json:"subtotal"`
}

type CartResponse struct {
	Lines      []CartLineResponse `json:"lines"`
	ItemCount  int                `json:"item_count"`
	TotalPrice string             `json:"total_price"`
	LineID     string             `json:"line_id,omitempty"`
}

func newCartResponse(snapshot interfaces.CartSnapshot) CartResponse {
	lines := make([]CartLineResponse, len(snapshot.Lines))
	for i, line := range snapshot.Lines {
		lines[i] = CartLineResponse{
			ID:            line.ID,
			Product:       line.Product,
			Quantity:      line.Quantity,
			Customization: line.Customization,
			Subtotal:      line.Subtotal().StringFixed(2),
		}
	}
	return CartResponse{
		Lines:      lines,
		ItemCount:  snapshot.ItemCount,
		TotalPrice: snapshot.TotalPrice.StringFixed(2),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	session := mux.Vars(r)["session"]
	respondJSON(w, http.StatusOK, newCartResponse(h.service.Snapshot(r.Context(), session)))
}

// AddItem merges into an existing unmodified line when possible. A missing
// quantity means one; a quantity below one leaves the cart untouched.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	session := mux.Vars(r)["session"]

	var req AddItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if req.Product.ID <= 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{{
			Field:   "product.id",
			Message: "product id is required",
		}})
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	lineID, snapshot := h.service.AddItem(r.Context(), session, req.Product, quantity, req.Customization)

	resp := newCartResponse(snapshot)
	resp.LineID = lineID

	status := http.StatusOK
	if lineID != "" {
		status = http.StatusCreated
	}
	respondJSON(w, status, resp)
}

func (h *CartHandler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, h.service.IncrementItem)
}

func (h *CartHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, h.service.DecrementItem)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, h.service.RemoveItem)
}

func (h *CartHandler) UpdateCustomization(w http.ResponseWriter, r *http.Request) {
	var req UpdateCustomizationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	h.mutateLine(w, r, func(ctx context.Context, session, lineID string) (interfaces.CartSnapshot, bool) {
		return h.service.UpdateCustomization(ctx, session, lineID, req.Customization)
	})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	session := mux.Vars(r)["session"]
	h.service.Clear(r.Context(), session)
	w.WriteHeader(http.StatusNoContent)
}

type lineMutation func(ctx context.Context, session, lineID string) (interfaces.CartSnapshot, bool)

func (h *CartHandler) mutateLine(w http.ResponseWriter, r *http.Request, mutate lineMutation) {
	vars := mux.Vars(r)

	snapshot, ok := mutate(r.Context(), vars["session"], vars["line"])
	if !ok {
		h.logger.Debug("cart_line_not_found", "Cart line not found", RequestID(r.Context()), map[string]interface{}{
			"session": vars["session"],
			"line":    vars["line"],
		})
		respondError(w, "Cart line not found", http.StatusNotFound, nil)
		return
	}

	respondJSON(w, http.StatusOK, newCartResponse(snapshot))
}
