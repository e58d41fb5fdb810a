package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
)

type Handlers struct {
	Cart         *CartHandler
	Checkout     *CheckoutHandler
	Availability *AvailabilityHandler
	Order        *OrderHandler
	Catalog      *CatalogHandler
	Company      *CompanyHandler
	// AdminToken guards back-office routes; empty disables them
	AdminToken string
}

// NewRouter wires every menu-service route behind the logging and recovery
// middleware
func NewRouter(h Handlers, logger logger.Logger) http.Handler {
	r := mux.NewRouter()

	carts := r.PathPrefix("/carts/{session}").Subrouter()
	carts.HandleFunc("", h.Cart.GetCart).Methods(http.MethodGet)
	carts.HandleFunc("", h.Cart.ClearCart).Methods(http.MethodDelete)
	carts.HandleFunc("/items", h.Cart.AddItem).Methods(http.MethodPost)
	carts.HandleFunc("/items/{line}", h.Cart.RemoveItem).Methods(http.MethodDelete)
	carts.HandleFunc("/items/{line}/increment", h.Cart.IncrementItem).Methods(http.MethodPost)
	carts.HandleFunc("/items/{line}/decrement", h.Cart.DecrementItem).Methods(http.MethodPost)
	carts.HandleFunc("/items/{line}/customization", h.Cart.UpdateCustomization).Methods(http.MethodPut)
	carts.HandleFunc("/checkout", h.Checkout.PlaceOrder).Methods(http.MethodPost)

	r.HandleFunc("/availability", h.Availability.GetAvailability).Methods(http.MethodGet)
	r.HandleFunc("/availability/refresh", h.Availability.Refresh).Methods(http.MethodPost)

	r.HandleFunc("/products", h.Catalog.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{id:[0-9]+}", h.Catalog.GetProduct).Methods(http.MethodGet)
	r.HandleFunc("/categories", h.Catalog.ListCategories).Methods(http.MethodGet)
	r.HandleFunc("/ingredients", h.Catalog.ListIngredients).Methods(http.MethodGet)

	admin := r.PathPrefix("/company").Subrouter()
	admin.Use(mux.MiddlewareFunc(AdminMiddleware(h.AdminToken, logger)))
	admin.HandleFunc("/settings", h.Company.UpdateSettings).Methods(http.MethodPut)

	orders := r.PathPrefix("/orders/{number}").Subrouter()
	orders.HandleFunc("", h.Order.GetOrder).Methods(http.MethodGet)
	orders.HandleFunc("/history", h.Order.GetOrderHistory).Methods(http.MethodGet)
	orders.HandleFunc("/status", h.Order.UpdateStatus).Methods(http.MethodPatch)
	orders.HandleFunc("/cancel", h.Order.CancelOrder).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, "Not found", http.StatusNotFound, nil)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
	})

	var handler http.Handler = r
	handler = RecoveryMiddleware(logger)(handler)
	handler = LoggingMiddleware(logger)(handler)
	return handler
}
