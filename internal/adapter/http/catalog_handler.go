package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

type CatalogHandler struct {
	service interfaces.CatalogService
	logger  logger.Logger
}

func NewCatalogHandler(service interfaces.CatalogService, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts supports ?available=, ?categories=, ?ingredients=, ?search=
// and ?ordering=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, errs := parseProductFilter(r)
	if len(errs) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, errs)
		return
	}

	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		respondError(w, "Product not found", http.StatusNotFound, nil)
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	extrasOnly := false
	if raw := r.URL.Query().Get("extras"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{{
				Field: "extras", Message: "extras must be true or false",
			}})
			return
		}
		extrasOnly = v
	}

	ingredients, err := h.service.ListIngredients(r.Context(), extrasOnly)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if ingredients == nil {
		ingredients = []domain.Ingredient{}
	}
	respondJSON(w, http.StatusOK, ingredients)
}

func parseProductFilter(r *http.Request) (domain.ProductFilter, []ValidationError) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		Ordering: strings.TrimSpace(q.Get("ordering")),
	}
	var errs []ValidationError

	if raw := q.Get("available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, ValidationError{Field: "available", Message: "available must be true or false"})
		} else {
			filter.Available = &v
		}
	}

	for field, dst := range map[string]*int{"categories": &filter.CategoryID, "ingredients": &filter.IngredientID} {
		raw := q.Get(field)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			errs = append(errs, ValidationError{Field: field, Message: field + " must be a positive id"})
			continue
		}
		*dst = v
	}

	return filter, errs
}

func (h *CatalogHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		respondError(w, "Validation failed", http.StatusBadRequest, toValidationErrors(verrs))
	case errors.Is(err, domain.ErrProductNotFound):
		respondError(w, "Product not found", http.StatusNotFound, nil)
	default:
		h.logger.Error("catalog_request_failed", "Catalog request failed", RequestID(r.Context()), map[string]interface{}{
			"path": r.URL.Path,
		}, err)
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
	}
}
