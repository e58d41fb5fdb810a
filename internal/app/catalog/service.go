package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

type Service struct {
	repo   interfaces.ProductRepository
	logger logger.Logger
}

func NewService(repo interfaces.ProductRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	found, err := s.repo.FindProducts(ctx, []int{id})
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	product, ok := found[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &product, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *Service) ListIngredients(ctx context.Context, extrasOnly bool) ([]domain.Ingredient, error) {
	ingredients, err := s.repo.ListIngredients(ctx, extrasOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// Reprice replaces the product and extra snapshots carried by the lines with
// the current catalog entries. Unknown or unavailable products and extras
// that cannot be added are reported as validation errors, one per problem.
func (s *Service) Reprice(ctx context.Context, lines []domain.CartLine) ([]domain.CartLine, error) {
	productIDs := make([]int, 0, len(lines))
	var extraIDs []int
	for _, line := range lines {
		productIDs = append(productIDs, line.Product.ID)
		if line.Customization != nil {
			for _, extra := range line.Customization.SelectedExtras {
				extraIDs = append(extraIDs, extra.ID)
			}
		}
	}

	products, err := s.repo.FindProducts(ctx, compact(productIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	extras := map[int]domain.Ingredient{}
	if len(extraIDs) > 0 {
		extras, err = s.repo.FindIngredients(ctx, compact(extraIDs))
		if err != nil {
			return nil, fmt.Errorf("failed to load ingredients: %w", err)
		}
	}

	var errs domain.ValidationErrors
	out := make([]domain.CartLine, len(lines))

	for i, line := range lines {
		field := fmt.Sprintf("items[%d]", i)
		out[i] = line.Clone()

		product, ok := products[line.Product.ID]
		switch {
		case !ok:
			errs = append(errs, domain.FieldError{
				Field:   field + ".product",
				Message: fmt.Sprintf("product with id %d does not exist", line.Product.ID),
			})
			continue
		case !product.Available:
			errs = append(errs, domain.FieldError{
				Field:   field + ".product",
				Message: fmt.Sprintf("product '%s' is not available", product.Translations.Resolve(domain.DefaultLanguage)),
			})
			continue
		}
		out[i].Product = product

		if out[i].Customization == nil {
			continue
		}
		for j, extra := range out[i].Customization.SelectedExtras {
			current, ok := extras[extra.ID]
			if !ok || !current.IsExtra {
				errs = append(errs, domain.FieldError{
					Field:   field + ".customization.selected_extras",
					Message: fmt.Sprintf("ingredient with id %d cannot be added as extra", extra.ID),
				})
				continue
			}
			out[i].Customization.SelectedExtras[j] = current
		}
	}

	if len(errs) > 0 {
		s.logger.Debug("reprice_rejected", "Cart lines rejected by the catalog", "", map[string]interface{}{
			"errors": len(errs),
		})
		return nil, errs
	}
	return out, nil
}

func compact(ids []int) []int {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	return slices.Compact(ids)
}
