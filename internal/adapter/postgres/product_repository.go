package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

const productColumns = `
		SELECT p.id, p.translations, p.price::text, p.available,
			COALESCE((
				SELECT array_agg(pc.category_id ORDER BY pc.category_id)
				FROM product_categories pc
				WHERE pc.product_id = p.id
			), '{}') AS categories
		FROM products p
`

var productOrderings = map[string]string{
	domain.OrderByID:        "p.id ASC",
	domain.OrderByPrice:     "p.price ASC, p.id ASC",
	domain.OrderByPriceDesc: "p.price DESC, p.id ASC",
	domain.OrderByNewest:    "p.created_at DESC, p.id DESC",
	domain.OrderByOldest:    "p.created_at ASC, p.id ASC",
}

type productRepository struct {
	db DB
}

// NewProductRepository reads products, categories and ingredients
func NewProductRepository(db DB) interfaces.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Available != nil {
		conditions = append(conditions, "p.available = "+arg(*filter.Available))
	}
	if filter.CategoryID > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM product_categories fc WHERE fc.product_id = p.id AND fc.category_id = %s)",
			arg(filter.CategoryID)))
	}
	if filter.IngredientID > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM product_ingredients fi WHERE fi.product_id = p.id AND fi.ingredient_id = %s)",
			arg(filter.IngredientID)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM jsonb_each(p.translations) t WHERE t.value->>'name' ILIKE %s)",
			arg("%"+search+"%")))
	}

	orderBy, ok := productOrderings[filter.Ordering]
	if !ok {
		orderBy = productOrderings[domain.OrderByID]
	}

	query := productColumns
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY " + orderBy

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if err := r.attachIngredients(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

// FindProducts returns the products with the given ids; missing ids are
// absent from the map
func (r *productRepository) FindProducts(ctx context.Context, ids []int) (map[int]domain.Product, error) {
	found := make(map[int]domain.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	products, err := r.queryProducts(ctx, productColumns+" WHERE p.id = ANY($1) ORDER BY p.id", ids)
	if err != nil {
		return nil, err
	}
	if err := r.attachIngredients(ctx, products); err != nil {
		return nil, err
	}

	for _, p := range products {
		found[p.ID] = p
	}
	return found, nil
}

func (r *productRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, translations, position
		FROM categories
		ORDER BY position, id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query categories")
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var (
			c   domain.Category
			raw []byte
		)
		if err := rows.Scan(&c.ID, &raw, &c.Position); err != nil {
			return nil, errors.Wrap(err, "failed to scan category")
		}
		if c.Translations, err = decodeTranslations(raw); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read categories")
	}

	return categories, nil
}

func (r *productRepository) ListIngredients(ctx context.Context, extrasOnly bool) ([]domain.Ingredient, error) {
	query := `SELECT i.id, i.translations, i.icon, i.price::text, i.is_extra FROM ingredients i`
	if extrasOnly {
		query += " WHERE i.is_extra"
	}
	query += " ORDER BY i.id"

	return r.queryIngredients(ctx, query)
}

func (r *productRepository) FindIngredients(ctx context.Context, ids []int) (map[int]domain.Ingredient, error) {
	found := make(map[int]domain.Ingredient, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	ingredients, err := r.queryIngredients(ctx,
		`SELECT i.id, i.translations, i.icon, i.price::text, i.is_extra FROM ingredients i WHERE i.id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}

	for _, in := range ingredients {
		found[in.ID] = in
	}
	return found, nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query products")
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var (
			p   domain.Product
			raw []byte
		)
		if err := rows.Scan(&p.ID, &raw, &p.Price, &p.Available, &p.Categories); err != nil {
			return nil, errors.Wrap(err, "failed to scan product")
		}
		if p.Translations, err = decodeTranslations(raw); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read products")
	}

	return products, nil
}

// attachIngredients loads the components of all products in one query
func (r *productRepository) attachIngredients(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int, len(products))
	index := make(map[int]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		index[p.ID] = i
	}

	rows, err := r.db.Query(ctx, `
		SELECT pi.product_id, i.id, i.translations, i.icon, i.price::text, i.is_extra
		FROM product_ingredients pi
		JOIN ingredients i ON i.id = pi.ingredient_id
		WHERE pi.product_id = ANY($1)
		ORDER BY pi.product_id, i.id
	`, ids)
	if err != nil {
		return errors.Wrap(err, "failed to query product ingredients")
	}
	defer rows.Close()

	for rows.Next() {
		var productID int
		in, err := scanIngredient(rows, &productID)
		if err != nil {
			return err
		}
		if i, ok := index[productID]; ok {
			products[i].Ingredients = append(products[i].Ingredients, in)
		}
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "failed to read product ingredients")
	}

	return nil
}

func (r *productRepository) queryIngredients(ctx context.Context, query string, args ...any) ([]domain.Ingredient, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query ingredients")
	}
	defer rows.Close()

	var ingredients []domain.Ingredient
	for rows.Next() {
		in, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, in)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read ingredients")
	}

	return ingredients, nil
}

// scanIngredient reads an ingredient row, optionally preceded by the
// columns in lead
func scanIngredient(rows Rows, lead ...any) (domain.Ingredient, error) {
	var (
		in   domain.Ingredient
		raw  []byte
		icon *string
	)
	dest := append(lead, &in.ID, &raw, &icon, &in.Price, &in.IsExtra)
	if err := rows.Scan(dest...); err != nil {
		return domain.Ingredient{}, errors.Wrap(err, "failed to scan ingredient")
	}
	if icon != nil {
		in.Icon = *icon
	}

	var err error
	if in.Translations, err = decodeTranslations(raw); err != nil {
		return domain.Ingredient{}, err
	}
	return in, nil
}

func decodeTranslations(raw []byte) (domain.Translations, error) {
	translations := domain.Translations{}
	if len(raw) == 0 {
		return translations, nil
	}
	if err := json.Unmarshal(raw, &translations); err != nil {
		return nil, errors.Wrap(err, "failed to decode translations")
	}
	return translations, nil
}
