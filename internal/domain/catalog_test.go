package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductFilterValidate(t *testing.T) {
	assert.NoError(t, ProductFilter{}.Validate())
	assert.NoError(t, ProductFilter{Ordering: OrderByNewest, Search: "marga"}.Validate())

	err := ProductFilter{
		Ordering:     "name",
		Search:       strings.Repeat("x", 101),
		CategoryID:   -1,
		IngredientID: -2,
	}.Validate()

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	assert.Equal(t, []string{"ordering", "search", "categories", "ingredients"}, fields)
}
