package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/carta/internal/domain"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	lines := []domain.CartLine{
		{ID: "a", Product: margherita(), Quantity: 2},
		{ID: "b", Product: margherita(), Quantity: 1, Customization: &domain.Customization{
			DeselectedIngredients: []string{"Albahaca"},
			SelectedExtras:        []domain.Ingredient{bacon()},
			AdditionalNotes:       "poco hecha",
		}},
	}

	data, err := Encode(lines)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, lines, decoded)
}

func TestEncodeEmpty(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDecodeRepairsInvariants(t *testing.T) {
	data := []byte(`[
		{"id": "a", "product": {"id": 1, "price": "10"}, "quantity": 2, "customization": null},
		{"id": "b", "product": {"id": 1, "price": "10"}, "quantity": 3, "customization": {"deselected_ingredients": [], "selected_extras": [], "additional_notes": ""}},
		{"id": "c", "product": {"id": 2, "price": "5"}, "quantity": 0, "customization": null},
		{"product": {"id": 3, "price": "5"}, "quantity": 1, "customization": null}
	]`)

	lines, err := Decode(data)
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, "a", lines[0].ID)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, 3, lines[1].Product.ID)
	assert.NotEmpty(t, lines[1].ID)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte(`"nope"`))
	assert.Error(t, err)
}
