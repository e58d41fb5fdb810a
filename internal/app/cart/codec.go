package cart

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/YelzhanWeb/carta/internal/domain"
)

// Encode serializes the line list in the persisted layout
// [{id, product, quantity, customization}].
func Encode(lines []domain.CartLine) ([]byte, error) {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart: %w", err)
	}
	return data, nil
}

// Decode parses a persisted line list. Lines that break the cart invariants
// are repaired: non-positive quantities are dropped, empty customizations
// become none, missing ids are generated and duplicate unmodified products
// are merged.
func Decode(data []byte) ([]domain.CartLine, error) {
	var raw []domain.CartLine
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}

	lines := make([]domain.CartLine, 0, len(raw))
	for _, line := range raw {
		if line.Quantity < 1 {
			continue
		}
		if line.Customization.IsEmpty() {
			line.Customization = nil
		}
		if line.ID == "" {
			line.ID = uuid.NewString()
		}

		merged := false
		for i := range lines {
			if domain.SameUnmodifiedProduct(lines[i], line) {
				lines[i].Quantity += line.Quantity
				merged = true
				break
			}
		}
		if !merged {
			lines = append(lines, line)
		}
	}

	return lines, nil
}
