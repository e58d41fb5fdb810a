package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

// Store holds the cart lines of one shopper session. Every mutation is
// written through to the storage; a failed write is logged and the
// in-memory state is kept.
type Store struct {
	mu      sync.Mutex
	key     string
	lines   []domain.CartLine
	storage interfaces.CartStorage
	logger  logger.Logger
	newID   func() string
}

// NewStore rehydrates the cart persisted under key. A missing or unreadable
// cart starts empty.
func NewStore(ctx context.Context, key string, storage interfaces.CartStorage, logger logger.Logger) *Store {
	s := &Store{
		key:     key,
		storage: storage,
		logger:  logger,
		newID:   uuid.NewString,
	}
	s.lines = s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) []domain.CartLine {
	data, err := s.storage.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, interfaces.ErrCartNotFound) {
			s.logger.Error("cart_load_failed", "Failed to load persisted cart", s.key, nil, err)
		}
		return nil
	}

	lines, err := Decode(data)
	if err != nil {
		s.logger.Error("cart_corrupted", "Persisted cart is unreadable, starting empty", s.key, nil, err)
		return nil
	}

	s.logger.Debug("cart_restored", "Cart restored", s.key, map[string]interface{}{"lines": len(lines)})
	return lines
}

// AddToCart adds quantity units of product. Without a customization the
// units merge into an existing unmodified line of the same product; any
// customized add creates a new line. Returns the id of the affected line,
// or false when quantity is not positive.
func (s *Store) AddToCart(ctx context.Context, product domain.Product, quantity int, customization *domain.Customization) (string, bool) {
	if quantity < 1 {
		s.logger.Debug("cart_add_skipped", "Ignoring non-positive quantity", s.key, map[string]interface{}{
			"product_id": product.ID,
			"quantity":   quantity,
		})
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := domain.CartLine{
		Product:       product,
		Quantity:      quantity,
		Customization: customization.Normalize(),
	}.Clone()

	for i := range s.lines {
		if domain.SameUnmodifiedProduct(s.lines[i], candidate) {
			s.lines[i].Quantity += quantity
			s.persist(ctx)
			return s.lines[i].ID, true
		}
	}

	candidate.ID = s.newID()
	s.lines = append(s.lines, candidate)
	s.persist(ctx)

	return candidate.ID, true
}

// IncrementQuantity adds one unit to the line
func (s *Store) IncrementQuantity(ctx context.Context, lineID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(lineID)
	if i < 0 {
		return false
	}
	s.lines[i].Quantity++
	s.persist(ctx)
	return true
}

// DecrementQuantity removes one unit; the line is deleted when it reaches zero
func (s *Store) DecrementQuantity(ctx context.Context, lineID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(lineID)
	if i < 0 {
		return false
	}
	if s.lines[i].Quantity <= 1 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	} else {
		s.lines[i].Quantity--
	}
	s.persist(ctx)
	return true
}

func (s *Store) RemoveFromCart(ctx context.Context, lineID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(lineID)
	if i < 0 {
		return false
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.persist(ctx)
	return true
}

// UpdateCustomization replaces the customization of a line. A line that
// ends up without customization is folded into the other unmodified line of
// the same product, if any; the earlier of the two survives.
func (s *Store) UpdateCustomization(ctx context.Context, lineID string, customization *domain.Customization) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(lineID)
	if i < 0 {
		return false
	}
	s.lines[i].Customization = customization.Normalize()

	if s.lines[i].Customization == nil {
		for j := range s.lines {
			if j == i || !domain.SameUnmodifiedProduct(s.lines[j], s.lines[i]) {
				continue
			}
			keep, drop := min(i, j), max(i, j)
			s.lines[keep].Quantity += s.lines[drop].Quantity
			s.lines = append(s.lines[:drop], s.lines[drop+1:]...)
			break
		}
	}

	s.persist(ctx)
	return true
}

// RemoveOrdered takes the ordered quantities out of the cart. Lines are
// matched by id; units added after the snapshot was taken stay in the cart.
func (s *Store) RemoveOrdered(ctx context.Context, ordered []domain.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range ordered {
		i := s.indexOf(o.ID)
		if i < 0 {
			continue
		}
		s.lines[i].Quantity -= o.Quantity
		if s.lines[i].Quantity < 1 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		}
	}

	if len(s.lines) > 0 {
		s.persist(ctx)
		return
	}

	s.lines = nil
	if err := s.storage.Delete(ctx, s.key); err != nil {
		s.logger.Error("cart_clear_failed", "Failed to clear persisted cart", s.key, nil, err)
	}
}

// ClearCart empties the cart and drops the persisted copy
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	if err := s.storage.Delete(ctx, s.key); err != nil {
		s.logger.Error("cart_clear_failed", "Failed to clear persisted cart", s.key, nil, err)
	}
}

// ItemCount is the sum of all line quantities
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// TotalPrice sums price × quantity over all lines. Lines whose price cannot
// be parsed contribute zero.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return total(s.lines)
}

// Lines returns a deep copy of the lines in display order
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CartLine, len(s.lines))
	for i, line := range s.lines {
		out[i] = line.Clone()
	}
	return out
}

// Snapshot returns lines, count and total taken under one lock
func (s *Store) Snapshot() interfaces.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := interfaces.CartSnapshot{
		Lines:      make([]domain.CartLine, len(s.lines)),
		TotalPrice: total(s.lines),
	}
	for i, line := range s.lines {
		snap.Lines[i] = line.Clone()
		snap.ItemCount += line.Quantity
	}
	return snap
}

func (s *Store) indexOf(lineID string) int {
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

func (s *Store) persist(ctx context.Context) {
	data, err := Encode(s.lines)
	if err != nil {
		s.logger.Error("cart_encode_failed", "Failed to encode cart", s.key, nil, err)
		return
	}
	if err := s.storage.Save(ctx, s.key, data); err != nil {
		s.logger.Error("cart_save_failed", "Failed to persist cart", s.key, nil, err)
	}
}

func total(lines []domain.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.Subtotal())
	}
	return sum
}
