package cart

import (
	"context"
	"sync"
	"time"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

// Service keeps one Store per active session key. Stores are rehydrated from
// the storage the first time a session is touched and dropped again once
// they sit idle; every mutation is already persisted, so an evicted session
// comes back intact on its next access.
type Service struct {
	storage interfaces.CartStorage
	logger  logger.Logger
	now     func() time.Time

	mu     sync.Mutex
	stores map[string]*session
}

type session struct {
	store      *Store
	lastAccess time.Time
}

func NewService(storage interfaces.CartStorage, logger logger.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
		now:     time.Now,
		stores:  make(map[string]*session),
	}
}

// Store returns the cart of sessionKey and keeps it in memory
func (s *Service) Store(ctx context.Context, sessionKey string) *Store {
	return s.lookup(ctx, sessionKey, true)
}

// lookup finds the store of sessionKey. Read-only callers pass register
// false so that an empty cart is not kept around.
func (s *Service) lookup(ctx context.Context, sessionKey string, register bool) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.stores[sessionKey]; ok {
		entry.lastAccess = s.now()
		return entry.store
	}

	store := NewStore(ctx, sessionKey, s.storage, s.logger)
	if register || store.ItemCount() > 0 {
		s.stores[sessionKey] = &session{store: store, lastAccess: s.now()}
	}
	return store
}

func (s *Service) forget(sessionKey string) {
	s.mu.Lock()
	delete(s.stores, sessionKey)
	s.mu.Unlock()
}

func (s *Service) Snapshot(ctx context.Context, sessionKey string) interfaces.CartSnapshot {
	return s.lookup(ctx, sessionKey, false).Snapshot()
}

func (s *Service) AddItem(ctx context.Context, sessionKey string, product domain.Product, quantity int, customization *domain.Customization) (string, interfaces.CartSnapshot) {
	store := s.Store(ctx, sessionKey)
	lineID, ok := store.AddToCart(ctx, product, quantity, customization)
	if ok {
		s.logger.Debug("cart_item_added", "Item added to cart", sessionKey, map[string]interface{}{
			"product_id": product.ID,
			"quantity":   quantity,
			"line_id":    lineID,
		})
	}
	return lineID, store.Snapshot()
}

func (s *Service) IncrementItem(ctx context.Context, sessionKey, lineID string) (interfaces.CartSnapshot, bool) {
	store := s.lookup(ctx, sessionKey, false)
	ok := store.IncrementQuantity(ctx, lineID)
	return store.Snapshot(), ok
}

func (s *Service) DecrementItem(ctx context.Context, sessionKey, lineID string) (interfaces.CartSnapshot, bool) {
	store := s.lookup(ctx, sessionKey, false)
	ok := store.DecrementQuantity(ctx, lineID)
	return store.Snapshot(), ok
}

func (s *Service) RemoveItem(ctx context.Context, sessionKey, lineID string) (interfaces.CartSnapshot, bool) {
	store := s.lookup(ctx, sessionKey, false)
	ok := store.RemoveFromCart(ctx, lineID)
	return store.Snapshot(), ok
}

func (s *Service) UpdateCustomization(ctx context.Context, sessionKey, lineID string, customization *domain.Customization) (interfaces.CartSnapshot, bool) {
	store := s.lookup(ctx, sessionKey, false)
	ok := store.UpdateCustomization(ctx, lineID, customization)
	return store.Snapshot(), ok
}

// RemoveOrdered takes the ordered lines out of the session cart and forgets
// the store once it is empty
func (s *Service) RemoveOrdered(ctx context.Context, sessionKey string, ordered []domain.CartLine) {
	store := s.lookup(ctx, sessionKey, false)
	store.RemoveOrdered(ctx, ordered)

	if store.ItemCount() == 0 {
		s.forget(sessionKey)
	}
}

// Clear empties the cart and forgets the in-memory store
func (s *Service) Clear(ctx context.Context, sessionKey string) {
	s.lookup(ctx, sessionKey, false).ClearCart(ctx)
	s.forget(sessionKey)
}

// Active is the number of sessions held in memory
func (s *Service) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}

// Evict drops sessions untouched for longer than idle and returns how many
// were dropped
func (s *Service) Evict(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	evicted := 0
	for key, entry := range s.stores {
		if entry.lastAccess.Before(cutoff) {
			delete(s.stores, key)
			evicted++
		}
	}
	return evicted
}

// RunEviction evicts idle sessions every interval until ctx is done
func (s *Service) RunEviction(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Evict(idle); n > 0 {
				s.logger.Debug("cart_sessions_evicted", "Idle cart sessions evicted", "", map[string]interface{}{
					"evicted": n,
					"active":  s.Active(),
				})
			}
		}
	}
}
