package memory

import (
	"context"
	"sync"

	"github.com/YelzhanWeb/carta/internal/interfaces"
)

// cartStorage keeps serialized carts in a map; used when no database is
// configured and in tests.
type cartStorage struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

func NewCartStorage() interfaces.CartStorage {
	return &cartStorage{carts: make(map[string][]byte)}
}

func (s *cartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.carts[key]
	if !ok {
		return nil, interfaces.ErrCartNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *cartStorage) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[key] = append([]byte(nil), data...)
	return nil
}

func (s *cartStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, key)
	return nil
}
