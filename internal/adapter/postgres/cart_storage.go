package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/YelzhanWeb/carta/internal/interfaces"
)

type cartStorage struct {
	db DB
}

// NewCartStorage keeps one serialized cart per session in the carts table
func NewCartStorage(db DB) interfaces.CartStorage {
	return &cartStorage{db: db}
}

func (s *cartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(ctx, `SELECT lines FROM carts WHERE session_key = $1`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, interfaces.ErrCartNotFound
		}
		return nil, errors.Wrapf(err, "failed to load cart %s", key)
	}
	return data, nil
}

func (s *cartStorage) Save(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO carts (session_key, lines, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_key) DO UPDATE
		SET lines = EXCLUDED.lines, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.Exec(ctx, query, key, data); err != nil {
		return errors.Wrapf(err, "failed to save cart %s", key)
	}
	return nil
}

func (s *cartStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM carts WHERE session_key = $1`, key); err != nil {
		return errors.Wrapf(err, "failed to delete cart %s", key)
	}
	return nil
}
