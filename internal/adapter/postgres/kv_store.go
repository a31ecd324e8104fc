package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

type kvStore struct {
	db DB
}

// NewKVStore keeps every record as one kv_records row.
func NewKVStore(db DB) interfaces.KeyValueStore {
	return &kvStore{db: db}
}

func (s *kvStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_records WHERE key = $1`

	var value []byte
	err := s.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", key, err)
	}
	return value, nil
}

// Set overwrites the whole record.
func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_records (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = now()
	`
	if _, err := s.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write record %s: %w", key, err)
	}
	return nil
}

func (s *kvStore) Close() error {
	s.db.Close()
	return nil
}
