package memory

import (
	"context"
	"sync"

	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

type kvStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewKVStore keeps records in process memory; nothing survives a restart.
func NewKVStore() interfaces.KeyValueStore {
	return &kvStore{records: make(map[string][]byte)}
}

func (s *kvStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.records[key]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = append([]byte(nil), value...)
	return nil
}

func (s *kvStore) Close() error {
	return nil
}
