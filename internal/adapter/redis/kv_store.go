package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/YelzhanWeb/chefmenu/internal/config"
	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

type kvStore struct {
	client *redis.Client
	prefix string
}

func Connect(ctx context.Context, cfg config.RedisConfig) (interfaces.KeyValueStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewKVStore(client, cfg.KeyPrefix), nil
}

// NewKVStore stores each record as a plain string value under prefix+key.
func NewKVStore(client *redis.Client, prefix string) interfaces.KeyValueStore {
	return &kvStore{client: client, prefix: prefix}
}

func (s *kvStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", key, err)
	}
	return value, nil
}

func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write record %s: %w", key, err)
	}
	return nil
}

func (s *kvStore) Close() error {
	return s.client.Close()
}
