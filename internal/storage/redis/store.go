package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dreamdesign/internal/storage"

	"github.com/redis/go-redis/v9"
)

// Store exposes a Client as snapshot key-value storage. Keys never expire.
type Store struct {
	Client *Client
}

func NewStore(client *Client) *Store {
	return &Store{Client: client}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "storage.redis.Get"

	val, err := s.Client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrKeyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return val, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	const op = "storage.redis.Set"

	if err := s.Client.Set(ctx, key, string(value), 0).Err(); err != nil {
		if isOOM(err) {
			return fmt.Errorf("%s: %w: %s", op, storage.ErrQuotaExceeded, err.Error())
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	const op = "storage.redis.Delete"

	if err := s.Client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// isOOM reports a write refused because the server reached maxmemory.
func isOOM(err error) bool {
	var rerr redis.Error
	if errors.As(err, &rerr) {
		return strings.HasPrefix(rerr.Error(), "OOM")
	}
	return false
}
