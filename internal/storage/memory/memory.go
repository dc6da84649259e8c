package memory

import (
	"context"
	"fmt"
	"sync"

	"dreamdesign/internal/storage"

	"github.com/patrickmn/go-cache"
)

// DefaultQuota mirrors the usual per-origin browser storage allowance.
const DefaultQuota = 5 << 20

// Storage keeps values in process memory and rejects writes once the
// accumulated size of keys and values would exceed the quota.
type Storage struct {
	mu    sync.Mutex
	cache *cache.Cache
	quota int64
	used  int64
}

// New creates a memory storage. A quota <= 0 disables the limit.
func New(quota int64) *Storage {
	return &Storage{
		cache: cache.New(cache.NoExpiration, 0),
		quota: quota,
	}
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "storage.memory.Get"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	v, ok := s.cache.Get(key)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrKeyNotFound)
	}

	value := v.([]byte)
	out := make([]byte, len(value))
	copy(out, value)

	return out, nil
}

func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	const op = "storage.memory.Set"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used + entrySize(key, value)
	if old, ok := s.cache.Get(key); ok {
		used -= entrySize(key, old.([]byte))
	}

	if s.quota > 0 && used > s.quota {
		return fmt.Errorf("%s: %w: %d of %d bytes", op, storage.ErrQuotaExceeded, used, s.quota)
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	s.cache.Set(key, stored, cache.NoExpiration)
	s.used = used

	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	const op = "storage.memory.Delete"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.cache.Get(key); ok {
		s.used -= entrySize(key, old.([]byte))
		s.cache.Delete(key)
	}

	return nil
}

// Used reports the bytes currently accounted against the quota.
func (s *Storage) Used() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.used
}

func entrySize(key string, value []byte) int64 {
	return int64(len(key) + len(value))
}
