package cache

import (
	"context"
	"time"
)

// Store is the key-value cache fronting the upstream forecast client.
// Implemented by the memory store (dev) and the Redis store (prod).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
