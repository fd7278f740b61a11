// Package cache implements the emissions Cache Gateway: one timestamped
// envelope under a fixed key in a key-value backend, treated as absent once
// its TTL has elapsed or when it cannot be decoded.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Backend when the key does not exist.
var ErrNotFound = errors.New("cache: key not found")

// Backend is the key-value store the Gateway persists to.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value. A positive ttl lets the backend evict the key on
	// its own; the Gateway still checks the envelope timestamp.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
