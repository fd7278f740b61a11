package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	cerrors "github.com/grovetools/carbon/errors"
)

// Defaults for the emissions envelope.
const (
	DefaultKey = "carbon_data"
	DefaultTTL = 5 * time.Minute
)

// envelope is the persisted layout: a write time in epoch milliseconds and
// the opaque payload.
type envelope struct {
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Gateway reads and writes a single envelope under one key. Every read
// failure is reported as a miss; malformed and expired entries are removed.
type Gateway struct {
	backend Backend
	clock   clockwork.Clock
	key     string
	ttl     time.Duration
	logger  *logrus.Entry
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithClock overrides the clock used for timestamps and expiry.
func WithClock(clock clockwork.Clock) Option {
	return func(g *Gateway) { g.clock = clock }
}

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(g *Gateway) {
		if key != "" {
			g.key = key
		}
	}
}

// WithTTL overrides how long an envelope stays valid.
func WithTTL(ttl time.Duration) Option {
	return func(g *Gateway) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// WithLogger sets the logger for cache diagnostics.
func WithLogger(logger *logrus.Entry) Option {
	return func(g *Gateway) { g.logger = logger }
}

// NewGateway wraps a backend.
func NewGateway(backend Backend, opts ...Option) *Gateway {
	g := &Gateway{
		backend: backend,
		clock:   clockwork.NewRealClock(),
		key:     DefaultKey,
		ttl:     DefaultTTL,
		logger:  logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Key returns the storage key.
func (g *Gateway) Key() string { return g.key }

// TTL returns the validity window.
func (g *Gateway) TTL() time.Duration { return g.ttl }

// Get decodes the cached payload into T. It reports false when the entry is
// absent, expired or malformed.
func Get[T any](ctx context.Context, g *Gateway) (T, bool) {
	var zero T

	data, ok := g.getRaw(ctx)
	if !ok {
		return zero, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		g.discard(ctx, cerrors.CacheCorrupt(g.key, err))
		return zero, false
	}
	return value, true
}

// getRaw returns the payload of a valid envelope.
func (g *Gateway) getRaw(ctx context.Context) (json.RawMessage, bool) {
	raw, err := g.backend.Get(ctx, g.key)
	if errors.Is(err, ErrNotFound) {
		return nil, false
	}
	if err != nil {
		g.logger.WithError(cerrors.CacheBackend("read", err)).Warn("Error reading from cache")
		return nil, false
	}

	env, err := decodeEnvelope(raw)
	if err != nil {
		g.discard(ctx, cerrors.CacheCorrupt(g.key, err))
		return nil, false
	}

	if g.expired(env) {
		g.logger.WithField("key", g.key).Debug("Cache entry expired")
		if err := g.backend.Delete(ctx, g.key); err != nil {
			g.logger.WithError(err).Warn("Failed to remove expired cache entry")
		}
		return nil, false
	}

	return env.Data, true
}

// Set stores value with the current time as its timestamp.
func (g *Gateway) Set(ctx context.Context, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return cerrors.Wrap(err, cerrors.ErrCodeInvalidInput, "failed to encode cache payload")
	}

	raw, err := json.Marshal(envelope{
		Timestamp: g.clock.Now().UnixMilli(),
		Data:      data,
	})
	if err != nil {
		return cerrors.Wrap(err, cerrors.ErrCodeInternal, "failed to encode cache envelope")
	}

	if err := g.backend.Set(ctx, g.key, raw, g.ttl); err != nil {
		return cerrors.CacheBackend("write", err)
	}
	return nil
}

// Clear removes the envelope. Clearing an absent entry is not an error.
func (g *Gateway) Clear(ctx context.Context) error {
	if err := g.backend.Delete(ctx, g.key); err != nil && !errors.Is(err, ErrNotFound) {
		return cerrors.CacheBackend("delete", err)
	}
	return nil
}

// Info describes the stored envelope without decoding its payload.
type Info struct {
	Key      string
	Size     int
	StoredAt time.Time
	Age      time.Duration
	Expired  bool
}

// Stat inspects the stored envelope. It returns CACHE_MISS when there is
// none and CACHE_CORRUPT when it cannot be decoded. Unlike Get it never
// removes anything.
func (g *Gateway) Stat(ctx context.Context) (*Info, error) {
	raw, err := g.backend.Get(ctx, g.key)
	if errors.Is(err, ErrNotFound) {
		return nil, cerrors.New(cerrors.ErrCodeCacheMiss, "no cached data").WithDetail("key", g.key)
	}
	if err != nil {
		return nil, cerrors.CacheBackend("read", err)
	}

	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, cerrors.CacheCorrupt(g.key, err)
	}

	storedAt := time.UnixMilli(env.Timestamp)
	return &Info{
		Key:      g.key,
		Size:     len(raw),
		StoredAt: storedAt,
		Age:      g.clock.Since(storedAt),
		Expired:  g.expired(env),
	}, nil
}

// Close closes the backend.
func (g *Gateway) Close() error {
	return g.backend.Close()
}

func (g *Gateway) expired(env *envelope) bool {
	age := g.clock.Now().UnixMilli() - env.Timestamp
	return age >= g.ttl.Milliseconds()
}

func (g *Gateway) discard(ctx context.Context, cause error) {
	g.logger.WithError(cause).Warn("Error reading from cache, removing entry")
	if err := g.backend.Delete(ctx, g.key); err != nil {
		g.logger.WithError(err).Warn("Failed to remove malformed cache entry")
	}
}

func decodeEnvelope(raw []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.Timestamp <= 0 {
		return nil, fmt.Errorf("envelope has no timestamp")
	}
	if data := bytes.TrimSpace(env.Data); len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, fmt.Errorf("envelope has no data")
	}
	return &env, nil
}
