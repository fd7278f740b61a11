package cache

import (
	"context"

	"github.com/grovetools/carbon/config"
	cerrors "github.com/grovetools/carbon/errors"
	"github.com/sirupsen/logrus"
)

// Open builds the Gateway described by the cache section of carbon.yml.
func Open(ctx context.Context, cfg config.CacheConfig, logger *logrus.Entry, opts ...Option) (*Gateway, error) {
	var backend Backend

	switch cfg.Backend {
	case "redis":
		r, err := NewRedis(cfg.RedisURL)
		if err != nil {
			return nil, cerrors.CacheBackend("open", err).WithDetail("backend", "redis")
		}
		if err := r.Ping(ctx); err != nil {
			_ = r.Close()
			return nil, cerrors.CacheBackend("connect", err).WithDetail("backend", "redis")
		}
		backend = r
	default:
		b, err := OpenBadger(BadgerOptions{Path: cfg.Path, Logger: logger})
		if err != nil {
			return nil, cerrors.CacheBackend("open", err).WithDetail("backend", "badger").WithDetail("path", cfg.Path)
		}
		backend = b
	}

	base := []Option{WithKey(cfg.Key), WithTTL(cfg.TTL.Duration), WithLogger(logger)}
	return NewGateway(backend, append(base, opts...)...), nil
}
