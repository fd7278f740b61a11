package config

import (
	"fmt"
	"net/url"

	"github.com/grovetools/carbon/errors"
)

// MaxEntities is the hard upper bound on tracked countries per run. The
// upstream API rate-limits aggressively, so the roster is never fanned out
// wider than this.
const MaxEntities = 15

// Validate checks semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	if err := validateSource(&c.Source); err != nil {
		return err
	}
	if err := validateCache(&c.Cache); err != nil {
		return err
	}
	return validateRace(&c.Race)
}

func validateSource(s *SourceConfig) error {
	u, err := url.Parse(s.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.ConfigValidation("source.base_url", "must be an absolute URL").
			WithDetail("value", s.BaseURL)
	}
	if s.MaxEntities < 1 || s.MaxEntities > MaxEntities {
		return errors.ConfigValidation("source.max_entities", fmt.Sprintf("must be between 1 and %d", MaxEntities)).
			WithDetail("value", s.MaxEntities)
	}
	if s.RequestsPerSecond < 0 {
		return errors.ConfigValidation("source.requests_per_second", "cannot be negative")
	}
	return nil
}

func validateCache(c *CacheConfig) error {
	switch c.Backend {
	case "badger":
	case "redis":
		if c.RedisURL == "" {
			return errors.ConfigValidation("cache.redis_url", "is required when cache.backend is redis")
		}
	default:
		return errors.ConfigValidation("cache.backend", "must be one of badger, redis").
			WithDetail("value", c.Backend)
	}
	if c.TTL.Duration <= 0 {
		return errors.ConfigValidation("cache.ttl", "must be positive")
	}
	return nil
}

func validateRace(r *RaceConfig) error {
	if r.TickInterval.Duration <= 0 {
		return errors.ConfigValidation("race.tick_interval", "must be positive")
	}
	if r.FrameInterval.Duration <= 0 {
		return errors.ConfigValidation("race.frame_interval", "must be positive")
	}
	if r.DefaultMinYear > r.DefaultMaxYear {
		return errors.ConfigValidation("race.default_min_year", "cannot exceed race.default_max_year").
			WithDetail("min", r.DefaultMinYear).
			WithDetail("max", r.DefaultMaxYear)
	}
	if r.Smoothing <= 0 || r.Smoothing > 1 {
		return errors.ConfigValidation("race.smoothing", "must be in (0, 1]")
	}
	if r.Epsilon <= 0 {
		return errors.ConfigValidation("race.epsilon", "must be positive")
	}
	if r.SettleDelay.Duration <= r.Transition.Duration {
		return errors.ConfigValidation("race.settle_delay", "must exceed race.transition").
			WithDetail("transition", r.Transition.String()).
			WithDetail("settle_delay", r.SettleDelay.String())
	}
	return nil
}
