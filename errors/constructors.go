package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *CarbonError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *CarbonError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// ConfigValidation creates a validation error for a single config field
func ConfigValidation(field, reason string) *CarbonError {
	return New(ErrCodeConfigValidation, fmt.Sprintf("%s %s", field, reason)).
		WithDetail("field", field)
}

// RosterFetchFailed wraps a failure to load the list of tracked countries
func RosterFetchFailed(err error) *CarbonError {
	return Wrap(err, ErrCodeRosterFetchFailed, "failed to load countries")
}

// EntityFetchFailed wraps a failure to load one country's emissions series
func EntityFetchFailed(identifier string, err error) *CarbonError {
	return Wrap(err, ErrCodeEntityFetchFailed, fmt.Sprintf("failed to load data for %s", identifier)).
		WithDetail("identifier", identifier)
}

// UpstreamStatus creates an error for a non-success HTTP response
func UpstreamStatus(url string, status int) *CarbonError {
	return New(ErrCodeUpstreamStatus, fmt.Sprintf("upstream returned status %d", status)).
		WithDetail("url", url).
		WithDetail("status", status)
}

// CacheCorrupt creates an error for a cache entry that cannot be decoded
func CacheCorrupt(key string, err error) *CarbonError {
	return Wrap(err, ErrCodeCacheCorrupt, fmt.Sprintf("cache entry '%s' is malformed", key)).
		WithDetail("key", key)
}

// CacheBackend wraps a failure in the underlying key-value store
func CacheBackend(op string, err error) *CarbonError {
	return Wrap(err, ErrCodeCacheBackend, fmt.Sprintf("cache %s failed", op)).
		WithDetail("operation", op)
}
