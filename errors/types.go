package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Upstream (Footprint Network API) errors
	ErrCodeRosterFetchFailed ErrorCode = "ROSTER_FETCH_FAILED"
	ErrCodeEntityFetchFailed ErrorCode = "ENTITY_FETCH_FAILED"
	ErrCodeUpstreamStatus    ErrorCode = "UPSTREAM_STATUS"

	// Cache errors
	ErrCodeCacheMiss    ErrorCode = "CACHE_MISS"
	ErrCodeCacheCorrupt ErrorCode = "CACHE_CORRUPT"
	ErrCodeCacheBackend ErrorCode = "CACHE_BACKEND"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// CarbonError represents a structured error with context
type CarbonError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *CarbonError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CarbonError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *CarbonError) WithDetail(key string, value interface{}) *CarbonError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *CarbonError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new CarbonError
func New(code ErrorCode, message string) *CarbonError {
	return &CarbonError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a CarbonError
func Wrap(err error, code ErrorCode, message string) *CarbonError {
	return &CarbonError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific CarbonError code
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, walking the Unwrap chain
// until the first CarbonError.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	carbonErr, ok := err.(*CarbonError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return carbonErr.Code
}
