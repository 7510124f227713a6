// Package errors provides standardized error handling for the search gateway.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Listing API boundary
	ErrCodeListingFetchFailed   ErrorCode = "LISTING_FETCH_FAILED"
	ErrCodeListingTimeout       ErrorCode = "LISTING_TIMEOUT"
	ErrCodeLocationStatsFailed  ErrorCode = "LOCATION_STATS_FAILED"
	ErrCodeLocationStatsTimeout ErrorCode = "LOCATION_STATS_TIMEOUT"

	// Natural-language parser boundary
	ErrCodeQueryParseFailed     ErrorCode = "QUERY_PARSE_FAILED"
	ErrCodeParseAPITimeout      ErrorCode = "PARSE_API_TIMEOUT"
	ErrCodeParseResponseInvalid ErrorCode = "PARSE_RESPONSE_INVALID"

	// Controller / session surface
	ErrCodeParseInFlight   ErrorCode = "PARSE_IN_FLIGHT"
	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is lets errors.Is match two StandardErrors by code.
func (e *StandardError) Is(target error) bool {
	other, ok := target.(*StandardError)
	return ok && other.Code == e.Code
}

// --- Constructors ---

// NewListingFetchFailedError creates a retryable listing transport error.
func NewListingFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeListingFetchFailed,
		Message:   "Listing API request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewListingTimeoutError creates a retryable listing timeout error.
func NewListingTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeListingTimeout,
		Message:   "Listing API call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLocationStatsFailedError creates a retryable stats endpoint error.
func NewLocationStatsFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLocationStatsFailed,
		Message:   "Location stats request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryParseFailedError creates a retryable parse API error.
func NewQueryParseFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryParseFailed,
		Message:   "Natural-language parse API error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseAPITimeoutError creates a retryable parse timeout error.
func NewParseAPITimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeParseAPITimeout,
		Message:   "Natural-language parse API timeout",
		Details:   "API call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseResponseInvalidError creates a non-retryable malformed-response error.
func NewParseResponseInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeParseResponseInvalid,
		Message:   "Parse API returned a malformed response",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseInFlightError creates a non-retryable single-flight rejection.
func NewParseInFlightError() *StandardError {
	return &StandardError{
		Code:      ErrCodeParseInFlight,
		Message:   "A natural-language submission is already outstanding",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError creates a non-retryable missing-session error.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Search session not found",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache error. Cache failures
// are advisory: callers fall through to the origin.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// --- Utility Functions ---

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeListingFetchFailed,
		ErrCodeLocationStatsFailed,
		ErrCodeQueryParseFailed:
		return 3

	case ErrCodeListingTimeout,
		ErrCodeLocationStatsTimeout,
		ErrCodeParseAPITimeout:
		return 2

	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// IsTimeout reports whether the code is one of the timeout codes. Timeouts
// get a distinct backoff policy at the collaborator boundary.
func IsTimeout(code ErrorCode) bool {
	return strings.HasSuffix(string(code), "TIMEOUT")
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "LISTING") || strings.Contains(codeStr, "LOCATION"):
		return "LISTING"
	case strings.Contains(codeStr, "PARSE"):
		return "NL_PARSE"
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	default:
		return "OTHER"
	}
}
