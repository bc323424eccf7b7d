package platform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAlreadyRunning is an error returned when run can't be started because previous run for the same site is not finished yet.
var ErrAlreadyRunning = errors.New("processing already running for this site")

// Code is a machine readable error category.
type Code string

const (
	// CodeRateLimit marks errors caused by upstream quota or rate limiting.
	CodeRateLimit Code = "RATE_LIMIT_EXCEEDED"
	// CodeAuth marks authentication and authorization failures.
	CodeAuth Code = "AUTHENTICATION_ERROR"
	// CodeNetwork marks transport level failures.
	CodeNetwork Code = "NETWORK_ERROR"
	// CodeCache marks cache store failures.
	CodeCache Code = "CACHE_ERROR"
	// CodeValidation marks invalid input.
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeUnknown is used when nothing more specific is known.
	CodeUnknown Code = "TRANSLATION_ERROR"
)

// Error is a classified error.
// Classification queries look at both code and message, so one error may match more than one family.
type Error struct {
	Message string
	Code    Code
	Cause   error
}

// NewError returns new Error with provided code. Empty code falls back to CodeUnknown.
func NewError(code Code, message string, cause error) *Error {
	if code == "" {
		code = CodeUnknown
	}
	return &Error{
		Message: message,
		Code:    code,
		Cause:   cause,
	}
}

// NewRateLimitError returns new rate limit error.
func NewRateLimitError(message string, cause error) *Error {
	return NewError(CodeRateLimit, message, cause)
}

// NewAuthError returns new authentication error.
func NewAuthError(message string, cause error) *Error {
	return NewError(CodeAuth, message, cause)
}

// NewNetworkError returns new network error.
func NewNetworkError(message string, cause error) *Error {
	return NewError(CodeNetwork, message, cause)
}

// NewCacheError returns new cache error.
func NewCacheError(message string, cause error) *Error {
	return NewError(CodeCache, message, cause)
}

// NewValidationError returns new validation error.
func NewValidationError(message string, cause error) *Error {
	return NewError(CodeValidation, message, cause)
}

// Error returns error message with its cause.
func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Cause.Error())
}

// Unwrap returns underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRateLimit reports whether error looks like upstream rate limiting.
func (e *Error) IsRateLimit() bool {
	return e.Code == CodeRateLimit || e.mentions("rate limit", "quota", "too many requests")
}

// IsAuth reports whether error looks like an authentication failure.
func (e *Error) IsAuth() bool {
	return e.Code == CodeAuth || e.mentions("authentication", "unauthorized", "permission denied", "credentials")
}

// IsNetwork reports whether error looks like a transport failure.
func (e *Error) IsNetwork() bool {
	return e.Code == CodeNetwork || e.mentions("network", "timeout", "connection refused", "connection reset")
}

// IsCache reports whether error comes from the cache store.
func (e *Error) IsCache() bool {
	return e.Code == CodeCache
}

func (e *Error) mentions(fragments ...string) bool {
	msg := strings.ToLower(e.Message)
	for _, fragment := range fragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// IsRateLimit reports whether any Error in err's chain is a rate limit error.
func IsRateLimit(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.IsRateLimit()
}

// IsAuth reports whether any Error in err's chain is an authentication error.
func IsAuth(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.IsAuth()
}

// IsNetwork reports whether any Error in err's chain is a network error.
func IsNetwork(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.IsNetwork()
}

// IsCache reports whether any Error in err's chain is a cache error.
func IsCache(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.IsCache()
}

// CodeOf returns code of the first Error in err's chain or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}
