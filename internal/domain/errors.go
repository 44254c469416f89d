package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeDimensionMismatch = "DIMENSION_MISMATCH"
	ErrCodeCacheUnavailable  = "CACHE_UNAVAILABLE"
	ErrCodeUpstreamTimeout   = "UPSTREAM_TIMEOUT"
	ErrCodeUpstreamRateLimit = "UPSTREAM_RATE_LIMITED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Not found errors. Absence of a profile or job is a client-visible
// failure for single scoring, never retried.
var (
	ErrJobNotFound       = NewDomainError(ErrCodeNotFound, "job posting not found")
	ErrCandidateNotFound = NewDomainError(ErrCodeNotFound, "candidate profile not found")
)

// Data integrity errors
var (
	ErrDimensionMismatch = NewDomainError(ErrCodeDimensionMismatch, "embedding vectors have different dimensions")
)

// Transient infrastructure errors. The cache error degrades silently to
// recompute-always behavior and is never surfaced to callers.
var (
	ErrCacheUnavailable = NewDomainError(ErrCodeCacheUnavailable, "match score cache unavailable")
)

// Upstream collaborator errors, surfaced after the retry budget is spent.
var (
	ErrUpstreamTimeout     = NewDomainError(ErrCodeUpstreamTimeout, "upstream call timed out")
	ErrUpstreamRateLimited = NewDomainError(ErrCodeUpstreamRateLimit, "upstream rate limit exceeded")
)

// Validation errors
var (
	ErrEmptyBatchProfile = NewDomainError(ErrCodeValidation, "batch scoring requires a candidate profile")
)
