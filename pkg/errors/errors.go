// Package errors provides typed errors for the application
package errors

import "fmt"

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeAuthRequired ErrorType = iota
	ErrorTypeFormatUnavailable
	ErrorTypeDurationExceeded
	ErrorTypeTooLarge
	ErrorTypeTimeout
	ErrorTypeUploadFailed
	ErrorTypeUploadUnknown
	ErrorTypeGeneric
)

// baseError is the base implementation for all error types
type baseError struct {
	msg string
}

func (e *baseError) Error() string {
	return e.msg
}

// AuthRequiredError means the source refuses to serve the media without
// valid credentials (private, age-restricted or members-only content)
type AuthRequiredError struct {
	baseError
}

// NewAuthRequiredError creates a new AuthRequiredError
func NewAuthRequiredError(msg string) *AuthRequiredError {
	return &AuthRequiredError{baseError{msg: msg}}
}

// FormatUnavailableError means the requested format specifier matched
// no stream offered by the source
type FormatUnavailableError struct {
	baseError
}

// NewFormatUnavailableError creates a new FormatUnavailableError
func NewFormatUnavailableError(msg string) *FormatUnavailableError {
	return &FormatUnavailableError{baseError{msg: msg}}
}

// DurationExceededError means the media is longer than the configured
// ceiling and was rejected before any download started
type DurationExceededError struct {
	baseError
}

// NewDurationExceededError creates a new DurationExceededError
func NewDurationExceededError(msg string) *DurationExceededError {
	return &DurationExceededError{baseError{msg: msg}}
}

// TooLargeError means the downloaded file exceeds the hard size ceiling
type TooLargeError struct {
	baseError
}

// NewTooLargeError creates a new TooLargeError
func NewTooLargeError(msg string) *TooLargeError {
	return &TooLargeError{baseError{msg: msg}}
}

// TimeoutError means the extraction did not complete within its deadline
type TimeoutError struct {
	baseError
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(msg string) *TimeoutError {
	return &TimeoutError{baseError{msg: msg}}
}

// UploadFailedError means every upload attempt failed definitively
type UploadFailedError struct {
	baseError
	attempts int
}

// NewUploadFailedError creates a new UploadFailedError
func NewUploadFailedError(attempts int, msg string) *UploadFailedError {
	return &UploadFailedError{
		baseError: baseError{msg: fmt.Sprintf("upload failed after %d attempts: %s", attempts, msg)},
		attempts:  attempts,
	}
}

// Attempts returns how many upload attempts were made
func (e *UploadFailedError) Attempts() int {
	return e.attempts
}

// UploadUnknownError means the final upload attempt timed out on the
// client side and may still have completed on the transport; the outcome
// is deliberately left unresolved to avoid a duplicate send
type UploadUnknownError struct {
	baseError
}

// NewUploadUnknownError creates a new UploadUnknownError
func NewUploadUnknownError(msg string) *UploadUnknownError {
	return &UploadUnknownError{baseError{msg: msg}}
}

// GenericError represents any other extraction or transfer failure
type GenericError struct {
	baseError
}

// NewGenericError creates a new GenericError
func NewGenericError(msg string) *GenericError {
	return &GenericError{baseError{msg: msg}}
}

// IsAuthRequiredError checks if error is an AuthRequiredError
func IsAuthRequiredError(err error) bool {
	_, ok := err.(*AuthRequiredError)
	return ok
}

// IsFormatUnavailableError checks if error is a FormatUnavailableError
func IsFormatUnavailableError(err error) bool {
	_, ok := err.(*FormatUnavailableError)
	return ok
}

// IsDurationExceededError checks if error is a DurationExceededError
func IsDurationExceededError(err error) bool {
	_, ok := err.(*DurationExceededError)
	return ok
}

// IsTooLargeError checks if error is a TooLargeError
func IsTooLargeError(err error) bool {
	_, ok := err.(*TooLargeError)
	return ok
}

// IsTimeoutError checks if error is a TimeoutError
func IsTimeoutError(err error) bool {
	_, ok := err.(*TimeoutError)
	return ok
}

// IsUploadFailedError checks if error is an UploadFailedError
func IsUploadFailedError(err error) bool {
	_, ok := err.(*UploadFailedError)
	return ok
}

// IsUploadUnknownError checks if error is an UploadUnknownError
func IsUploadUnknownError(err error) bool {
	_, ok := err.(*UploadUnknownError)
	return ok
}

// IsGenericError checks if error is a GenericError
func IsGenericError(err error) bool {
	_, ok := err.(*GenericError)
	return ok
}
