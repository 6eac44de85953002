// Package errors provides standardized error handling for the places pipeline.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Provider-reported failures: the places API answered, but the response
	// envelope carries a non-OK status or an error_message.
	ErrCodeProviderStatus ErrorCode = "PROVIDER_STATUS_ERROR"

	// Transport failures: the request never produced a decodable envelope.
	ErrCodeSearchRequestFailed  ErrorCode = "SEARCH_REQUEST_FAILED"
	ErrCodeDetailsRequestFailed ErrorCode = "DETAILS_REQUEST_FAILED"
	ErrCodeRequestTimeout       ErrorCode = "REQUEST_TIMEOUT"
	ErrCodeResponseDecodeFailed ErrorCode = "RESPONSE_DECODE_FAILED"

	// Startup and output failures.
	ErrCodeConfigInvalid           ErrorCode = "CONFIG_INVALID"
	ErrCodeProfileValidationFailed ErrorCode = "PROFILE_VALIDATION_FAILED"
	ErrCodeExportWriteFailed       ErrorCode = "EXPORT_WRITE_FAILED"
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

// ==========================
// 2. Error Constructors
// ==========================

// NewProviderStatusError creates a non-retryable provider envelope error.
// The provider answered; retrying the identical request will not change its mind.
func NewProviderStatusError(operation, status, errorMessage string) *StandardError {
	details := fmt.Sprintf("operation: %s, status: %s", operation, status)
	if errorMessage != "" {
		details = fmt.Sprintf("%s, error_message: %s", details, errorMessage)
	}
	return &StandardError{
		Code:      ErrCodeProviderStatus,
		Message:   "Places provider rejected the request",
		Details:   details,
		Retryable: false,
		Metadata: map[string]interface{}{
			"operation":      operation,
			"providerStatus": status,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchRequestFailedError creates a retryable search transport error.
func NewSearchRequestFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchRequestFailed,
		Message:   "Nearby search request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDetailsRequestFailedError creates a retryable details transport error.
func NewDetailsRequestFailedError(placeID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDetailsRequestFailed,
		Message:   "Place details request failed",
		Details:   fmt.Sprintf("placeId: %s, error: %s", placeID, err.Error()),
		Retryable: true,
		Metadata: map[string]interface{}{
			"placeId": placeID,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestTimeoutError creates a retryable timeout error.
func NewRequestTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestTimeout,
		Message:   "Places provider call timed out",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewResponseDecodeFailedError creates a non-retryable decode error.
func NewResponseDecodeFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseDecodeFailed,
		Message:   "Places provider response could not be decoded",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigInvalidError creates a non-retryable configuration error.
func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Configuration validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileValidationFailedError creates a non-retryable filter profile error.
func NewProfileValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileValidationFailed,
		Message:   "Filter profile validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExportWriteFailedError creates a non-retryable export error.
func NewExportWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExportWriteFailed,
		Message:   "CSV export failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError unwraps err to a *StandardError if there is one in the chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsRetryableErrorCode reports whether a code describes a transient failure.
// The pipeline itself never retries; the flag feeds logs and metrics so an
// operator can tell transient noise from hard provider rejections.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeSearchRequestFailed,
		ErrCodeDetailsRequestFailed,
		ErrCodeRequestTimeout:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PROVIDER"):
		return "PROVIDER"
	case strings.Contains(codeStr, "TIMEOUT") || strings.Contains(codeStr, "REQUEST"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "DECODE"):
		return "DECODE"
	case strings.Contains(codeStr, "CONFIG") || strings.Contains(codeStr, "PROFILE"):
		return "STARTUP"
	case strings.Contains(codeStr, "EXPORT"):
		return "EXPORT"
	default:
		return "OTHER"
	}
}
