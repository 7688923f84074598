package types

import (
	"errors"
	"fmt"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Complete error code constants.
// Components MUST use these constants instead of hardcoded strings.
const (
	// Configuration (fatal, startup only)
	ErrCodeConfigMissingEnv ErrorCode = "config_missing_env"

	// Review API availability
	ErrCodeUpstreamUnavailable ErrorCode = "upstream_unavailable"

	// Review API response shape
	ErrCodeResponseTypeMismatch ErrorCode = "response_type_mismatch"
	ErrCodeResponseMissingKey   ErrorCode = "response_missing_key"

	// Submission content
	ErrCodeStatusUnknown ErrorCode = "status_unknown"

	// Messaging transport
	ErrCodeTransportDeliveryFailed ErrorCode = "transport_delivery_failed"

	// Anything else
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
)

// ErrorKind groups error codes into the handling buckets used by the poll loop.
type ErrorKind string

const (
	KindConfiguration       ErrorKind = "configuration"
	KindEndpointUnavailable ErrorKind = "endpoint_unavailable"
	KindShapeMismatch       ErrorKind = "shape_mismatch"
	KindUnknownStatus       ErrorKind = "unknown_status"
	KindTransportFailure    ErrorKind = "transport_failure"
	KindUnexpected          ErrorKind = "unexpected"
)

// Kind maps an ErrorCode to its handling bucket.
// Returns KindUnexpected for unrecognized codes.
func (c ErrorCode) Kind() ErrorKind {
	switch c {
	case ErrCodeConfigMissingEnv:
		return KindConfiguration
	case ErrCodeUpstreamUnavailable:
		return KindEndpointUnavailable
	case ErrCodeResponseTypeMismatch, ErrCodeResponseMissingKey:
		return KindShapeMismatch
	case ErrCodeStatusUnknown:
		return KindUnknownStatus
	case ErrCodeTransportDeliveryFailed:
		return KindTransportFailure
	default:
		return KindUnexpected
	}
}

// AppError is the standard application error type used throughout the bot.
// All component failures should be expressed as AppError so the poll loop can
// classify them without inspecting concrete types.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Kind returns the handling bucket for this error's code.
func (e *AppError) Kind() ErrorKind {
	return e.Code.Kind()
}

// WithDetails returns a copy of the error with the provided details merged in.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Details: merged,
	}
}

// NewAppError creates a new AppError with the given code, message, and optional
// underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError with structured details.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}

// KindOf classifies an arbitrary error. Errors that do not carry an AppError
// in their chain fall into KindUnexpected.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}
	return KindUnexpected
}

// Describe returns the human-readable part of an error: the AppError message
// (plus its cause, when present) or err.Error() for foreign errors.
func Describe(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	if appErr.Err != nil {
		return fmt.Sprintf("%s %v", appErr.Message, appErr.Err)
	}
	return appErr.Message
}
