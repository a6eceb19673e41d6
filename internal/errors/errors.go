package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeUnauthorized indicates a missing or invalid credential.
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeInvalidInput indicates a malformed, missing, or oversized payload.
	ErrCodeInvalidInput ErrorCode = "invalid_input"
	// ErrCodeUpstreamRejected indicates the upstream service returned a non-2xx status.
	ErrCodeUpstreamRejected ErrorCode = "upstream_rejected"
	// ErrCodeUpstreamUnreachable indicates a transport-level failure reaching the upstream.
	ErrCodeUpstreamUnreachable ErrorCode = "upstream_unreachable"
	// ErrCodePaymentDeclined indicates a processor-reported payment failure.
	ErrCodePaymentDeclined ErrorCode = "payment_declined"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique constraint violation).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Status is the relayed upstream HTTP status (set for upstream_rejected errors)
	Status int
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Unauthorized creates a new Unauthorized error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}

// InvalidInput creates a new InvalidInput error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}

// InvalidInputf creates a new InvalidInput error with formatted message.
func InvalidInputf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidInput,
		Message: fmt.Sprintf(format, args...),
	}
}

// UpstreamRejected creates an error relaying the upstream's status and message.
func UpstreamRejected(status int, message string) *AppError {
	return &AppError{
		Code:    ErrCodeUpstreamRejected,
		Message: message,
		Status:  status,
	}
}

// UpstreamUnreachable creates a new UpstreamUnreachable error preserving the transport cause.
func UpstreamUnreachable(message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeUpstreamUnreachable,
		Message: message,
		Cause:   cause,
	}
}

// PaymentDeclined creates a new PaymentDeclined error carrying the processor's message.
func PaymentDeclined(message string) *AppError {
	return &AppError{
		Code:    ErrCodePaymentDeclined,
		Message: message,
	}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsUnauthorized checks if an error is an Unauthorized error.
func IsUnauthorized(err error) bool {
	return isCode(err, ErrCodeUnauthorized)
}

// IsInvalidInput checks if an error is an InvalidInput error.
func IsInvalidInput(err error) bool {
	return isCode(err, ErrCodeInvalidInput)
}

// IsUpstreamRejected checks if an error is an UpstreamRejected error.
func IsUpstreamRejected(err error) bool {
	return isCode(err, ErrCodeUpstreamRejected)
}

// IsUpstreamUnreachable checks if an error is an UpstreamUnreachable error.
func IsUpstreamUnreachable(err error) bool {
	return isCode(err, ErrCodeUpstreamUnreachable)
}

// IsPaymentDeclined checks if an error is a PaymentDeclined error.
func IsPaymentDeclined(err error) bool {
	return isCode(err, ErrCodePaymentDeclined)
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool {
	return isCode(err, ErrCodeConflict)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HTTPStatus returns the HTTP status an error should surface as.
// Upstream rejections relay their original status; everything else maps
// from the error code. Unrecognized errors surface as 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return 500
	}
	switch appErr.Code {
	case ErrCodeUnauthorized:
		return 401
	case ErrCodeInvalidInput:
		return 400
	case ErrCodeNotFound:
		return 404
	case ErrCodeConflict:
		return 409
	case ErrCodeUpstreamRejected:
		if appErr.Status >= 400 {
			return appErr.Status
		}
		return 502
	case ErrCodePaymentDeclined:
		return 402
	case ErrCodeUpstreamUnreachable, ErrCodeInternal, ErrCodeTimeout, ErrCodeCanceled:
		return 500
	default:
		return 500
	}
}
