package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"time"
)

// AppError is the error type returned by every API operation
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// Detail returns a detail value, or "" when unset
func (e AppError) Detail(key string) string {
	return e.Details[key]
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_INTERNAL,
		Message:   "Internal error",
		Timestamp: time.Now(),
	}
}

func ErrInvalidArgument(message string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_INVALID_ARGUMENT,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Conferencing API Errors

// ErrTransport reports a non-200 HTTP status. The body is never parsed.
func ErrTransport(method string, status int) AppError {
	return AppError{
		HTTPCode:  status,
		Code:      ErrorCode_TRANSPORT,
		Message:   fmt.Sprintf("HTTP %d", status),
		Timestamp: time.Now(),
	}.WithDetail("method", method)
}

// ErrAPIFailed reports a 200 response whose returncode is not SUCCESS.
// message is the server supplied text and may be empty.
func ErrAPIFailed(method, messageKey, message string) AppError {
	return AppError{
		HTTPCode:  http.StatusOK,
		Code:      ErrorCode_API_FAILED,
		Message:   message,
		Timestamp: time.Now(),
	}.WithDetail("method", method).
		WithDetail("message_key", messageKey)
}

func ErrRequestFailed(method string, err error) AppError {
	return AppError{
		Raw:       err,
		Code:      ErrorCode_REQUEST_FAILED,
		Message:   "Request to conferencing server failed",
		Timestamp: time.Now(),
	}.WithDetail("method", method)
}

func ErrDecodeFailed(method string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusOK,
		Code:      ErrorCode_DECODE_FAILED,
		Message:   "Failed to decode response",
		Timestamp: time.Now(),
	}.WithDetail("method", method)
}

// Configuration Errors
func ErrConfigInvalid(err error) AppError {
	return AppError{
		Raw:       err,
		Code:      ErrorCode_CONFIG_INVALID,
		Message:   "Invalid configuration",
		Timestamp: time.Now(),
	}
}

// AsAppError finds the first AppError in err's chain
func AsAppError(err error) (AppError, bool) {
	var appErr AppError
	if stdErrors.As(err, &appErr) {
		return appErr, true
	}
	return AppError{}, false
}

// IsTransport reports whether err is a transport error and returns its status code
func IsTransport(err error) (int, bool) {
	appErr, ok := AsAppError(err)
	if !ok || appErr.Code != ErrorCode_TRANSPORT {
		return 0, false
	}
	return appErr.HTTPCode, true
}

// IsAPIFailed reports whether err is an API error and returns the server message
func IsAPIFailed(err error) (string, bool) {
	appErr, ok := AsAppError(err)
	if !ok || appErr.Code != ErrorCode_API_FAILED {
		return "", false
	}
	return appErr.Message, true
}

// HasCode reports whether err is an AppError with the given code
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
