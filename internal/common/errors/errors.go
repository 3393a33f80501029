package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeConflict   ErrorCode = "CONFLICT"

	ErrCodeUserNotFound   ErrorCode = "USER_NOT_FOUND"
	ErrCodeTokenNotFound  ErrorCode = "TOKEN_NOT_FOUND"
	ErrCodeWalletMismatch ErrorCode = "WALLET_MISMATCH"

	ErrCodeRelayerRejected    ErrorCode = "RELAYER_REJECTED"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

// AppError is the typed error carried from services to the HTTP boundary.
// RelayStatus/RelayMessage are populated only for RELAYER_REJECTED errors
// and echo the relay's own business status for diagnostics.
type AppError struct {
	Code         ErrorCode              `json:"code"`
	Message      string                 `json:"message"`
	RelayStatus  int                    `json:"relay_status,omitempty"`
	RelayMessage string                 `json:"relay_message,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
	Timestamp    time.Time              `json:"timestamp"`
	Cause        error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether the error is a missing-resource error.
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound || e.Code == ErrCodeUserNotFound || e.Code == ErrCodeTokenNotFound
}

// IsBadRequest reports whether the error was caused by the caller's input.
func (e *AppError) IsBadRequest() bool {
	return e.Code == ErrCodeValidation || e.Code == ErrCodeBadRequest || e.Code == ErrCodeWalletMismatch
}

// IsUpstream reports whether the error originated at the relay boundary.
func (e *AppError) IsUpstream() bool {
	return e.Code == ErrCodeRelayerRejected || e.Code == ErrCodeServiceUnavailable
}

// WithDetail attaches a named detail to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an underlying error with an application error code.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf wraps an underlying error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// AsAppError extracts an *AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NewUserNotFound creates a not-found error for a user id.
func NewUserNotFound(userID string) *AppError {
	return New(ErrCodeUserNotFound, fmt.Sprintf("user %s not found", userID))
}

// NewTokenNotFound creates a not-found error for a token id.
func NewTokenNotFound(tokenID string) *AppError {
	return New(ErrCodeTokenNotFound, fmt.Sprintf("token %s not found", tokenID))
}

// NewWalletMismatch creates the ownership-precondition error.
func NewWalletMismatch() *AppError {
	return New(ErrCodeWalletMismatch, "wallet address does not match user record")
}

// NewRelayerRejected creates the error for a relay business-status rejection.
func NewRelayerRejected(message string, relayStatus int, relayMessage string) *AppError {
	appErr := New(ErrCodeRelayerRejected, message)
	appErr.RelayStatus = relayStatus
	appErr.RelayMessage = relayMessage
	return appErr
}

// NewServiceUnavailable creates the error for an unreachable relay.
func NewServiceUnavailable(cause error) *AppError {
	return Wrap(cause, ErrCodeServiceUnavailable, "relayer service unavailable")
}
