// Package errors defines the coded errors passed between the auth API adapters,
// the session stores and the auth service.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes an AppError.
type ErrorCode string

const (
	ErrCodeNotFound           ErrorCode = "not_found"
	ErrCodeInvalidCredentials ErrorCode = "invalid_credentials"
	ErrCodeRejected           ErrorCode = "rejected"
	ErrCodeUnavailable        ErrorCode = "unavailable"
	ErrCodeUnauthorized       ErrorCode = "unauthorized"
	ErrCodeInternal           ErrorCode = "internal"
	ErrCodeTimeout            ErrorCode = "timeout"
	ErrCodeCanceled           ErrorCode = "canceled"
)

// AppError is a coded error. Status and Detail are filled when the error came
// from an auth API response; Detail is safe to show on the form.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Status  int
	Detail  string
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *AppError) Unwrap() error { return e.Cause }

// NotFound reports a missing session or account.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// InvalidCredentials reports a login the auth API refused with the given status.
func InvalidCredentials(status int) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidCredentials,
		Message: fmt.Sprintf("login refused with status %d", status),
		Status:  status,
	}
}

// Rejected reports an auth API answer with an unexpected status or a malformed body.
func Rejected(status int, detail string) *AppError {
	return &AppError{
		Code:    ErrCodeRejected,
		Message: fmt.Sprintf("request rejected with status %d", status),
		Status:  status,
		Detail:  detail,
	}
}

// Unavailable wraps a failure to reach the auth API.
func Unavailable(err error, message string) *AppError {
	return &AppError{Code: ErrCodeUnavailable, Message: message, Cause: err}
}

// Unauthorized reports a missing or refused bearer token.
func Unauthorized(message string) *AppError {
	return &AppError{Code: ErrCodeUnauthorized, Message: message}
}

// Wrap attaches a code to err. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

func hasCode(err error, codes ...ErrorCode) bool {
	got := GetCode(err)
	if got == "" {
		return false
	}
	for _, c := range codes {
		if got == c {
			return true
		}
	}
	return false
}

func IsNotFound(err error) bool           { return hasCode(err, ErrCodeNotFound) }
func IsInvalidCredentials(err error) bool { return hasCode(err, ErrCodeInvalidCredentials) }
func IsRejected(err error) bool           { return hasCode(err, ErrCodeRejected) }
func IsUnauthorized(err error) bool       { return hasCode(err, ErrCodeUnauthorized) }
func IsTimeout(err error) bool            { return hasCode(err, ErrCodeTimeout) }
func IsCanceled(err error) bool           { return hasCode(err, ErrCodeCanceled) }

// IsUnavailable reports whether the auth API could not be reached.
// Timeouts and cancellations count.
func IsUnavailable(err error) bool {
	return hasCode(err, ErrCodeUnavailable, ErrCodeTimeout, ErrCodeCanceled)
}

// GetCode returns the code of the outermost AppError in err's chain, or "".
func GetCode(err error) ErrorCode {
	if appErr, ok := asAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// GetDetail returns the user-facing message an auth API supplied, or "".
func GetDetail(err error) string {
	if appErr, ok := asAppError(err); ok {
		return appErr.Detail
	}
	return ""
}

func asAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}
