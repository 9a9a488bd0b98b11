// Package apperr defines the error values shared by services and handlers.
// Services return *Error; handlers translate Kind into an HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindInvalidCredentials
	KindInvalidToken
	KindExpiredToken
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindMethodNotAllowed
	KindRateLimited
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindInvalidToken:
		return "invalid_token"
	case KindExpiredToken:
		return "expired_token"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConflict, KindInvalidToken, KindExpiredToken:
		return http.StatusBadRequest
	case KindInvalidCredentials, KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind and message, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func Validation(message string) *Error { return New(KindValidation, message) }
func Conflict(message string) *Error   { return New(KindConflict, message) }
func NotFound(message string) *Error   { return New(KindNotFound, message) }

func Internal(err error) *Error {
	return Wrap(KindInternal, "Internal server error", err)
}

func Unavailable(err error) *Error {
	return Wrap(KindUnavailable, "Service temporarily unavailable", err)
}

var (
	ErrInvalidCredentials = New(KindInvalidCredentials, "Incorrect email or password.")
	ErrInvalidToken       = New(KindInvalidToken, "Invalid or unknown reset token.")
	ErrExpiredToken       = New(KindExpiredToken, "The reset token has expired.")
	ErrUnauthenticated    = New(KindUnauthenticated, "Authentication required")
	ErrCSRF               = New(KindForbidden, "Invalid CSRF token")
	ErrAdminRequired      = New(KindForbidden, "Administrator access required")
	ErrSelfDemotion       = New(KindForbidden, "You cannot remove your own administrator rights.")
	ErrUnknownAction      = New(KindNotFound, "Action not recognized")
	ErrMissingAction      = New(KindValidation, "No action specified")
	ErrMethodNotAllowed   = New(KindMethodNotAllowed, "Method not allowed")
	ErrRateLimited        = New(KindRateLimited, "Too many attempts. Please try again later.")
)

// KindOf returns the kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
