// Package errors defines the error taxonomy shared by every layer of the
// service. Storage and crypto failures are translated into an AppError at
// the boundary where they occur; handlers only ever see stable codes.
package errors

import (
	"fmt"
	"net/http"
)

// Kind classifies an AppError into one of the stable error categories.
type Kind int

const (
	KindValidation Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindRateLimited
	KindConfig
	KindUnavailable
	KindInternal
)

// AppError is the single error type crossing package boundaries.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Is makes errors.Is match on Kind so callers can compare against the
// singleton errors below without caring about wrapped causes.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Code returns the stable machine-readable code for the error.
func (e *AppError) Code() string {
	switch e.Kind {
	case KindValidation:
		return "validation_error"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	case KindConfig:
		return "config_error"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal_error"
	}
}

// Status maps the error to its HTTP status code.
func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Singletons for the kinds that carry no caller-specific detail. The
// unauthorized message is deliberately generic: unknown email, wrong
// password and dead refresh tokens must be indistinguishable.
var (
	ErrUnauthorized = &AppError{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrForbidden    = &AppError{Kind: KindForbidden, Message: "forbidden"}
	ErrNotFound     = &AppError{Kind: KindNotFound, Message: "not found"}
	ErrRateLimited  = &AppError{Kind: KindRateLimited, Message: "rate limited"}
)

func Validation(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func Conflict(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

func Config(msg string) *AppError {
	return &AppError{Kind: KindConfig, Message: msg}
}

func Unavailable(msg string, err error) *AppError {
	return &AppError{Kind: KindUnavailable, Message: msg, Err: err}
}

func Internal(msg string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: msg, Err: err}
}

// From coerces any error into an AppError, wrapping unknown errors as
// internal so raw storage error text never reaches a caller.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	if app, ok := err.(*AppError); ok {
		return app
	}
	return &AppError{Kind: KindInternal, Message: "internal error", Err: err}
}
