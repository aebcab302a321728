package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrRateLimited  = errors.New("rate limited")
	ErrInvalidCode  = errors.New("invalid code")
	ErrExpired      = errors.New("expired")
	ErrDependency   = errors.New("dependency failure")

	// ErrConditionFailed is returned by stores when a conditional write loses
	// against a concurrent update.
	ErrConditionFailed = errors.New("condition failed")
)

// Error is a client-facing error: Message is safe to show to callers and
// Kind is one of the sentinels above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds a client-facing error of the given kind.
func NewError(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// RateLimitError reports how long the caller must wait before retrying.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Please wait %d seconds before requesting a new OTP", e.Seconds())
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// Seconds returns RetryAfter in whole seconds, rounded up.
func (e *RateLimitError) Seconds() int {
	s := int(e.RetryAfter / time.Second)
	if e.RetryAfter%time.Second != 0 {
		s++
	}
	return s
}
