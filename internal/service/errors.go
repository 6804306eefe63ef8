package service

import (
	"errors"
	"fmt"
)

// ErrInvalidScope is returned when a requested scope is not present in the
// scope catalog.
var ErrInvalidScope = errors.New("invalid scope")

// UniquenessError reports a write that would violate a unique constraint.
type UniquenessError struct {
	Field string
	Value string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

// AuthenticationError is the umbrella failure for every authorization flow:
// bad credentials, bad client, bad code, bad token or missing scope. The
// message is kept coarse enough to hand to HTTP callers.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

func NewAuthenticationError(format string, args ...any) *AuthenticationError {
	return &AuthenticationError{Message: fmt.Sprintf(format, args...)}
}

// TokenError is the signature/claims subtype of AuthenticationError.
type TokenError struct {
	Message string
}

func (e *TokenError) Error() string {
	return e.Message
}

// Unwrap lets errors.As treat every TokenError as an AuthenticationError.
func (e *TokenError) Unwrap() error {
	return &AuthenticationError{Message: e.Message}
}

func NewTokenError(format string, args ...any) *TokenError {
	return &TokenError{Message: fmt.Sprintf(format, args...)}
}

// IsAuthenticationError reports whether err belongs to the flow failure
// taxonomy, including token errors.
func IsAuthenticationError(err error) bool {
	var authErr *AuthenticationError
	var tokenErr *TokenError
	return errors.As(err, &authErr) || errors.As(err, &tokenErr)
}
