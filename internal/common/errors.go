// Package common defines shared constants and sentinel errors used across
// the Streamly auth backend. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Sign-up / sign-in errors. ErrInvalidCredentials covers both an unknown
	// email and a wrong password so the two cases stay indistinguishable.
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Token errors. Every verification failure (bad signature, expired,
	// malformed) collapses into ErrInvalidToken; ErrInvalidTokenKind marks a
	// well-formed token of the wrong kind (e.g. a session token where an MFA
	// challenge token is expected).
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidTokenKind = errors.New("invalid token kind")

	// MFA errors.
	ErrMFANotEnabled   = errors.New("mfa not enabled")
	ErrMFANotInitiated = errors.New("mfa setup not initiated")
	ErrInvalidCode     = errors.New("invalid verification code")
)
