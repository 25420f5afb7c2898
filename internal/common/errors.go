// Package common defines shared sentinel errors used across the storage,
// repository, and service layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrNotFound = errors.New("not found")
	ErrBackend  = errors.New("storage backend error")

	// Repository-level errors.
	ErrRepository = errors.New("repository error")

	// Input / policy errors surfaced to the API boundary.
	ErrValidation    = errors.New("validation error")
	ErrLimitExceeded = errors.New("limit exceeded")

	// Configuration errors. Must never be masked by insecure defaults.
	ErrConfig = errors.New("configuration error")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrOTPExpired   = errors.New("otp expired")
	ErrOTPUsed      = errors.New("otp already used")
)
