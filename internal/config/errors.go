package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, a missing token sign key or a too-short secret code
	// length).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN or document root).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidOTPConfigs indicates invalid one-time passcode settings
	// (for example, a non-positive TTL or attempt ceiling).
	ErrInvalidOTPConfigs = errors.New("invalid otp configuration")
)
