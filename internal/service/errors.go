package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrInvalidCredential covers every rejected secret code: unknown,
	// revoked, or otherwise unusable. Callers never learn which, and the
	// code itself never appears in the error.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrOtpRequired is returned by direct verification when token minting
	// is gated behind a one-time passcode challenge.
	ErrOtpRequired = errors.New("one-time passcode required")

	ErrTokenIsExpired          = errors.New("token is expired")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")

	// ErrCodeGenerationExhausted is returned when repeated secret code
	// generation kept colliding with existing codes.
	ErrCodeGenerationExhausted = errors.New("secret code generation exhausted retries")

	// ErrOtpDeliveryFailed is returned when a challenge was persisted but
	// the passcode could not be handed to the mail transport.
	ErrOtpDeliveryFailed = errors.New("one-time passcode delivery failed")
)
