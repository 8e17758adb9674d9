package models

import "time"

// OtpChallenge is a time-boxed, attempt-limited one-time passcode tied to a
// single assignment. Only the SHA-256 hash of the passcode is persisted; the
// plaintext exists only at issuance, handed straight to the mailer for
// out-of-band delivery, and is never stored or logged.
//
// A challenge leaves the pending state exactly once: consumed on a correct
// submission, expired when redeemed past ExpiresAt, or exhausted when the
// attempt ceiling is reached. Terminal challenges are never reused or
// deleted; issuing a fresh challenge supersedes older pending ones because
// redemption always targets the most recent pending row.
type OtpChallenge struct {
	// ChallengeID is the internal unique identifier of the challenge.
	ChallengeID int64 `json:"challenge_id"`

	// AssignmentID is the id of the assignment the challenge belongs to.
	AssignmentID int64 `json:"assignment_id"`

	// CodeHash is the hex-encoded SHA-256 digest of the plaintext passcode.
	CodeHash string `json:"-"`

	// ExpiresAt is the instant after which the challenge can no longer be
	// redeemed.
	ExpiresAt time.Time `json:"expires_at"`

	// Attempts is the number of failed submissions recorded so far.
	Attempts int `json:"attempts"`

	// MaxAttempts is the ceiling after which the challenge is exhausted.
	MaxAttempts int `json:"max_attempts"`

	// Consumed is set when a correct passcode was submitted.
	Consumed bool `json:"consumed"`

	// Expired is set when a redemption found the challenge past ExpiresAt.
	Expired bool `json:"expired"`

	// CreatedAt is the timestamp when the challenge was issued.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the OtpChallenge model.
func (c OtpChallenge) TableName() string {
	return "otp_challenges"
}

// RedeemOutcome enumerates the possible results of redeeming an OTP
// challenge.
type RedeemOutcome string

const (
	// RedeemConsumed means the submitted passcode matched and the challenge
	// is now consumed.
	RedeemConsumed RedeemOutcome = "consumed"

	// RedeemRetry means the passcode did not match but attempts remain.
	RedeemRetry RedeemOutcome = "retry"

	// RedeemExpired means the challenge was past its expiry at redemption
	// time and has been marked expired.
	RedeemExpired RedeemOutcome = "expired"

	// RedeemExhausted means the attempt ceiling was reached; even a correct
	// passcode fails from now on.
	RedeemExhausted RedeemOutcome = "exhausted"

	// RedeemNoChallenge means no pending challenge exists for the
	// assignment.
	RedeemNoChallenge RedeemOutcome = "no_active_challenge"
)

// RedeemResult is the tagged outcome of one redemption attempt. The
// plaintext passcode never appears in it.
type RedeemResult struct {
	// Outcome classifies the attempt.
	Outcome RedeemOutcome `json:"outcome"`

	// RemainingAttempts is meaningful only for RedeemRetry and reports how
	// many failed submissions are left before the challenge is exhausted.
	RemainingAttempts int `json:"remaining_attempts,omitempty"`
}
