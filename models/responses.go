package models

import "time"

// CreateUserRequest is the request body for creating an administrative user.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IssueAssignmentRequest is the request body for issuing a new assignment.
type IssueAssignmentRequest struct {
	UserID  int64 `json:"user_id"`
	PanelID int64 `json:"panel_id"`
}

// VerifyRequest carries the secret code presented by a scanning client.
type VerifyRequest struct {
	Code string `json:"code"`
}

// VerifyResponse is returned on successful verification of a secret code.
type VerifyResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ChallengeRequest asks for an OTP challenge for the assignment matching
// the presented secret code.
type ChallengeRequest struct {
	Code string `json:"code"`
}

// ChallengeResponse acknowledges an issued OTP challenge. The passcode
// itself is delivered out-of-band and never appears here.
type ChallengeResponse struct {
	AssignmentID int64     `json:"assignment_id"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// RedeemRequest carries an OTP submission for an assignment.
type RedeemRequest struct {
	AssignmentID int64  `json:"assignment_id"`
	Code         string `json:"code"`
}

// RedeemResponse reports the outcome of an OTP submission. Token is set
// only when the challenge was consumed.
type RedeemResponse struct {
	Outcome           RedeemOutcome `json:"outcome"`
	RemainingAttempts int           `json:"remaining_attempts,omitempty"`
	Token             string        `json:"token,omitempty"`
	ExpiresAt         time.Time     `json:"expires_at,omitzero"`
}

// FileListResponse is the scoped file listing returned to a token holder.
type FileListResponse struct {
	Panel string `json:"panel"`
	Files []File `json:"files"`
}
