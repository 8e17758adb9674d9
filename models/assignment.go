package models

import "time"

// UserAssignment binds one user to one panel and carries the secret code
// handed out as a QR image. The secret code is an opaque bearer credential:
// whoever presents it can exchange it for a short-lived access token scoped
// to the assignment's panel.
//
// At most one live (non-revoked) assignment exists per (user, panel) pair.
// Issuing a new assignment for the same pair revokes the previous one in
// the same transaction so that two live codes can never coexist.
type UserAssignment struct {
	// AssignmentID is the internal unique identifier of the assignment.
	AssignmentID int64 `json:"assignment_id"`

	// UserID is the id of the assigned user.
	UserID int64 `json:"user_id"`

	// PanelID is the id of the panel the user is granted access to.
	PanelID int64 `json:"panel_id"`

	// SecretCode is the opaque random bearer credential. Unique across all
	// assignments, compared case-sensitively, never derived from guessable
	// input.
	SecretCode string `json:"secret_code"`

	// QRPayload is the verification URL encoded into the QR image. It is a
	// derived artifact: regenerable from the secret code, never mutated
	// independently.
	QRPayload string `json:"qr_payload"`

	// Revoked marks the assignment's secret code as superseded. A revoked
	// code always fails verification.
	Revoked bool `json:"revoked"`

	// CreatedAt is the timestamp when the assignment was issued.
	CreatedAt time.Time `json:"created_at"`

	// UserName is the display name of the assigned user, populated by
	// lookup joins for embedding into access tokens. Not a column of the
	// assignments table.
	UserName string `json:"-"`

	// UserEmail is the email of the assigned user, populated by lookup
	// joins for OTP delivery. Not a column of the assignments table.
	UserEmail string `json:"-"`
}

// TableName returns the name of the database table
// associated with the UserAssignment model.
func (a UserAssignment) TableName() string {
	return "user_assignments"
}
