package models

import "time"

// ScanStatus enumerates the verification outcomes recorded in the scan log.
type ScanStatus string

const (
	// ScanSuccess records a successful verification that produced a token.
	ScanSuccess ScanStatus = "success"

	// ScanFailure records a rejected credential (unknown or revoked code,
	// failed OTP escalation).
	ScanFailure ScanStatus = "failure"

	// ScanOther records auxiliary events tied to an assignment, such as an
	// OTP challenge being requested.
	ScanOther ScanStatus = "other"
)

// UserScanLog is one append-only audit record of a verification attempt.
// Rows are never updated or deleted once written; when a failed lookup has
// no assignment to reference, AssignmentID stays zero and is persisted as
// NULL.
type UserScanLog struct {
	// ScanID is the internal unique identifier of the log record.
	ScanID int64 `json:"scan_id"`

	// AssignmentID references the assignment the attempt was made against,
	// or zero when the presented code matched no assignment.
	AssignmentID int64 `json:"assignment_id"`

	// Status is the recorded verification outcome.
	Status ScanStatus `json:"status"`

	// ScannedAt is the timestamp of the attempt.
	ScannedAt time.Time `json:"scanned_at"`
}

// TableName returns the name of the database table
// associated with the UserScanLog model.
func (l UserScanLog) TableName() string {
	return "user_scan_log"
}
