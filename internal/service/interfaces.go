package service

import (
	"context"

	"github.com/panelportal/server/models"
)

// SyncService owns the panel catalog and its reconciliation against the
// document root directory tree.
type SyncService interface {
	// Sync runs one full reconciliation pass. A failed panel is recorded
	// in the report and never aborts the remaining panels.
	Sync(ctx context.Context) (models.SyncReport, error)

	// ListPanels returns the catalog panels, optionally including
	// soft-deleted ones.
	ListPanels(ctx context.Context, includeDeleted bool) ([]models.Panel, error)
}

// UserService manages administrative user accounts.
type UserService interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, userID int64) error
}

// AssignmentService issues user-panel assignments and renders their QR
// credentials.
type AssignmentService interface {
	// IssueAssignment creates an assignment with a fresh secret code,
	// superseding any live assignment for the same (user, panel) pair.
	IssueAssignment(ctx context.Context, userID, panelID int64) (models.UserAssignment, error)

	// QRImage renders the assignment's verification URL as a PNG QR code.
	QRImage(ctx context.Context, assignmentID int64) ([]byte, error)
}

// AccessService exchanges credentials for access tokens and serves the
// panel content a token is scoped to.
type AccessService interface {
	// Verify exchanges a secret code for an access token, recording the
	// attempt in the scan log either way.
	Verify(ctx context.Context, secretCode string) (models.Token, error)

	// AssignmentByCode resolves a secret code to its live assignment for
	// the passcode escalation flow, recording the lookup in the scan log.
	AssignmentByCode(ctx context.Context, secretCode string) (models.UserAssignment, error)

	// TokenForAssignment mints an access token scoped to the assignment
	// and records the successful verification.
	TokenForAssignment(ctx context.Context, assignment models.UserAssignment) (models.Token, error)

	// TokenForAssignmentID loads the assignment by id, rejects revoked
	// ones, and mints a token. Serves the passcode redemption flow where
	// only the assignment id is known.
	TokenForAssignmentID(ctx context.Context, assignmentID int64) (models.Token, error)

	// ParseToken validates a raw token string and extracts its assignment
	// scope.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)

	// ListScopedFiles returns the live files of the panel the assignment
	// is scoped to.
	ListScopedFiles(ctx context.Context, assignmentID int64) (models.FileListResponse, error)

	// OpenScopedFile reads one file's content from the document root,
	// provided the catalog lists it as live in the assignment's panel.
	OpenScopedFile(ctx context.Context, assignmentID int64, fileName string) ([]byte, error)

	// ScanHistory returns the assignment's audit trail, newest first.
	ScanHistory(ctx context.Context, assignmentID int64) ([]models.UserScanLog, error)
}

// OtpService issues and redeems one-time passcode challenges.
type OtpService interface {
	// IssueChallenge creates a challenge for the assignment and delivers
	// the passcode to the assigned user's email. Only the passcode hash is
	// persisted.
	IssueChallenge(ctx context.Context, assignment models.UserAssignment) (models.OtpChallenge, error)

	// Redeem applies one passcode submission to the assignment's pending
	// challenge and reports the tagged outcome.
	Redeem(ctx context.Context, assignmentID int64, code string) (models.RedeemResult, error)
}
