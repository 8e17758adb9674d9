package store

import (
	"context"

	"github.com/panelportal/server/models"
)

// PanelRepository provides access to the panel and file catalog. The
// catalog mirrors the document root directory tree; all deletes are soft.
type PanelRepository interface {
	// ListPanels returns all panels, optionally including soft-deleted
	// ones.
	ListPanels(ctx context.Context, includeDeleted bool) ([]models.Panel, error)

	// GetPanelByID returns one panel regardless of its deletion state.
	GetPanelByID(ctx context.Context, panelID int64) (models.Panel, error)

	// ListFiles returns the catalog entries of one panel, optionally
	// including soft-deleted ones.
	ListFiles(ctx context.Context, panelID int64, includeDeleted bool) ([]models.File, error)

	// ApplyDiff applies every mutation of one panel diff inside a single
	// transaction. An empty diff is a no-op.
	ApplyDiff(ctx context.Context, diff models.PanelDiff) error
}

// UserRepository manages administrative user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByID(ctx context.Context, userID int64) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	// DeleteUser removes the user and cascades into their assignments.
	// Scan log rows survive with a NULL assignment reference.
	DeleteUser(ctx context.Context, userID int64) error
}

// AssignmentRepository manages user-panel assignments and their secret
// codes.
type AssignmentRepository interface {
	// CreateAssignment revokes any live assignment for the same
	// (user, panel) pair and inserts the new one in a single transaction.
	CreateAssignment(ctx context.Context, assignment models.UserAssignment) (models.UserAssignment, error)

	// FindBySecretCode returns the live assignment carrying the given
	// secret code, with the owning user's name and email joined in.
	FindBySecretCode(ctx context.Context, secretCode string) (models.UserAssignment, error)

	// GetByID returns one assignment regardless of revocation state, with
	// the owning user's name and email joined in.
	GetByID(ctx context.Context, assignmentID int64) (models.UserAssignment, error)
}

// ScanLogRepository appends to and reads the append-only verification audit
// trail. Records are never updated or deleted.
type ScanLogRepository interface {
	Append(ctx context.Context, record models.UserScanLog) (models.UserScanLog, error)
	ListByAssignment(ctx context.Context, assignmentID int64) ([]models.UserScanLog, error)
}

// OtpRepository manages one-time passcode challenges. Only passcode hashes
// cross this boundary.
type OtpRepository interface {
	CreateChallenge(ctx context.Context, challenge models.OtpChallenge) (models.OtpChallenge, error)

	// LatestPending returns the most recent non-consumed, non-expired
	// challenge of the assignment, or [ErrChallengeNotFound].
	LatestPending(ctx context.Context, assignmentID int64) (models.OtpChallenge, error)

	// IncrementAttempts atomically bumps the failed-submission counter and
	// returns the new value.
	IncrementAttempts(ctx context.Context, challengeID int64) (int, error)

	// MarkConsumed transitions a pending challenge into the consumed
	// terminal state. Returns [ErrChallengeNotFound] if the challenge is
	// no longer pending.
	MarkConsumed(ctx context.Context, challengeID int64) error

	// MarkExpired transitions a pending challenge into the expired
	// terminal state.
	MarkExpired(ctx context.Context, challengeID int64) error
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
