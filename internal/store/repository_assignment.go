package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/models"
)

// assignmentRepository is the PostgreSQL-backed implementation of
// [AssignmentRepository]. It manages the "user_assignments" table where every
// row carries a globally unique secret code.
type assignmentRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewAssignmentRepository constructs an [AssignmentRepository] backed by the
// provided database connection and logger.
func NewAssignmentRepository(db *DB, logger *logger.Logger) AssignmentRepository {
	logger.Debug().Msg("creating assignment repository")
	return &assignmentRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAssignment revokes any live assignment for the same (user, panel)
// pair and inserts the new row in a single transaction, so two live codes
// for one pair can never coexist.
//
// Error handling disambiguates unique violations by constraint name:
//   - secret-code key → [ErrSecretCodeCollision], caller regenerates and retries.
//   - live-pair index → [ErrAssignmentConflict], two concurrent issues raced.
//   - Any other failure → wrapped low-level sentinel.
func (r *assignmentRepository) CreateAssignment(ctx context.Context, assignment models.UserAssignment) (models.UserAssignment, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "assignmentRepository.CreateAssignment").
			Int64("user_id", assignment.UserID).
			Int64("panel_id", assignment.PanelID).
			Msg("failed to begin transaction")
		return models.UserAssignment{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, revokeLiveAssignment, assignment.UserID, assignment.PanelID); err != nil {
		log.Err(err).Str("func", "assignmentRepository.CreateAssignment").
			Int64("user_id", assignment.UserID).
			Int64("panel_id", assignment.PanelID).
			Msg("failed to revoke previous assignment")
		return models.UserAssignment{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	row := tx.QueryRowContext(ctx, createAssignment,
		assignment.UserID,
		assignment.PanelID,
		assignment.SecretCode,
		assignment.QRPayload,
	)

	var created models.UserAssignment
	if err := row.Scan(
		&created.AssignmentID,
		&created.UserID,
		&created.PanelID,
		&created.SecretCode,
		&created.QRPayload,
		&created.Revoked,
		&created.CreatedAt,
	); err != nil {
		log.Err(err).Str("func", "assignmentRepository.CreateAssignment").
			Int64("user_id", assignment.UserID).
			Int64("panel_id", assignment.PanelID).
			Msg("failed to insert assignment")

		if postgresError(err) == pgerrcode.UniqueViolation {
			switch postgresConstraint(err) {
			case "user_assignments_secret_code_key":
				return models.UserAssignment{}, ErrSecretCodeCollision
			case "user_assignments_live_pair_key":
				return models.UserAssignment{}, ErrAssignmentConflict
			}
		}

		return models.UserAssignment{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).Str("func", "assignmentRepository.CreateAssignment").
			Int64("user_id", assignment.UserID).
			Int64("panel_id", assignment.PanelID).
			Msg("failed to commit transaction")
		return models.UserAssignment{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	created.UserName = assignment.UserName
	created.UserEmail = assignment.UserEmail

	return created, nil
}

// FindBySecretCode returns the live assignment carrying the given secret
// code, with the owning user's name and email joined in. Revoked
// assignments never match.
//
// Returns [ErrAssignmentNotFound] when no live assignment carries the code.
// The secret code itself is never logged.
func (r *assignmentRepository) FindBySecretCode(ctx context.Context, secretCode string) (models.UserAssignment, error) {
	log := logger.FromContext(ctx)

	var assignment models.UserAssignment
	err := r.db.QueryRowContext(ctx, findAssignmentBySecretCode, secretCode).Scan(
		&assignment.AssignmentID,
		&assignment.UserID,
		&assignment.PanelID,
		&assignment.SecretCode,
		&assignment.QRPayload,
		&assignment.Revoked,
		&assignment.CreatedAt,
		&assignment.UserName,
		&assignment.UserEmail,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserAssignment{}, ErrAssignmentNotFound
		}
		log.Err(err).Str("func", "assignmentRepository.FindBySecretCode").Msg("failed to find assignment by code")
		return models.UserAssignment{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return assignment, nil
}

// GetByID returns one assignment regardless of revocation state, with the
// owning user's name and email joined in.
//
// Returns [ErrAssignmentNotFound] when the id does not exist.
func (r *assignmentRepository) GetByID(ctx context.Context, assignmentID int64) (models.UserAssignment, error) {
	log := logger.FromContext(ctx)

	var assignment models.UserAssignment
	err := r.db.QueryRowContext(ctx, getAssignmentByID, assignmentID).Scan(
		&assignment.AssignmentID,
		&assignment.UserID,
		&assignment.PanelID,
		&assignment.SecretCode,
		&assignment.QRPayload,
		&assignment.Revoked,
		&assignment.CreatedAt,
		&assignment.UserName,
		&assignment.UserEmail,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserAssignment{}, ErrAssignmentNotFound
		}
		log.Err(err).Str("func", "assignmentRepository.GetByID").Int64("assignment_id", assignmentID).Msg("failed to get assignment")
		return models.UserAssignment{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return assignment, nil
}
