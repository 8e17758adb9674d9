package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/models"
)

// otpRepository is the PostgreSQL-backed implementation of [OtpRepository].
// It stores one-time passcode challenges in the "otp_challenges" table.
// Only hex-encoded SHA-256 digests of passcodes ever reach this layer.
type otpRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewOtpRepository constructs an [OtpRepository] backed by the provided
// database connection and logger.
func NewOtpRepository(db *DB, logger *logger.Logger) OtpRepository {
	logger.Debug().Msg("creating otp repository")
	return &otpRepository{
		db:     db,
		logger: logger,
	}
}

// CreateChallenge persists a new challenge and returns it with
// server-assigned fields. A fresh challenge supersedes older pending ones
// implicitly because redemption always targets the most recent pending row.
func (r *otpRepository) CreateChallenge(ctx context.Context, challenge models.OtpChallenge) (models.OtpChallenge, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createOtpChallenge,
		challenge.AssignmentID,
		challenge.CodeHash,
		challenge.ExpiresAt,
		challenge.MaxAttempts,
	)

	var created models.OtpChallenge
	if err := row.Scan(
		&created.ChallengeID,
		&created.AssignmentID,
		&created.CodeHash,
		&created.ExpiresAt,
		&created.Attempts,
		&created.MaxAttempts,
		&created.Consumed,
		&created.Expired,
		&created.CreatedAt,
	); err != nil {
		log.Err(err).Str("func", "otpRepository.CreateChallenge").
			Int64("assignment_id", challenge.AssignmentID).
			Msg("failed to insert otp challenge")
		return models.OtpChallenge{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return created, nil
}

// LatestPending returns the most recent non-consumed, non-expired challenge
// of the assignment.
//
// Returns [ErrChallengeNotFound] when the assignment has no pending
// challenge.
func (r *otpRepository) LatestPending(ctx context.Context, assignmentID int64) (models.OtpChallenge, error) {
	log := logger.FromContext(ctx)

	var challenge models.OtpChallenge
	err := r.db.QueryRowContext(ctx, latestPendingOtpChallenge, assignmentID).Scan(
		&challenge.ChallengeID,
		&challenge.AssignmentID,
		&challenge.CodeHash,
		&challenge.ExpiresAt,
		&challenge.Attempts,
		&challenge.MaxAttempts,
		&challenge.Consumed,
		&challenge.Expired,
		&challenge.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.OtpChallenge{}, ErrChallengeNotFound
		}
		log.Err(err).Str("func", "otpRepository.LatestPending").
			Int64("assignment_id", assignmentID).
			Msg("failed to query pending otp challenge")
		return models.OtpChallenge{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return challenge, nil
}

// IncrementAttempts atomically bumps the failed-submission counter and
// returns the new value. The increment happens in the database so two
// concurrent wrong submissions cannot observe the same count.
func (r *otpRepository) IncrementAttempts(ctx context.Context, challengeID int64) (int, error) {
	log := logger.FromContext(ctx)

	var attempts int
	err := r.db.QueryRowContext(ctx, incrementOtpAttempts, challengeID).Scan(&attempts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrChallengeNotFound
		}
		log.Err(err).Str("func", "otpRepository.IncrementAttempts").
			Int64("challenge_id", challengeID).
			Msg("failed to increment otp attempts")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return attempts, nil
}

// MarkConsumed transitions a pending challenge into the consumed terminal
// state. The UPDATE is guarded on the pending state, so a challenge that
// was expired or consumed in the meantime yields [ErrChallengeNotFound].
func (r *otpRepository) MarkConsumed(ctx context.Context, challengeID int64) error {
	return r.transition(ctx, consumeOtpChallenge, challengeID, "otpRepository.MarkConsumed")
}

// MarkExpired transitions a pending challenge into the expired terminal
// state. Guarded identically to [MarkConsumed].
func (r *otpRepository) MarkExpired(ctx context.Context, challengeID int64) error {
	return r.transition(ctx, expireOtpChallenge, challengeID, "otpRepository.MarkExpired")
}

func (r *otpRepository) transition(ctx context.Context, query string, challengeID int64, funcName string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, challengeID)
	if err != nil {
		log.Err(err).Str("func", funcName).Int64("challenge_id", challengeID).Msg("failed to execute state transition")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", funcName).Int64("challenge_id", challengeID).Msg("failed to read affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrChallengeNotFound
	}

	return nil
}
