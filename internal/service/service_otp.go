package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/panelportal/server/internal/config"
	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/internal/mailer"
	"github.com/panelportal/server/internal/store"
	"github.com/panelportal/server/internal/utils"
	"github.com/panelportal/server/models"
)

// otpService is the concrete implementation of OtpService. It issues
// time-boxed, attempt-limited passcode challenges and redeems submissions
// against them.
//
// The plaintext passcode exists only between generation and the mail
// transport; storage sees the SHA-256 digest, logs see nothing.
type otpService struct {
	otpRepository store.OtpRepository
	mail          mailer.Mailer

	// ttl is how long an issued challenge stays redeemable.
	ttl time.Duration

	// maxAttempts is the failed-submission ceiling per challenge.
	maxAttempts int

	// codeLength is the number of digits in a generated passcode.
	codeLength int

	logger *logger.Logger
}

// NewOtpService constructs an OtpService wired to the given repository and
// mail transport, populated with challenge parameters from cfg.
func NewOtpService(otpRepository store.OtpRepository, mail mailer.Mailer, cfg config.OTP, logger *logger.Logger) OtpService {
	return &otpService{
		otpRepository: otpRepository,
		mail:          mail,
		ttl:           cfg.TTL,
		maxAttempts:   cfg.MaxAttempts,
		codeLength:    cfg.Length,
		logger:        logger,
	}
}

// IssueChallenge creates a fresh passcode challenge for the assignment and
// delivers the passcode to the assigned user's email.
//
// An earlier pending challenge is superseded implicitly: redemption always
// targets the most recent pending row. Delivery failure after persistence
// surfaces as ErrOtpDeliveryFailed; the challenge stays on record and
// expires on its own.
func (o *otpService) IssueChallenge(ctx context.Context, assignment models.UserAssignment) (models.OtpChallenge, error) {
	log := logger.FromContext(ctx)

	if assignment.AssignmentID == 0 || assignment.UserEmail == "" {
		return models.OtpChallenge{}, ErrInvalidDataProvided
	}

	code, err := utils.GenerateOTP(o.codeLength)
	if err != nil {
		return models.OtpChallenge{}, fmt.Errorf("passcode generation failed: %w", err)
	}

	challenge, err := o.otpRepository.CreateChallenge(ctx, models.OtpChallenge{
		AssignmentID: assignment.AssignmentID,
		CodeHash:     hashPasscode(code),
		ExpiresAt:    time.Now().Add(o.ttl),
		MaxAttempts:  o.maxAttempts,
	})
	if err != nil {
		log.Err(err).Str("func", "otpService.IssueChallenge").
			Int64("assignment_id", assignment.AssignmentID).
			Msg("challenge creation ended with error")
		return models.OtpChallenge{}, fmt.Errorf("challenge creation ended with error: %w", err)
	}

	htmlBody, textBody := mailer.OtpMessage(assignment.UserName, code, o.ttl)
	if err := o.mail.Send(assignment.UserEmail, mailer.OtpSubject, htmlBody, textBody); err != nil {
		log.Err(err).Str("func", "otpService.IssueChallenge").
			Int64("assignment_id", assignment.AssignmentID).
			Int64("challenge_id", challenge.ChallengeID).
			Msg("passcode delivery failed")
		return models.OtpChallenge{}, fmt.Errorf("%w: %w", ErrOtpDeliveryFailed, err)
	}

	log.Info().Str("func", "otpService.IssueChallenge").
		Int64("assignment_id", assignment.AssignmentID).
		Int64("challenge_id", challenge.ChallengeID).
		Time("expires_at", challenge.ExpiresAt).
		Msg("passcode challenge issued")

	return challenge, nil
}

// Redeem applies one passcode submission to the assignment's most recent
// pending challenge.
//
// The outcome is a tagged result, not an error — every path below is a
// legitimate protocol state:
//
//   - No pending challenge → RedeemNoChallenge.
//   - Attempt ceiling already reached → RedeemExhausted, even for a correct
//     passcode.
//   - Challenge past its expiry → marked expired, RedeemExpired.
//   - Wrong passcode → counter incremented atomically, RedeemRetry with the
//     remaining attempts (floor zero).
//   - Correct passcode → challenge consumed, RedeemConsumed.
//
// Only persistence failures return a non-nil error.
func (o *otpService) Redeem(ctx context.Context, assignmentID int64, code string) (models.RedeemResult, error) {
	log := logger.FromContext(ctx)

	if assignmentID <= 0 || code == "" {
		return models.RedeemResult{}, ErrInvalidDataProvided
	}

	challenge, err := o.otpRepository.LatestPending(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, store.ErrChallengeNotFound) {
			return models.RedeemResult{Outcome: models.RedeemNoChallenge}, nil
		}
		log.Err(err).Str("func", "otpService.Redeem").Int64("assignment_id", assignmentID).Msg("challenge lookup failed")
		return models.RedeemResult{}, fmt.Errorf("challenge lookup failed: %w", err)
	}

	if challenge.Attempts >= challenge.MaxAttempts {
		log.Warn().Str("func", "otpService.Redeem").
			Int64("challenge_id", challenge.ChallengeID).
			Msg("challenge exhausted")
		return models.RedeemResult{Outcome: models.RedeemExhausted}, nil
	}

	if time.Now().After(challenge.ExpiresAt) {
		if err := o.otpRepository.MarkExpired(ctx, challenge.ChallengeID); err != nil && !errors.Is(err, store.ErrChallengeNotFound) {
			return models.RedeemResult{}, fmt.Errorf("expiring challenge failed: %w", err)
		}
		return models.RedeemResult{Outcome: models.RedeemExpired}, nil
	}

	if !hmac.Equal([]byte(hashPasscode(code)), []byte(challenge.CodeHash)) {
		attempts, err := o.otpRepository.IncrementAttempts(ctx, challenge.ChallengeID)
		if err != nil {
			return models.RedeemResult{}, fmt.Errorf("recording failed attempt failed: %w", err)
		}

		remaining := challenge.MaxAttempts - attempts
		if remaining < 0 {
			remaining = 0
		}

		log.Warn().Str("func", "otpService.Redeem").
			Int64("challenge_id", challenge.ChallengeID).
			Int("remaining_attempts", remaining).
			Msg("wrong passcode submitted")

		return models.RedeemResult{Outcome: models.RedeemRetry, RemainingAttempts: remaining}, nil
	}

	if err := o.otpRepository.MarkConsumed(ctx, challenge.ChallengeID); err != nil {
		if errors.Is(err, store.ErrChallengeNotFound) {
			// A concurrent redemption won the race; this submission no
			// longer has a pending challenge to consume.
			return models.RedeemResult{Outcome: models.RedeemNoChallenge}, nil
		}
		return models.RedeemResult{}, fmt.Errorf("consuming challenge failed: %w", err)
	}

	log.Info().Str("func", "otpService.Redeem").
		Int64("challenge_id", challenge.ChallengeID).
		Int64("assignment_id", assignmentID).
		Msg("challenge consumed")

	return models.RedeemResult{Outcome: models.RedeemConsumed}, nil
}

// hashPasscode computes the hex-encoded SHA-256 digest under which a
// passcode is stored and compared.
func hashPasscode(code string) string {
	digest := sha256.Sum256([]byte(code))
	return hex.EncodeToString(digest[:])
}
