// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"testing"
	"time"

	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/internal/store"
	"github.com/panelportal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOtpService(otps *mockOtpRepository, mail *mockMailer) *otpService {
	return &otpService{
		otpRepository: otps,
		mail:          mail,
		ttl:           3 * time.Minute,
		maxAttempts:   5,
		codeLength:    6,
		logger:        logger.Nop(),
	}
}

func pendingChallenge(code string) models.OtpChallenge {
	return models.OtpChallenge{
		ChallengeID:  30,
		AssignmentID: 10,
		CodeHash:     hashPasscode(code),
		ExpiresAt:    time.Now().Add(time.Minute),
		MaxAttempts:  5,
	}
}

// ─────────────────────────────────────────────
// IssueChallenge
// ─────────────────────────────────────────────

func TestIssueChallenge_Success(t *testing.T) {
	var persisted models.OtpChallenge
	otps := &mockOtpRepository{
		createChallengeFn: func(_ context.Context, challenge models.OtpChallenge) (models.OtpChallenge, error) {
			persisted = challenge
			challenge.ChallengeID = 30
			return challenge, nil
		},
	}
	var sentTo, sentText string
	mail := &mockMailer{
		sendFn: func(to, subject, htmlBody, textBody string) error {
			sentTo = to
			sentText = textBody
			assert.NotEmpty(t, subject)
			assert.NotEmpty(t, htmlBody)
			return nil
		},
	}
	svc := newTestOtpService(otps, mail)

	challenge, err := svc.IssueChallenge(context.Background(), models.UserAssignment{
		AssignmentID: 10,
		UserName:     "Alice",
		UserEmail:    "alice@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(30), challenge.ChallengeID)
	assert.Equal(t, "alice@example.com", sentTo)

	// The persisted hash must be a digest, never the passcode itself, and
	// the delivered message must not contain the hash.
	assert.Len(t, persisted.CodeHash, 64)
	assert.NotContains(t, sentText, persisted.CodeHash)
	assert.Equal(t, 5, persisted.MaxAttempts)
	assert.WithinDuration(t, time.Now().Add(3*time.Minute), persisted.ExpiresAt, 5*time.Second)
}

func TestIssueChallenge_InvalidAssignment(t *testing.T) {
	svc := newTestOtpService(&mockOtpRepository{}, &mockMailer{})

	_, err := svc.IssueChallenge(context.Background(), models.UserAssignment{AssignmentID: 10})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.IssueChallenge(context.Background(), models.UserAssignment{UserEmail: "alice@example.com"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestIssueChallenge_DeliveryFailure(t *testing.T) {
	otps := &mockOtpRepository{
		createChallengeFn: func(_ context.Context, challenge models.OtpChallenge) (models.OtpChallenge, error) {
			challenge.ChallengeID = 30
			return challenge, nil
		},
	}
	mail := &mockMailer{
		sendFn: func(string, string, string, string) error { return errStorage },
	}
	svc := newTestOtpService(otps, mail)

	_, err := svc.IssueChallenge(context.Background(), models.UserAssignment{
		AssignmentID: 10,
		UserEmail:    "alice@example.com",
	})

	assert.ErrorIs(t, err, ErrOtpDeliveryFailed)
}

// ─────────────────────────────────────────────
// Redeem
// ─────────────────────────────────────────────

func TestRedeem_NoPendingChallenge(t *testing.T) {
	otps := &mockOtpRepository{
		latestPendingFn: func(context.Context, int64) (models.OtpChallenge, error) {
			return models.OtpChallenge{}, store.ErrChallengeNotFound
		},
	}
	svc := newTestOtpService(otps, &mockMailer{})

	result, err := svc.Redeem(context.Background(), 10, "123456")

	require.NoError(t, err)
	assert.Equal(t, models.RedeemNoChallenge, result.Outcome)
}

func TestRedeem_CorrectCodeConsumes(t *testing.T) {
	consumed := false
	otps := &mockOtpRepository{
		latestPendingFn: func(context.Context, int64) (models.OtpChallenge, error) {
			return pendingChallenge("123456"), nil
		},
		markConsumedFn: func(_ context.Context, challengeID int64) error {
			assert.Equal(t, int64(30), challengeID)
			consumed = true
			return nil
		},
	}
	svc := newTestOtpService(otps, &mockMailer{})

	result, err := svc.Redeem(context.Background(), 10, "123456")

	require.NoError(t, err)
	assert.Equal(t, models.RedeemConsumed, result.Outcome)
	assert.True(t, consumed)
}

func TestRedeem_WrongCodeCountsDown(t *testing.T) {
	challenge := pendingChallenge("123456")
	otps := &mockOtpRepository{
		latestPendingFn: func(context.Context, int64) (models.OtpChallenge, error) {
			return challenge, nil
		},
		incrementAttemptsFn: func(context.Context, int64) (int, error) {
			challenge.Attempts++
			return challenge.Attempts, nil
		},
	}
	svc := newTestOtpService(otps, &mockMailer{})

	// Five wrong submissions walk the remaining-attempts counter down to
	// zero; the sixth finds the challenge exhausted.
	for _, want := range []int{4, 3, 2, 1, 0} {
		result, err := svc.Redeem(context.Background(), 10, "000000")
		require.NoError(t, err)
		assert.Equal(t, models.RedeemRetry, result.Outcome)
		assert.Equal(t, want, result.RemainingAttempts)
	}

	result, err := svc.Redeem(context.Background(), 10, "000000")
	require.NoError(t, err)
	assert.Equal(t, models.RedeemExhausted, result.Outcome)
}

func TestRedeem_CorrectCodeAfterExhaustionFails(t *testing.T) {
	challenge := pendingChallenge("123456")
	challenge.Attempts = challenge.MaxAttempts
	otps := &mockOtpRepository{
		latestPendingFn: func(context.Context, int64) (models.OtpChallenge, error) {
			return challenge, nil
		},
		markConsumedFn: func(context.Context, int64) error {
			t.Fatal("exhausted challenge must never be consumed")
			return nil
		},
	}
	svc := newTestOtpService(otps, &mockMailer{})

	result, err := svc.Redeem(context.Background(), 10, "123456")

	require.NoError(t, err)
	assert.Equal(t, models.RedeemExhausted, result.Outcome)
}

func TestRedeem_ExpiredChallengeIsMarked(t *testing.T) {
	challenge := pendingChallenge("123456")
	challenge.ExpiresAt = time.Now().Add(-time.Second)
	marked := false
	otps := &mockOtpRepository{
		latestPendingFn: func(context.Context, int64) (models.OtpChallenge, error) {
			return challenge, nil
		},
		markExpiredFn: func(_ context.Context, challengeID int64) error {
			assert.Equal(t, int64(30), challengeID)
			marked = true
			return nil
		},
	}
	svc := newTestOtpService(otps, &mockMailer{})

	result, err := svc.Redeem(context.Background(), 10, "123456")

	require.NoError(t, err)
	assert.Equal(t, models.RedeemExpired, result.Outcome)
	assert.True(t, marked)
}

func TestRedeem_ConsumeRaceLostReportsNoChallenge(t *testing.T) {
	otps := &mockOtpRepository{
		latestPendingFn: func(context.Context, int64) (models.OtpChallenge, error) {
			return pendingChallenge("123456"), nil
		},
		markConsumedFn: func(context.Context, int64) error {
			return store.ErrChallengeNotFound
		},
	}
	svc := newTestOtpService(otps, &mockMailer{})

	result, err := svc.Redeem(context.Background(), 10, "123456")

	require.NoError(t, err)
	assert.Equal(t, models.RedeemNoChallenge, result.Outcome)
}

func TestRedeem_InvalidInput(t *testing.T) {
	svc := newTestOtpService(&mockOtpRepository{}, &mockMailer{})

	_, err := svc.Redeem(context.Background(), 0, "123456")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.Redeem(context.Background(), 10, "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}
