// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"

	"github.com/panelportal/server/internal/store"
	"github.com/panelportal/server/models"
)

// Hand-rolled func-field mocks for every store interface the services
// consume. A nil func field means "succeed with the zero value".

var errStorage = errors.New("storage error")

// ─────────────────────────────────────────────
// Mock: store.PanelRepository
// ─────────────────────────────────────────────

type mockPanelRepository struct {
	listPanelsFn   func(ctx context.Context, includeDeleted bool) ([]models.Panel, error)
	getPanelByIDFn func(ctx context.Context, panelID int64) (models.Panel, error)
	listFilesFn    func(ctx context.Context, panelID int64, includeDeleted bool) ([]models.File, error)
	applyDiffFn    func(ctx context.Context, diff models.PanelDiff) error
}

func (m *mockPanelRepository) ListPanels(ctx context.Context, includeDeleted bool) ([]models.Panel, error) {
	if m.listPanelsFn != nil {
		return m.listPanelsFn(ctx, includeDeleted)
	}
	return nil, nil
}

func (m *mockPanelRepository) GetPanelByID(ctx context.Context, panelID int64) (models.Panel, error) {
	if m.getPanelByIDFn != nil {
		return m.getPanelByIDFn(ctx, panelID)
	}
	return models.Panel{}, nil
}

func (m *mockPanelRepository) ListFiles(ctx context.Context, panelID int64, includeDeleted bool) ([]models.File, error) {
	if m.listFilesFn != nil {
		return m.listFilesFn(ctx, panelID, includeDeleted)
	}
	return nil, nil
}

func (m *mockPanelRepository) ApplyDiff(ctx context.Context, diff models.PanelDiff) error {
	if m.applyDiffFn != nil {
		return m.applyDiffFn(ctx, diff)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	createUserFn  func(ctx context.Context, user models.User) (models.User, error)
	getUserByIDFn func(ctx context.Context, userID int64) (models.User, error)
	listUsersFn   func(ctx context.Context) ([]models.User, error)
	deleteUserFn  func(ctx context.Context, userID int64) error
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepository) GetUserByID(ctx context.Context, userID int64) (models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(ctx, userID)
	}
	return models.User{UserID: userID}, nil
}

func (m *mockUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepository) DeleteUser(ctx context.Context, userID int64) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(ctx, userID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.AssignmentRepository
// ─────────────────────────────────────────────

type mockAssignmentRepository struct {
	createAssignmentFn func(ctx context.Context, assignment models.UserAssignment) (models.UserAssignment, error)
	findBySecretCodeFn func(ctx context.Context, secretCode string) (models.UserAssignment, error)
	getByIDFn          func(ctx context.Context, assignmentID int64) (models.UserAssignment, error)
}

func (m *mockAssignmentRepository) CreateAssignment(ctx context.Context, assignment models.UserAssignment) (models.UserAssignment, error) {
	if m.createAssignmentFn != nil {
		return m.createAssignmentFn(ctx, assignment)
	}
	return assignment, nil
}

func (m *mockAssignmentRepository) FindBySecretCode(ctx context.Context, secretCode string) (models.UserAssignment, error) {
	if m.findBySecretCodeFn != nil {
		return m.findBySecretCodeFn(ctx, secretCode)
	}
	return models.UserAssignment{}, nil
}

func (m *mockAssignmentRepository) GetByID(ctx context.Context, assignmentID int64) (models.UserAssignment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, assignmentID)
	}
	return models.UserAssignment{AssignmentID: assignmentID}, nil
}

// ─────────────────────────────────────────────
// Mock: store.ScanLogRepository
// ─────────────────────────────────────────────

type mockScanLogRepository struct {
	appendFn           func(ctx context.Context, record models.UserScanLog) (models.UserScanLog, error)
	listByAssignmentFn func(ctx context.Context, assignmentID int64) ([]models.UserScanLog, error)
}

func (m *mockScanLogRepository) Append(ctx context.Context, record models.UserScanLog) (models.UserScanLog, error) {
	if m.appendFn != nil {
		return m.appendFn(ctx, record)
	}
	return record, nil
}

func (m *mockScanLogRepository) ListByAssignment(ctx context.Context, assignmentID int64) ([]models.UserScanLog, error) {
	if m.listByAssignmentFn != nil {
		return m.listByAssignmentFn(ctx, assignmentID)
	}
	return nil, nil
}

// ─────────────────────────────────────────────
// Mock: store.OtpRepository
// ─────────────────────────────────────────────

type mockOtpRepository struct {
	createChallengeFn   func(ctx context.Context, challenge models.OtpChallenge) (models.OtpChallenge, error)
	latestPendingFn     func(ctx context.Context, assignmentID int64) (models.OtpChallenge, error)
	incrementAttemptsFn func(ctx context.Context, challengeID int64) (int, error)
	markConsumedFn      func(ctx context.Context, challengeID int64) error
	markExpiredFn       func(ctx context.Context, challengeID int64) error
}

func (m *mockOtpRepository) CreateChallenge(ctx context.Context, challenge models.OtpChallenge) (models.OtpChallenge, error) {
	if m.createChallengeFn != nil {
		return m.createChallengeFn(ctx, challenge)
	}
	return challenge, nil
}

func (m *mockOtpRepository) LatestPending(ctx context.Context, assignmentID int64) (models.OtpChallenge, error) {
	if m.latestPendingFn != nil {
		return m.latestPendingFn(ctx, assignmentID)
	}
	return models.OtpChallenge{}, store.ErrChallengeNotFound
}

func (m *mockOtpRepository) IncrementAttempts(ctx context.Context, challengeID int64) (int, error) {
	if m.incrementAttemptsFn != nil {
		return m.incrementAttemptsFn(ctx, challengeID)
	}
	return 0, nil
}

func (m *mockOtpRepository) MarkConsumed(ctx context.Context, challengeID int64) error {
	if m.markConsumedFn != nil {
		return m.markConsumedFn(ctx, challengeID)
	}
	return nil
}

func (m *mockOtpRepository) MarkExpired(ctx context.Context, challengeID int64) error {
	if m.markExpiredFn != nil {
		return m.markExpiredFn(ctx, challengeID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: fstree.Reader
// ─────────────────────────────────────────────

type mockFsReader struct {
	listDirectoriesFn func() ([]string, error)
	listFilesFn       func(dir string) ([]string, error)
}

func (m *mockFsReader) ListDirectories() ([]string, error) {
	if m.listDirectoriesFn != nil {
		return m.listDirectoriesFn()
	}
	return nil, nil
}

func (m *mockFsReader) ListFiles(dir string) ([]string, error) {
	if m.listFilesFn != nil {
		return m.listFilesFn(dir)
	}
	return nil, nil
}

// ─────────────────────────────────────────────
// Mock: mailer.Mailer
// ─────────────────────────────────────────────

type mockMailer struct {
	sendFn func(to, subject, htmlBody, textBody string) error
}

func (m *mockMailer) Send(to, subject, htmlBody, textBody string) error {
	if m.sendFn != nil {
		return m.sendFn(to, subject, htmlBody, textBody)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.ErrorClassificator
// ─────────────────────────────────────────────

type mockClassifier struct {
	classifyFn func(err error) store.ErrorClassification
}

func (m *mockClassifier) Classify(err error) store.ErrorClassification {
	if m.classifyFn != nil {
		return m.classifyFn(err)
	}
	return store.NonRetryable
}
