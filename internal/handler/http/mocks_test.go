// SPDX-License-Identifier: Apache-2.0

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/internal/service"
	"github.com/panelportal/server/models"
	"github.com/stretchr/testify/require"
)

// Hand-rolled func-field mocks for every service interface the handlers
// consume. A nil func field means "succeed with the zero value".

var errService = errors.New("service error")

// ─────────────────────────────────────────────
// Mock: service.SyncService
// ─────────────────────────────────────────────

type mockSyncSvc struct {
	syncFn       func(ctx context.Context) (models.SyncReport, error)
	listPanelsFn func(ctx context.Context, includeDeleted bool) ([]models.Panel, error)
}

func (m *mockSyncSvc) Sync(ctx context.Context) (models.SyncReport, error) {
	if m.syncFn != nil {
		return m.syncFn(ctx)
	}
	return models.SyncReport{}, nil
}

func (m *mockSyncSvc) ListPanels(ctx context.Context, includeDeleted bool) ([]models.Panel, error) {
	if m.listPanelsFn != nil {
		return m.listPanelsFn(ctx, includeDeleted)
	}
	return nil, nil
}

// ─────────────────────────────────────────────
// Mock: service.UserService
// ─────────────────────────────────────────────

type mockUserSvc struct {
	createUserFn func(ctx context.Context, user models.User) (models.User, error)
	listUsersFn  func(ctx context.Context) ([]models.User, error)
	deleteUserFn func(ctx context.Context, userID int64) error
}

func (m *mockUserSvc) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserSvc) ListUsers(ctx context.Context) ([]models.User, error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(ctx)
	}
	return nil, nil
}

func (m *mockUserSvc) DeleteUser(ctx context.Context, userID int64) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(ctx, userID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: service.AssignmentService
// ─────────────────────────────────────────────

type mockAssignmentSvc struct {
	issueAssignmentFn func(ctx context.Context, userID, panelID int64) (models.UserAssignment, error)
	qrImageFn         func(ctx context.Context, assignmentID int64) ([]byte, error)
}

func (m *mockAssignmentSvc) IssueAssignment(ctx context.Context, userID, panelID int64) (models.UserAssignment, error) {
	if m.issueAssignmentFn != nil {
		return m.issueAssignmentFn(ctx, userID, panelID)
	}
	return models.UserAssignment{}, nil
}

func (m *mockAssignmentSvc) QRImage(ctx context.Context, assignmentID int64) ([]byte, error) {
	if m.qrImageFn != nil {
		return m.qrImageFn(ctx, assignmentID)
	}
	return nil, nil
}

// ─────────────────────────────────────────────
// Mock: service.AccessService
// ─────────────────────────────────────────────

type mockAccessSvc struct {
	verifyFn               func(ctx context.Context, secretCode string) (models.Token, error)
	assignmentByCodeFn     func(ctx context.Context, secretCode string) (models.UserAssignment, error)
	tokenForAssignmentFn   func(ctx context.Context, assignment models.UserAssignment) (models.Token, error)
	tokenForAssignmentIDFn func(ctx context.Context, assignmentID int64) (models.Token, error)
	parseTokenFn           func(ctx context.Context, tokenString string) (models.Token, error)
	listScopedFilesFn      func(ctx context.Context, assignmentID int64) (models.FileListResponse, error)
	openScopedFileFn       func(ctx context.Context, assignmentID int64, fileName string) ([]byte, error)
	scanHistoryFn          func(ctx context.Context, assignmentID int64) ([]models.UserScanLog, error)
}

func (m *mockAccessSvc) Verify(ctx context.Context, secretCode string) (models.Token, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, secretCode)
	}
	return models.Token{}, nil
}

func (m *mockAccessSvc) AssignmentByCode(ctx context.Context, secretCode string) (models.UserAssignment, error) {
	if m.assignmentByCodeFn != nil {
		return m.assignmentByCodeFn(ctx, secretCode)
	}
	return models.UserAssignment{}, nil
}

func (m *mockAccessSvc) TokenForAssignment(ctx context.Context, assignment models.UserAssignment) (models.Token, error) {
	if m.tokenForAssignmentFn != nil {
		return m.tokenForAssignmentFn(ctx, assignment)
	}
	return models.Token{}, nil
}

func (m *mockAccessSvc) TokenForAssignmentID(ctx context.Context, assignmentID int64) (models.Token, error) {
	if m.tokenForAssignmentIDFn != nil {
		return m.tokenForAssignmentIDFn(ctx, assignmentID)
	}
	return models.Token{}, nil
}

func (m *mockAccessSvc) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	if m.parseTokenFn != nil {
		return m.parseTokenFn(ctx, tokenString)
	}
	return models.Token{}, nil
}

func (m *mockAccessSvc) ListScopedFiles(ctx context.Context, assignmentID int64) (models.FileListResponse, error) {
	if m.listScopedFilesFn != nil {
		return m.listScopedFilesFn(ctx, assignmentID)
	}
	return models.FileListResponse{}, nil
}

func (m *mockAccessSvc) OpenScopedFile(ctx context.Context, assignmentID int64, fileName string) ([]byte, error) {
	if m.openScopedFileFn != nil {
		return m.openScopedFileFn(ctx, assignmentID, fileName)
	}
	return nil, nil
}

func (m *mockAccessSvc) ScanHistory(ctx context.Context, assignmentID int64) ([]models.UserScanLog, error) {
	if m.scanHistoryFn != nil {
		return m.scanHistoryFn(ctx, assignmentID)
	}
	return nil, nil
}

// ─────────────────────────────────────────────
// Mock: service.OtpService
// ─────────────────────────────────────────────

type mockOtpSvc struct {
	issueChallengeFn func(ctx context.Context, assignment models.UserAssignment) (models.OtpChallenge, error)
	redeemFn         func(ctx context.Context, assignmentID int64, code string) (models.RedeemResult, error)
}

func (m *mockOtpSvc) IssueChallenge(ctx context.Context, assignment models.UserAssignment) (models.OtpChallenge, error) {
	if m.issueChallengeFn != nil {
		return m.issueChallengeFn(ctx, assignment)
	}
	return models.OtpChallenge{}, nil
}

func (m *mockOtpSvc) Redeem(ctx context.Context, assignmentID int64, code string) (models.RedeemResult, error) {
	if m.redeemFn != nil {
		return m.redeemFn(ctx, assignmentID, code)
	}
	return models.RedeemResult{}, nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// newTestHandler builds a Handler over the given mocks; nil mocks are
// replaced with zero-value ones.
func newTestHandler(sync *mockSyncSvc, users *mockUserSvc, assignments *mockAssignmentSvc, access *mockAccessSvc, otps *mockOtpSvc) *Handler {
	if sync == nil {
		sync = &mockSyncSvc{}
	}
	if users == nil {
		users = &mockUserSvc{}
	}
	if assignments == nil {
		assignments = &mockAssignmentSvc{}
	}
	if access == nil {
		access = &mockAccessSvc{}
	}
	if otps == nil {
		otps = &mockOtpSvc{}
	}
	return &Handler{
		logger: logger.Nop(),
		services: &service.Services{
			SyncService:       sync,
			UserService:       users,
			AssignmentService: assignments,
			AccessService:     access,
			OtpService:        otps,
		},
	}
}

// encodeBody serialises v to JSON and returns it as an io.Reader.
func encodeBody(t *testing.T, v any) io.Reader {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buf).Encode(v))
	return buf
}
