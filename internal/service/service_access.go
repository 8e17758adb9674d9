package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/panelportal/server/internal/config"
	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/internal/store"
	"github.com/panelportal/server/internal/utils"
	"github.com/panelportal/server/models"
)

// accessService is the concrete implementation of AccessService. It is the
// only component that exchanges secret codes for access tokens, and every
// exchange attempt leaves a scan log record.
//
// Secret codes and passcodes never appear in log output or error messages;
// all rejections collapse to ErrInvalidCredential so callers cannot probe
// which part of a credential was wrong.
type accessService struct {
	assignmentRepository store.AssignmentRepository
	panelRepository      store.PanelRepository
	scanLogRepository    store.ScanLogRepository

	// documentRoot is the directory file content is served from.
	documentRoot string

	// tokenSignKey is the HMAC secret used to sign and verify tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued token.
	tokenIssuer string

	// tokenDuration controls how long a newly issued token remains valid.
	tokenDuration time.Duration

	// otpRequired gates direct verification: when set, a secret code alone
	// is not enough and clients must complete the passcode flow.
	otpRequired bool

	logger *logger.Logger
}

// NewAccessService constructs an AccessService wired to the given
// repositories and populated with token parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAccessService(
	assignmentRepository store.AssignmentRepository,
	panelRepository store.PanelRepository,
	scanLogRepository store.ScanLogRepository,
	cfg config.App,
	documentRoot string,
	otpRequired bool,
	logger *logger.Logger,
) AccessService {
	return &accessService{
		assignmentRepository: assignmentRepository,
		panelRepository:      panelRepository,
		scanLogRepository:    scanLogRepository,
		documentRoot:         documentRoot,
		tokenSignKey:         cfg.TokenSignKey,
		tokenIssuer:          cfg.TokenIssuer,
		tokenDuration:        cfg.TokenDuration,
		otpRequired:          otpRequired,
		logger:               logger,
	}
}

// Verify exchanges a secret code for an access token.
//
// Every attempt is recorded: a failed lookup appends a failure record with
// no assignment reference, a successful mint appends a success record. When
// passcode escalation is enabled the lookup is logged as auxiliary and
// ErrOtpRequired is returned instead of a token.
func (a *accessService) Verify(ctx context.Context, secretCode string) (models.Token, error) {
	log := logger.FromContext(ctx)

	if secretCode == "" {
		return models.Token{}, ErrInvalidDataProvided
	}

	assignment, err := a.lookupByCode(ctx, secretCode)
	if err != nil {
		return models.Token{}, err
	}

	if a.otpRequired {
		a.appendScanLog(ctx, assignment.AssignmentID, models.ScanOther)
		log.Info().Str("func", "accessService.Verify").
			Int64("assignment_id", assignment.AssignmentID).
			Msg("direct verification declined, passcode required")
		return models.Token{}, ErrOtpRequired
	}

	return a.TokenForAssignment(ctx, assignment)
}

// AssignmentByCode resolves a secret code to its live assignment for the
// passcode escalation flow. The lookup is recorded as an auxiliary scan log
// event; a miss is recorded as a failure.
func (a *accessService) AssignmentByCode(ctx context.Context, secretCode string) (models.UserAssignment, error) {
	if secretCode == "" {
		return models.UserAssignment{}, ErrInvalidDataProvided
	}

	assignment, err := a.lookupByCode(ctx, secretCode)
	if err != nil {
		return models.UserAssignment{}, err
	}

	a.appendScanLog(ctx, assignment.AssignmentID, models.ScanOther)

	return assignment, nil
}

// TokenForAssignment mints an access token scoped to the assignment and
// appends the success record to the scan log.
func (a *accessService) TokenForAssignment(ctx context.Context, assignment models.UserAssignment) (models.Token, error) {
	log := logger.FromContext(ctx)

	token, err := utils.GenerateAccessToken(a.tokenIssuer, assignment, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Str("func", "accessService.TokenForAssignment").
			Int64("assignment_id", assignment.AssignmentID).
			Msg("token creation failed")
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	a.appendScanLog(ctx, assignment.AssignmentID, models.ScanSuccess)

	log.Info().Str("func", "accessService.TokenForAssignment").
		Int64("assignment_id", assignment.AssignmentID).
		Msg("access token issued")

	return token, nil
}

// TokenForAssignmentID loads the assignment by id and mints a token for it.
// A revoked assignment is rejected with ErrInvalidCredential: a pending
// passcode challenge must not outlive the credential it escalates.
func (a *accessService) TokenForAssignmentID(ctx context.Context, assignmentID int64) (models.Token, error) {
	log := logger.FromContext(ctx)

	if assignmentID <= 0 {
		return models.Token{}, ErrInvalidDataProvided
	}

	assignment, err := a.assignmentRepository.GetByID(ctx, assignmentID)
	if err != nil {
		log.Err(err).Str("func", "accessService.TokenForAssignmentID").Int64("assignment_id", assignmentID).Msg("assignment lookup failed")
		return models.Token{}, fmt.Errorf("assignment lookup failed: %w", err)
	}
	if assignment.Revoked {
		log.Warn().Str("func", "accessService.TokenForAssignmentID").Int64("assignment_id", assignmentID).Msg("assignment revoked, refusing to mint token")
		return models.Token{}, ErrInvalidCredential
	}

	return a.TokenForAssignment(ctx, assignment)
}

// ParseToken validates a raw token string and extracts its assignment
// scope. Expired tokens are distinguishable from tampered ones:
// ErrTokenIsExpired for the former, ErrTokenIsExpiredOrInvalid for every
// other validation failure.
func (a *accessService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseAccessToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Token{}, ErrTokenIsExpired
		}
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// ListScopedFiles returns the live files of the panel the assignment is
// scoped to.
//
// Returns ErrInvalidCredential when the assignment was revoked after the
// token was minted, and a wrapped store.ErrPanelNotFound when the panel was
// soft-deleted in the meantime.
func (a *accessService) ListScopedFiles(ctx context.Context, assignmentID int64) (models.FileListResponse, error) {
	panel, err := a.scopedPanel(ctx, assignmentID)
	if err != nil {
		return models.FileListResponse{}, err
	}

	files, err := a.panelRepository.ListFiles(ctx, panel.PanelID, false)
	if err != nil {
		return models.FileListResponse{}, fmt.Errorf("listing panel files failed: %w", err)
	}

	return models.FileListResponse{Panel: panel.Name, Files: files}, nil
}

// OpenScopedFile reads one file's content lazily from the document root.
// The catalog is the authority on what exists: names not listed as live in
// the assignment's panel are rejected before any disk access, which also
// keeps path traversal out.
func (a *accessService) OpenScopedFile(ctx context.Context, assignmentID int64, fileName string) ([]byte, error) {
	log := logger.FromContext(ctx)

	if fileName == "" {
		return nil, ErrInvalidDataProvided
	}

	panel, err := a.scopedPanel(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	files, err := a.panelRepository.ListFiles(ctx, panel.PanelID, false)
	if err != nil {
		return nil, fmt.Errorf("listing panel files failed: %w", err)
	}

	listed := false
	for _, file := range files {
		if file.Name == fileName {
			listed = true
			break
		}
	}
	if !listed {
		return nil, fmt.Errorf("file lookup failed: %w", store.ErrFileNotFound)
	}

	content, err := os.ReadFile(filepath.Join(a.documentRoot, panel.Name, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			// Catalogued but already gone from disk; the next
			// reconciliation pass will soft-delete the entry.
			return nil, fmt.Errorf("file lookup failed: %w", store.ErrFileNotFound)
		}
		log.Err(err).Str("func", "accessService.OpenScopedFile").
			Str("panel", panel.Name).
			Str("file", fileName).
			Msg("failed to read file content")
		return nil, fmt.Errorf("reading file content failed: %w", err)
	}

	return content, nil
}

// ScanHistory returns the assignment's audit trail, newest first. The
// assignment itself must exist; revoked assignments keep their history
// readable.
func (a *accessService) ScanHistory(ctx context.Context, assignmentID int64) ([]models.UserScanLog, error) {
	if assignmentID <= 0 {
		return nil, ErrInvalidDataProvided
	}

	if _, err := a.assignmentRepository.GetByID(ctx, assignmentID); err != nil {
		return nil, fmt.Errorf("assignment lookup failed: %w", err)
	}

	records, err := a.scanLogRepository.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("listing scan log records failed: %w", err)
	}

	return records, nil
}

// lookupByCode finds the live assignment carrying the code and normalises
// a miss to ErrInvalidCredential after appending a failure record.
func (a *accessService) lookupByCode(ctx context.Context, secretCode string) (models.UserAssignment, error) {
	log := logger.FromContext(ctx)

	assignment, err := a.assignmentRepository.FindBySecretCode(ctx, secretCode)
	if err != nil {
		if errors.Is(err, store.ErrAssignmentNotFound) {
			a.appendScanLog(ctx, 0, models.ScanFailure)
			log.Warn().Str("func", "accessService.lookupByCode").Msg("presented code matched no live assignment")
			return models.UserAssignment{}, ErrInvalidCredential
		}
		log.Err(err).Str("func", "accessService.lookupByCode").Msg("assignment lookup failed")
		return models.UserAssignment{}, fmt.Errorf("assignment lookup failed: %w", err)
	}

	return assignment, nil
}

// scopedPanel loads the panel an assignment is scoped to, rejecting
// revoked assignments and soft-deleted panels.
func (a *accessService) scopedPanel(ctx context.Context, assignmentID int64) (models.Panel, error) {
	log := logger.FromContext(ctx)

	assignment, err := a.assignmentRepository.GetByID(ctx, assignmentID)
	if err != nil {
		log.Err(err).Str("func", "accessService.scopedPanel").Int64("assignment_id", assignmentID).Msg("assignment lookup failed")
		return models.Panel{}, fmt.Errorf("assignment lookup failed: %w", err)
	}
	if assignment.Revoked {
		log.Warn().Str("func", "accessService.scopedPanel").Int64("assignment_id", assignmentID).Msg("assignment revoked after token issuance")
		return models.Panel{}, ErrInvalidCredential
	}

	panel, err := a.panelRepository.GetPanelByID(ctx, assignment.PanelID)
	if err != nil {
		return models.Panel{}, fmt.Errorf("panel lookup failed: %w", err)
	}
	if panel.IsDeleted {
		return models.Panel{}, fmt.Errorf("panel lookup failed: %w", store.ErrPanelNotFound)
	}

	return panel, nil
}

// appendScanLog records one audit event. The scan log is best-effort from
// the caller's perspective only in the sense that its own failure is
// logged, never silently ignored, and never masks the primary outcome.
func (a *accessService) appendScanLog(ctx context.Context, assignmentID int64, status models.ScanStatus) {
	if _, err := a.scanLogRepository.Append(ctx, models.UserScanLog{
		AssignmentID: assignmentID,
		Status:       status,
	}); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "accessService.appendScanLog").
			Int64("assignment_id", assignmentID).
			Str("status", string(status)).
			Msg("failed to append scan log record")
	}
}
