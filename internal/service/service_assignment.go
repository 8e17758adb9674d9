package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/panelportal/server/internal/config"
	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/internal/qr"
	"github.com/panelportal/server/internal/store"
	"github.com/panelportal/server/internal/utils"
	"github.com/panelportal/server/models"
)

// maxCodeAttempts bounds how often issuing regenerates the secret code
// after a collision before giving up. Collisions are vanishingly rare at
// the configured code lengths; the bound exists so a broken random source
// cannot loop forever.
const maxCodeAttempts = 5

// assignmentService is the concrete implementation of AssignmentService.
// It issues user-panel assignments with cryptographically random secret
// codes and renders them as QR verification credentials.
type assignmentService struct {
	assignmentRepository store.AssignmentRepository
	userRepository       store.UserRepository
	panelRepository      store.PanelRepository

	// baseURL is the public prefix of every QR verification URL.
	baseURL string

	// codeLength is the length of generated secret codes.
	codeLength int

	logger *logger.Logger
}

// NewAssignmentService constructs an AssignmentService wired to the given
// repositories and populated with credential parameters from cfg.
func NewAssignmentService(
	assignmentRepository store.AssignmentRepository,
	userRepository store.UserRepository,
	panelRepository store.PanelRepository,
	cfg config.App,
	logger *logger.Logger,
) AssignmentService {
	return &assignmentService{
		assignmentRepository: assignmentRepository,
		userRepository:       userRepository,
		panelRepository:      panelRepository,
		baseURL:              strings.TrimRight(cfg.BaseURL, "/"),
		codeLength:           cfg.SecretCodeLength,
		logger:               logger,
	}
}

// IssueAssignment creates a new assignment binding the user to the panel.
//
// The secret code is drawn from the system's secure random source and is
// retried on the rare database-level collision. Any live assignment for the
// same (user, panel) pair is revoked in the same transaction, so reissuing
// supersedes the old QR credential.
//
// Returns the persisted assignment or:
//   - ErrInvalidDataProvided on non-positive ids.
//   - A wrapped store.ErrUserNotFound / store.ErrPanelNotFound when either
//     side of the binding does not exist (a soft-deleted panel counts as
//     absent).
//   - ErrCodeGenerationExhausted if collisions persist across retries.
func (a *assignmentService) IssueAssignment(ctx context.Context, userID, panelID int64) (models.UserAssignment, error) {
	log := logger.FromContext(ctx)

	if userID <= 0 || panelID <= 0 {
		return models.UserAssignment{}, ErrInvalidDataProvided
	}

	user, err := a.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "assignmentService.IssueAssignment").Int64("user_id", userID).Msg("user lookup failed")
		return models.UserAssignment{}, fmt.Errorf("user lookup failed: %w", err)
	}

	panel, err := a.panelRepository.GetPanelByID(ctx, panelID)
	if err != nil {
		log.Err(err).Str("func", "assignmentService.IssueAssignment").Int64("panel_id", panelID).Msg("panel lookup failed")
		return models.UserAssignment{}, fmt.Errorf("panel lookup failed: %w", err)
	}
	if panel.IsDeleted {
		log.Warn().Str("func", "assignmentService.IssueAssignment").Int64("panel_id", panelID).Msg("refusing to assign soft-deleted panel")
		return models.UserAssignment{}, fmt.Errorf("panel lookup failed: %w", store.ErrPanelNotFound)
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := utils.GenerateCode(a.codeLength)
		if err != nil {
			return models.UserAssignment{}, fmt.Errorf("secret code generation failed: %w", err)
		}

		created, err := a.assignmentRepository.CreateAssignment(ctx, models.UserAssignment{
			UserID:     userID,
			PanelID:    panelID,
			SecretCode: code,
			QRPayload:  a.verificationURL(code),
			UserName:   user.Name,
			UserEmail:  user.Email,
		})
		if err != nil {
			if errors.Is(err, store.ErrSecretCodeCollision) {
				log.Warn().Str("func", "assignmentService.IssueAssignment").Int("attempt", attempt+1).Msg("secret code collision, regenerating")
				continue
			}
			log.Err(err).Str("func", "assignmentService.IssueAssignment").
				Int64("user_id", userID).
				Int64("panel_id", panelID).
				Msg("assignment creation ended with error")
			return models.UserAssignment{}, fmt.Errorf("assignment creation ended with error: %w", err)
		}

		log.Info().Str("func", "assignmentService.IssueAssignment").
			Int64("assignment_id", created.AssignmentID).
			Int64("user_id", userID).
			Int64("panel_id", panelID).
			Msg("assignment issued")

		return created, nil
	}

	return models.UserAssignment{}, ErrCodeGenerationExhausted
}

// QRImage renders the verification URL of a live assignment as a PNG QR
// code. Revoked assignments no longer have a usable credential and are
// reported as absent.
func (a *assignmentService) QRImage(ctx context.Context, assignmentID int64) ([]byte, error) {
	log := logger.FromContext(ctx)

	assignment, err := a.assignmentRepository.GetByID(ctx, assignmentID)
	if err != nil {
		log.Err(err).Str("func", "assignmentService.QRImage").Int64("assignment_id", assignmentID).Msg("assignment lookup failed")
		return nil, fmt.Errorf("assignment lookup failed: %w", err)
	}
	if assignment.Revoked {
		return nil, fmt.Errorf("assignment lookup failed: %w", store.ErrAssignmentNotFound)
	}

	image, err := qr.Render(assignment.QRPayload)
	if err != nil {
		log.Err(err).Str("func", "assignmentService.QRImage").Int64("assignment_id", assignmentID).Msg("qr rendering failed")
		return nil, fmt.Errorf("qr rendering failed: %w", err)
	}

	return image, nil
}

// verificationURL derives the QR payload from a secret code. The payload
// is regenerable at any time and never mutated independently of the code.
func (a *assignmentService) verificationURL(code string) string {
	return a.baseURL + "/api/access/verify?code=" + url.QueryEscape(code)
}
