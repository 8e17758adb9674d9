package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/internal/service"
	"github.com/panelportal/server/internal/utils"
	"github.com/panelportal/server/models"
)

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.verify").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token, err := h.services.AccessService.Verify(ctx, request.Code)
	if err != nil {
		if errors.Is(err, service.ErrOtpRequired) {
			log.Info().Str("func", "*Handler.verify").Msg("passcode escalation required")
			http.Error(w, "one-time passcode required", statusFromError(err))
			return
		}
		log.Err(err).Str("func", "*Handler.verify").Msg("verification failed")
		http.Error(w, "verification failed", statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.VerifyResponse{
		Token:     token.SignedString,
		ExpiresAt: tokenExpiry(token),
	}, http.StatusOK)
}

func (h *Handler) requestOtp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.ChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.requestOtp").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	assignment, err := h.services.AccessService.AssignmentByCode(ctx, request.Code)
	if err != nil {
		log.Err(err).Str("func", "*Handler.requestOtp").Msg("verification failed")
		http.Error(w, "verification failed", statusFromError(err))
		return
	}

	challenge, err := h.services.OtpService.IssueChallenge(ctx, assignment)
	if err != nil {
		log.Err(err).Str("func", "*Handler.requestOtp").Msg("error issuing passcode challenge")
		http.Error(w, "error issuing passcode challenge", statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.ChallengeResponse{
		AssignmentID: challenge.AssignmentID,
		ExpiresAt:    challenge.ExpiresAt,
	}, http.StatusOK)
}

func (h *Handler) redeemOtp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.redeemOtp").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	result, err := h.services.OtpService.Redeem(ctx, request.AssignmentID, request.Code)
	if err != nil {
		log.Err(err).Str("func", "*Handler.redeemOtp").Msg("error redeeming passcode")
		http.Error(w, "error redeeming passcode", statusFromError(err))
		return
	}

	response := models.RedeemResponse{
		Outcome:           result.Outcome,
		RemainingAttempts: result.RemainingAttempts,
	}

	if result.Outcome == models.RedeemConsumed {
		token, err := h.services.AccessService.TokenForAssignmentID(ctx, request.AssignmentID)
		if err != nil {
			log.Err(err).Str("func", "*Handler.redeemOtp").Msg("error issuing token after redemption")
			http.Error(w, "error issuing token after redemption", statusFromError(err))
			return
		}
		response.Token = token.SignedString
		response.ExpiresAt = tokenExpiry(token)
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) listScopedFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	assignmentID, found := utils.GetAssignmentIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.listScopedFiles").Msg("no assignment id in context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	listing, err := h.services.AccessService.ListScopedFiles(ctx, assignmentID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listScopedFiles").Msg("error listing files")
		http.Error(w, "error listing files", statusFromError(err))
		return
	}

	utils.WriteJSON(w, listing, http.StatusOK)
}

func (h *Handler) getScopedFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	assignmentID, found := utils.GetAssignmentIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.getScopedFile").Msg("no assignment id in context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	fileName := chi.URLParam(r, "name")

	content, err := h.services.AccessService.OpenScopedFile(ctx, assignmentID, fileName)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getScopedFile").Msg("error reading file")
		http.Error(w, "error reading file", statusFromError(err))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(content)
}

// tokenExpiry extracts the expiry claim of a minted token for inclusion in
// responses. A token without parseable claims reports a zero time.
func tokenExpiry(token models.Token) time.Time {
	if token.Token == nil {
		return time.Time{}
	}
	claims, ok := token.Token.Claims.(*models.AccessClaims)
	if !ok || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
