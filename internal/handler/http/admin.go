package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/internal/utils"
	"github.com/panelportal/server/models"
)

func (h *Handler) runSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	report, err := h.services.SyncService.Sync(ctx)
	if err != nil {
		log.Err(err).Str("func", "*Handler.runSync").Msg("reconciliation pass failed")
		http.Error(w, "reconciliation pass failed", statusFromError(err))
		return
	}

	utils.WriteJSON(w, report, http.StatusOK)
}

func (h *Handler) listPanels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	includeDeleted := r.URL.Query().Get("include_deleted") == "true"

	panels, err := h.services.SyncService.ListPanels(ctx, includeDeleted)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listPanels").Msg("error listing panels")
		http.Error(w, "error listing panels", statusFromError(err))
		return
	}

	utils.WriteJSON(w, panels, http.StatusOK)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.createUser").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, err := h.services.UserService.CreateUser(ctx, models.User{Name: request.Name, Email: request.Email})
	if err != nil {
		log.Err(err).Str("func", "*Handler.createUser").Msg("error creating user")
		http.Error(w, "error creating user", statusFromError(err))
		return
	}

	utils.WriteJSON(w, user, http.StatusCreated)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	users, err := h.services.UserService.ListUsers(ctx)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listUsers").Msg("error listing users")
		http.Error(w, "error listing users", statusFromError(err))
		return
	}

	utils.WriteJSON(w, users, http.StatusOK)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Err(err).Str("func", "*Handler.deleteUser").Msg("invalid user id")
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.services.UserService.DeleteUser(ctx, userID); err != nil {
		log.Err(err).Str("func", "*Handler.deleteUser").Msg("error deleting user")
		http.Error(w, "error deleting user", statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) issueAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.IssueAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.issueAssignment").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	assignment, err := h.services.AssignmentService.IssueAssignment(ctx, request.UserID, request.PanelID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.issueAssignment").Msg("error issuing assignment")
		http.Error(w, "error issuing assignment", statusFromError(err))
		return
	}

	utils.WriteJSON(w, assignment, http.StatusCreated)
}

func (h *Handler) assignmentQR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	assignmentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Err(err).Str("func", "*Handler.assignmentQR").Msg("invalid assignment id")
		http.Error(w, "invalid assignment id", http.StatusBadRequest)
		return
	}

	image, err := h.services.AssignmentService.QRImage(ctx, assignmentID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.assignmentQR").Msg("error rendering qr image")
		http.Error(w, "error rendering qr image", statusFromError(err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(image)
}

func (h *Handler) assignmentScans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	assignmentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Err(err).Str("func", "*Handler.assignmentScans").Msg("invalid assignment id")
		http.Error(w, "invalid assignment id", http.StatusBadRequest)
		return
	}

	records, err := h.services.AccessService.ScanHistory(ctx, assignmentID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.assignmentScans").Msg("error listing scan history")
		http.Error(w, "error listing scan history", statusFromError(err))
		return
	}

	utils.WriteJSON(w, records, http.StatusOK)
}
