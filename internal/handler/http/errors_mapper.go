package http

import (
	"errors"
	"net/http"

	"github.com/panelportal/server/internal/service"
	"github.com/panelportal/server/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrInvalidCredential:       http.StatusUnauthorized,
	service.ErrTokenIsExpired:          http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrOtpRequired:             http.StatusForbidden,
	service.ErrOtpDeliveryFailed:       http.StatusBadGateway,
	service.ErrTokenCreationFailed:     http.StatusInternalServerError,
	service.ErrCodeGenerationExhausted: http.StatusInternalServerError,

	store.ErrPanelNotFound:       http.StatusNotFound,
	store.ErrFileNotFound:        http.StatusNotFound,
	store.ErrUserNotFound:        http.StatusNotFound,
	store.ErrAssignmentNotFound:  http.StatusNotFound,
	store.ErrChallengeNotFound:   http.StatusNotFound,
	store.ErrAssignmentConflict:  http.StatusConflict,
	store.ErrSecretCodeCollision: http.StatusConflict,
	store.ErrPanelAlreadyExists:  http.StatusConflict,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
