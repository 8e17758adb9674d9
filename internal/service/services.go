package service

import (
	"github.com/panelportal/server/internal/config"
	"github.com/panelportal/server/internal/fstree"
	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/internal/mailer"
	"github.com/panelportal/server/internal/store"
)

type Services struct {
	SyncService       SyncService
	UserService       UserService
	AssignmentService AssignmentService
	AccessService     AccessService
	OtpService        OtpService
}

func NewServices(
	storages *store.Storages,
	fsReader fstree.Reader,
	mail mailer.Mailer,
	classifier store.ErrorClassificator,
	cfg *config.StructuredConfig,
	logger *logger.Logger,
) *Services {
	return &Services{
		SyncService: NewSyncService(storages.PanelRepository, fsReader, classifier, logger),
		UserService: NewUserService(storages.UserRepository, logger),
		AssignmentService: NewAssignmentService(
			storages.AssignmentRepository,
			storages.UserRepository,
			storages.PanelRepository,
			cfg.App,
			logger,
		),
		AccessService: NewAccessService(
			storages.AssignmentRepository,
			storages.PanelRepository,
			storages.ScanLogRepository,
			cfg.App,
			cfg.Storage.Files.DocumentRoot,
			cfg.OTP.Required,
			logger,
		),
		OtpService: NewOtpService(storages.OtpRepository, mail, cfg.OTP, logger),
	}
}
