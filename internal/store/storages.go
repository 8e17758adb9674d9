package store

import "github.com/panelportal/server/internal/logger"

// Storages aggregates every repository backed by the shared database
// connection.
type Storages struct {
	PanelRepository      PanelRepository
	UserRepository       UserRepository
	AssignmentRepository AssignmentRepository
	ScanLogRepository    ScanLogRepository
	OtpRepository        OtpRepository
}

// NewStorages wires all repositories to the given database connection.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		PanelRepository:      NewPanelRepository(db, log),
		UserRepository:       NewUserRepository(db, log),
		AssignmentRepository: NewAssignmentRepository(db, log),
		ScanLogRepository:    NewScanLogRepository(db, log),
		OtpRepository:        NewOtpRepository(db, log),
	}
}
