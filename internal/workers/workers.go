package workers

import (
	"github.com/panelportal/server/internal/config"
	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles every background worker the configuration enables.
// A zero sync interval disables the reconciliation worker; reconciliation
// can still be triggered over HTTP.
func NewWorkers(services *service.Services, cfg config.Workers, logger *logger.Logger) *Workers {
	w := new(Workers)

	if cfg.SyncInterval > 0 {
		w.workers = append(w.workers, NewSyncWorker(services.SyncService, cfg.SyncInterval, logger))
	}

	return w
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

func (w *Workers) Stop() {
	for _, worker := range w.workers {
		worker.Stop()
	}
}
