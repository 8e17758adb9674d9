package workers

import (
	"context"
	"sync"
	"time"

	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/internal/service"
)

type syncWorker struct {
	syncService service.SyncService
	interval    time.Duration
	logger      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncWorker creates a worker that runs one reconciliation pass
// immediately on Run and another every interval until Stop is called.
func NewSyncWorker(syncService service.SyncService, interval time.Duration, logger *logger.Logger) Worker {
	return &syncWorker{
		syncService: syncService,
		interval:    interval,
		logger:      logger,
	}
}

// Run implements Worker. It stops any previously running pass loop, then
// launches a background goroutine driving the reconciler. Pass failures are
// logged and never stop the loop; the next tick tries again.
func (w *syncWorker) Run() {
	w.Stop()

	w.mu.Lock()
	ctx, cancel := context.WithCancel(w.logger.WithContext(context.Background()))
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()

		w.pass(ctx)

		t := time.NewTicker(w.interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				w.pass(ctx)
			}
		}
	}()
}

// Stop implements Worker. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the worker
// is not running.
func (w *syncWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

func (w *syncWorker) pass(ctx context.Context) {
	report, err := w.syncService.Sync(ctx)
	if err != nil {
		w.logger.Err(err).Str("func", "syncWorker.pass").Msg("scheduled reconciliation pass failed")
		return
	}

	w.logger.Info().
		Str("func", "syncWorker.pass").
		Int("mutations", report.Mutations()).
		Int("failures", len(report.Failures)).
		Msg("scheduled reconciliation pass finished")
}
