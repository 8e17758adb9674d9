package service

import (
	"context"
	"fmt"

	"github.com/panelportal/server/internal/fstree"
	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/internal/store"
	"github.com/panelportal/server/models"
)

// syncService is the concrete implementation of SyncService. It compares
// the document root directory tree against the panel catalog and applies
// the difference per panel, one transaction each.
//
// Diff computation is a pure in-memory operation ([buildPanelDiff]); all
// side effects go through the panel repository. A diff whose application
// fails with a retryable database error is retried once.
type syncService struct {
	panelRepository store.PanelRepository
	fsReader        fstree.Reader
	classifier      store.ErrorClassificator
	logger          *logger.Logger
}

// NewSyncService constructs a SyncService over the given catalog
// repository and document root reader.
func NewSyncService(panelRepository store.PanelRepository, fsReader fstree.Reader, classifier store.ErrorClassificator, logger *logger.Logger) SyncService {
	return &syncService{
		panelRepository: panelRepository,
		fsReader:        fsReader,
		classifier:      classifier,
		logger:          logger,
	}
}

// ListPanels implements SyncService.
func (s *syncService) ListPanels(ctx context.Context, includeDeleted bool) ([]models.Panel, error) {
	panels, err := s.panelRepository.ListPanels(ctx, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("listing panels failed: %w", err)
	}

	return panels, nil
}

// Sync implements SyncService. One pass walks every directory under the
// document root and every panel on record:
//
//   - Directory without a panel → create the panel with all its files.
//   - Directory whose panel is soft-deleted → reactivate under the same id.
//   - Files are created, reactivated, or soft-deleted by name within each
//     panel the same way.
//   - Panel without a directory → soft-delete it along with its live files.
//
// A second pass over an unchanged tree produces only empty diffs, which are
// skipped; the report's mutation count is then zero. Per-panel failures
// (unreadable directory, failed transaction) are recorded in the report and
// do not abort the remaining panels. Only a failure to enumerate the root
// or to load the catalog aborts the pass entirely.
func (s *syncService) Sync(ctx context.Context) (models.SyncReport, error) {
	log := logger.FromContext(ctx)

	var report models.SyncReport

	dirs, err := s.fsReader.ListDirectories()
	if err != nil {
		log.Err(err).Str("func", "syncService.Sync").Msg("failed to enumerate document root")
		return models.SyncReport{}, fmt.Errorf("enumerating document root failed: %w", err)
	}

	panels, err := s.panelRepository.ListPanels(ctx, true)
	if err != nil {
		log.Err(err).Str("func", "syncService.Sync").Msg("failed to load panel catalog")
		return models.SyncReport{}, fmt.Errorf("loading panel catalog failed: %w", err)
	}

	panelsByName := make(map[string]models.Panel, len(panels))
	for _, panel := range panels {
		panelsByName[panel.Name] = panel
	}

	onDisk := make(map[string]bool, len(dirs))

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return models.SyncReport{}, err
		}

		onDisk[dir] = true

		diskFiles, err := s.fsReader.ListFiles(dir)
		if err != nil {
			log.Err(err).Str("func", "syncService.Sync").Str("panel", dir).Msg("failed to read panel directory")
			report.Failures = append(report.Failures, models.SyncFailure{Panel: dir, Reason: err.Error()})
			continue
		}

		var panel *models.Panel
		var catalogFiles []models.File
		if existing, ok := panelsByName[dir]; ok {
			panel = &existing

			catalogFiles, err = s.panelRepository.ListFiles(ctx, existing.PanelID, true)
			if err != nil {
				log.Err(err).Str("func", "syncService.Sync").Str("panel", dir).Msg("failed to load panel file catalog")
				report.Failures = append(report.Failures, models.SyncFailure{Panel: dir, Reason: err.Error()})
				continue
			}
		}

		diff := buildPanelDiff(dir, panel, catalogFiles, diskFiles)
		if diff.Empty() {
			continue
		}

		if err := s.applyWithRetry(ctx, diff); err != nil {
			log.Err(err).Str("func", "syncService.Sync").Str("panel", dir).Msg("failed to apply panel diff")
			report.Failures = append(report.Failures, models.SyncFailure{Panel: dir, Reason: err.Error()})
			continue
		}

		report.Apply(diff)
	}

	// Soft-delete live panels whose directory is gone.
	for _, panel := range panels {
		if panel.IsDeleted || onDisk[panel.Name] {
			continue
		}

		liveFiles, err := s.panelRepository.ListFiles(ctx, panel.PanelID, false)
		if err != nil {
			log.Err(err).Str("func", "syncService.Sync").Str("panel", panel.Name).Msg("failed to load panel file catalog")
			report.Failures = append(report.Failures, models.SyncFailure{Panel: panel.Name, Reason: err.Error()})
			continue
		}

		diff := models.PanelDiff{
			PanelID:         panel.PanelID,
			PanelName:       panel.Name,
			SoftDeletePanel: true,
		}
		for _, file := range liveFiles {
			diff.SoftDeleteFiles = append(diff.SoftDeleteFiles, file.FileID)
		}

		if err := s.applyWithRetry(ctx, diff); err != nil {
			log.Err(err).Str("func", "syncService.Sync").Str("panel", panel.Name).Msg("failed to apply panel diff")
			report.Failures = append(report.Failures, models.SyncFailure{Panel: panel.Name, Reason: err.Error()})
			continue
		}

		report.Apply(diff)
	}

	log.Info().
		Str("func", "syncService.Sync").
		Int("mutations", report.Mutations()).
		Int("failures", len(report.Failures)).
		Msg("reconciliation pass finished")

	return report, nil
}

// applyWithRetry applies one diff, retrying once when the failure is
// classified as retryable (transient connection loss, deadlock rollback).
func (s *syncService) applyWithRetry(ctx context.Context, diff models.PanelDiff) error {
	err := s.panelRepository.ApplyDiff(ctx, diff)
	if err == nil {
		return nil
	}

	if s.classifier != nil && s.classifier.Classify(err) == store.Retryable {
		logger.FromContext(ctx).Warn().
			Str("func", "syncService.applyWithRetry").
			Str("panel", diff.PanelName).
			Msg("retrying panel diff after retryable error")
		return s.panelRepository.ApplyDiff(ctx, diff)
	}

	return err
}

// buildPanelDiff computes every mutation needed to bring one panel's
// catalog state in line with its directory on disk. It is a pure function:
// panel is nil when the directory has no catalog row yet, catalogFiles
// includes soft-deleted entries, diskFiles are the file names found on
// disk.
//
// File identity is the name: a name that reappears reactivates the old
// catalog entry instead of creating a new one, so the file id is stable
// across disappearances.
func buildPanelDiff(name string, panel *models.Panel, catalogFiles []models.File, diskFiles []string) models.PanelDiff {
	diff := models.PanelDiff{PanelName: name}

	if panel == nil {
		diff.CreatePanel = true
		diff.CreateFiles = append(diff.CreateFiles, diskFiles...)
		return diff
	}

	diff.PanelID = panel.PanelID
	if panel.IsDeleted {
		diff.ReactivatePanel = true
	}

	catalogByName := make(map[string]models.File, len(catalogFiles))
	for _, file := range catalogFiles {
		catalogByName[file.Name] = file
	}

	onDisk := make(map[string]bool, len(diskFiles))

	for _, fileName := range diskFiles {
		onDisk[fileName] = true

		entry, known := catalogByName[fileName]
		switch {
		case !known:
			diff.CreateFiles = append(diff.CreateFiles, fileName)
		case entry.IsDeleted:
			diff.ReactivateFiles = append(diff.ReactivateFiles, entry.FileID)
		}
	}

	for _, entry := range catalogFiles {
		if !entry.IsDeleted && !onDisk[entry.Name] {
			diff.SoftDeleteFiles = append(diff.SoftDeleteFiles, entry.FileID)
		}
	}

	return diff
}
