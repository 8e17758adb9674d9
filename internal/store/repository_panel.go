package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/models"
)

// panelRepository is the PostgreSQL-backed implementation of
// [PanelRepository]. It serves the panel and file catalog from the "panels"
// and "files" tables and applies reconciliation diffs transactionally.
//
// List queries are built with squirrel because the soft-delete filter is
// optional; the diff application uses fixed prepared queries.
type panelRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewPanelRepository constructs a [PanelRepository] backed by the provided
// database connection and logger.
func NewPanelRepository(db *DB, logger *logger.Logger) PanelRepository {
	logger.Debug().Msg("creating panel repository")
	return &panelRepository{
		db:     db,
		logger: logger,
	}
}

// ListPanels returns all catalog panels ordered by id. When includeDeleted
// is false, soft-deleted panels are filtered out.
func (r *panelRepository) ListPanels(ctx context.Context, includeDeleted bool) ([]models.Panel, error) {
	log := logger.FromContext(ctx)

	builder := sq.Select("panel_id", "panel_name", "description", "is_deleted", "created_at").
		From("panels").
		OrderBy("panel_id").
		PlaceholderFormat(sq.Dollar)
	if !includeDeleted {
		builder = builder.Where(sq.Eq{"is_deleted": false})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "panelRepository.ListPanels").Msg("failed to build panels query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "panelRepository.ListPanels").Msg("failed to execute panels query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	panels := make([]models.Panel, 0, 20)

	for rows.Next() {
		var panel models.Panel

		scanErr := rows.Scan(&panel.PanelID, &panel.Name, &panel.Description, &panel.IsDeleted, &panel.CreatedAt)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "panelRepository.ListPanels").Msg("failed to scan panel row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		panels = append(panels, panel)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "panelRepository.ListPanels").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return panels, nil
}

// GetPanelByID returns a single panel regardless of its deletion state.
//
// Error handling:
//   - No matching row → [ErrPanelNotFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *panelRepository) GetPanelByID(ctx context.Context, panelID int64) (models.Panel, error) {
	log := logger.FromContext(ctx)

	var panel models.Panel
	err := r.db.QueryRowContext(ctx, getPanelByID, panelID).
		Scan(&panel.PanelID, &panel.Name, &panel.Description, &panel.IsDeleted, &panel.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Panel{}, ErrPanelNotFound
		}
		log.Err(err).Str("func", "panelRepository.GetPanelByID").Int64("panel_id", panelID).Msg("failed to get panel")
		return models.Panel{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return panel, nil
}

// ListFiles returns the catalog entries of one panel ordered by id. When
// includeDeleted is false, soft-deleted entries are filtered out.
func (r *panelRepository) ListFiles(ctx context.Context, panelID int64, includeDeleted bool) ([]models.File, error) {
	log := logger.FromContext(ctx)

	builder := sq.Select("file_id", "panel_id", "file_name", "is_deleted", "created_at").
		From("files").
		Where(sq.Eq{"panel_id": panelID}).
		OrderBy("file_id").
		PlaceholderFormat(sq.Dollar)
	if !includeDeleted {
		builder = builder.Where(sq.Eq{"is_deleted": false})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "panelRepository.ListFiles").Int64("panel_id", panelID).Msg("failed to build files query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "panelRepository.ListFiles").Int64("panel_id", panelID).Msg("failed to execute files query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	files := make([]models.File, 0, 20)

	for rows.Next() {
		var file models.File

		scanErr := rows.Scan(&file.FileID, &file.PanelID, &file.Name, &file.IsDeleted, &file.CreatedAt)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "panelRepository.ListFiles").Int64("panel_id", panelID).Msg("failed to scan file row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		files = append(files, file)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "panelRepository.ListFiles").Int64("panel_id", panelID).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return files, nil
}

// ApplyDiff applies every mutation of one panel diff inside a single
// database transaction, so a crash cannot leave a panel active with stale
// file flags. Empty diffs return immediately without touching the database.
//
// Error handling:
//   - PostgreSQL unique_violation on the panel insert → [ErrPanelAlreadyExists].
//   - Any other failure → wrapped low-level sentinel; the transaction is
//     rolled back via defer.
func (r *panelRepository) ApplyDiff(ctx context.Context, diff models.PanelDiff) error {
	log := logger.FromContext(ctx)

	if diff.Empty() {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "panelRepository.ApplyDiff").Str("panel", diff.PanelName).Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	panelID := diff.PanelID

	if diff.CreatePanel {
		if err := tx.QueryRowContext(ctx, createPanel, diff.PanelName).Scan(&panelID); err != nil {
			log.Err(err).Str("func", "panelRepository.ApplyDiff").Str("panel", diff.PanelName).Msg("failed to insert panel")

			switch postgresError(err) {
			case pgerrcode.UniqueViolation:
				return ErrPanelAlreadyExists
			default:
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}
	}

	if diff.ReactivatePanel {
		if _, err := tx.ExecContext(ctx, reactivatePanel, panelID); err != nil {
			log.Err(err).Str("func", "panelRepository.ApplyDiff").Int64("panel_id", panelID).Msg("failed to reactivate panel")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if diff.SoftDeletePanel {
		if _, err := tx.ExecContext(ctx, softDeletePanel, panelID); err != nil {
			log.Err(err).Str("func", "panelRepository.ApplyDiff").Int64("panel_id", panelID).Msg("failed to soft-delete panel")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	for _, fileName := range diff.CreateFiles {
		if _, err := tx.ExecContext(ctx, createFile, panelID, fileName); err != nil {
			log.Err(err).Str("func", "panelRepository.ApplyDiff").Int64("panel_id", panelID).Str("file", fileName).Msg("failed to insert file")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if len(diff.ReactivateFiles) > 0 {
		if _, err := tx.ExecContext(ctx, reactivateFiles, diff.ReactivateFiles); err != nil {
			log.Err(err).Str("func", "panelRepository.ApplyDiff").Int64("panel_id", panelID).Msg("failed to reactivate files")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if len(diff.SoftDeleteFiles) > 0 {
		if _, err := tx.ExecContext(ctx, softDeleteFiles, diff.SoftDeleteFiles); err != nil {
			log.Err(err).Str("func", "panelRepository.ApplyDiff").Int64("panel_id", panelID).Msg("failed to soft-delete files")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).Str("func", "panelRepository.ApplyDiff").Str("panel", diff.PanelName).Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return nil
}
