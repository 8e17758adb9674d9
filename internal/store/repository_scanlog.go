package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/models"
)

// scanLogRepository is the PostgreSQL-backed implementation of
// [ScanLogRepository]. The "user_scan_log" table is append-only: rows are
// inserted here and nowhere updated or deleted.
type scanLogRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewScanLogRepository constructs a [ScanLogRepository] backed by the
// provided database connection and logger.
func NewScanLogRepository(db *DB, logger *logger.Logger) ScanLogRepository {
	logger.Debug().Msg("creating scan log repository")
	return &scanLogRepository{
		db:     db,
		logger: logger,
	}
}

// Append inserts one audit record and returns it with server-assigned
// fields (ScanID, ScannedAt). A zero AssignmentID is persisted as NULL:
// failed lookups have no assignment to reference.
func (r *scanLogRepository) Append(ctx context.Context, record models.UserScanLog) (models.UserScanLog, error) {
	log := logger.FromContext(ctx)

	var assignmentID any
	if record.AssignmentID != 0 {
		assignmentID = record.AssignmentID
	}

	err := r.db.QueryRowContext(ctx, appendScanLog, assignmentID, record.Status).
		Scan(&record.ScanID, &record.ScannedAt)
	if err != nil {
		log.Err(err).Str("func", "scanLogRepository.Append").
			Int64("assignment_id", record.AssignmentID).
			Str("status", string(record.Status)).
			Msg("failed to append scan log record")
		return models.UserScanLog{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return record, nil
}

// ListByAssignment returns the audit trail of one assignment in
// chronological order.
func (r *scanLogRepository) ListByAssignment(ctx context.Context, assignmentID int64) ([]models.UserScanLog, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listScanLogByAssignment, assignmentID)
	if err != nil {
		log.Err(err).Str("func", "scanLogRepository.ListByAssignment").
			Int64("assignment_id", assignmentID).
			Msg("failed to execute scan log query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.UserScanLog, 0, 20)

	for rows.Next() {
		var record models.UserScanLog
		var nullableAssignment sql.NullInt64

		scanErr := rows.Scan(&record.ScanID, &nullableAssignment, &record.Status, &record.ScannedAt)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "scanLogRepository.ListByAssignment").
				Int64("assignment_id", assignmentID).
				Msg("failed to scan log row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		record.AssignmentID = nullableAssignment.Int64
		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "scanLogRepository.ListByAssignment").
			Int64("assignment_id", assignmentID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}
