package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/models"
)

func newTestAssignmentRepo(t *testing.T) (*assignmentRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &assignmentRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func TestCreateAssignment_Success(t *testing.T) {
	repo, mock, db := newTestAssignmentRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	assignment := models.UserAssignment{
		UserID:     1,
		PanelID:    2,
		SecretCode: "c0deC0deC0de",
		QRPayload:  "https://portal.example.com/verify?code=c0deC0deC0de",
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE user_assignments").
		WithArgs(assignment.UserID, assignment.PanelID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO user_assignments").
		WithArgs(assignment.UserID, assignment.PanelID, assignment.SecretCode, assignment.QRPayload).
		WillReturnRows(sqlmock.
			NewRows([]string{"assignment_id", "user_id", "panel_id", "secret_code", "qr_payload", "revoked", "created_at"}).
			AddRow(9, assignment.UserID, assignment.PanelID, assignment.SecretCode, assignment.QRPayload, false, now))
	mock.ExpectCommit()

	created, err := repo.CreateAssignment(ctx, assignment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.AssignmentID != 9 {
		t.Errorf("expected AssignmentID=9, got %d", created.AssignmentID)
	}
	if created.Revoked {
		t.Error("fresh assignment must not be revoked")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateAssignment_SecretCodeCollision(t *testing.T) {
	repo, mock, db := newTestAssignmentRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE user_assignments").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO user_assignments").
		WillReturnError(pgUniqueError("user_assignments_secret_code_key"))
	mock.ExpectRollback()

	_, err := repo.CreateAssignment(ctx, models.UserAssignment{UserID: 1, PanelID: 2, SecretCode: "dup"})
	if !errors.Is(err, ErrSecretCodeCollision) {
		t.Fatalf("expected ErrSecretCodeCollision, got %v", err)
	}
}

func TestCreateAssignment_LivePairConflict(t *testing.T) {
	repo, mock, db := newTestAssignmentRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE user_assignments").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO user_assignments").
		WillReturnError(pgUniqueError("user_assignments_live_pair_key"))
	mock.ExpectRollback()

	_, err := repo.CreateAssignment(ctx, models.UserAssignment{UserID: 1, PanelID: 2, SecretCode: "fresh"})
	if !errors.Is(err, ErrAssignmentConflict) {
		t.Fatalf("expected ErrAssignmentConflict, got %v", err)
	}
}

func TestFindBySecretCode_Success(t *testing.T) {
	repo, mock, db := newTestAssignmentRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.
		NewRows([]string{"assignment_id", "user_id", "panel_id", "secret_code", "qr_payload", "revoked", "created_at", "name", "email"}).
		AddRow(9, 1, 2, "c0de", "https://portal.example.com/verify?code=c0de", false, now, "Avery Reed", "avery@example.com")

	mock.ExpectQuery("SELECT a.assignment_id").
		WithArgs("c0de").
		WillReturnRows(rows)

	found, err := repo.FindBySecretCode(ctx, "c0de")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.AssignmentID != 9 {
		t.Errorf("expected AssignmentID=9, got %d", found.AssignmentID)
	}
	if found.UserEmail != "avery@example.com" {
		t.Errorf("expected joined user email, got %q", found.UserEmail)
	}
}

func TestFindBySecretCode_NotFound(t *testing.T) {
	repo, mock, db := newTestAssignmentRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT a.assignment_id").
		WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindBySecretCode(ctx, "unknown")
	if !errors.Is(err, ErrAssignmentNotFound) {
		t.Fatalf("expected ErrAssignmentNotFound, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newTestAssignmentRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT a.assignment_id").
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(ctx, 42)
	if !errors.Is(err, ErrAssignmentNotFound) {
		t.Fatalf("expected ErrAssignmentNotFound, got %v", err)
	}
}
