package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrPanelNotFound is returned when a query targets a panel id that does
	// not exist in the catalog.
	ErrPanelNotFound = errors.New("panel was not found")

	// ErrPanelAlreadyExists is returned when inserting a panel whose name
	// collides with a live (non-deleted) panel.
	ErrPanelAlreadyExists = errors.New("panel already exists")

	// ErrFileNotFound is returned when a query targets a catalog file entry
	// that does not exist.
	ErrFileNotFound = errors.New("file was not found")

	// ErrUserNotFound is returned when a query or delete targets a user id
	// that does not exist.
	ErrUserNotFound = errors.New("user was not found")

	// ErrAssignmentNotFound is returned when no assignment matches the
	// given id or secret code.
	ErrAssignmentNotFound = errors.New("assignment was not found")

	// ErrAssignmentConflict is returned when two concurrent issues raced
	// for the same (user, panel) pair and the live-pair unique index
	// rejected the second insert.
	ErrAssignmentConflict = errors.New("live assignment already exists for user and panel")

	// ErrSecretCodeCollision is returned when a freshly generated secret
	// code collides with an existing one. The caller is expected to
	// regenerate and retry.
	ErrSecretCodeCollision = errors.New("secret code already exists")

	// ErrChallengeNotFound is returned when no pending one-time passcode
	// challenge exists for the assignment, or a guarded state transition
	// matched no row.
	ErrChallengeNotFound = errors.New("otp challenge was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
