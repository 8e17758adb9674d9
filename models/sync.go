package models

// PanelDiff describes every mutation one reconciliation pass wants to apply
// to a single panel and its files. The catalog store applies a whole diff in
// one transaction so a crash cannot leave a panel active with stale file
// flags.
type PanelDiff struct {
	// PanelID identifies the existing panel row, or is zero when
	// CreatePanel is set and the row does not exist yet.
	PanelID int64

	// PanelName is the directory name the diff was computed for.
	PanelName string

	// CreatePanel requests insertion of a new active panel row.
	CreatePanel bool

	// ReactivatePanel requests clearing the panel's is_deleted flag.
	// The panel id is preserved so dependent assignments stay valid.
	ReactivatePanel bool

	// SoftDeletePanel requests setting the panel's is_deleted flag.
	SoftDeletePanel bool

	// CreateFiles lists file names seen on disk but absent from the
	// catalog.
	CreateFiles []string

	// ReactivateFiles lists ids of soft-deleted catalog entries whose
	// names reappeared on disk.
	ReactivateFiles []int64

	// SoftDeleteFiles lists ids of live catalog entries whose names are
	// gone from disk, or all live entries when the panel itself is
	// soft-deleted.
	SoftDeleteFiles []int64
}

// Empty reports whether the diff carries no mutations at all. Empty diffs
// are skipped entirely, which is what makes a repeated reconciliation run
// over an unchanged tree produce zero catalog writes.
func (d PanelDiff) Empty() bool {
	return !d.CreatePanel && !d.ReactivatePanel && !d.SoftDeletePanel &&
		len(d.CreateFiles) == 0 && len(d.ReactivateFiles) == 0 && len(d.SoftDeleteFiles) == 0
}

// SyncFailure records a panel whose diff could not be computed or applied.
// One bad directory never aborts the rest of the pass.
type SyncFailure struct {
	// Panel is the directory name of the failed panel.
	Panel string `json:"panel"`

	// Reason is the error text. Never contains secrets.
	Reason string `json:"reason"`
}

// SyncReport summarises one reconciliation pass over the document root.
type SyncReport struct {
	PanelsCreated     int `json:"panels_created"`
	PanelsReactivated int `json:"panels_reactivated"`
	PanelsSoftDeleted int `json:"panels_soft_deleted"`
	FilesCreated      int `json:"files_created"`
	FilesReactivated  int `json:"files_reactivated"`
	FilesSoftDeleted  int `json:"files_soft_deleted"`

	// Failures lists panels skipped because of filesystem or storage
	// errors; the remaining panels were still processed.
	Failures []SyncFailure `json:"failures,omitempty"`
}

// Mutations returns the total number of catalog mutations the pass applied.
// A second run over an unchanged tree must report zero.
func (r SyncReport) Mutations() int {
	return r.PanelsCreated + r.PanelsReactivated + r.PanelsSoftDeleted +
		r.FilesCreated + r.FilesReactivated + r.FilesSoftDeleted
}

// Apply accumulates the effects of one applied panel diff into the report.
func (r *SyncReport) Apply(d PanelDiff) {
	if d.CreatePanel {
		r.PanelsCreated++
	}
	if d.ReactivatePanel {
		r.PanelsReactivated++
	}
	if d.SoftDeletePanel {
		r.PanelsSoftDeleted++
	}
	r.FilesCreated += len(d.CreateFiles)
	r.FilesReactivated += len(d.ReactivateFiles)
	r.FilesSoftDeleted += len(d.SoftDeleteFiles)
}
