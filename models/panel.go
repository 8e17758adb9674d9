package models

import "time"

// Panel represents a named collection of files mirrored from one directory
// under the document root. Panels are never hard-deleted: when the backing
// directory disappears the IsDeleted flag is set so that assignments keep
// referencing a valid panel id, and cleared again if the directory reappears.
type Panel struct {
	// PanelID is the stable internal identifier of the panel.
	// Assignments reference panels by this id, so it survives soft-deletes.
	PanelID int64 `json:"panel_id"`

	// Name is the panel name, equal to the directory name on disk.
	// Unique among non-deleted panels; compared case-sensitively.
	Name string `json:"panel_name"`

	// Description is an optional human-readable description.
	Description string `json:"description"`

	// IsDeleted marks the panel as soft-deleted. Listing queries must
	// filter on this flag explicitly.
	IsDeleted bool `json:"is_deleted"`

	// CreatedAt is the timestamp of the first sighting of the directory.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Panel model.
func (p Panel) TableName() string {
	return "panels"
}
