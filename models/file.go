package models

import "time"

// File is a catalog entry for one file inside a panel directory. Only the
// name is catalogued; file content stays on disk and is read lazily at
// view-time. Lifecycle mirrors Panel: created on first sighting,
// soft-deleted when absent from disk, reactivated under the same id when
// a file with the same name reappears.
type File struct {
	// FileID is the stable internal identifier of the catalog entry.
	FileID int64 `json:"file_id"`

	// PanelID is the id of the owning panel.
	PanelID int64 `json:"panel_id"`

	// Name is the file name on disk. Unique within a non-deleted panel.
	Name string `json:"file_name"`

	// IsDeleted marks the entry as soft-deleted.
	IsDeleted bool `json:"is_deleted"`

	// CreatedAt is the timestamp of the first sighting of the file.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the File model.
func (f File) TableName() string {
	return "files"
}
