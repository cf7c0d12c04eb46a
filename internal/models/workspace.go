package models

import "time"

// FileView is a workspace file together with its metadata and derived status.
type FileView struct {
	FileInfo
	Metadata *Metadata `json:"metadata,omitempty"`
	// Status is set for renamable files only.
	Status *StatusResult `json:"status,omitempty"`
}

// ExportGate is the aggregate export readiness of a workspace.
type ExportGate struct {
	Ready bool `json:"ready"`
	// FirstBlocked is the lowest-index renamable file that is not ready.
	FirstBlocked *BlockedFile `json:"firstBlocked,omitempty"`
}

// BlockedFile points at a renamable file that prevents export.
type BlockedFile struct {
	FileID string       `json:"fileId"`
	Name   string       `json:"name"`
	Index  int          `json:"index"`
	Status StatusResult `json:"status"`
}

// WorkspaceView is the externally visible state of a workspace.
type WorkspaceView struct {
	ID         string     `json:"id"`
	Prefix     string     `json:"prefix"`
	Selected   string     `json:"selected,omitempty"`
	Files      []FileView `json:"files"`
	Gate       ExportGate `json:"gate"`
	MaxFiles   int        `json:"maxFiles"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastAccess time.Time  `json:"lastAccess"`
}
