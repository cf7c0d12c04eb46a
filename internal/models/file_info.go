package models

import "time"

// FileInfo represents metadata about an uploaded file.
type FileInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	UploadedAt   time.Time `json:"uploadedAt"`
	Key          FileKey   `json:"key"`
	Renamable    bool      `json:"renamable"`
}
