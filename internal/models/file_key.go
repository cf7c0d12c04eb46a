package models

import (
	"fmt"
	"time"
)

// FileKey identifies an uploaded file by name, byte size and last-modified
// time. It is a derived identifier, not a unique one: two distinct uploads
// sharing all three values map to the same key and are treated as one logical
// entry. That collision is accepted; files are never deduplicated by content.
type FileKey string

// NewFileKey derives the key for a file. The modification time is taken at
// millisecond precision, matching what browsers report.
func NewFileKey(name string, size int64, modified time.Time) FileKey {
	return FileKey(fmt.Sprintf("%s|%d|%d", name, size, modified.UnixMilli()))
}
