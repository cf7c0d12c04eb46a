package workspace

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for unknown workspace IDs.
	ErrNotFound = errors.New("workspace not found")

	// ErrFileNotFound is returned for file IDs not in the workspace.
	ErrFileNotFound = errors.New("file not found in workspace")

	// ErrNotRenamable is returned when metadata is edited on a passthrough file.
	ErrNotRenamable = errors.New("file does not take naming metadata")

	// ErrLimitExceeded is returned when an upload batch would exceed the
	// per-workspace file cap.
	ErrLimitExceeded = errors.New("file limit exceeded")
)

// LimitError reports a rejected upload batch.
type LimitError struct {
	Current int
	Adding  int
	Max     int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("cannot add %d file(s): workspace holds %d of at most %d", e.Adding, e.Current, e.Max)
}

func (e *LimitError) Unwrap() error {
	return ErrLimitExceeded
}
