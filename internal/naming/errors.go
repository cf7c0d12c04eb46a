package naming

import (
	"errors"
	"fmt"

	"github.com/docdrop/backend/internal/models"
)

var (
	// ErrInvalidExport is returned when a name plan cannot be produced: the
	// prefix is invalid or some renamable file is not ready.
	ErrInvalidExport = errors.New("invalid export")

	// ErrValidation marks a metadata field value that fails validation.
	ErrValidation = errors.New("validation failed")
)

// ExportError describes why an export was refused.
type ExportError struct {
	Reason string
	// Name and Status are set when a specific file blocked the export.
	Name   string
	Status models.StatusResult
}

func (e *ExportError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidExport, e.Name, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidExport, e.Reason)
}

func (e *ExportError) Unwrap() error {
	return ErrInvalidExport
}
