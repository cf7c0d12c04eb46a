// handlers_export.go - Export job and archive download handlers
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/docdrop/backend/internal/export"
	"github.com/docdrop/backend/internal/workspace"
	"github.com/labstack/echo/v4"
)

// ExportHandlerImpl implements the ExportHandler interface
type ExportHandlerImpl struct {
	workspaces *workspace.Manager
	exports    *export.Manager
}

// NewExportHandler creates a new export handler instance
func NewExportHandler(workspaces *workspace.Manager, exports *export.Manager) ExportHandler {
	return &ExportHandlerImpl{
		workspaces: workspaces,
		exports:    exports,
	}
}

// HandleStartExport checks the export gate and starts packing the archive
func (h *ExportHandlerImpl) HandleStartExport(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	// Gate is recomputed at confirm time
	view, err := h.workspaces.Get(id)
	if err != nil {
		return FromDomainError(err)
	}
	if blocked := view.Gate.FirstBlocked; blocked != nil {
		return NewInvalidExportError(
			"export blocked: not all files are ready",
			fmt.Sprintf("%s: %s", blocked.Name, blocked.Status.Message),
		)
	}

	job, err := h.exports.StartJob(id)
	if err != nil {
		return FromDomainError(err)
	}
	return c.JSON(http.StatusAccepted, job)
}

// HandleExportStatus returns the current state of an export job
func (h *ExportHandlerImpl) HandleExportStatus(c echo.Context) error {
	jobID := c.Param("jobId")
	if jobID == "" {
		return NewValidationError("jobId")
	}

	job, ok := h.exports.GetJob(jobID)
	if !ok {
		return NewNotFoundError("export job", jobID)
	}
	return c.JSON(http.StatusOK, job)
}

// HandleExportStream streams job progress via Server-Sent Events
func (h *ExportHandlerImpl) HandleExportStream(c echo.Context) error {
	jobID := c.Param("jobId")
	if jobID == "" {
		return NewValidationError("jobId")
	}

	// Set SSE headers
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	job, ok := h.exports.GetJob(jobID)
	if !ok {
		h.sendSSEError(c, "export job not found")
		return nil
	}

	h.sendSSEData(c, job)
	if job.Done() {
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	timeout := time.NewTimer(5 * time.Minute)
	defer timeout.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ticker.C:
			job, ok := h.exports.GetJob(jobID)
			if !ok {
				h.sendSSEError(c, "export job not found")
				return nil
			}

			h.sendSSEData(c, job)

			if job.Done() {
				return nil
			}

		case <-timeout.C:
			h.sendSSEError(c, "stream timeout")
			return nil

		case <-ctx.Done():
			return nil
		}
	}
}

// HandleDownloadExport sends the finished archive as an attachment
func (h *ExportHandlerImpl) HandleDownloadExport(c echo.Context) error {
	jobID := c.Param("jobId")
	if jobID == "" {
		return NewValidationError("jobId")
	}

	f, job, err := h.exports.OpenArchive(jobID)
	if err != nil {
		return FromDomainError(err)
	}
	defer f.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", job.FileName))
	if job.Digest != "" {
		c.Response().Header().Set("X-Archive-Digest", job.Digest)
	}
	return c.Stream(http.StatusOK, "application/zip", f)
}

// Helper functions

func (h *ExportHandlerImpl) sendSSEData(c echo.Context, data interface{}) {
	jsonData, _ := json.Marshal(data)
	fmt.Fprintf(c.Response(), "data: %s\n\n", jsonData)
	c.Response().Flush()
}

func (h *ExportHandlerImpl) sendSSEError(c echo.Context, message string) {
	h.sendSSEData(c, map[string]string{"error": message})
}
