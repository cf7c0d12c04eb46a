// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
)

// WorkspaceHandler handles workspace state transitions
type WorkspaceHandler interface {
	HandleCreateWorkspace(c echo.Context) error
	HandleGetWorkspace(c echo.Context) error
	HandleDeleteWorkspace(c echo.Context) error
	HandleKeepAlive(c echo.Context) error
	HandleUploadFiles(c echo.Context) error
	HandleRemoveFile(c echo.Context) error
	HandleUpdateMetadata(c echo.Context) error
	HandleSetPrefix(c echo.Context) error
	HandleSelectFile(c echo.Context) error
	HandleImportMetadata(c echo.Context) error
	HandleGetNames(c echo.Context) error
}

// ExportHandler handles export jobs and archive download
type ExportHandler interface {
	HandleStartExport(c echo.Context) error
	HandleExportStatus(c echo.Context) error
	HandleExportStream(c echo.Context) error
	HandleDownloadExport(c echo.Context) error
}

// PreviewHandler handles CSV previews
type PreviewHandler interface {
	HandlePreviewCSV(c echo.Context) error
	HandlePreviewCSVMsgpack(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}
