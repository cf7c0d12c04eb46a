// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/docdrop/backend/internal/export"
	"github.com/docdrop/backend/internal/preview"
	"github.com/docdrop/backend/internal/workspace"
	"github.com/labstack/echo/v4"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Workspaces *workspace.Manager
	Exports    *export.Manager
	Previewer  *preview.CSVPreviewer
	Version    string
}

// Handlers holds all handler instances
type Handlers struct {
	Health    HealthHandler
	Workspace WorkspaceHandler
	Export    ExportHandler
	Preview   PreviewHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(deps.Version, deps.Workspaces),
		Workspace: NewWorkspaceHandler(deps.Workspaces),
		Export:    NewExportHandler(deps.Workspaces, deps.Exports),
		Preview:   NewPreviewHandler(deps.Previewer),
	}
}

// RegisterRoutes registers all API routes under /api
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Workspace routes
	wsGroup := apiGroup.Group("/workspaces")
	wsGroup.POST("", handlers.Workspace.HandleCreateWorkspace)
	wsGroup.GET("/:id", handlers.Workspace.HandleGetWorkspace)
	wsGroup.DELETE("/:id", handlers.Workspace.HandleDeleteWorkspace)
	wsGroup.POST("/:id/keepalive", handlers.Workspace.HandleKeepAlive)
	wsGroup.POST("/:id/files", handlers.Workspace.HandleUploadFiles)
	wsGroup.DELETE("/:id/files/:fileId", handlers.Workspace.HandleRemoveFile)
	wsGroup.PUT("/:id/files/:fileId/metadata", handlers.Workspace.HandleUpdateMetadata)
	wsGroup.PUT("/:id/prefix", handlers.Workspace.HandleSetPrefix)
	wsGroup.PUT("/:id/selection", handlers.Workspace.HandleSelectFile)
	wsGroup.POST("/:id/metadata/import", handlers.Workspace.HandleImportMetadata)
	wsGroup.GET("/:id/names", handlers.Workspace.HandleGetNames)
	wsGroup.POST("/:id/export", handlers.Export.HandleStartExport)

	// Export job routes
	exportGroup := apiGroup.Group("/exports")
	exportGroup.GET("/:jobId", handlers.Export.HandleExportStatus)
	exportGroup.GET("/:jobId/stream", handlers.Export.HandleExportStream)
	exportGroup.GET("/:jobId/download", handlers.Export.HandleDownloadExport)

	// CSV preview routes
	previewGroup := apiGroup.Group("/preview")
	previewGroup.POST("/csv", handlers.Preview.HandlePreviewCSV)
	previewGroup.POST("/csv/msgpack", handlers.Preview.HandlePreviewCSVMsgpack)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler
}
