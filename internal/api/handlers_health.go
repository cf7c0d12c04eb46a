// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/docdrop/backend/internal/workspace"
	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version    string
	workspaces *workspace.Manager
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, workspaces *workspace.Manager) HealthHandler {
	return &HealthHandlerImpl{
		version:    version,
		workspaces: workspaces,
	}
}

// HandleHealth reports the server version and workspace capacity
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:     "ok",
		Version:    h.version,
		Workspaces: h.workspaces.Count(),
		MaxFiles:   h.workspaces.MaxFiles(),
	})
}

type healthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Workspaces int    `json:"workspaces"`
	MaxFiles   int    `json:"maxFiles"`
}
