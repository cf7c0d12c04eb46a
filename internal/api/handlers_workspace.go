// handlers_workspace.go - Workspace state handlers
package api

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/docdrop/backend/internal/manifest"
	"github.com/docdrop/backend/internal/models"
	"github.com/docdrop/backend/internal/naming"
	"github.com/docdrop/backend/internal/workspace"
	"github.com/labstack/echo/v4"
)

// WorkspaceHandlerImpl implements the WorkspaceHandler interface
type WorkspaceHandlerImpl struct {
	workspaces *workspace.Manager
}

// NewWorkspaceHandler creates a new workspace handler instance
func NewWorkspaceHandler(workspaces *workspace.Manager) WorkspaceHandler {
	return &WorkspaceHandlerImpl{
		workspaces: workspaces,
	}
}

// HandleCreateWorkspace starts an empty workspace
func (h *WorkspaceHandlerImpl) HandleCreateWorkspace(c echo.Context) error {
	return c.JSON(http.StatusCreated, h.workspaces.Create())
}

// HandleGetWorkspace returns the workspace with statuses and export gate
func (h *WorkspaceHandlerImpl) HandleGetWorkspace(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	view, err := h.workspaces.Get(id)
	if err != nil {
		return FromDomainError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// HandleDeleteWorkspace drops a workspace and its files
func (h *WorkspaceHandlerImpl) HandleDeleteWorkspace(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if err := h.workspaces.Delete(id); err != nil {
		return FromDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleKeepAlive extends workspace lifetime while the user is idle
func (h *WorkspaceHandlerImpl) HandleKeepAlive(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if ok := h.workspaces.Touch(id); !ok {
		return NewNotFoundError("workspace", id)
	}

	return c.NoContent(http.StatusNoContent)
}

// HandleUploadFiles accepts a multipart batch of files. Each "file" part may
// be paired, by position, with a "lastModified" value in unix milliseconds.
// The batch is rejected whole when it would exceed the file cap.
func (h *WorkspaceHandlerImpl) HandleUploadFiles(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return NewBadRequestError("invalid multipart form", err)
	}

	headers := form.File["file"]
	if len(headers) == 0 {
		return NewValidationError("file")
	}
	modified := form.Value["lastModified"]

	uploads := make([]workspace.Upload, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for i, fh := range headers {
		lastModified, err := parseLastModified(modified, i)
		if err != nil {
			return NewBadRequestError("invalid lastModified value", err)
		}

		src, err := fh.Open()
		if err != nil {
			return NewInternalError("failed to open uploaded file", err)
		}
		opened = append(opened, src)

		uploads = append(uploads, workspace.Upload{
			Name:         fh.Filename,
			LastModified: lastModified,
			Content:      src,
		})
	}

	view, err := h.workspaces.AddFiles(id, uploads)
	if err != nil {
		return FromDomainError(err)
	}
	return c.JSON(http.StatusCreated, view)
}

// HandleRemoveFile removes a file and its metadata
func (h *WorkspaceHandlerImpl) HandleRemoveFile(c echo.Context) error {
	id, fileID := c.Param("id"), c.Param("fileId")
	if fileID == "" {
		return NewValidationError("fileId")
	}

	view, err := h.workspaces.RemoveFile(id, fileID)
	if err != nil {
		return FromDomainError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// HandleUpdateMetadata edits a single field or replaces the whole record
func (h *WorkspaceHandlerImpl) HandleUpdateMetadata(c echo.Context) error {
	id, fileID := c.Param("id"), c.Param("fileId")
	if fileID == "" {
		return NewValidationError("fileId")
	}

	var req updateMetadataRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	var view *models.WorkspaceView
	var err error
	if req.Metadata != nil {
		view, err = h.workspaces.SetMetadata(id, fileID, *req.Metadata)
	} else {
		view, err = h.workspaces.SetField(id, fileID, models.Field(req.Field), *req.Value)
	}
	if err != nil {
		return FromDomainError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// HandleSetPrefix sets the global filename prefix
func (h *WorkspaceHandlerImpl) HandleSetPrefix(c echo.Context) error {
	var req setPrefixRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	view, err := h.workspaces.SetPrefix(c.Param("id"), req.Prefix)
	if err != nil {
		return FromDomainError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// HandleSelectFile sets or clears the selected file
func (h *WorkspaceHandlerImpl) HandleSelectFile(c echo.Context) error {
	var req selectFileRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	view, err := h.workspaces.Select(c.Param("id"), req.FileID)
	if err != nil {
		return FromDomainError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// HandleImportMetadata applies a YAML manifest sent as the request body
func (h *WorkspaceHandlerImpl) HandleImportMetadata(c echo.Context) error {
	id := c.Param("id")

	mf, err := manifest.Parse(io.LimitReader(c.Request().Body, maxManifestBytes))
	if err != nil {
		return NewParseError("invalid metadata manifest", err)
	}

	result, err := h.workspaces.ImportMetadata(id, mf)
	if err != nil {
		return FromDomainError(err)
	}

	view, err := h.workspaces.Get(id)
	if err != nil {
		return FromDomainError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"import":    result,
		"workspace": view,
	})
}

// HandleGetNames previews the output names an export would use
func (h *WorkspaceHandlerImpl) HandleGetNames(c echo.Context) error {
	plan, prefix, err := h.workspaces.Plan(c.Param("id"))
	if err != nil {
		return FromDomainError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"archiveName": naming.ArchiveName(prefix),
		"files":       plan,
	})
}

// Request/Response types

const maxManifestBytes = 1 << 20

type updateMetadataRequest struct {
	Field    string           `json:"field"`
	Value    *string          `json:"value"`
	Metadata *models.Metadata `json:"metadata"`
}

func (r *updateMetadataRequest) validate() error {
	if r.Metadata != nil {
		return nil
	}
	if r.Field == "" {
		return NewValidationError("field")
	}
	if r.Value == nil {
		return NewValidationError("value")
	}
	return nil
}

type setPrefixRequest struct {
	Prefix string `json:"prefix"`
}

type selectFileRequest struct {
	FileID string `json:"fileId"`
}

// Helper functions

// parseLastModified reads the i-th lastModified form value. Missing values
// fall back to the unix epoch so the file key stays deterministic.
func parseLastModified(values []string, i int) (time.Time, error) {
	if i >= len(values) || values[i] == "" {
		return time.UnixMilli(0), nil
	}
	ms, err := strconv.ParseInt(values[i], 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}
