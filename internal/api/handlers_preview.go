// handlers_preview.go - CSV preview handlers
package api

import (
	"net/http"

	"github.com/docdrop/backend/internal/models"
	"github.com/docdrop/backend/internal/preview"
	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// PreviewHandlerImpl implements the PreviewHandler interface
type PreviewHandlerImpl struct {
	previewer *preview.CSVPreviewer
}

// NewPreviewHandler creates a new preview handler instance
func NewPreviewHandler(previewer *preview.CSVPreviewer) PreviewHandler {
	return &PreviewHandlerImpl{
		previewer: previewer,
	}
}

// HandlePreviewCSV parses an uploaded CSV file and returns headers and rows
func (h *PreviewHandlerImpl) HandlePreviewCSV(c echo.Context) error {
	result, err := h.previewUpload(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// HandlePreviewCSVMsgpack returns the preview in MessagePack format
func (h *PreviewHandlerImpl) HandlePreviewCSVMsgpack(c echo.Context) error {
	result, err := h.previewUpload(c)
	if err != nil {
		return err
	}

	data, err := msgpack.Marshal(result)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

func (h *PreviewHandlerImpl) previewUpload(c echo.Context) (*models.CSVPreview, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, NewBadRequestError("no file provided", err)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	result, err := h.previewer.Preview(fh.Filename, src)
	if err != nil {
		return nil, FromDomainError(err)
	}
	return result, nil
}
