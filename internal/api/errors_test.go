package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/docdrop/backend/internal/export"
	"github.com/docdrop/backend/internal/naming"
	"github.com/docdrop/backend/internal/preview"
	"github.com/docdrop/backend/internal/workspace"
	"github.com/stretchr/testify/assert"
)

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"workspace not found", fmt.Errorf("%w: x", workspace.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"file not found", fmt.Errorf("%w: x", workspace.ErrFileNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"job not found", export.ErrJobNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"limit", &workspace.LimitError{Current: 1, Adding: 2, Max: 2}, http.StatusRequestEntityTooLarge, "LIMIT_EXCEEDED"},
		{"export refused", &naming.ExportError{Reason: naming.MsgInvalidPrefix}, http.StatusConflict, "INVALID_EXPORT"},
		{"validation", fmt.Errorf("%w: bad", naming.ErrValidation), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not renamable", workspace.ErrNotRenamable, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"parse", &preview.ParseError{Reason: "empty input"}, http.StatusBadRequest, "PARSE_ERROR"},
		{"export pending", export.ErrNotReady, http.StatusConflict, "CONFLICT"},
		{"api error passes through", NewValidationError("id"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.Status)
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}

func TestFromDomainError_ExportDetails(t *testing.T) {
	err := &naming.ExportError{Reason: naming.MsgInvalidDate, Name: "scan.pdf"}

	apiErr := FromDomainError(err)
	assert.Equal(t, "scan.pdf: Invalid date format", apiErr.Details)
}
