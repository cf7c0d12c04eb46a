package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/docdrop/backend/internal/export"
	"github.com/docdrop/backend/internal/models"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *testServer) readyWorkspace(t *testing.T) string {
	t.Helper()
	id := s.createWorkspace(t)
	view := decodeView(t, s.upload(t, id, pdf("scan.pdf"), testFile{name: "readme.txt", content: "hello"}))

	rec := s.doJSON(http.MethodPut, "/api/workspaces/"+id+"/files/"+fileID(t, view, "scan.pdf")+"/metadata",
		map[string]interface{}{
			"metadata": models.Metadata{Distributor: "Acme", DocumentNumber: "INV 7", Date: "2024-06-01"},
		})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.doJSON(http.MethodPut, "/api/workspaces/"+id+"/prefix", map[string]string{"prefix": "Head Office"})
	require.Equal(t, http.StatusOK, rec.Code)
	return id
}

func (s *testServer) startExport(t *testing.T, id string) export.Job {
	t.Helper()
	rec := s.doJSON(http.MethodPost, "/api/workspaces/"+id+"/export", nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var job export.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	return job
}

func (s *testServer) waitComplete(t *testing.T, jobID string) {
	t.Helper()
	require.Eventually(t, func() bool {
		j, ok := s.exports.GetJob(jobID)
		return ok && j.Done()
	}, 5*time.Second, 10*time.Millisecond)
}

func TestExportHandler_Blocked(t *testing.T) {
	s := newTestServer(t, 5)
	id := s.createWorkspace(t)
	s.upload(t, id, pdf("a.pdf"), pdf("b.pdf"))

	rec := s.doJSON(http.MethodPost, "/api/workspaces/"+id+"/export", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	apiErr := decodeError(t, rec)
	assert.Equal(t, "INVALID_EXPORT", apiErr.Code)
	assert.Equal(t, "a.pdf: Missing fields", apiErr.Details)
}

func TestExportHandler_EmptyPrefixRefused(t *testing.T) {
	s := newTestServer(t, 5)
	id := s.readyWorkspace(t)
	s.doJSON(http.MethodPut, "/api/workspaces/"+id+"/prefix", map[string]string{"prefix": ""})

	rec := s.doJSON(http.MethodPost, "/api/workspaces/"+id+"/export", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_EXPORT", decodeError(t, rec).Code)
}

func TestExportHandler_UnknownWorkspace(t *testing.T) {
	s := newTestServer(t, 5)

	rec := s.doJSON(http.MethodPost, "/api/workspaces/missing/export", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportHandler_ExportAndDownload(t *testing.T) {
	s := newTestServer(t, 5)
	id := s.readyWorkspace(t)

	job := s.startExport(t, id)
	assert.Equal(t, "Head-Office-export.zip", job.FileName)
	assert.Equal(t, 2, job.TotalFiles)
	s.waitComplete(t, job.ID)

	rec := s.doJSON(http.MethodGet, "/api/exports/"+job.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status export.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, export.StatusComplete, status.Status)
	assert.NotEmpty(t, status.Digest)

	rec = s.doJSON(http.MethodGet, "/api/exports/"+job.ID+"/download", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Head-Office-export.zip"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, status.Digest, rec.Header().Get("X-Archive-Digest"))

	body := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "readme.txt", zr.File[0].Name)
	assert.Equal(t, "Head-Office-Acme-INV-7-2024-06-01.pdf", zr.File[1].Name)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestExportHandler_Stream(t *testing.T) {
	s := newTestServer(t, 5)
	id := s.readyWorkspace(t)
	job := s.startExport(t, id)
	s.waitComplete(t, job.ID)

	rec := s.doJSON(http.MethodGet, "/api/exports/"+job.ID+"/stream", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	require.True(t, strings.HasPrefix(body, "data: "))
	assert.Contains(t, body, `"status":"complete"`)
}

func TestExportHandler_StreamUnknownJob(t *testing.T) {
	s := newTestServer(t, 5)

	rec := s.doJSON(http.MethodGet, "/api/exports/nope/stream", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"export job not found"`)
}

func TestExportHandler_UnknownJob(t *testing.T) {
	s := newTestServer(t, 5)

	for _, path := range []string{"/api/exports/nope", "/api/exports/nope/download"} {
		rec := s.doJSON(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code, path)
	}
}
