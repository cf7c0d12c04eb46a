package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/docdrop/backend/internal/export"
	"github.com/docdrop/backend/internal/models"
	"github.com/docdrop/backend/internal/preview"
	"github.com/docdrop/backend/internal/testutil"
	"github.com/docdrop/backend/internal/workspace"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	e          *echo.Echo
	store      *testutil.MockStorage
	workspaces *workspace.Manager
	exports    *export.Manager
}

func newTestServer(t *testing.T, maxFiles int) *testServer {
	t.Helper()
	store := testutil.NewMockStorage()
	wm := workspace.NewManager(store, workspace.Options{MaxFiles: maxFiles})
	em, err := export.NewManager(t.TempDir(), wm, store)
	require.NoError(t, err)

	e := echo.New()
	SetupMiddleware(e)
	RegisterRoutes(e, NewHandlers(&Dependencies{
		Workspaces: wm,
		Exports:    em,
		Previewer:  preview.NewCSVPreviewer(3),
		Version:    "test",
	}))

	return &testServer{e: e, store: store, workspaces: wm, exports: em}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(method, path string, body interface{}) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return s.do(req)
}

type testFile struct {
	name    string
	content string
}

// multipartBody builds a form with repeated "file" parts and matching
// "lastModified" values.
func multipartBody(t *testing.T, files ...testFile) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	for i, f := range files {
		part, err := writer.CreateFormFile("file", f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
		mod := time.Date(2024, 6, 1, 8, 0, i, 0, time.UTC).UnixMilli()
		require.NoError(t, writer.WriteField("lastModified", fmt.Sprint(mod)))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func (s *testServer) upload(t *testing.T, id string, files ...testFile) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, files...)
	req := httptest.NewRequest(http.MethodPost, "/api/workspaces/"+id+"/files", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	return s.do(req)
}

func (s *testServer) createWorkspace(t *testing.T) string {
	t.Helper()
	rec := s.doJSON(http.MethodPost, "/api/workspaces", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	view := decodeView(t, rec)
	return view.ID
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) models.WorkspaceView {
	t.Helper()
	var view models.WorkspaceView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func fileID(t *testing.T, view models.WorkspaceView, name string) string {
	t.Helper()
	for _, f := range view.Files {
		if f.Name == name {
			return f.ID
		}
	}
	t.Fatalf("file %q not in workspace", name)
	return ""
}

func pdf(name string) testFile {
	return testFile{name: name, content: "%PDF-1.4 " + strings.ToUpper(name)}
}
