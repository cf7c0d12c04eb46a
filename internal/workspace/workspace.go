// Package workspace holds the per-user application state of the export tool:
// uploaded files in input order, naming metadata per file key, the global
// prefix and the current selection. State changes only through the
// transition methods on Workspace.
package workspace

import (
	"fmt"
	"strings"
	"time"

	"github.com/docdrop/backend/internal/models"
	"github.com/docdrop/backend/internal/naming"
)

// Workspace is the application state of one export session.
type Workspace struct {
	ID           string
	Files        []*models.FileInfo
	Metadata     map[models.FileKey]*models.Metadata
	Prefix       string
	Selected     string
	CreatedAt    time.Time
	LastAccessed time.Time
}

func newWorkspace(id string) *Workspace {
	now := time.Now()
	return &Workspace{
		ID:           id,
		Metadata:     make(map[models.FileKey]*models.Metadata),
		CreatedAt:    now,
		LastAccessed: now,
	}
}

// addFile appends a file. A renamable file gets an empty metadata record the
// first time its key is seen; a file sharing the key of an earlier upload
// shares that record.
func (w *Workspace) addFile(info *models.FileInfo) {
	w.Files = append(w.Files, info)
	if info.Renamable {
		if _, ok := w.Metadata[info.Key]; !ok {
			w.Metadata[info.Key] = &models.Metadata{}
		}
	}
}

// removeFile drops a file and returns it. The metadata record goes with the
// last file holding its key.
func (w *Workspace) removeFile(fileID string) (*models.FileInfo, error) {
	idx := w.indexOf(fileID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, fileID)
	}

	info := w.Files[idx]
	w.Files = append(w.Files[:idx], w.Files[idx+1:]...)

	if !w.hasKey(info.Key) {
		delete(w.Metadata, info.Key)
	}
	if w.Selected == fileID {
		w.Selected = ""
	}
	return info, nil
}

func (w *Workspace) setField(fileID string, field models.Field, value string) error {
	rec, err := w.metadataFor(fileID)
	if err != nil {
		return err
	}
	if !rec.Set(field, value) {
		return fmt.Errorf("%w: unknown field %q", naming.ErrValidation, field)
	}
	return nil
}

func (w *Workspace) setMetadata(fileID string, value models.Metadata) error {
	rec, err := w.metadataFor(fileID)
	if err != nil {
		return err
	}
	*rec = value
	return nil
}

func (w *Workspace) setPrefix(prefix string) {
	w.Prefix = prefix
}

// selectFile sets the selection. An empty ID clears it.
func (w *Workspace) selectFile(fileID string) error {
	if fileID != "" && w.indexOf(fileID) < 0 {
		return fmt.Errorf("%w: %s", ErrFileNotFound, fileID)
	}
	w.Selected = fileID
	return nil
}

func (w *Workspace) metadataFor(fileID string) (*models.Metadata, error) {
	idx := w.indexOf(fileID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, fileID)
	}
	info := w.Files[idx]
	if !info.Renamable {
		return nil, fmt.Errorf("%w: %s", ErrNotRenamable, info.Name)
	}

	rec, ok := w.Metadata[info.Key]
	if !ok {
		rec = &models.Metadata{}
		w.Metadata[info.Key] = rec
	}
	return rec, nil
}

func (w *Workspace) indexOf(fileID string) int {
	for i, f := range w.Files {
		if f.ID == fileID {
			return i
		}
	}
	return -1
}

func (w *Workspace) hasKey(key models.FileKey) bool {
	for _, f := range w.Files {
		if f.Key == key {
			return true
		}
	}
	return false
}

// candidates lists the renamable files for the export gate, in input order.
func (w *Workspace) candidates() []naming.Candidate {
	var out []naming.Candidate
	for _, f := range w.Files {
		if f.Renamable {
			out = append(out, naming.Candidate{ID: f.ID, Name: f.Name, Metadata: w.Metadata[f.Key]})
		}
	}
	return out
}

// plan computes the output names. BuildNames returns passthrough files first
// and renamable files second, each in input order; pairing its result with the
// same ordering recovers the file behind every name even when two files share
// a key.
func (w *Workspace) plan() ([]PlannedFile, error) {
	var renamable, passthrough []naming.Item
	var renamableFiles, passthroughFiles []*models.FileInfo
	for _, f := range w.Files {
		item := naming.Item{Key: f.Key, Name: f.Name}
		if f.Renamable {
			renamable = append(renamable, item)
			renamableFiles = append(renamableFiles, f)
		} else {
			passthrough = append(passthrough, item)
			passthroughFiles = append(passthroughFiles, f)
		}
	}

	assignments, err := naming.BuildNames(renamable, w.Metadata, w.Prefix, passthrough)
	if err != nil {
		return nil, err
	}

	ordered := append(passthroughFiles, renamableFiles...)
	out := make([]PlannedFile, len(assignments))
	for i, a := range assignments {
		out[i] = PlannedFile{
			Name:     a.Name,
			Key:      a.Key,
			FileID:   ordered[i].ID,
			Original: ordered[i].Name,
			Modified: ordered[i].LastModified,
		}
	}
	return out, nil
}

func (w *Workspace) view(maxFiles int) *models.WorkspaceView {
	v := &models.WorkspaceView{
		ID:         w.ID,
		Prefix:     w.Prefix,
		Selected:   w.Selected,
		Files:      make([]models.FileView, 0, len(w.Files)),
		Gate:       naming.CheckExport(w.candidates(), w.Prefix),
		MaxFiles:   maxFiles,
		CreatedAt:  w.CreatedAt,
		LastAccess: w.LastAccessed,
	}

	for _, f := range w.Files {
		fv := models.FileView{FileInfo: *f}
		if f.Renamable {
			rec := w.Metadata[f.Key]
			if rec != nil {
				cp := *rec
				fv.Metadata = &cp
			}
			st := naming.ResolveStatus(rec, false, w.Prefix)
			fv.Status = &st
		}
		v.Files = append(v.Files, fv)
	}
	return v
}

// PlannedFile is one entry of an export: the output name and the stored file
// it is read from.
type PlannedFile struct {
	Name     string         `json:"name"`
	Key      models.FileKey `json:"key"`
	FileID   string         `json:"fileId"`
	Original string         `json:"original"`
	Modified time.Time      `json:"modified"`
}

// ExtensionPredicate returns a renamable-file test matching any of the given
// extensions, case-insensitively.
func ExtensionPredicate(exts []string) func(name string) bool {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = struct{}{}
	}
	return func(name string) bool {
		lower := strings.ToLower(name)
		for e := range set {
			if strings.HasSuffix(lower, e) {
				return true
			}
		}
		return false
	}
}
