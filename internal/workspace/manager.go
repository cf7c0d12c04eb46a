package workspace

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/docdrop/backend/internal/manifest"
	"github.com/docdrop/backend/internal/models"
	"github.com/docdrop/backend/internal/storage"
	"github.com/google/uuid"
)

// DefaultMaxFiles caps the files held by one workspace.
const DefaultMaxFiles = 50

// Upload is one file of an upload batch.
type Upload struct {
	Name         string
	LastModified time.Time
	Content      io.Reader
}

// ImportResult reports how a manifest was applied.
type ImportResult struct {
	Applied   []string `json:"applied"`
	Unmatched []string `json:"unmatched"`
	Prefix    string   `json:"prefix,omitempty"`
}

// Options configures a Manager.
type Options struct {
	MaxFiles int
	// Renamable decides which files take naming metadata. Defaults to PDFs.
	Renamable func(name string) bool
}

// Manager owns all workspaces. Each call applies one transition atomically.
type Manager struct {
	workspaces map[string]*Workspace
	mu         sync.RWMutex
	store      storage.Store
	maxFiles   int
	renamable  func(name string) bool
}

// NewManager creates a workspace manager backed by store.
func NewManager(store storage.Store, opts Options) *Manager {
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = DefaultMaxFiles
	}
	if opts.Renamable == nil {
		opts.Renamable = ExtensionPredicate([]string{".pdf"})
	}
	return &Manager{
		workspaces: make(map[string]*Workspace),
		store:      store,
		maxFiles:   opts.MaxFiles,
		renamable:  opts.Renamable,
	}
}

// MaxFiles returns the per-workspace file cap.
func (m *Manager) MaxFiles() int {
	return m.maxFiles
}

// Count returns the number of open workspaces.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workspaces)
}

// Create starts an empty workspace.
func (m *Manager) Create() *models.WorkspaceView {
	w := newWorkspace(uuid.New().String())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.workspaces[w.ID] = w
	return w.view(m.maxFiles)
}

// Get returns the current state of a workspace, with statuses and the export
// gate computed on demand.
func (m *Manager) Get(id string) (*models.WorkspaceView, error) {
	return m.apply(id, func(w *Workspace) error { return nil })
}

// Delete drops a workspace and its stored files.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	w, ok := m.workspaces[id]
	if ok {
		delete(m.workspaces, id)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.purge(w.Files)
	return nil
}

// AddFiles stores an upload batch. A batch that would push the workspace over
// its cap is rejected as a whole with a *LimitError and nothing is stored.
func (m *Manager) AddFiles(id string, uploads []Upload) (*models.WorkspaceView, error) {
	m.mu.RLock()
	w, ok := m.workspaces[id]
	var current int
	if ok {
		current = len(w.Files)
	}
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := m.checkLimit(current, len(uploads)); err != nil {
		return nil, err
	}

	saved := make([]*models.FileInfo, 0, len(uploads))
	for _, u := range uploads {
		info, err := m.store.Save(u.Name, u.Content)
		if err != nil {
			m.purge(saved)
			return nil, fmt.Errorf("storing %s: %w", u.Name, err)
		}
		info.LastModified = u.LastModified
		info.Key = models.NewFileKey(u.Name, info.Size, u.LastModified)
		info.Renamable = m.renamable(u.Name)
		saved = append(saved, info)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Payloads are written outside the lock, so re-check against the state
	// the batch is actually applied to.
	w, ok = m.workspaces[id]
	if !ok {
		m.purge(saved)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := m.checkLimit(len(w.Files), len(saved)); err != nil {
		m.purge(saved)
		return nil, err
	}

	for _, info := range saved {
		w.addFile(info)
	}
	w.LastAccessed = time.Now()
	return w.view(m.maxFiles), nil
}

// RemoveFile drops a file from the workspace and from storage.
func (m *Manager) RemoveFile(id, fileID string) (*models.WorkspaceView, error) {
	var removed *models.FileInfo
	view, err := m.apply(id, func(w *Workspace) error {
		info, err := w.removeFile(fileID)
		removed = info
		return err
	})
	if err != nil {
		return nil, err
	}
	m.purge([]*models.FileInfo{removed})
	return view, nil
}

// SetField edits one metadata field of a renamable file.
func (m *Manager) SetField(id, fileID string, field models.Field, value string) (*models.WorkspaceView, error) {
	return m.apply(id, func(w *Workspace) error {
		return w.setField(fileID, field, value)
	})
}

// SetMetadata replaces the metadata record of a renamable file.
func (m *Manager) SetMetadata(id, fileID string, rec models.Metadata) (*models.WorkspaceView, error) {
	return m.apply(id, func(w *Workspace) error {
		return w.setMetadata(fileID, rec)
	})
}

// SetPrefix sets the global filename prefix. Its validity is checked when
// the workspace is read or exported, not here.
func (m *Manager) SetPrefix(id, prefix string) (*models.WorkspaceView, error) {
	return m.apply(id, func(w *Workspace) error {
		w.setPrefix(prefix)
		return nil
	})
}

// Select marks a file as the one under edit.
func (m *Manager) Select(id, fileID string) (*models.WorkspaceView, error) {
	return m.apply(id, func(w *Workspace) error {
		return w.selectFile(fileID)
	})
}

// ImportMetadata fills metadata of renamable files from a manifest, matching
// on the original file name. A non-empty manifest prefix replaces the
// workspace prefix.
func (m *Manager) ImportMetadata(id string, mf *manifest.Manifest) (*ImportResult, error) {
	res := &ImportResult{Applied: []string{}, Unmatched: []string{}}

	_, err := m.apply(id, func(w *Workspace) error {
		matched := make(map[string]bool)
		for _, f := range w.Files {
			if !f.Renamable {
				continue
			}
			rec, ok := mf.Lookup(f.Name)
			if !ok {
				continue
			}
			if err := w.setMetadata(f.ID, rec); err != nil {
				return err
			}
			if !matched[f.Name] {
				res.Applied = append(res.Applied, f.Name)
			}
			matched[f.Name] = true
		}
		for name := range mf.Files {
			if !matched[name] {
				res.Unmatched = append(res.Unmatched, name)
			}
		}
		sort.Strings(res.Unmatched)
		if mf.Prefix != "" {
			w.setPrefix(mf.Prefix)
			res.Prefix = mf.Prefix
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Plan computes the output name of every file. It fails with
// naming.ErrInvalidExport when the prefix is invalid or a renamable file is
// not ready.
func (m *Manager) Plan(id string) ([]PlannedFile, string, error) {
	var plan []PlannedFile
	var prefix string
	_, err := m.apply(id, func(w *Workspace) error {
		p, err := w.plan()
		plan = p
		prefix = w.Prefix
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return plan, prefix, nil
}

// Touch refreshes the last-access time of a workspace.
func (m *Manager) Touch(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.workspaces[id]
	if !ok {
		return false
	}
	w.LastAccessed = time.Now()
	return true
}

// CleanupStale removes workspaces not accessed within maxAge.
func (m *Manager) CleanupStale(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	var stale []*Workspace
	for id, w := range m.workspaces {
		if w.LastAccessed.Before(cutoff) {
			stale = append(stale, w)
			delete(m.workspaces, id)
		}
	}
	m.mu.Unlock()

	for _, w := range stale {
		m.purge(w.Files)
		fmt.Printf("[Workspace] Cleaned up stale workspace %s (last accessed: %s ago)\n",
			w.ID[:8], time.Since(w.LastAccessed).Round(time.Second))
	}
	return len(stale)
}

// apply runs a transition under the write lock and returns the new state.
// A failed transition leaves LastAccessed untouched.
func (m *Manager) apply(id string, fn func(w *Workspace) error) (*models.WorkspaceView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.workspaces[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := fn(w); err != nil {
		return nil, err
	}
	w.LastAccessed = time.Now()
	return w.view(m.maxFiles), nil
}

func (m *Manager) checkLimit(current, adding int) error {
	if current+adding > m.maxFiles {
		return &LimitError{Current: current, Adding: adding, Max: m.maxFiles}
	}
	return nil
}

func (m *Manager) purge(files []*models.FileInfo) {
	for _, f := range files {
		if err := m.store.Delete(f.ID); err != nil {
			fmt.Printf("[Workspace] Warning: failed to delete stored file %s: %v\n", f.ID, err)
		}
	}
}
