// Package export runs export jobs: it takes a workspace's name plan, packs
// the stored files into a zip archive one at a time and keeps the archive
// available for download.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/docdrop/backend/internal/archive"
	"github.com/docdrop/backend/internal/naming"
	"github.com/docdrop/backend/internal/workspace"
	"github.com/google/uuid"
)

var (
	// ErrJobNotFound is returned for unknown job IDs.
	ErrJobNotFound = errors.New("export job not found")

	// ErrNotReady is returned when downloading a job that has not completed.
	ErrNotReady = errors.New("export not complete")
)

// Status represents the export job status.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusPacking    Status = "packing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// Job represents an async export job.
type Job struct {
	ID          string                  `json:"id"`
	WorkspaceID string                  `json:"workspaceId"`
	FileName    string                  `json:"fileName"`
	Entries     []workspace.PlannedFile `json:"entries"`
	TotalFiles  int                     `json:"totalFiles"`
	FilesDone   int                     `json:"filesDone"`
	Status      Status                  `json:"status"`
	Progress    float64                 `json:"progress"`
	Stage       string                  `json:"stage"`
	Size        int64                   `json:"size,omitempty"`
	Digest      string                  `json:"digest,omitempty"`
	Error       string                  `json:"error,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
	CompletedAt *time.Time              `json:"completedAt,omitempty"`
}

// Done reports whether the job reached a final status.
func (j *Job) Done() bool {
	return j.Status == StatusComplete || j.Status == StatusError
}

// Planner produces the name plan of a workspace.
type Planner interface {
	Plan(workspaceID string) ([]workspace.PlannedFile, string, error)
}

// Source opens stored file payloads.
type Source interface {
	Open(id string) (io.ReadCloser, error)
}

// Manager handles async export processing.
type Manager struct {
	jobs      map[string]*Job
	mu        sync.RWMutex
	exportDir string
	planner   Planner
	source    Source
}

// NewManager creates an export manager writing archives to exportDir.
func NewManager(exportDir string, planner Planner, source Source) (*Manager, error) {
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	return &Manager{
		jobs:      make(map[string]*Job),
		exportDir: exportDir,
		planner:   planner,
		source:    source,
	}, nil
}

// StartJob plans the export of a workspace and packs it in the background.
// Planning runs synchronously, so an export that is not allowed fails here
// with naming.ErrInvalidExport and no job is created.
func (m *Manager) StartJob(workspaceID string) (*Job, error) {
	plan, prefix, err := m.planner.Plan(workspaceID)
	if err != nil {
		return nil, err
	}

	job := &Job{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		FileName:    naming.ArchiveName(prefix),
		Entries:     plan,
		TotalFiles:  len(plan),
		Status:      StatusProcessing,
		Stage:       "preparing",
		CreatedAt:   time.Now(),
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	snapshot := *job
	m.mu.Unlock()

	go m.processJob(job)

	return &snapshot, nil
}

// GetJob returns a snapshot of a job.
func (m *Manager) GetJob(id string) (*Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, false
	}
	snapshot := *job
	return &snapshot, true
}

// OpenArchive opens the finished archive of a job.
func (m *Manager) OpenArchive(id string) (*os.File, *Job, error) {
	job, ok := m.GetJob(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if job.Status != StatusComplete {
		return nil, job, fmt.Errorf("%w: %s is %s", ErrNotReady, id, job.Status)
	}

	f, err := os.Open(m.archivePath(id))
	if err != nil {
		return nil, job, fmt.Errorf("opening archive: %w", err)
	}
	return f, job, nil
}

// processJob writes the archive. Files are read one after another into a
// single archive.
func (m *Manager) processJob(job *Job) {
	fmt.Printf("[ExportJob %s] Starting export: %s (%d files)\n", job.ID[:8], job.FileName, job.TotalFiles)

	path := m.archivePath(job.ID)
	out, err := os.Create(path)
	if err != nil {
		m.markJobError(job, fmt.Sprintf("failed to create archive: %v", err))
		return
	}

	aw := archive.NewWriter(out)
	for i, entry := range job.Entries {
		m.updateJobStatus(job, StatusPacking, "adding "+entry.Name, i)

		if err := m.addEntry(aw, entry, job.CreatedAt); err != nil {
			out.Close()
			os.Remove(path)
			m.markJobError(job, fmt.Sprintf("failed to add %s: %v", entry.Original, err))
			return
		}
	}

	if err := aw.Close(); err != nil {
		out.Close()
		os.Remove(path)
		m.markJobError(job, fmt.Sprintf("failed to finish archive: %v", err))
		return
	}

	stat, err := out.Stat()
	out.Close()
	if err != nil {
		os.Remove(path)
		m.markJobError(job, fmt.Sprintf("failed to stat archive: %v", err))
		return
	}

	m.markJobComplete(job, stat.Size(), aw.Digest())
	fmt.Printf("[ExportJob %s] Export complete: %s (%d bytes)\n", job.ID[:8], job.FileName, stat.Size())
}

func (m *Manager) addEntry(aw *archive.Writer, entry workspace.PlannedFile, fallback time.Time) error {
	rc, err := m.source.Open(entry.FileID)
	if err != nil {
		return err
	}
	defer rc.Close()

	modified := entry.Modified
	if modified.IsZero() {
		modified = fallback
	}
	_, err = aw.Add(entry.Name, modified, rc)
	return err
}

// updateJobStatus updates job progress (thread-safe).
func (m *Manager) updateJobStatus(job *Job, status Status, stage string, filesDone int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.Status = status
	job.Stage = stage
	job.FilesDone = filesDone
	if job.TotalFiles > 0 {
		job.Progress = float64(filesDone) / float64(job.TotalFiles) * 100
	}
}

// markJobComplete marks job as complete (thread-safe).
func (m *Manager) markJobComplete(job *Job, size int64, digest string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.Status = StatusComplete
	job.Stage = "done"
	job.FilesDone = job.TotalFiles
	job.Progress = 100
	job.Size = size
	job.Digest = digest
	now := time.Now()
	job.CompletedAt = &now
}

// markJobError marks job as failed (thread-safe).
func (m *Manager) markJobError(job *Job, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.Status = StatusError
	job.Error = errMsg
	now := time.Now()
	job.CompletedAt = &now
	fmt.Printf("[ExportJob %s] Error: %s\n", job.ID[:8], errMsg)
}

// CleanupOldJobs removes finished jobs older than maxAge and their archives.
func (m *Manager) CleanupOldJobs(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, job := range m.jobs {
		if !job.Done() || job.CompletedAt == nil || !job.CompletedAt.Before(cutoff) {
			continue
		}
		if err := os.Remove(m.archivePath(id)); err != nil && !os.IsNotExist(err) {
			fmt.Printf("[ExportJob %s] Warning: failed to remove archive: %v\n", id[:8], err)
		}
		delete(m.jobs, id)
		removed++
	}
	return removed
}

func (m *Manager) archivePath(jobID string) string {
	return filepath.Join(m.exportDir, jobID+".zip")
}
