package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docdrop/backend/internal/archive"
	"github.com/docdrop/backend/internal/manifest"
	"github.com/docdrop/backend/internal/models"
	"github.com/docdrop/backend/internal/naming"
	"github.com/docdrop/backend/internal/storage"
	"github.com/docdrop/backend/internal/workspace"
	"github.com/docdrop/backend/pkg/ui"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type renameOptions struct {
	dir        string
	prefix     string
	manifest   string
	out        string
	extensions []string
	maxFiles   int
	dryRun     bool
	quiet      bool
}

type renameResult struct {
	Archive string
	Plan    []workspace.PlannedFile
	Digest  string
	Blocked *models.BlockedFile
}

var renameOpts renameOptions

var renameCmd = &cobra.Command{
	Use:   "rename [directory]",
	Short: "Rename the documents of a directory and pack them into a zip archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.PrintBanner(Version)
		opts := renameOpts
		opts.dir = args[0]

		res, err := runRename(opts)
		if err != nil {
			if res != nil && res.Blocked != nil {
				ui.Error("First blocked file: %s (%s)", res.Blocked.Name, res.Blocked.Status.Message)
			}
			return err
		}

		for _, entry := range res.Plan {
			fmt.Printf("  %s %s %s\n", entry.Original, ui.Subtle("->"), entry.Name)
		}
		if opts.dryRun {
			ui.Info("Dry run: %d file(s) would be written to %s", len(res.Plan), res.Archive)
			return nil
		}
		ui.Success("Wrote %d file(s) to %s", len(res.Plan), res.Archive)
		ui.Info("BLAKE3 %s", res.Digest)
		return nil
	},
}

func init() {
	renameCmd.Flags().StringVarP(&renameOpts.prefix, "prefix", "p", "", "filename prefix (overrides the manifest prefix)")
	renameCmd.Flags().StringVarP(&renameOpts.manifest, "manifest", "m", "", "YAML metadata manifest (default <directory>/docdrop.yaml)")
	renameCmd.Flags().StringVarP(&renameOpts.out, "out", "o", "", "output archive (default <prefix>-export.zip)")
	renameCmd.Flags().StringSliceVar(&renameOpts.extensions, "ext", []string{".pdf"}, "extensions of files to rename")
	renameCmd.Flags().IntVar(&renameOpts.maxFiles, "max-files", workspace.DefaultMaxFiles, "maximum number of files")
	renameCmd.Flags().BoolVar(&renameOpts.dryRun, "dry-run", false, "print the name plan without writing the archive")
	renameCmd.Flags().BoolVarP(&renameOpts.quiet, "quiet", "q", false, "hide the progress bar")
	rootCmd.AddCommand(renameCmd)
}

// runRename loads a directory into a scratch workspace, applies the
// manifest and writes the archive. A blocked export returns the first
// blocked file alongside the error.
func runRename(opts renameOptions) (*renameResult, error) {
	entries, err := listFiles(opts.dir)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no files in %s", opts.dir)
	}

	scratch, err := os.MkdirTemp("", "docdrop-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	store, err := storage.NewLocalStore(scratch)
	if err != nil {
		return nil, err
	}
	wm := workspace.NewManager(store, workspace.Options{
		MaxFiles:  opts.maxFiles,
		Renamable: workspace.ExtensionPredicate(opts.extensions),
	})
	ws := wm.Create()

	if err := addDirectory(wm, ws.ID, opts.dir, entries); err != nil {
		return nil, err
	}

	manifestPath := opts.manifest
	if manifestPath == "" {
		manifestPath = filepath.Join(opts.dir, "docdrop.yaml")
	}
	mf, err := manifest.Load(manifestPath)
	switch {
	case err == nil:
		res, err := wm.ImportMetadata(ws.ID, mf)
		if err != nil {
			return nil, err
		}
		for _, name := range res.Unmatched {
			ui.Warn("Manifest entry %s matches no file", name)
		}
	case opts.manifest == "" && errors.Is(err, os.ErrNotExist):
		// No manifest: only passthrough files can be exported.
	default:
		return nil, fmt.Errorf("loading manifest: %w", err)
	}

	if opts.prefix != "" {
		if _, err := wm.SetPrefix(ws.ID, opts.prefix); err != nil {
			return nil, err
		}
	}

	view, err := wm.Get(ws.ID)
	if err != nil {
		return nil, err
	}
	if !view.Gate.Ready {
		return &renameResult{Blocked: view.Gate.FirstBlocked}, fmt.Errorf("%w: not all files are ready", naming.ErrInvalidExport)
	}

	plan, prefix, err := wm.Plan(ws.ID)
	if err != nil {
		return nil, err
	}

	res := &renameResult{Plan: plan, Archive: opts.out}
	if res.Archive == "" {
		res.Archive = naming.ArchiveName(prefix)
	}
	if opts.dryRun {
		return res, nil
	}

	digest, err := writeArchive(res.Archive, plan, store, opts.quiet)
	if err != nil {
		return nil, err
	}
	res.Digest = digest
	return res, nil
}

// listFiles returns the regular files of dir in name order. Hidden files
// and YAML manifests are skipped.
func listFiles(dir string) ([]os.DirEntry, error) {
	all, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var files []os.DirEntry
	for _, e := range all {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		if ext := strings.ToLower(filepath.Ext(name)); ext == ".yaml" || ext == ".yml" {
			continue
		}
		files = append(files, e)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
	return files, nil
}

func addDirectory(wm *workspace.Manager, id, dir string, entries []os.DirEntry) error {
	uploads := make([]workspace.Upload, 0, len(entries))
	var opened []*os.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			return err
		}
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		opened = append(opened, f)
		uploads = append(uploads, workspace.Upload{
			Name:         e.Name(),
			LastModified: info.ModTime(),
			Content:      f,
		})
	}

	_, err := wm.AddFiles(id, uploads)
	return err
}

func writeArchive(path string, plan []workspace.PlannedFile, store storage.Store, quiet bool) (string, error) {
	var total int64
	for _, entry := range plan {
		info, err := store.Get(entry.FileID)
		if err != nil {
			return "", err
		}
		total += info.Size
	}

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating archive: %w", err)
	}

	bar := progressbar.DefaultBytes(total, "packing")
	if quiet {
		bar = progressbar.DefaultBytesSilent(total, "packing")
	}

	aw := archive.NewWriter(out)
	for _, entry := range plan {
		if err := addEntry(aw, store, entry, bar); err != nil {
			out.Close()
			os.Remove(path)
			return "", err
		}
	}
	if err := aw.Close(); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("finishing archive: %w", err)
	}
	bar.Finish()

	if err := out.Close(); err != nil {
		return "", err
	}
	return aw.Digest(), nil
}

func addEntry(aw *archive.Writer, store storage.Store, entry workspace.PlannedFile, bar io.Writer) error {
	rc, err := store.Open(entry.FileID)
	if err != nil {
		return err
	}
	defer rc.Close()

	_, err = aw.Add(entry.Name, entry.Modified, io.TeeReader(rc, bar))
	return err
}
