package naming

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docdrop/backend/internal/models"
)

// DefaultExtension is used for renamable files whose name has no extension.
const DefaultExtension = ".pdf"

// Item is a file taking part in a name plan.
type Item struct {
	Key  models.FileKey
	Name string
}

// Assignment binds an output name to the file it was computed for.
type Assignment struct {
	Name string         `json:"name"`
	Key  models.FileKey `json:"key"`
}

// BuildNames computes a unique output name for every item. Passthrough items
// keep their original name; renamable items are named
// prefix-distributor-documentNumber-date.ext from their metadata. Passthrough
// items are placed first, then renamable items, each in input order. A name
// already taken gets -2, -3, ... inserted before its extension.
//
// BuildNames fails with ErrInvalidExport when the prefix is invalid or any
// renamable item is not ready.
func BuildNames(renamable []Item, metadata map[models.FileKey]*models.Metadata, prefix string, passthrough []Item) ([]Assignment, error) {
	cleanPrefix := Sanitize(prefix)
	if cleanPrefix == "" {
		return nil, &ExportError{Reason: MsgInvalidPrefix}
	}

	for _, it := range renamable {
		if st := ResolveStatus(metadata[it.Key], true, prefix); !st.Ready() {
			return nil, &ExportError{Reason: st.Message, Name: it.Name, Status: st}
		}
	}

	taken := make(map[string]struct{}, len(renamable)+len(passthrough))
	out := make([]Assignment, 0, len(renamable)+len(passthrough))

	for _, it := range passthrough {
		base, ext := splitExt(it.Name)
		out = append(out, Assignment{Name: claim(taken, base, ext), Key: it.Key})
	}

	for _, it := range renamable {
		rec := metadata[it.Key]
		base := strings.Join([]string{
			cleanPrefix,
			Sanitize(rec.Distributor),
			Sanitize(rec.DocumentNumber),
			strings.TrimSpace(rec.Date),
		}, "-")
		out = append(out, Assignment{Name: claim(taken, base, renamedExt(it.Name)), Key: it.Key})
	}

	return out, nil
}

// NameMap returns the plan as an output-name to file-key mapping.
func NameMap(plan []Assignment) map[string]models.FileKey {
	m := make(map[string]models.FileKey, len(plan))
	for _, a := range plan {
		m[a.Name] = a.Key
	}
	return m
}

// ArchiveName is the download name of an export for the given prefix.
func ArchiveName(prefix string) string {
	return Sanitize(prefix) + "-export.zip"
}

func claim(taken map[string]struct{}, base, ext string) string {
	name := base + ext
	for n := 2; ; n++ {
		if _, ok := taken[name]; !ok {
			break
		}
		name = fmt.Sprintf("%s-%d%s", base, n, ext)
	}
	taken[name] = struct{}{}
	return name
}

// splitExt splits off the extension. A leading dot alone (".env") is part of
// the base name.
func splitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

func renamedExt(name string) string {
	_, ext := splitExt(name)
	if ext == "" {
		return DefaultExtension
	}
	return strings.ToLower(ext)
}
