// Package manifest reads YAML sidecar files that carry naming metadata for a
// batch of documents, keyed by their original file name.
//
//	prefix: ACME
//	files:
//	  scan-001.pdf:
//	    distributor: Acme Corp
//	    document_number: INV-7
//	    date: "2024-03-01"
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/docdrop/backend/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrEmpty is returned for a manifest without prefix and file entries.
var ErrEmpty = errors.New("manifest has no entries")

// Manifest maps original file names to their metadata.
type Manifest struct {
	Prefix string                     `yaml:"prefix"`
	Files  map[string]models.Metadata `yaml:"files"`
}

// Load parses a manifest file from disk.
func Load(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse decodes a manifest. Unknown keys are rejected so that a misspelled
// field does not silently leave metadata empty.
func Parse(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	if m.Prefix == "" && len(m.Files) == 0 {
		return nil, ErrEmpty
	}
	return &m, nil
}

// Lookup returns the metadata for a file name.
func (m *Manifest) Lookup(name string) (models.Metadata, bool) {
	rec, ok := m.Files[name]
	return rec, ok
}
