// Package archive packs export entries into a zip file and fingerprints the
// resulting bytes with BLAKE3.
package archive

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/zeebo/blake3"
)

// ErrDuplicateEntry is returned when an entry name is added twice.
var ErrDuplicateEntry = errors.New("duplicate archive entry")

// Writer writes a zip archive entry by entry.
type Writer struct {
	zw     *zip.Writer
	hasher *blake3.Hasher
	names  map[string]struct{}
	size   int64
	closed bool
}

// NewWriter starts an archive on w.
func NewWriter(w io.Writer) *Writer {
	hasher := blake3.New()
	return &Writer{
		zw:     zip.NewWriter(io.MultiWriter(w, hasher)),
		hasher: hasher,
		names:  make(map[string]struct{}),
	}
}

// Add copies r into a new deflated entry and returns the bytes read.
func (a *Writer) Add(name string, modified time.Time, r io.Reader) (int64, error) {
	if _, ok := a.names[name]; ok {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateEntry, name)
	}

	hdr := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	}
	ew, err := a.zw.CreateHeader(hdr)
	if err != nil {
		return 0, fmt.Errorf("creating entry %s: %w", name, err)
	}

	n, err := io.Copy(ew, r)
	if err != nil {
		return n, fmt.Errorf("writing entry %s: %w", name, err)
	}

	a.names[name] = struct{}{}
	a.size += n
	return n, nil
}

// Entries returns the number of entries written.
func (a *Writer) Entries() int {
	return len(a.names)
}

// Close finishes the archive. It does not close the underlying writer.
func (a *Writer) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	return a.zw.Close()
}

// Digest returns the hex BLAKE3 digest of the archive bytes written so far.
// Call it after Close to cover the whole file.
func (a *Writer) Digest() string {
	return hex.EncodeToString(a.hasher.Sum(nil))
}
