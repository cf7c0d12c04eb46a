// Package preview turns delimited text files into a header plus rows view.
package preview

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/docdrop/backend/internal/models"
)

// ErrParse marks malformed or empty tabular input.
var ErrParse = errors.New("parse error")

// DefaultDelimiter separates fields of the previewed files.
const DefaultDelimiter = ';'

// DefaultMaxRows caps the rows returned by a preview.
const DefaultMaxRows = 500

const utf8BOM = "\uFEFF"

// ParseError reports where tabular input could not be read.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", ErrParse, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrParse, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// CSVPreviewer reads delimited files. The first row is the header; blank
// lines are skipped and rows may have differing field counts. Quoted fields
// may hold the delimiter or line breaks; an unbalanced quote is a ParseError.
type CSVPreviewer struct {
	delimiter rune
	maxRows   int
}

// NewCSVPreviewer creates a previewer returning at most maxRows data rows.
// A non-positive maxRows means DefaultMaxRows.
func NewCSVPreviewer(maxRows int) *CSVPreviewer {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &CSVPreviewer{
		delimiter: DefaultDelimiter,
		maxRows:   maxRows,
	}
}

// PreviewFile previews a file on disk.
func (p *CSVPreviewer) PreviewFile(path string) (*models.CSVPreview, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return p.Preview(filepath.Base(path), file)
}

// Preview reads the whole input. Rows past the cap are counted in TotalRows
// but not returned.
func (p *CSVPreviewer) Preview(name string, r io.Reader) (*models.CSVPreview, error) {
	reader := csv.NewReader(r)
	reader.Comma = p.delimiter
	reader.FieldsPerRecord = -1

	out := &models.CSVPreview{
		Name: name,
		Rows: make([][]string, 0),
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, toParseError(err)
		}

		if out.Headers == nil {
			record[0] = strings.TrimPrefix(record[0], utf8BOM)
			if blankRecord(record) {
				return nil, &ParseError{Reason: "empty input"}
			}
			out.Headers = record
			continue
		}

		out.TotalRows++
		if len(out.Rows) < p.maxRows {
			out.Rows = append(out.Rows, record)
		} else {
			out.Truncated = true
		}
	}

	if out.Headers == nil {
		return nil, &ParseError{Reason: "empty input"}
	}
	return out, nil
}

func blankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func toParseError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Line: csvErr.Line, Reason: csvErr.Err.Error()}
	}
	return &ParseError{Reason: err.Error()}
}
