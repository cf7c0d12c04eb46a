package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	yamlContent := `
prefix: ACME
files:
  scan-001.pdf:
    distributor: Acme Corp
    document_number: INV-7
    date: "2024-03-01"
  scan-002.pdf:
    distributor: Globex
    document_number: "0042"
    date: "2024-03-02"
`
	m, err := Parse(strings.NewReader(yamlContent))
	require.NoError(t, err)

	assert.Equal(t, "ACME", m.Prefix)
	assert.Len(t, m.Files, 2)

	rec, ok := m.Lookup("scan-002.pdf")
	require.True(t, ok)
	assert.Equal(t, "Globex", rec.Distributor)
	assert.Equal(t, "0042", rec.DocumentNumber)
	assert.Equal(t, "2024-03-02", rec.Date)

	_, ok = m.Lookup("missing.pdf")
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		empty   bool
	}{
		{name: "empty input", content: "", empty: true},
		{name: "no entries", content: "files: {}\n", empty: true},
		{name: "unknown field", content: "files:\n  a.pdf:\n    distrib: x\n"},
		{name: "malformed", content: "files: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.content))
			require.Error(t, err)
			if tt.empty {
				assert.ErrorIs(t, err, ErrEmpty)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prefix: HQ\n"), 0644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "HQ", m.Prefix)
	assert.Empty(t, m.Files)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
