package preview

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVPreviewer_Preview(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxRows   int
		headers   []string
		rows      [][]string
		total     int
		truncated bool
	}{
		{
			name:    "semicolon delimited",
			input:   "id;name;city\n1;Ada;London\n2;Linus;Helsinki\n",
			headers: []string{"id", "name", "city"},
			rows:    [][]string{{"1", "Ada", "London"}, {"2", "Linus", "Helsinki"}},
			total:   2,
		},
		{
			name:    "commas are data",
			input:   "a;b\n1,5;2,5\n",
			headers: []string{"a", "b"},
			rows:    [][]string{{"1,5", "2,5"}},
			total:   1,
		},
		{
			name:    "crlf and blank lines",
			input:   "h1;h2\r\n\r\nx;y\r\n\r\n",
			headers: []string{"h1", "h2"},
			rows:    [][]string{{"x", "y"}},
			total:   1,
		},
		{
			name:    "ragged rows",
			input:   "a;b;c\n1\n1;2;3;4\n",
			headers: []string{"a", "b", "c"},
			rows:    [][]string{{"1"}, {"1", "2", "3", "4"}},
			total:   2,
		},
		{
			name:    "header only",
			input:   "a;b\n",
			headers: []string{"a", "b"},
			rows:    [][]string{},
			total:   0,
		},
		{
			name:    "byte order mark",
			input:   "\uFEFFid;v\n1;2\n",
			headers: []string{"id", "v"},
			rows:    [][]string{{"1", "2"}},
			total:   1,
		},
		{
			name:    "quoted delimiter and line break",
			input:   "sku;note\nA1;\"12; inch\nbox\"\nB2;plain\n",
			headers: []string{"sku", "note"},
			rows:    [][]string{{"A1", "12; inch\nbox"}, {"B2", "plain"}},
			total:   2,
		},
		{
			name:      "row cap",
			input:     "n\n1\n2\n3\n4\n",
			maxRows:   2,
			headers:   []string{"n"},
			rows:      [][]string{{"1"}, {"2"}},
			total:     4,
			truncated: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewCSVPreviewer(tt.maxRows)
			got, err := p.Preview("data.csv", strings.NewReader(tt.input))
			require.NoError(t, err)

			assert.Equal(t, "data.csv", got.Name)
			assert.Equal(t, tt.headers, got.Headers)
			assert.Equal(t, tt.rows, got.Rows)
			assert.Equal(t, tt.total, got.TotalRows)
			assert.Equal(t, tt.truncated, got.Truncated)
		})
	}
}

func TestCSVPreviewer_Errors(t *testing.T) {
	p := NewCSVPreviewer(0)

	for _, input := range []string{"", "\n\n", "\r\n", "\uFEFF\n", ";;\n"} {
		_, err := p.Preview("empty.csv", strings.NewReader(input))
		require.Error(t, err, "input %q", input)
		assert.True(t, errors.Is(err, ErrParse))
		assert.Contains(t, err.Error(), "empty input")
	}
}

func TestCSVPreviewer_UnbalancedQuote(t *testing.T) {
	p := NewCSVPreviewer(0)

	got, err := p.Preview("parts.csv", strings.NewReader("name;note\nx;\"12 inch\ny;z\nw;v\n"))
	require.Error(t, err)
	assert.Nil(t, got)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Greater(t, parseErr.Line, 0)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestCSVPreviewer_PreviewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("name;age\nAda;36\n"), 0644))

	got, err := NewCSVPreviewer(10).PreviewFile(path)
	require.NoError(t, err)
	assert.Equal(t, "people.csv", got.Name)
	assert.Equal(t, []string{"name", "age"}, got.Headers)

	_, err = NewCSVPreviewer(10).PreviewFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrParse))
}
