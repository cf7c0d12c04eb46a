package naming

import (
	"errors"
	"testing"

	"github.com/docdrop/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(plan []Assignment) []string {
	out := make([]string, len(plan))
	for i, a := range plan {
		out[i] = a.Name
	}
	return out
}

func TestBuildNames_PassthroughCollision(t *testing.T) {
	passthrough := []Item{
		{Key: "a1", Name: "a.txt"},
		{Key: "a2", Name: "a.txt"},
		{Key: "a3", Name: "a.txt"},
	}

	plan, err := BuildNames(nil, nil, "P", passthrough)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "a-2.txt", "a-3.txt"}, names(plan))
	assert.Equal(t, models.FileKey("a2"), plan[1].Key)
}

func TestBuildNames_RenamableCollision(t *testing.T) {
	meta := map[models.FileKey]*models.Metadata{
		"k1": {Distributor: "Acme Corp", DocumentNumber: "42", Date: "2024-01-31"},
		"k2": {Distributor: "Acme   Corp ", DocumentNumber: " 42", Date: "2024-01-31"},
	}
	renamable := []Item{{Key: "k1", Name: "scan1.pdf"}, {Key: "k2", Name: "scan2.PDF"}}

	plan, err := BuildNames(renamable, meta, "HQ", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"HQ-Acme-Corp-42-2024-01-31.pdf",
		"HQ-Acme-Corp-42-2024-01-31-2.pdf",
	}, names(plan))
}

func TestBuildNames_Ordering(t *testing.T) {
	meta := map[models.FileKey]*models.Metadata{
		"r1": {Distributor: "D", DocumentNumber: "1", Date: "2024-01-01"},
	}
	renamable := []Item{{Key: "r1", Name: "x.pdf"}}
	// A passthrough file already holding the renamed name pushes the
	// renamable file to the disambiguated name.
	passthrough := []Item{
		{Key: "p1", Name: "P-D-1-2024-01-01.pdf"},
		{Key: "p2", Name: "notes.txt"},
	}

	plan, err := BuildNames(renamable, meta, "P", passthrough)
	require.NoError(t, err)
	assert.Equal(t, []string{"P-D-1-2024-01-01.pdf", "notes.txt", "P-D-1-2024-01-01-2.pdf"}, names(plan))

	m := NameMap(plan)
	assert.Len(t, m, 3)
	assert.Equal(t, models.FileKey("r1"), m["P-D-1-2024-01-01-2.pdf"])
}

func TestBuildNames_SanitizesSegments(t *testing.T) {
	meta := map[models.FileKey]*models.Metadata{
		"k": {Distributor: " A/B ", DocumentNumber: "no:7", Date: " 2023-12-24 "},
	}
	plan, err := BuildNames([]Item{{Key: "k", Name: "doc"}}, meta, "  my  prefix ", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"my-prefix-A-B-no-7-2023-12-24.pdf"}, names(plan))
}

func TestBuildNames_PassthroughExtensions(t *testing.T) {
	passthrough := []Item{
		{Key: "1", Name: "README"},
		{Key: "2", Name: "README"},
		{Key: "3", Name: ".env"},
		{Key: "4", Name: ".env"},
		{Key: "5", Name: "a.tar.gz"},
		{Key: "6", Name: "a.tar.gz"},
	}
	plan, err := BuildNames(nil, nil, "P", passthrough)
	require.NoError(t, err)
	assert.Equal(t, []string{"README", "README-2", ".env", ".env-2", "a.tar.gz", "a.tar-2.gz"}, names(plan))
}

func TestBuildNames_Errors(t *testing.T) {
	meta := map[models.FileKey]*models.Metadata{
		"ok":  {Distributor: "D", DocumentNumber: "1", Date: "2024-01-01"},
		"bad": {Distributor: "D", DocumentNumber: "1", Date: "soon"},
	}

	t.Run("empty prefix", func(t *testing.T) {
		_, err := BuildNames(nil, meta, "", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidExport))
	})

	t.Run("prefix sanitizes to nothing", func(t *testing.T) {
		_, err := BuildNames(nil, meta, " / ", nil)
		assert.ErrorIs(t, err, ErrInvalidExport)
	})

	t.Run("item not ready", func(t *testing.T) {
		_, err := BuildNames([]Item{{Key: "ok", Name: "a.pdf"}, {Key: "bad", Name: "b.pdf"}}, meta, "P", nil)
		require.ErrorIs(t, err, ErrInvalidExport)

		var exportErr *ExportError
		require.True(t, errors.As(err, &exportErr))
		assert.Equal(t, "b.pdf", exportErr.Name)
		assert.Equal(t, models.StatusInvalid, exportErr.Status.Status)
		assert.Equal(t, MsgInvalidDate, exportErr.Reason)
	})

	t.Run("item without metadata", func(t *testing.T) {
		_, err := BuildNames([]Item{{Key: "none", Name: "c.pdf"}}, meta, "P", nil)
		assert.ErrorIs(t, err, ErrInvalidExport)
	})
}

func TestArchiveName(t *testing.T) {
	assert.Equal(t, "ACME-2024-export.zip", ArchiveName(" ACME 2024 "))
}
