package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

func TestImportCmd(t *testing.T) {
	importer := &mockImportService{result: &domain.ImportResult{
		Root:     "/home/me/notes",
		Imported: 3,
		Updated:  1,
		Skipped:  2,
		Failures: map[string]string{"/home/me/notes/big.md": "file too large"},
	}}
	cleanup := setupTestServices(&Services{Import: importer})
	defer cleanup()

	out, err := execute(t, "import", "~/notes")
	require.NoError(t, err)
	assert.Equal(t, "~/notes", importer.root)
	assert.False(t, importer.watched)
	assert.Contains(t, out, "New: 3")
	assert.Contains(t, out, "Skipped: 2")
	assert.Contains(t, out, "Warning: /home/me/notes/big.md: file too large")
}

func TestImportCmd_Watch(t *testing.T) {
	importer := &mockImportService{
		result: &domain.ImportResult{Root: "/notes"},
		changes: []domain.RawDocumentChange{
			{Type: domain.ChangeUpdated, Document: domain.RawDocument{URI: "/notes/a.md"}},
		},
	}
	cleanup := setupTestServices(&Services{Import: importer})
	defer cleanup()

	out, err := execute(t, "import", "/notes", "--watch")
	require.NoError(t, err)
	assert.True(t, importer.watched)
	assert.Contains(t, out, "Watching /notes")
	assert.Contains(t, out, "updated  /notes/a.md")
}

func TestImportCmd_Error(t *testing.T) {
	cleanup := setupTestServices(&Services{Import: &mockImportService{
		err: domain.InvalidArgument("import", "root", "/nope", "does not exist"),
	}})
	defer cleanup()

	_, err := execute(t, "import", "/nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}
