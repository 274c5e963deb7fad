package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func seed(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()
	docs := []domain.Document{
		{
			ID: "b", URI: "/data/b.md", Title: "Graph databases", Content: "Nodes and edges.",
			Tags: []string{"Graphs"}, GroupPath: "notes/tech",
			ModifiedAt: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "a", URI: "/data/a.md", Title: "Gardening", Content: "Tomatoes need sun.",
			Tags: []string{"garden"}, GroupPath: "/notes/home",
			CreatedAt: time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		},
		{ID: "c", Title: "Untitled", Content: "graph theory 100% basics", GroupPath: "/notes/tech"},
	}
	for i := range docs {
		require.NoError(t, store.SaveDocument(ctx, &docs[i]))
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseFile), store.Path())
	v, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveDocument(context.Background(), &domain.Document{ID: "x", Title: "kept"}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	doc, err := reopened.GetDocument(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "kept", doc.Title)
}

func TestStore_SaveAndGetDocument(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	seed(t, store)

	doc, err := store.GetDocument(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "Graph databases", doc.Title)
	assert.Equal(t, "/data/b.md", doc.URI)
	assert.Equal(t, []string{"Graphs"}, doc.Tags)
	assert.Equal(t, "/notes/tech", doc.GroupPath)
	assert.True(t, doc.CreatedAt.IsZero())
	assert.True(t, doc.ModifiedAt.Equal(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)))

	c, err := store.GetDocument(ctx, "c")
	require.NoError(t, err)
	assert.Nil(t, c.Tags)
	assert.False(t, c.HasTimestamp())

	_, err = store.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveDocument_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	seed(t, store)

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "a", Title: "Gardening 2"}))

	doc, err := store.GetDocument(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Gardening 2", doc.Title)
	assert.True(t, doc.CreatedAt.Equal(time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)))
	assert.Empty(t, doc.GroupPath)
}

func TestStore_DeleteDocument(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	seed(t, store)

	require.NoError(t, store.DeleteDocument(ctx, "a"))
	require.NoError(t, store.DeleteDocument(ctx, "a"))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_Search(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	seed(t, store)

	ids := func(res []domain.DocumentSummary) []string {
		out := make([]string, len(res))
		for i, r := range res {
			out[i] = r.ID
		}
		return out
	}

	tests := []struct {
		name        string
		query       string
		constraints domain.SearchConstraints
		want        []string
	}{
		{"all", "", domain.SearchConstraints{}, []string{"a", "b", "c"}},
		{"every term", "GRAPH edges", domain.SearchConstraints{}, []string{"b"}},
		{"matches tags", "garden", domain.SearchConstraints{}, []string{"a"}},
		{"wildcards are literal", "100%", domain.SearchConstraints{}, []string{"c"}},
		{"underscore is literal", "no_such", domain.SearchConstraints{}, []string{}},
		{"group includes subgroups", "", domain.SearchConstraints{Group: "/notes"}, []string{"a", "b", "c"}},
		{"group", "", domain.SearchConstraints{Group: "notes/tech"}, []string{"b", "c"}},
		{"tags", "", domain.SearchConstraints{Tags: []string{"graphs"}}, []string{"b"}},
		{"time", "", domain.SearchConstraints{ModifiedBefore: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)}, []string{"a"}},
		{"limit", "", domain.SearchConstraints{Limit: 2}, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := store.Search(ctx, tt.query, tt.constraints)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(res))
		})
	}
}

func TestStore_ListGroups(t *testing.T) {
	store := setupTestStore(t)
	seed(t, store)

	groups, err := store.ListGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "notes", groups[0].Name)
	require.Len(t, groups[0].Children, 2)
	assert.Equal(t, "/notes/tech", groups[0].Children[1].Path)
	assert.Equal(t, 2, groups[0].Children[1].DocumentCount)
}

func TestStore_ListURIs(t *testing.T) {
	store := setupTestStore(t)
	seed(t, store)

	uris, err := store.ListURIs(context.Background(), "/data/")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "/data/a.md", "b": "/data/b.md"}, uris)

	uris, err = store.ListURIs(context.Background(), "/DATA/")
	require.NoError(t, err)
	assert.Empty(t, uris)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% \_x\\`, escapeLike(`50% _x\`))
}
