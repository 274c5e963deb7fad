package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

func sampleDocuments() []domain.Document {
	jan := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	return []domain.Document{
		{ID: "b", Title: "Graph databases", Content: "Nodes and edges.", Tags: []string{"Graphs"}, GroupPath: "/notes/tech", ModifiedAt: mar, URI: "/data/b.md"},
		{ID: "a", Title: "Gardening", Content: "Tomatoes need sun.", Tags: []string{"garden"}, GroupPath: "/notes/home", CreatedAt: jan, URI: "/data/a.md"},
		{ID: "c", Title: "Untitled", Content: "graph theory basics", GroupPath: "/notes/tech"},
	}
}

func TestDocumentStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	doc := &domain.Document{ID: "doc-1", Title: "Original", Tags: []string{"x"}}
	require.NoError(t, store.SaveDocument(ctx, doc))

	doc.Tags[0] = "mutated"
	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Title)
	assert.Equal(t, []string{"x"}, got.Tags)

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1", Title: "Updated"}))
	got, err = store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Title)

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))
	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))
	_, err = store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_Search(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore(sampleDocuments()...)

	t.Run("empty query matches all in id order", func(t *testing.T) {
		res, err := store.Search(ctx, "", domain.SearchConstraints{})
		require.NoError(t, err)
		require.Len(t, res, 3)
		assert.Equal(t, "a", res[0].ID)
		assert.Equal(t, "c", res[2].ID)
	})

	t.Run("every term must match", func(t *testing.T) {
		res, err := store.Search(ctx, "GRAPH edges", domain.SearchConstraints{})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "b", res[0].ID)
	})

	t.Run("tag constraint is case-insensitive", func(t *testing.T) {
		res, err := store.Search(ctx, "", domain.SearchConstraints{Tags: []string{"graphs"}})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "b", res[0].ID)
	})

	t.Run("group constraint includes subgroups", func(t *testing.T) {
		res, err := store.Search(ctx, "", domain.SearchConstraints{Group: "notes"})
		require.NoError(t, err)
		assert.Len(t, res, 3)

		res, err = store.Search(ctx, "", domain.SearchConstraints{Group: "/notes/tech"})
		require.NoError(t, err)
		assert.Len(t, res, 2)
	})

	t.Run("time bounds use timestamp", func(t *testing.T) {
		res, err := store.Search(ctx, "", domain.SearchConstraints{
			ModifiedAfter: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "b", res[0].ID)
	})

	t.Run("limit", func(t *testing.T) {
		res, err := store.Search(ctx, "", domain.SearchConstraints{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, res, 2)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.Search(cctx, "", domain.SearchConstraints{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDocumentStore_ListGroups(t *testing.T) {
	store := NewDocumentStore(sampleDocuments()...)

	groups, err := store.ListGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "/notes", groups[0].Path)
	require.Len(t, groups[0].Children, 2)
	assert.Equal(t, "home", groups[0].Children[0].Name)
	assert.Equal(t, 2, groups[0].Children[1].DocumentCount)
}

func TestDocumentStore_ListURIs(t *testing.T) {
	store := NewDocumentStore(sampleDocuments()...)

	uris, err := store.ListURIs(context.Background(), "/data/")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "/data/a.md", "b": "/data/b.md"}, uris)
}

func TestDocumentStore_Concurrency(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.SaveDocument(ctx, &domain.Document{ID: string(rune('a' + n)), Title: "t"})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.Search(ctx, "t", domain.SearchConstraints{})
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, store.Count())
}
