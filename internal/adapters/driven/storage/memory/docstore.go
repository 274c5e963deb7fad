package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interfaces.
var (
	_ driven.DocumentStore  = (*DocumentStore)(nil)
	_ driven.ReadWriteStore = (*DocumentStore)(nil)
)

// DocumentStore is an in-memory implementation of driven.ReadWriteStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
}

// NewDocumentStore creates a new in-memory document store, optionally
// seeded with documents.
func NewDocumentStore(docs ...domain.Document) *DocumentStore {
	s := &DocumentStore{documents: make(map[string]domain.Document, len(docs))}
	for i := range docs {
		s.documents[docs[i].ID] = clone(&docs[i])
	}
	return s
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = clone(doc)
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := clone(&doc)
	return &out, nil
}

// DeleteDocument removes a document.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	return nil
}

// Search returns summaries of matching documents ordered by ID.
func (s *DocumentStore) Search(ctx context.Context, query string, constraints domain.SearchConstraints) ([]domain.DocumentSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms := domain.QueryTerms(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.DocumentSummary, 0)
	for id := range s.documents {
		doc := s.documents[id]
		if doc.MatchesQuery(terms) && constraints.Matches(&doc) {
			results = append(results, doc.Summary())
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})
	if constraints.Limit > 0 && len(results) > constraints.Limit {
		results = results[:constraints.Limit]
	}
	return results, nil
}

// ListGroups returns the group hierarchy with document counts.
func (s *DocumentStore) ListGroups(_ context.Context) ([]domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for _, doc := range s.documents {
		if doc.GroupPath != "" {
			counts[doc.GroupPath]++
		}
	}
	return domain.BuildGroupTree(counts), nil
}

// ListURIs maps ID to URI for documents whose URI starts with prefix.
func (s *DocumentStore) ListURIs(_ context.Context, prefix string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string)
	for id, doc := range s.documents {
		if doc.URI != "" && strings.HasPrefix(doc.URI, prefix) {
			out[id] = doc.URI
		}
	}
	return out, nil
}

// Count returns the number of stored documents.
func (s *DocumentStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

func clone(doc *domain.Document) domain.Document {
	out := *doc
	out.Tags = append([]string(nil), doc.Tags...)
	return out
}
