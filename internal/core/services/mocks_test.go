package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docgraph/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
)

var (
	jan = time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)
	feb = time.Date(2024, time.February, 12, 9, 0, 0, 0, time.UTC)
	mar = time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
)

// testCorpus holds two related machine-learning notes, a third note that
// shares their vocabulary less strongly, and an unrelated cooking note.
func testCorpus() []domain.Document {
	return []domain.Document{
		{
			ID:         "ml-1",
			Title:      "Neural networks",
			Content:    "Neural networks learn representations from training data. Deep learning stacks neural networks.",
			Tags:       []string{"ml"},
			GroupPath:  "/notes/ml",
			ModifiedAt: jan,
		},
		{
			ID:         "ml-2",
			Title:      "Deep learning",
			Content:    "Deep learning trains neural networks on large training data. Networks need data.",
			Tags:       []string{"ml"},
			GroupPath:  "/notes/ml",
			ModifiedAt: feb,
		},
		{
			ID:         "ml-3",
			Title:      "Training data",
			Content:    "Training data quality matters for deep learning models.",
			Tags:       []string{"ml", "data"},
			GroupPath:  "/notes/ml",
			ModifiedAt: mar,
		},
		{
			ID:         "cook",
			Title:      "Pasta",
			Content:    "Boil water. Salt generously. Cook the pasta until tender.",
			Tags:       []string{"food"},
			GroupPath:  "/notes/kitchen",
			ModifiedAt: mar,
		},
	}
}

func newTestStore() *memory.DocumentStore {
	return memory.NewDocumentStore(testCorpus()...)
}

// failingStore fails every call with err.
type failingStore struct {
	err error
}

func (s *failingStore) GetDocument(context.Context, string) (*domain.Document, error) {
	return nil, s.err
}

func (s *failingStore) Search(context.Context, string, domain.SearchConstraints) ([]domain.DocumentSummary, error) {
	return nil, s.err
}

func (s *failingStore) ListGroups(context.Context) ([]domain.Group, error) {
	return nil, s.err
}

// countingStore records how often each document is fetched.
type countingStore struct {
	driven.DocumentStore
	mu    sync.Mutex
	fetch map[string]int
}

func newCountingStore(inner driven.DocumentStore) *countingStore {
	return &countingStore{DocumentStore: inner, fetch: make(map[string]int)}
}

func (s *countingStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	s.mu.Lock()
	s.fetch[id]++
	s.mu.Unlock()
	return s.DocumentStore.GetDocument(ctx, id)
}

// fakeSource replays fixed files and changes.
type fakeSource struct {
	root    string
	files   []domain.RawDocument
	errs    []error
	changes []domain.RawDocumentChange
	closed  bool
}

func (s *fakeSource) Root() string { return s.root }

func (s *fakeSource) Walk(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument)
	errs := make(chan error, len(s.errs))
	for _, err := range s.errs {
		errs <- err
	}
	close(errs)
	go func() {
		defer close(docs)
		for _, f := range s.files {
			select {
			case docs <- f:
			case <-ctx.Done():
				return
			}
		}
	}()
	return docs, errs
}

func (s *fakeSource) Watch(context.Context) (<-chan domain.RawDocumentChange, error) {
	ch := make(chan domain.RawDocumentChange, len(s.changes))
	for _, c := range s.changes {
		ch <- c
	}
	close(ch)
	return ch, nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

func sourceFactory(src *fakeSource) driven.DocumentSourceFactory {
	return func(root string) (driven.DocumentSource, error) {
		if root != src.root {
			return nil, errors.New("unexpected root")
		}
		return src, nil
	}
}

// textRegistry turns text/plain files into documents and rejects the rest.
type textRegistry struct{}

func (textRegistry) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw.MIMEType != "text/plain" {
		return nil, domain.ErrUnsupportedType
	}
	if strings.Contains(string(raw.Content), "\x00") {
		return nil, domain.ErrInvalidInput
	}
	return &driven.NormaliseResult{Document: domain.Document{Content: string(raw.Content)}}, nil
}

func (textRegistry) Register(driven.Normaliser) {}

func (textRegistry) SupportedMIMETypes() []string { return []string{"text/plain"} }
