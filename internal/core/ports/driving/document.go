package driving

import (
	"context"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// DocumentService gives read access to the document store.
type DocumentService interface {
	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Search returns summaries of matching documents.
	Search(ctx context.Context, query string, constraints domain.SearchConstraints) ([]domain.DocumentSummary, error)

	// ListGroups returns the group hierarchy.
	ListGroups(ctx context.Context) ([]domain.Group, error)
}

// ImportService loads files from disk into the document store.
type ImportService interface {
	// Import walks a directory and stores every supported file.
	Import(ctx context.Context, root string) (*domain.ImportResult, error)

	// Watch applies file changes under root until ctx is cancelled.
	// onChange is called after each change is applied, with any error.
	Watch(ctx context.Context, root string, onChange func(domain.RawDocumentChange, error)) error
}
