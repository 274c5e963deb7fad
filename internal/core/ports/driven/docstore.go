package driven

import (
	"context"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// DocumentStore is the read-only document collaborator of the engine.
// Implementations return domain.ErrNotFound for unknown identifiers.
type DocumentStore interface {
	// GetDocument retrieves a document with its content.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// Search returns summaries of documents matching every query term.
	// An empty query matches all documents.
	Search(ctx context.Context, query string, constraints domain.SearchConstraints) ([]domain.DocumentSummary, error)

	// ListGroups returns the group hierarchy.
	ListGroups(ctx context.Context) ([]domain.Group, error)
}

// DocumentWriter persists documents. Used by the importer only.
type DocumentWriter interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// DeleteDocument removes a document. Deleting an unknown ID is not an error.
	DeleteDocument(ctx context.Context, id string) error

	// ListURIs maps document ID to URI for every document whose URI starts
	// with prefix.
	ListURIs(ctx context.Context, prefix string) (map[string]string, error)
}

// ReadWriteStore is a store that can be both read and written.
type ReadWriteStore interface {
	DocumentStore
	DocumentWriter
}
