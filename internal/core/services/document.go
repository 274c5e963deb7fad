package services

import (
	"context"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
	"github.com/custodia-labs/docgraph/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

const (
	opGetDocument = "get_document"
	opSearch      = "search_documents"
	opListGroups  = "list_groups"
)

// DocumentService exposes the document store to driving adapters.
type DocumentService struct {
	docStore driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore) *DocumentService {
	return &DocumentService{docStore: docStore}
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	log := logger.Start(opGetDocument)
	return newCorpusLoader(log, s.docStore, 1).get(ctx, "document_id", documentID)
}

// Search returns summaries of matching documents.
func (s *DocumentService) Search(
	ctx context.Context,
	query string,
	constraints domain.SearchConstraints,
) ([]domain.DocumentSummary, error) {
	if constraints.Limit < 0 {
		return nil, invalid(opSearch, "limit", constraints.Limit, "must not be negative")
	}
	results, err := s.docStore.Search(ctx, query, constraints)
	if err != nil {
		return nil, upstream(opSearch, "query", query, err)
	}
	return results, nil
}

// ListGroups returns the group hierarchy.
func (s *DocumentService) ListGroups(ctx context.Context) ([]domain.Group, error) {
	groups, err := s.docStore.ListGroups(ctx)
	if err != nil {
		return nil, upstream(opListGroups, "", "", err)
	}
	return groups, nil
}
