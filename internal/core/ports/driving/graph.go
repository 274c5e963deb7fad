package driving

import (
	"context"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// GraphService builds knowledge graphs and answers connectivity queries.
type GraphService interface {
	// BuildKnowledgeGraph expands a graph from a seed document.
	BuildKnowledgeGraph(ctx context.Context, req domain.GraphRequest) (*domain.KnowledgeGraph, error)

	// FindShortestPath returns the strongest chain of documents linking two documents.
	// A disconnected pair is reported with Connected=false, not an error.
	FindShortestPath(ctx context.Context, req domain.PathRequest) (*domain.PathResult, error)

	// FindConnections ranks the documents most similar to a seed.
	FindConnections(ctx context.Context, req domain.ConnectionsRequest) ([]domain.Connection, error)
}

// ClusterService detects groups of related documents.
type ClusterService interface {
	// DetectKnowledgeClusters clusters the documents selected by a query or ID list.
	DetectKnowledgeClusters(ctx context.Context, req domain.ClusterRequest) (*domain.ClusterResult, error)
}
