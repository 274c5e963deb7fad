package services

import (
	"context"

	"github.com/custodia-labs/docgraph/internal/analysis/cluster"
	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
	"github.com/custodia-labs/docgraph/internal/logger"
)

// Ensure ClusterService implements the interface.
var _ driving.ClusterService = (*ClusterService)(nil)

const opDetectClusters = "detect_knowledge_clusters"

// DefaultClusterDocuments is the corpus ceiling of a cluster detection
// that sets none. The configured engine ceiling still applies when lower.
const DefaultClusterDocuments = 50

// ClusterService detects clusters of related documents.
type ClusterService struct {
	store    driven.DocumentStore
	settings driving.SettingsService
}

// NewClusterService creates a new cluster service.
func NewClusterService(store driven.DocumentStore, settings driving.SettingsService) *ClusterService {
	return &ClusterService{store: store, settings: settings}
}

// DetectKnowledgeClusters clusters the documents selected by DocumentIDs or,
// when no IDs are given, by Query.
func (s *ClusterService) DetectKnowledgeClusters(ctx context.Context, req domain.ClusterRequest) (*domain.ClusterResult, error) {
	log := logger.Start(opDetectClusters)

	e, err := loadEngine(opDetectClusters, s.settings)
	if err != nil {
		return nil, err
	}
	if len(req.DocumentIDs) > 0 && req.Query != "" {
		return nil, invalid(opDetectClusters, "query", req.Query, "query and document_ids are mutually exclusive")
	}
	if req.MaxDocuments < 0 {
		return nil, invalid(opDetectClusters, "max_documents", req.MaxDocuments, "must not be negative")
	}
	minSize := req.MinClusterSize
	if minSize == 0 {
		minSize = e.settings.Cluster.MinSize
	}
	if minSize < 1 {
		return nil, invalid(opDetectClusters, "min_cluster_size", minSize, "must be at least 1")
	}
	threshold, err := edgeThreshold(opDetectClusters, "threshold", req.Threshold, e.settings.Cluster.Threshold)
	if err != nil {
		return nil, err
	}

	limit := req.MaxDocuments
	if limit == 0 {
		limit = DefaultClusterDocuments
	}
	loader := newCorpusLoader(log, s.store, ceiling(e.settings.MaxDocuments, limit))
	var docs []domain.Document
	if len(req.DocumentIDs) > 0 {
		docs, err = loader.ids(ctx, "document_ids", req.DocumentIDs)
	} else {
		docs, err = loader.query(ctx, req.Query, domain.SearchConstraints{})
	}
	if err != nil {
		return nil, err
	}
	log.Debug("clustering %d documents, min size %d, threshold %.2f", len(docs), minSize, threshold)

	detector := cluster.NewDetector(e.scorer, e.pool, e.themes)
	result, err := detector.Detect(ctx, e.index(docs), minSize, threshold)
	if err != nil {
		return nil, wrap(opDetectClusters, "documents", "", err)
	}
	log.Done("%d clusters, %d unclustered", len(result.Clusters), len(result.Unclustered))
	return result, nil
}
