package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/docgraph/internal/analysis/graph"
	"github.com/custodia-labs/docgraph/internal/analysis/similarity"
	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/core/ports/driving"
	"github.com/custodia-labs/docgraph/internal/logger"
)

// Ensure GraphService implements the interface.
var _ driving.GraphService = (*GraphService)(nil)

// Operation names reported in errors.
const (
	opBuildGraph      = "build_knowledge_graph"
	opShortestPath    = "find_shortest_path"
	opFindConnections = "find_connections"
)

// DefaultMaxConnections is the number of connections returned when the
// request does not set one.
const DefaultMaxConnections = 10

// MaxGraphDepth is the deepest expansion a request may ask for.
const MaxGraphDepth = 10

// commonTermLimit bounds the shared terms listed per connection or comparison.
const commonTermLimit = 10

// GraphService builds knowledge graphs and answers connectivity queries.
type GraphService struct {
	store    driven.DocumentStore
	settings driving.SettingsService
}

// NewGraphService creates a new graph service.
func NewGraphService(store driven.DocumentStore, settings driving.SettingsService) *GraphService {
	return &GraphService{store: store, settings: settings}
}

// BuildKnowledgeGraph expands a graph from the seed document.
func (s *GraphService) BuildKnowledgeGraph(ctx context.Context, req domain.GraphRequest) (*domain.KnowledgeGraph, error) {
	log := logger.Start(opBuildGraph)

	e, err := loadEngine(opBuildGraph, s.settings)
	if err != nil {
		return nil, err
	}
	maxDepth := e.settings.Graph.MaxDepth
	if req.MaxDepth != nil {
		maxDepth = *req.MaxDepth
	}
	if maxDepth < 1 || maxDepth > MaxGraphDepth {
		return nil, invalid(opBuildGraph, "max_depth", maxDepth, fmt.Sprintf("must be between 1 and %d", MaxGraphDepth))
	}
	threshold, err := edgeThreshold(opBuildGraph, "edge_threshold", req.EdgeThreshold, e.settings.Graph.EdgeThreshold)
	if err != nil {
		return nil, err
	}

	loader := newCorpusLoader(log, s.store, e.settings.MaxDocuments)
	seed, err := loader.get(ctx, "document_id", req.Seed)
	if err != nil {
		return nil, err
	}
	docs, err := s.corpus(ctx, loader, req.CorpusQuery, seed)
	if err != nil {
		return nil, err
	}
	log.Debug("seed=%s depth=%d threshold=%.2f corpus=%d", seed.ID, maxDepth, threshold, len(docs))

	idx := e.index(docs)
	res, err := graph.NewBuilder(e.scorer, e.pool).Build(ctx, seed.ID, idx, maxDepth, threshold)
	if err != nil {
		return nil, wrap(opBuildGraph, "document_id", seed.ID, err)
	}

	kg := res.Knowledge(seed.ID, maxDepth, threshold, idx.Len())
	log.Done("%d nodes, %d edges, depth reached %d", len(kg.Nodes), len(kg.Edges), kg.DepthReached)
	return kg, nil
}

// FindShortestPath links two documents through the graph expanded from the
// start document. Without a depth cap the expansion covers the start's whole
// component, so an unreached target lies in another component. With a cap,
// an unreached target is reported as DepthLimited when expansion stopped
// early.
func (s *GraphService) FindShortestPath(ctx context.Context, req domain.PathRequest) (*domain.PathResult, error) {
	log := logger.Start(opShortestPath)

	e, err := loadEngine(opShortestPath, s.settings)
	if err != nil {
		return nil, err
	}
	if req.MaxDepth != nil && *req.MaxDepth < 1 {
		return nil, invalid(opShortestPath, "max_depth", *req.MaxDepth, "must be at least 1")
	}

	loader := newCorpusLoader(log, s.store, e.settings.MaxDocuments)
	start, err := loader.get(ctx, "from_id", req.Start)
	if err != nil {
		return nil, err
	}
	target, err := loader.get(ctx, "to_id", req.Target)
	if err != nil {
		return nil, err
	}
	if start.ID == target.ID {
		return &domain.PathResult{
			Start:     start.ID,
			Target:    target.ID,
			Connected: true,
			Path:      []string{start.ID},
			Titles:    []string{start.Title},
		}, nil
	}

	docs, err := s.corpus(ctx, loader, req.CorpusQuery, start)
	if err != nil {
		return nil, err
	}
	docs = withDocument(docs, target)
	if len(docs) > e.settings.MaxDocuments {
		return nil, domain.NewOpError(opShortestPath, domain.ErrTooManyDocuments, "query", req.CorpusQuery, nil)
	}

	idx := e.index(docs)
	depth := pathDepth(req.MaxDepth, e.settings.Graph.PathMaxDepth, idx.Len())
	log.Debug("from=%s to=%s depth=%d corpus=%d", start.ID, target.ID, depth, idx.Len())
	res, err := graph.NewBuilder(e.scorer, e.pool).
		Build(ctx, start.ID, idx, depth, e.settings.Graph.EdgeThreshold)
	if err != nil {
		return nil, wrap(opShortestPath, "from_id", start.ID, err)
	}

	if !res.Graph.HasNode(target.ID) {
		out := &domain.PathResult{Start: start.ID, Target: target.ID, DepthLimited: !res.Exhausted}
		log.Done("target not reached after %d levels, depth limited %t", res.DepthReached, out.DepthLimited)
		return out, nil
	}
	path, err := res.Graph.ShortestPath(start.ID, target.ID)
	if err != nil {
		return nil, wrap(opShortestPath, "to_id", target.ID, err)
	}
	log.Done("connected=%t hops=%d", path.Connected, path.Hops())
	return &path, nil
}

// FindConnections ranks the corpus by similarity to the seed.
func (s *GraphService) FindConnections(ctx context.Context, req domain.ConnectionsRequest) ([]domain.Connection, error) {
	log := logger.Start(opFindConnections)

	e, err := loadEngine(opFindConnections, s.settings)
	if err != nil {
		return nil, err
	}
	maxResults := req.MaxResults
	if maxResults == 0 {
		maxResults = DefaultMaxConnections
	}
	if maxResults < 0 {
		return nil, invalid(opFindConnections, "max_results", maxResults, "must be positive")
	}
	if req.MinSimilarity < 0 || req.MinSimilarity > 1 {
		return nil, invalid(opFindConnections, "min_similarity", req.MinSimilarity, "must be in [0,1]")
	}

	loader := newCorpusLoader(log, s.store, e.settings.MaxDocuments)
	seed, err := loader.get(ctx, "document_id", req.Seed)
	if err != nil {
		return nil, err
	}
	docs, err := s.corpus(ctx, loader, req.CorpusQuery, seed)
	if err != nil {
		return nil, err
	}

	idx := e.index(docs)
	seedPos, _ := idx.Lookup(seed.ID)
	others := make([]int, 0, idx.Len()-1)
	for i := 0; i < idx.Len(); i++ {
		if i != seedPos {
			others = append(others, i)
		}
	}
	pairs, err := e.pool.Between(ctx, []int{seedPos}, others, func(i, j int) domain.SimilarityBreakdown {
		return e.scorer.Score(idx.At(i), idx.At(j))
	})
	if err != nil {
		return nil, wrap(opFindConnections, "document_id", seed.ID, err)
	}

	seedItem := idx.At(seedPos)
	connections := make([]domain.Connection, 0, len(pairs))
	for _, p := range pairs {
		b := p.Breakdown
		if b.Score <= 0 || b.Score < req.MinSimilarity {
			continue
		}
		other := p.I
		if other == seedPos {
			other = p.J
		}
		connections = append(connections, connection(seedItem, idx.At(other), b))
	}
	sort.SliceStable(connections, func(i, j int) bool {
		if connections[i].Similarity != connections[j].Similarity {
			return connections[i].Similarity > connections[j].Similarity
		}
		return connections[i].DocumentID < connections[j].DocumentID
	})
	if len(connections) > maxResults {
		connections = connections[:maxResults]
	}
	log.Done("%d of %d documents", len(connections), idx.Len()-1)
	return connections, nil
}

// corpus loads the documents matching query and makes sure seed is among
// them.
func (s *GraphService) corpus(ctx context.Context, loader *corpusLoader, query string, seed *domain.Document) ([]domain.Document, error) {
	docs, err := loader.query(ctx, strings.TrimSpace(query), domain.SearchConstraints{})
	if err != nil {
		return nil, err
	}
	docs = withDocument(docs, seed)
	if len(docs) > loader.limit {
		return nil, domain.NewOpError(loader.op, domain.ErrTooManyDocuments, "query", query,
			fmt.Errorf("limit is %d", loader.limit))
	}
	return docs, nil
}

func connection(seed, other *similarity.Item, b domain.SimilarityBreakdown) domain.Connection {
	return domain.Connection{
		DocumentID:  other.Doc.ID,
		Title:       other.Doc.Title,
		Similarity:  b.Score,
		Breakdown:   b,
		CommonTags:  similarity.CommonTags(seed, other),
		CommonTerms: similarity.CommonTerms(seed, other, commonTermLimit),
	}
}

// edgeThreshold resolves an optional threshold against the configured one.
func edgeThreshold(op, param string, requested *float64, configured float64) (float64, error) {
	if requested == nil {
		return configured, nil
	}
	if t := *requested; !(t > 0 && t <= 1) {
		return 0, invalid(op, param, t, "must be in (0,1]")
	}
	return *requested, nil
}

// pathDepth picks the expansion depth of a path search: the requested cap,
// else the configured one. Zero configured means the whole component, which
// a corpus of n documents spans in at most n-1 levels.
func pathDepth(requested *int, configured, n int) int {
	switch {
	case requested != nil:
		return *requested
	case configured > 0:
		return configured
	case n > 1:
		return n - 1
	default:
		return 1
	}
}
