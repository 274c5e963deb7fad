package domain

// EdgeTypeSimilarity marks an edge materialised from content/tag/recency similarity.
const EdgeTypeSimilarity = "similarity"

// GraphNode wraps a document in a knowledge graph.
type GraphNode struct {
	// ID is the document identifier.
	ID string

	// Title is the document title.
	Title string

	// Depth is the BFS level at which the node was discovered (seed = 0).
	Depth int
}

// GraphEdge is an unordered, weighted pair of nodes. Source < Target.
type GraphEdge struct {
	Source string
	Target string

	// Weight is the similarity in (0,1].
	Weight float64

	// Type describes the relationship.
	Type string
}

// KnowledgeGraph is the result of a graph build.
type KnowledgeGraph struct {
	// Seed is the starting document.
	Seed string

	// MaxDepth is the requested expansion depth.
	MaxDepth int

	// DepthReached is the deepest level that produced new nodes.
	DepthReached int

	// EdgeThreshold is the minimum similarity for an edge.
	EdgeThreshold float64

	// Nodes are in discovery order.
	Nodes []GraphNode

	// Edges are sorted by (Source, Target).
	Edges []GraphEdge

	// CorpusSize is the number of documents considered.
	CorpusSize int
}

// GraphRequest configures a knowledge graph build.
type GraphRequest struct {
	// Seed is the starting document ID.
	Seed string

	// MaxDepth is the number of BFS levels in [1,10]. Nil selects the
	// configured default.
	MaxDepth *int

	// EdgeThreshold overrides the configured threshold. Must be in (0,1]
	// when set.
	EdgeThreshold *float64

	// CorpusQuery restricts the corpus to matching documents ("" = all).
	CorpusQuery string
}

// PathRequest configures a shortest-path query.
type PathRequest struct {
	Start  string
	Target string

	// MaxDepth caps the expansion from Start. Nil expands the whole
	// component.
	MaxDepth *int

	// CorpusQuery restricts the corpus to matching documents ("" = all).
	CorpusQuery string
}

// PathResult is the outcome of a shortest-path query. Connected is false
// when start and target lie in different components, or when DepthLimited
// is set and the capped expansion never reached the target.
type PathResult struct {
	Start     string
	Target    string
	Connected bool

	// DepthLimited reports that expansion stopped at the requested depth
	// with documents still undiscovered.
	DepthLimited bool

	// Path lists document IDs from start to target (empty when not connected).
	Path []string

	// Titles parallels Path.
	Titles []string

	// Cost is the sum of (1 - similarity) over the path's edges.
	Cost float64
}

// Hops returns the number of edges on the path.
func (r PathResult) Hops() int {
	if len(r.Path) == 0 {
		return 0
	}
	return len(r.Path) - 1
}

// Connection is a document related to a seed.
type Connection struct {
	DocumentID string
	Title      string
	Similarity float64
	Breakdown  SimilarityBreakdown
	CommonTags []string

	// CommonTerms are the highest-weighted shared tokens.
	CommonTerms []string
}

// ConnectionsRequest configures a connection search.
type ConnectionsRequest struct {
	Seed       string
	MaxResults int

	// MinSimilarity excludes weaker connections (0 = any positive similarity).
	MinSimilarity float64

	CorpusQuery string
}
