package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// Tool names.
const (
	toolBuildGraph        = "build_knowledge_graph"
	toolShortestPath      = "find_shortest_path"
	toolFindConnections   = "find_connections"
	toolDetectClusters    = "detect_knowledge_clusters"
	toolCompare           = "compare_documents"
	toolAnalyzeSimilarity = "analyze_document_similarity"
	toolExtractThemes     = "extract_themes"
	toolSynthesize        = "synthesize_documents"
	toolAnalyzeDocument   = "analyze_document"
	toolTrackEvolution    = "track_topic_evolution"
	toolIdentifyTrends    = "identify_trends"
	toolSearch            = "search_documents"
)

// defaultSearchLimit caps search results when the caller sets no limit.
const defaultSearchLimit = 20

// GraphInput is the input schema for build_knowledge_graph.
type GraphInput struct {
	DocumentID    string   `json:"document_id" jsonschema:"the seed document ID"`
	MaxDepth      *int     `json:"max_depth,omitempty" jsonschema:"number of relationship levels to explore (1-10, default 3)"`
	EdgeThreshold *float64 `json:"edge_threshold,omitempty" jsonschema:"minimum similarity for an edge in (0,1] (default from settings)"`
	Query         string   `json:"query,omitempty" jsonschema:"restrict the corpus to documents matching this query"`
}

// PathInput is the input schema for find_shortest_path.
type PathInput struct {
	FromID   string `json:"from_id" jsonschema:"the starting document ID"`
	ToID     string `json:"to_id" jsonschema:"the target document ID"`
	MaxDepth *int   `json:"max_depth,omitempty" jsonschema:"stop searching after this many hops (default: search the whole connected component)"`
	Query    string `json:"query,omitempty" jsonschema:"restrict the corpus to documents matching this query"`
}

// ConnectionsInput is the input schema for find_connections.
type ConnectionsInput struct {
	DocumentID    string  `json:"document_id" jsonschema:"the seed document ID"`
	MaxResults    int     `json:"max_results,omitempty" jsonschema:"maximum number of connections (default 10)"`
	MinSimilarity float64 `json:"min_similarity,omitempty" jsonschema:"exclude connections weaker than this similarity in [0,1]"`
	Query         string  `json:"query,omitempty" jsonschema:"restrict the corpus to documents matching this query"`
}

// ClustersInput is the input schema for detect_knowledge_clusters.
type ClustersInput struct {
	Query          string   `json:"query,omitempty" jsonschema:"select documents matching this query"`
	DocumentIDs    []string `json:"document_ids,omitempty" jsonschema:"select these documents instead of a query"`
	MaxDocuments   int      `json:"max_documents,omitempty" jsonschema:"corpus ceiling for this call (default 50)"`
	MinClusterSize int      `json:"min_cluster_size,omitempty" jsonschema:"smallest reported cluster (default 3)"`
	Threshold      *float64 `json:"threshold,omitempty" jsonschema:"similarity needed to link two documents in (0,1] (default from settings)"`
}

// CompareInput is the input schema for compare_documents.
type CompareInput struct {
	DocumentID1 string `json:"document_id_1" jsonschema:"the first document ID"`
	DocumentID2 string `json:"document_id_2" jsonschema:"the second document ID"`
}

// DocumentsInput is the input schema for tools taking a document set.
type DocumentsInput struct {
	DocumentIDs []string `json:"document_ids" jsonschema:"the document IDs"`
}

// SynthesizeInput is the input schema for synthesize_documents.
type SynthesizeInput struct {
	DocumentIDs   []string `json:"document_ids" jsonschema:"the document IDs to combine"`
	SynthesisType string   `json:"synthesis_type,omitempty" jsonschema:"summary (default), comparison, themes or consensus"`
}

// DocumentInput is the input schema for analyze_document.
type DocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document ID"`
}

// EvolutionInput is the input schema for track_topic_evolution.
type EvolutionInput struct {
	Topic        string `json:"topic" jsonschema:"the topic to track"`
	StartDate    string `json:"start_date,omitempty" jsonschema:"inclusive start, YYYY-MM-DD or RFC 3339"`
	EndDate      string `json:"end_date,omitempty" jsonschema:"inclusive end, YYYY-MM-DD or RFC 3339"`
	Granularity  string `json:"granularity,omitempty" jsonschema:"auto (default), day, week, month or year"`
	FillGaps     bool   `json:"fill_gaps,omitempty" jsonschema:"emit empty periods between documents"`
	MaxDocuments int    `json:"max_documents,omitempty" jsonschema:"corpus ceiling for this call"`
}

// TrendsInput is the input schema for identify_trends.
type TrendsInput struct {
	Group          string   `json:"group,omitempty" jsonschema:"limit the corpus to a group path"`
	Granularity    string   `json:"granularity,omitempty" jsonschema:"auto (default), day, week, month or year"`
	PreviousPeriod string   `json:"previous_period,omitempty" jsonschema:"label of the earlier period to compare"`
	CurrentPeriod  string   `json:"current_period,omitempty" jsonschema:"label of the later period to compare"`
	Threshold      *float64 `json:"threshold,omitempty" jsonschema:"minimum weight change to report in [0,1]; 0 reports every change (default from settings)"`
	Limit          int      `json:"limit,omitempty" jsonschema:"maximum number of trends"`
}

// SearchInput is the input schema for search_documents.
type SearchInput struct {
	Query          string   `json:"query,omitempty" jsonschema:"terms every result must contain"`
	Tags           []string `json:"tags,omitempty" jsonschema:"tags every result must carry"`
	Group          string   `json:"group,omitempty" jsonschema:"limit results to a group path"`
	ModifiedAfter  string   `json:"modified_after,omitempty" jsonschema:"YYYY-MM-DD or RFC 3339"`
	ModifiedBefore string   `json:"modified_before,omitempty" jsonschema:"YYYY-MM-DD or RFC 3339"`
	Limit          int      `json:"limit,omitempty" jsonschema:"maximum number of results (default 20)"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	addTool(s, toolBuildGraph,
		"Build a knowledge graph of documents related to a seed document by breadth-first expansion over similarity edges.",
		s.handleBuildGraph)
	addTool(s, toolShortestPath,
		"Find the strongest chain of related documents linking two documents.",
		s.handleShortestPath)
	addTool(s, toolFindConnections,
		"Rank the documents most similar to a seed document, with the signals and terms they share.",
		s.handleFindConnections)
	addTool(s, toolDetectClusters,
		"Group documents selected by a query or ID list into clusters of related documents.",
		s.handleDetectClusters)
	addTool(s, toolCompare,
		"Compare two documents: similarity breakdown, common words and tags.",
		s.handleCompare)
	addTool(s, toolAnalyzeSimilarity,
		"Compare every pair of two or more documents.",
		s.handleAnalyzeSimilarity)
	addTool(s, toolExtractThemes,
		"Extract the dominant themes and top words of a set of documents.",
		s.handleExtractThemes)
	addTool(s, toolSynthesize,
		"Combine documents into an extractive summary, comparison, theme list or consensus.",
		s.handleSynthesize)
	addTool(s, toolAnalyzeDocument,
		"Readability statistics of one document: Flesch score, sentence length, reading time and key sentences.",
		s.handleAnalyzeDocument)
	addTool(s, toolTrackEvolution,
		"Track how strongly a topic features in documents over time.",
		s.handleTrackEvolution)
	addTool(s, toolIdentifyTrends,
		"Report terms rising or falling between two time periods.",
		s.handleIdentifyTrends)
	if s.ports.Document != nil {
		addTool(s, toolSearch,
			"Search documents by terms, tags, group and modification date.",
			s.handleSearch)
	}
}

func (s *Server) handleBuildGraph(ctx context.Context, _ *mcp.CallToolRequest, in GraphInput) (*mcp.CallToolResult, Envelope, error) {
	kg, err := s.ports.Graph.BuildKnowledgeGraph(ctx, domain.GraphRequest{
		Seed:          in.DocumentID,
		MaxDepth:      in.MaxDepth,
		EdgeThreshold: in.EdgeThreshold,
		CorpusQuery:   in.Query,
	})
	if err != nil {
		return failure(toolBuildGraph, err)
	}
	return success(newGraphView(kg))
}

func (s *Server) handleShortestPath(ctx context.Context, _ *mcp.CallToolRequest, in PathInput) (*mcp.CallToolResult, Envelope, error) {
	res, err := s.ports.Graph.FindShortestPath(ctx, domain.PathRequest{
		Start:       in.FromID,
		Target:      in.ToID,
		MaxDepth:    in.MaxDepth,
		CorpusQuery: in.Query,
	})
	if err != nil {
		return failure(toolShortestPath, err)
	}
	return success(newPathView(res))
}

func (s *Server) handleFindConnections(ctx context.Context, _ *mcp.CallToolRequest, in ConnectionsInput) (*mcp.CallToolResult, Envelope, error) {
	conns, err := s.ports.Graph.FindConnections(ctx, domain.ConnectionsRequest{
		Seed:          in.DocumentID,
		MaxResults:    in.MaxResults,
		MinSimilarity: in.MinSimilarity,
		CorpusQuery:   in.Query,
	})
	if err != nil {
		return failure(toolFindConnections, err)
	}
	return success(newConnectionsView(in.DocumentID, conns))
}

func (s *Server) handleDetectClusters(ctx context.Context, _ *mcp.CallToolRequest, in ClustersInput) (*mcp.CallToolResult, Envelope, error) {
	res, err := s.ports.Cluster.DetectKnowledgeClusters(ctx, domain.ClusterRequest{
		Query:          in.Query,
		DocumentIDs:    in.DocumentIDs,
		MaxDocuments:   in.MaxDocuments,
		MinClusterSize: in.MinClusterSize,
		Threshold:      in.Threshold,
	})
	if err != nil {
		return failure(toolDetectClusters, err)
	}
	return success(newClustersView(res))
}

func (s *Server) handleCompare(ctx context.Context, _ *mcp.CallToolRequest, in CompareInput) (*mcp.CallToolResult, Envelope, error) {
	cmp, err := s.ports.Analysis.CompareDocuments(ctx, in.DocumentID1, in.DocumentID2)
	if err != nil {
		return failure(toolCompare, err)
	}
	return success(newComparisonView(cmp))
}

func (s *Server) handleAnalyzeSimilarity(ctx context.Context, _ *mcp.CallToolRequest, in DocumentsInput) (*mcp.CallToolResult, Envelope, error) {
	m, err := s.ports.Analysis.AnalyzeDocumentSimilarity(ctx, in.DocumentIDs)
	if err != nil {
		return failure(toolAnalyzeSimilarity, err)
	}
	return success(newMatrixView(m))
}

func (s *Server) handleExtractThemes(ctx context.Context, _ *mcp.CallToolRequest, in DocumentsInput) (*mcp.CallToolResult, Envelope, error) {
	res, err := s.ports.Analysis.ExtractThemes(ctx, in.DocumentIDs)
	if err != nil {
		return failure(toolExtractThemes, err)
	}
	return success(themesView{
		DocumentCount: res.DocumentCount,
		Themes:        newThemeViews(res.Themes),
		TopWords:      newTermViews(res.TopWords),
	})
}

func (s *Server) handleSynthesize(ctx context.Context, _ *mcp.CallToolRequest, in SynthesizeInput) (*mcp.CallToolResult, Envelope, error) {
	syn, err := s.ports.Analysis.SynthesizeDocuments(ctx, in.DocumentIDs, domain.SynthesisMode(in.SynthesisType))
	if err != nil {
		return failure(toolSynthesize, err)
	}
	return success(newSynthesisView(syn))
}

func (s *Server) handleAnalyzeDocument(ctx context.Context, _ *mcp.CallToolRequest, in DocumentInput) (*mcp.CallToolResult, Envelope, error) {
	a, err := s.ports.Analysis.AnalyzeDocument(ctx, in.DocumentID)
	if err != nil {
		return failure(toolAnalyzeDocument, err)
	}
	return success(newAnalysisView(a))
}

func (s *Server) handleTrackEvolution(ctx context.Context, _ *mcp.CallToolRequest, in EvolutionInput) (*mcp.CallToolResult, Envelope, error) {
	start, err := domain.ParseDate(in.StartDate, false)
	if err != nil {
		return invalidInput(toolTrackEvolution, "start_date", in.StartDate, err.Error())
	}
	end, err := domain.ParseDate(in.EndDate, true)
	if err != nil {
		return invalidInput(toolTrackEvolution, "end_date", in.EndDate, err.Error())
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return invalidInput(toolTrackEvolution, "end_date", in.EndDate, "must not be before start_date")
	}

	evo, err := s.ports.Trend.TrackTopicEvolution(ctx, domain.EvolutionRequest{
		Topic: in.Topic,
		Range: domain.TimeRange{
			Start:       start,
			End:         end,
			Granularity: domain.Granularity(in.Granularity),
		},
		FillGaps:     in.FillGaps,
		MaxDocuments: in.MaxDocuments,
	})
	if err != nil {
		return failure(toolTrackEvolution, err)
	}
	return success(newEvolutionView(evo))
}

func (s *Server) handleIdentifyTrends(ctx context.Context, _ *mcp.CallToolRequest, in TrendsInput) (*mcp.CallToolResult, Envelope, error) {
	report, err := s.ports.Trend.IdentifyTrends(ctx, domain.TrendRequest{
		Group:          in.Group,
		Granularity:    domain.Granularity(in.Granularity),
		PreviousPeriod: in.PreviousPeriod,
		CurrentPeriod:  in.CurrentPeriod,
		Threshold:      in.Threshold,
		Limit:          in.Limit,
	})
	if err != nil {
		return failure(toolIdentifyTrends, err)
	}
	return success(newTrendsView(report))
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, Envelope, error) {
	after, err := domain.ParseDate(in.ModifiedAfter, false)
	if err != nil {
		return invalidInput(toolSearch, "modified_after", in.ModifiedAfter, err.Error())
	}
	before, err := domain.ParseDate(in.ModifiedBefore, true)
	if err != nil {
		return invalidInput(toolSearch, "modified_before", in.ModifiedBefore, err.Error())
	}
	limit := in.Limit
	if limit == 0 {
		limit = defaultSearchLimit
	}

	results, err := s.ports.Document.Search(ctx, in.Query, domain.SearchConstraints{
		Tags:           in.Tags,
		Group:          in.Group,
		ModifiedAfter:  after,
		ModifiedBefore: before,
		Limit:          limit,
	})
	if err != nil {
		return failure(toolSearch, err)
	}

	views := make([]summaryView, len(results))
	for i, r := range results {
		views[i] = newSummaryView(r)
	}
	return success(struct {
		Count   int           `json:"count"`
		Results []summaryView `json:"results"`
	}{Count: len(views), Results: views})
}
