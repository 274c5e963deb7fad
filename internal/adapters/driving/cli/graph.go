package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

var (
	graphDepth     int
	graphThreshold float64
	graphQuery     string
	pathDepth      int

	connectionsLimit         int
	connectionsMinSimilarity float64
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Explore the document knowledge graph",
}

var graphBuildCmd = &cobra.Command{
	Use:   "build [document-id]",
	Short: "Build a knowledge graph around a document",
	Long: `Expands breadth-first from a seed document, linking every pair of
discovered documents whose similarity reaches the edge threshold.`,
	Args: cobra.ExactArgs(1),
	RunE: runGraphBuild,
}

var graphPathCmd = &cobra.Command{
	Use:   "path [from-id] [to-id]",
	Short: "Find the strongest chain linking two documents",
	Args:  cobra.ExactArgs(2),
	RunE:  runGraphPath,
}

var connectionsCmd = &cobra.Command{
	Use:   "connections [document-id]",
	Short: "List the documents most similar to a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runConnections,
}

func init() {
	graphBuildCmd.Flags().IntVarP(&graphDepth, "depth", "d", 0, "levels to expand, 1-10 (default from settings)")
	graphBuildCmd.Flags().Float64VarP(&graphThreshold, "threshold", "t", 0, "minimum edge similarity in (0,1] (default from settings)")
	graphBuildCmd.Flags().StringVarP(&graphQuery, "query", "q", "", "restrict the corpus to matching documents")
	graphPathCmd.Flags().IntVarP(&pathDepth, "depth", "d", 0, "stop after this many hops (default: whole component)")
	graphPathCmd.Flags().StringVarP(&graphQuery, "query", "q", "", "restrict the corpus to matching documents")

	connectionsCmd.Flags().IntVarP(&connectionsLimit, "limit", "n", 10, "maximum number of connections")
	connectionsCmd.Flags().Float64Var(&connectionsMinSimilarity, "min-similarity", 0, "exclude weaker connections")
	connectionsCmd.Flags().StringVarP(&graphQuery, "query", "q", "", "restrict the corpus to matching documents")

	graphCmd.AddCommand(graphBuildCmd)
	graphCmd.AddCommand(graphPathCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(connectionsCmd)
}

func runGraphBuild(cmd *cobra.Command, args []string) error {
	if graphService == nil {
		return errNotConfigured("graph")
	}

	kg, err := graphService.BuildKnowledgeGraph(cmd.Context(), domain.GraphRequest{
		Seed:          args[0],
		MaxDepth:      setInt(cmd, "depth", graphDepth),
		EdgeThreshold: setFloat(cmd, "threshold", graphThreshold),
		CorpusQuery:   graphQuery,
	})
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, kg)
	}

	p := newPrinter(cmd)
	p.Title("Knowledge graph from %s", kg.Seed)
	p.Field("Nodes", "%d", len(kg.Nodes))
	p.Field("Edges", "%d", len(kg.Edges))
	p.Field("Depth", "%d of %d", kg.DepthReached, kg.MaxDepth)
	p.Field("Threshold", "%.2f", kg.EdgeThreshold)
	p.Field("Corpus", "%d documents", kg.CorpusSize)
	p.Blank()

	titles := make(map[string]string, len(kg.Nodes))
	for _, n := range kg.Nodes {
		titles[n.ID] = n.Title
		p.Line("  [%d] %s  %s", n.Depth, n.Title, p.render(p.muted, n.ID))
	}
	if len(kg.Edges) > 0 {
		p.Blank()
		p.Line("Edges:")
		for _, e := range kg.Edges {
			p.Line("  %s -- %s  %s", titles[e.Source], titles[e.Target], p.Score(e.Weight))
		}
	}
	return nil
}

func runGraphPath(cmd *cobra.Command, args []string) error {
	if graphService == nil {
		return errNotConfigured("graph")
	}

	res, err := graphService.FindShortestPath(cmd.Context(), domain.PathRequest{
		Start:       args[0],
		Target:      args[1],
		MaxDepth:    setInt(cmd, "depth", pathDepth),
		CorpusQuery: graphQuery,
	})
	if err != nil {
		return fmt.Errorf("failed to find path: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, res)
	}

	p := newPrinter(cmd)
	if !res.Connected {
		if res.DepthLimited {
			p.Line("No path connects %s and %s within %d hops.", res.Start, res.Target, pathDepth)
			return nil
		}
		p.Line("No path connects %s and %s.", res.Start, res.Target)
		return nil
	}

	p.Title("Path from %s to %s", res.Start, res.Target)
	for i, id := range res.Path {
		title := id
		if i < len(res.Titles) && res.Titles[i] != "" {
			title = res.Titles[i]
		}
		p.Line("  %d. %s  %s", i+1, title, p.render(p.muted, id))
	}
	p.Blank()
	p.Field("Hops", "%d", res.Hops())
	p.Field("Cost", "%.3f", res.Cost)
	return nil
}

func runConnections(cmd *cobra.Command, args []string) error {
	if graphService == nil {
		return errNotConfigured("graph")
	}

	conns, err := graphService.FindConnections(cmd.Context(), domain.ConnectionsRequest{
		Seed:          args[0],
		MaxResults:    connectionsLimit,
		MinSimilarity: connectionsMinSimilarity,
		CorpusQuery:   graphQuery,
	})
	if err != nil {
		return fmt.Errorf("failed to find connections: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, conns)
	}

	p := newPrinter(cmd)
	if len(conns) == 0 {
		p.Line("No connections found.")
		return nil
	}

	p.Title("Connections of %s", args[0])
	for i, c := range conns {
		p.Line("  [%d] %s (%s)", i+1, c.Title, p.Score(c.Similarity))
		p.Muted("      %s", c.DocumentID)
		if len(c.CommonTags) > 0 {
			p.Line("      Tags: %s", joinOrNone(c.CommonTags))
		}
		if len(c.CommonTerms) > 0 {
			p.Line("      Terms: %s", joinOrNone(c.CommonTerms))
		}
	}
	return nil
}
