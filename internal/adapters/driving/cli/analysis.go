package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

var (
	clusterQuery     string
	clusterIDs       []string
	clusterMaxDocs   int
	clusterMinSize   int
	clusterThreshold float64

	synthesisType string
)

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Group related documents into clusters",
	Long: `Selects documents by --query or --ids and groups them into clusters of
documents linked by similarity. Without either flag the whole corpus is used.`,
	Args: cobra.NoArgs,
	RunE: runClusters,
}

var compareCmd = &cobra.Command{
	Use:   "compare [id-1] [id-2]",
	Short: "Compare two documents",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

var similarityCmd = &cobra.Command{
	Use:   "similarity [ids...]",
	Short: "Compare every pair of two or more documents",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runSimilarity,
}

var themesCmd = &cobra.Command{
	Use:   "themes [ids...]",
	Short: "Extract the themes of a set of documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runThemes,
}

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize [ids...]",
	Short: "Combine documents into an extractive synthesis",
	Long: `Selects sentences from the documents to build a synthesis.

Types:
  summary    - the highest-scoring sentences (default)
  comparison - key sentences and distinctive terms per document
  themes     - the shared themes with a representative sentence each
  consensus  - sentences built from terms most documents share`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSynthesize,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [document-id]",
	Short: "Show readability statistics of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	clustersCmd.Flags().StringVarP(&clusterQuery, "query", "q", "", "select documents matching this query")
	clustersCmd.Flags().StringSliceVar(&clusterIDs, "ids", nil, "select these document IDs")
	clustersCmd.Flags().IntVar(&clusterMaxDocs, "max-documents", 0, "corpus ceiling (default 50)")
	clustersCmd.Flags().IntVar(&clusterMinSize, "min-size", 0, "smallest reported cluster (default from settings)")
	clustersCmd.Flags().Float64VarP(&clusterThreshold, "threshold", "t", 0, "similarity needed to link documents, in (0,1] (default from settings)")
	synthesizeCmd.Flags().StringVar(&synthesisType, "type", string(domain.SynthesisSummary), "summary, comparison, themes or consensus")

	rootCmd.AddCommand(clustersCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(similarityCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(synthesizeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func runClusters(cmd *cobra.Command, _ []string) error {
	if clusterService == nil {
		return errNotConfigured("cluster")
	}

	res, err := clusterService.DetectKnowledgeClusters(cmd.Context(), domain.ClusterRequest{
		Query:          clusterQuery,
		DocumentIDs:    clusterIDs,
		MaxDocuments:   clusterMaxDocs,
		MinClusterSize: clusterMinSize,
		Threshold:      setFloat(cmd, "threshold", clusterThreshold),
	})
	if err != nil {
		return fmt.Errorf("failed to detect clusters: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, res)
	}

	p := newPrinter(cmd)
	p.Title("Clusters across %d documents", res.DocumentCount)
	if len(res.Clusters) == 0 {
		p.Line("No clusters of %d or more documents.", res.MinClusterSize)
	}
	for _, c := range res.Clusters {
		p.Line("  [%d] %s (%d documents, cohesion %s)", c.ID, c.Label, c.Size(), p.Score(c.Cohesion))
		p.Line("      Keywords: %s", joinOrNone(c.Keywords))
		p.Muted("      %s", joinOrNone(c.Members))
	}
	if len(res.Unclustered) > 0 {
		p.Blank()
		p.Field("Unclustered", "%d", len(res.Unclustered))
	}
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errNotConfigured("analysis")
	}

	cmp, err := analysisService.CompareDocuments(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to compare documents: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, cmp)
	}

	p := newPrinter(cmd)
	p.Title("%s vs %s", cmp.Title1, cmp.Title2)
	printComparison(p, cmp)
	return nil
}

func printComparison(p *printer, cmp *domain.DocumentComparison) {
	b := cmp.Breakdown
	p.Field("Similarity", "%s", p.Score(cmp.Similarity))
	if b.ContentApplied {
		p.Field("Content", "%.3f", b.Content)
	}
	if b.TagsApplied {
		p.Field("Tags", "%.3f", b.Tags)
	}
	if b.RecencyApplied {
		p.Field("Recency", "%.3f", b.Recency)
	}
	if b.StructureApplied {
		p.Field("Structure", "%.3f", b.Structure)
	}
	p.Field("Title similarity", "%.3f", cmp.TitleSimilarity)
	p.Field("Common words", "%d: %s", cmp.CommonWordCount, joinOrNone(cmp.CommonWords))
	p.Field("Common tags", "%s", joinOrNone(cmp.CommonTags))
}

func runSimilarity(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errNotConfigured("analysis")
	}

	m, err := analysisService.AnalyzeDocumentSimilarity(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("failed to analyse similarity: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, m)
	}

	p := newPrinter(cmd)
	p.Title("Similarity of %d documents", len(m.DocumentIDs))
	for i := range m.Comparisons {
		c := &m.Comparisons[i]
		p.Line("  %s -- %s  %s", c.Title1, c.Title2, p.Score(c.Similarity))
	}
	p.Blank()
	p.Field("Comparisons", "%d", len(m.Comparisons))
	p.Field("Average", "%.3f", m.AverageSimilarity)
	if m.MostSimilar != nil {
		p.Field("Most similar", "%s and %s", m.MostSimilar.Title1, m.MostSimilar.Title2)
	}
	return nil
}

func runThemes(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errNotConfigured("analysis")
	}

	res, err := analysisService.ExtractThemes(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("failed to extract themes: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, res)
	}

	p := newPrinter(cmd)
	p.Title("Themes across %d documents", res.DocumentCount)
	if len(res.Themes) == 0 {
		p.Line("No themes found.")
	}
	for i, t := range res.Themes {
		p.Line("  %d. %s (%s)", i+1, t.Label, p.Score(t.Weight))
		p.Line("     Terms: %s", joinOrNone(t.Terms))
		p.Muted("     %d documents", len(t.DocumentIDs))
	}
	if len(res.TopWords) > 0 {
		p.Blank()
		words := make([]string, len(res.TopWords))
		for i, w := range res.TopWords {
			words[i] = w.Term
		}
		p.Field("Top words", "%s", joinOrNone(words))
	}
	return nil
}

func runSynthesize(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errNotConfigured("analysis")
	}

	syn, err := analysisService.SynthesizeDocuments(cmd.Context(), args, domain.SynthesisMode(synthesisType))
	if err != nil {
		return fmt.Errorf("failed to synthesize documents: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, syn)
	}

	p := newPrinter(cmd)
	p.Title("Synthesis (%s) of %d documents", syn.Mode, syn.SourceCount)
	if syn.Text == "" {
		p.Line("No sentences could be extracted.")
		return nil
	}
	p.Line("%s", syn.Text)
	if len(syn.SharedTerms) > 0 {
		p.Blank()
		p.Field("Shared terms", "%s", joinOrNone(syn.SharedTerms))
	}
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errNotConfigured("analysis")
	}

	a, err := analysisService.AnalyzeDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to analyse document: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, a)
	}

	p := newPrinter(cmd)
	p.Title("%s", a.Title)
	p.Field("Words", "%d", a.WordCount)
	p.Field("Sentences", "%d", a.SentenceCount)
	p.Field("Characters", "%d", a.CharacterCount)
	p.Field("Avg sentence", "%.1f words", a.AverageSentenceLength)
	p.Field("Avg word", "%.1f letters", a.AverageWordLength)
	p.Field("Complex words", "%.1f%%", a.ComplexWordPercent)
	p.Field("Readability", "%.1f (%s)", a.ReadabilityScore, a.ReadabilityLevel)
	p.Field("Reading time", "%.1f min", a.ReadingTimeMinutes)
	if len(a.KeySentences) > 0 {
		p.Blank()
		p.Line("Key sentences:")
		for _, s := range a.KeySentences {
			p.Line("  - %s", s)
		}
	}
	return nil
}
