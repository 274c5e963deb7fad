package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

var (
	evolutionStart       string
	evolutionEnd         string
	evolutionGranularity string
	evolutionFillGaps    bool
	evolutionMaxDocs     int

	trendsGroup       string
	trendsGranularity string
	trendsPrevious    string
	trendsCurrent     string
	trendsThreshold   float64
	trendsLimit       int
)

var evolutionCmd = &cobra.Command{
	Use:   "evolution [topic]",
	Short: "Track a topic over time",
	Long: `Buckets the documents mentioning a topic by period and scores how
strongly each period features it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEvolution,
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Report terms rising or falling between periods",
	Long: `Compares term weights between two periods. Without --previous and
--current the last two periods with documents are compared.`,
	Args: cobra.NoArgs,
	RunE: runTrends,
}

func init() {
	evolutionCmd.Flags().StringVar(&evolutionStart, "start", "", "inclusive start date (YYYY-MM-DD)")
	evolutionCmd.Flags().StringVar(&evolutionEnd, "end", "", "inclusive end date (YYYY-MM-DD)")
	evolutionCmd.Flags().StringVarP(&evolutionGranularity, "granularity", "g", "auto", "auto, day, week, month or year")
	evolutionCmd.Flags().BoolVar(&evolutionFillGaps, "fill-gaps", false, "show empty periods")
	evolutionCmd.Flags().IntVar(&evolutionMaxDocs, "max-documents", 0, "corpus ceiling (default from settings)")

	trendsCmd.Flags().StringVar(&trendsGroup, "group", "", "limit to a group path")
	trendsCmd.Flags().StringVarP(&trendsGranularity, "granularity", "g", "auto", "auto, day, week, month or year")
	trendsCmd.Flags().StringVar(&trendsPrevious, "previous", "", "label of the earlier period")
	trendsCmd.Flags().StringVar(&trendsCurrent, "current", "", "label of the later period")
	trendsCmd.Flags().Float64VarP(&trendsThreshold, "threshold", "t", 0, "minimum weight change, 0 for every change (default from settings)")
	trendsCmd.Flags().IntVarP(&trendsLimit, "limit", "n", 0, "maximum number of trends")

	rootCmd.AddCommand(evolutionCmd)
	rootCmd.AddCommand(trendsCmd)
}

func runEvolution(cmd *cobra.Command, args []string) error {
	if trendService == nil {
		return errNotConfigured("trend")
	}

	start, err := domain.ParseDate(evolutionStart, false)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := domain.ParseDate(evolutionEnd, true)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}

	evo, err := trendService.TrackTopicEvolution(cmd.Context(), domain.EvolutionRequest{
		Topic: strings.Join(args, " "),
		Range: domain.TimeRange{
			Start:       start,
			End:         end,
			Granularity: domain.Granularity(evolutionGranularity),
		},
		FillGaps:     evolutionFillGaps,
		MaxDocuments: evolutionMaxDocs,
	})
	if err != nil {
		return fmt.Errorf("failed to track topic: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, evo)
	}

	p := newPrinter(cmd)
	p.Title("Evolution of %q by %s", evo.Topic, evo.Granularity)
	if len(evo.Buckets) == 0 {
		p.Line("No dated documents mention this topic.")
		return nil
	}
	for _, b := range evo.Buckets {
		p.Line("  %-16s %3d  %s", b.Label, len(b.DocumentIDs), p.Score(b.Score))
	}
	p.Blank()
	p.Field("Matched", "%d documents", evo.MatchedDocuments)
	return nil
}

func runTrends(cmd *cobra.Command, _ []string) error {
	if trendService == nil {
		return errNotConfigured("trend")
	}

	report, err := trendService.IdentifyTrends(cmd.Context(), domain.TrendRequest{
		Group:          trendsGroup,
		Granularity:    domain.Granularity(trendsGranularity),
		PreviousPeriod: trendsPrevious,
		CurrentPeriod:  trendsCurrent,
		Threshold:      setFloat(cmd, "threshold", trendsThreshold),
		Limit:          trendsLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to identify trends: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, report)
	}

	p := newPrinter(cmd)
	p.Title("Trends %s -> %s", report.PreviousPeriod, report.CurrentPeriod)
	if len(report.Trends) == 0 {
		p.Line("No terms changed by more than %.2f.", report.Threshold)
		return nil
	}
	for _, t := range report.Trends {
		p.Line("  %-8s %-24s %.3f -> %.3f", t.Direction, t.Term, t.Previous, t.Current)
	}
	return nil
}
