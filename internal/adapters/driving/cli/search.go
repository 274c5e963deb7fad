package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

var (
	searchLimit  int
	searchTags   []string
	searchGroup  string
	searchAfter  string
	searchBefore string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search imported documents",
	Long: `Finds documents containing every query term, optionally narrowed by
tags, group and modification date.`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "require a tag (repeatable)")
	searchCmd.Flags().StringVar(&searchGroup, "group", "", "limit to a group path")
	searchCmd.Flags().StringVar(&searchAfter, "after", "", "modified on or after (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchBefore, "before", "", "modified on or before (YYYY-MM-DD)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	after, err := domain.ParseDate(searchAfter, false)
	if err != nil {
		return fmt.Errorf("invalid --after: %w", err)
	}
	before, err := domain.ParseDate(searchBefore, true)
	if err != nil {
		return fmt.Errorf("invalid --before: %w", err)
	}

	results, err := documentService.Search(cmd.Context(), strings.Join(args, " "), domain.SearchConstraints{
		Tags:           searchTags,
		Group:          searchGroup,
		ModifiedAfter:  after,
		ModifiedBefore: before,
		Limit:          searchLimit,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchTable(cmd *cobra.Command, results []domain.DocumentSummary) error {
	p := newPrinter(cmd)
	if len(results) == 0 {
		p.Line("No results found.")
		return nil
	}

	p.Title("Results")
	for i := range results {
		title := results[i].Title
		if title == "" {
			title = results[i].ID
		}
		p.Line("  [%d] %s", i+1, title)
		p.Muted("      %s", results[i].ID)
		if results[i].GroupPath != "" {
			p.Line("      Group: %s", results[i].GroupPath)
		}
		if len(results[i].Tags) > 0 {
			p.Line("      Tags: %s", strings.Join(results[i].Tags, ", "))
		}
	}
	return nil
}
