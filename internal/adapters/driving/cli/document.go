package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Inspect imported documents",
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print document content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Show the group tree",
	Args:  cobra.NoArgs,
	RunE:  runGroups,
}

func init() {
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	rootCmd.AddCommand(documentCmd)
	rootCmd.AddCommand(groupsCmd)
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, doc.Summary())
	}

	p := newPrinter(cmd)
	p.Title("Document: %s", doc.ID)
	p.Field("Title", "%s", doc.Title)
	p.Field("Group", "%s", doc.GroupPath)
	p.Field("Tags", "%s", joinOrNone(doc.Tags))
	p.Field("URI", "%s", doc.URI)
	if !doc.CreatedAt.IsZero() {
		p.Field("Created", "%s", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if !doc.ModifiedAt.IsZero() {
		p.Field("Modified", "%s", doc.ModifiedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), doc.Content)
	return nil
}

func runGroups(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	groups, err := documentService.ListGroups(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, groups)
	}

	p := newPrinter(cmd)
	if len(groups) == 0 {
		p.Line("No groups. Import a directory first.")
		return nil
	}
	printGroups(p, groups, 0)
	return nil
}

func printGroups(p *printer, groups []domain.Group, depth int) {
	for _, g := range groups {
		p.Line("%*s%s %s", depth*2, "", g.Name, p.render(p.muted, fmt.Sprintf("(%d)", g.DocumentCount)))
		printGroups(p, g.Children, depth+1)
	}
}
