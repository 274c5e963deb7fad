package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

var importWatch bool

var importCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Import a directory of documents",
	Long: `Walks a directory and stores every Markdown, HTML and plain-text file.
Files removed since the last import of the same directory are dropped.

With --watch the directory is imported and then watched, applying changes
until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importWatch, "watch", "w", false, "keep watching for changes")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if importService == nil {
		return errNotConfigured("import")
	}

	res, err := importService.Import(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if jsonOutput {
		if err := printJSON(cmd, res); err != nil {
			return err
		}
	} else {
		printImportResult(newPrinter(cmd), res)
	}

	if !importWatch {
		return nil
	}

	p := newPrinter(cmd)
	p.Muted("Watching %s (Ctrl+C to stop)", res.Root)
	err = importService.Watch(cmd.Context(), args[0], func(change domain.RawDocumentChange, err error) {
		if err != nil {
			p.Warn("%s: %v", change.Document.URI, err)
			return
		}
		p.Line("%-8s %s", change.Type, change.Document.URI)
	})
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

func printImportResult(p *printer, res *domain.ImportResult) {
	p.Title("Imported %s", res.Root)
	p.Field("New", "%d", res.Imported)
	p.Field("Updated", "%d", res.Updated)
	p.Field("Skipped", "%d", res.Skipped)
	p.Field("Removed", "%d", res.Removed)

	if len(res.Failures) == 0 {
		return
	}
	paths := make([]string, 0, len(res.Failures))
	for path := range res.Failures {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	p.Blank()
	for _, path := range paths {
		p.Warn("%s: %s", path, res.Failures[path])
	}
}
