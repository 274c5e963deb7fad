package cli

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number",
	Annotations: map[string]string{skipServices: "true"},
	Run: func(cmd *cobra.Command, _ []string) {
		if jsonOutput {
			_ = printJSON(cmd, map[string]string{"version": version})
			return
		}
		cmd.Printf("docgraph version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
