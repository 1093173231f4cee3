package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of rcbeam",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, version.String())
		fmt.Fprintf(out, "Result schema %s\n", design.SchemaVersion)
		fmt.Fprintf(out, "Codes: %v\n", design.Names())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
