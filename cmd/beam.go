package cmd

import (
	"github.com/spf13/cobra"
)

var beamCmd = &cobra.Command{
	Use:   "beam",
	Short: "Rectangular and flanged beam capacity",
	Long: `Check the moment capacity of a rectangular or flanged beam with
known reinforcement.

Subcommands:
  analyze  - Calculate moment capacity for a given reinforcement

Singly and doubly reinforced sections are both analyzed by strain
compatibility. Use 'rcbeam design' to size the reinforcement.`,
}

func init() {
	rootCmd.AddCommand(beamCmd)
}
