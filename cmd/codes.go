package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/design"
)

var codesCmd = &cobra.Command{
	Use:   "codes [code]",
	Short: "List design codes and their material grades",
	Long: `List the registered design codes. With a code name, print its
concrete and steel grades and load combinations.

Examples:
  rcbeam codes
  rcbeam codes NSCP2015`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "  CODE\tTITLE\n")
			for _, name := range design.Names() {
				c, err := design.Get(name)
				if err != nil {
					return err
				}
				marker := ""
				if name == cfg.Engine.DefaultCode {
					marker = " (default)"
				}
				fmt.Fprintf(w, "  %s%s\t%s\n", name, marker, c.Title())
			}
			return w.Flush()
		}

		c, err := design.Get(args[0])
		if err != nil {
			return err
		}
		m := c.Materials()
		fmt.Fprintf(out, "\n  %s - %s\n\n", c.Name(), c.Title())
		fmt.Fprintf(out, "  Concrete grades: %s\n", strings.Join(m.ConcreteGrades(), ", "))
		fmt.Fprintf(out, "  Steel grades:    %s\n\n", strings.Join(m.SteelGrades(), ", "))

		lc, ok := c.(design.LoadCombiner)
		if !ok {
			return nil
		}
		fmt.Fprintln(out, "LOAD COMBINATIONS:")
		fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  #\tCombination\tClause\n")
		for _, cb := range lc.Combinations() {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", cb.ID, cb.Description, cb.Clause)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(codesCmd)
}
