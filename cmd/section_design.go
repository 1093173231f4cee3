package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/report"
)

var sectionDesignMu float64

var sectionDesignCmd = &cobra.Command{
	Use:   "design",
	Short: "Design tension reinforcement for a polygonal section",
	Long: `Calculate the tension reinforcement a polygonal section needs to
resist a given factored moment (Mu).

The section geometry and compression reinforcement (if any) come from
the JSON file. The first tension layer is resized; its area in the file
only marks its position.

Examples:
  rcbeam section design -f t-beam.json --concrete FC28 --steel G415 --mu 200
  rcbeam section design -f t-beam.json --concrete M25 --steel Fe415 -m 150 --diagram`,
	RunE: runSectionDesign,
}

func init() {
	sectionCmd.AddCommand(sectionDesignCmd)

	sectionDesignCmd.Flags().Float64VarP(&sectionDesignMu, "mu", "m", 0, "Factored moment Mu (kN-m) [required]")
	sectionDesignCmd.MarkFlagRequired("mu")
}

func runSectionDesign(cmd *cobra.Command, args []string) error {
	sec, code, err := sectionInputs()
	if err != nil {
		return err
	}
	e, err := newEngine()
	if err != nil {
		return err
	}
	as, sc, err := e.DesignSection(code, sectionConcrete, sectionSteel, sec, sectionDesignMu)
	if err != nil {
		return fmt.Errorf("designing section: %w", err)
	}
	sec.Reinforcement[sec.TensionLayer()].Area = as

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "     POLYGONAL SECTION DESIGN - %s\n", sc.Code)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "DESIGN REQUIREMENT:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Factored moment (Mu):\t%.2f kN-m\n", sectionDesignMu)
	fmt.Fprintf(w, "  Required nominal (Mu/φ):\t%.2f kN-m\n", sectionDesignMu/sc.Phi)
	w.Flush()
	fmt.Fprintln(out)

	printSectionCapacity(out, sec, sc)

	fmt.Fprintln(out, "DESIGN RESULT:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	fmt.Fprintf(out, "  ╔═════════════════════════════════════════════════╗\n")
	fmt.Fprintf(out, "  ║  REQUIRED TENSION STEEL As = %.2f mm²       \n", as)
	fmt.Fprintf(out, "  ╚═════════════════════════════════════════════════╝\n")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  φMn = %.2f kN-m ≥ Mu = %.2f kN-m ✓\n\n", sc.PhiMn, sectionDesignMu)

	if err := report.WriteSuggestions(out, as); err != nil {
		return err
	}
	return sectionDiagrams(out, sec, sc, sectionDiagram, sectionExport, sectionStrain)
}
