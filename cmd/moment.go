package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
)

var (
	// Unfactored moments (kN-m)
	momentDead       float64
	momentLive       float64
	momentRoof       float64
	momentWind       float64
	momentEarthquake float64
	momentRain       float64

	// Unfactored shears (kN)
	shearDead float64
	shearLive float64

	// Options
	momentCode    string
	showAll       bool
	useSimplified bool
)

var momentCmd = &cobra.Command{
	Use:   "moment",
	Short: "Calculate factored moment using the code's load combinations",
	Long: `Calculate the factored moment (Mu) from unfactored load effects
using the load combinations of the selected code.

Load Types:
  D  - Dead load
  L  - Live load
  Lr - Roof live load
  W  - Wind load
  E  - Earthquake load
  R  - Rain load

Examples:
  # Simple gravity loads (dead + live)
  rcbeam moment --dead 50 --live 30

  # NSCP combinations with wind, all shown
  rcbeam moment --design-code NSCP2015 --dead 50 --live 30 --wind 20 --all`,
	RunE: runMoment,
}

func init() {
	rootCmd.AddCommand(momentCmd)

	// Load moment flags
	momentCmd.Flags().Float64VarP(&momentDead, "dead", "d", 0, "Moment due to dead load (kN-m)")
	momentCmd.Flags().Float64VarP(&momentLive, "live", "l", 0, "Moment due to live load (kN-m)")
	momentCmd.Flags().Float64VarP(&momentRoof, "roof", "r", 0, "Moment due to roof live load (kN-m)")
	momentCmd.Flags().Float64VarP(&momentWind, "wind", "w", 0, "Moment due to wind load (kN-m)")
	momentCmd.Flags().Float64VarP(&momentEarthquake, "earthquake", "e", 0, "Moment due to earthquake load (kN-m)")
	momentCmd.Flags().Float64VarP(&momentRain, "rain", "R", 0, "Moment due to rain load (kN-m)")
	momentCmd.Flags().Float64Var(&shearDead, "dead-shear", 0, "Shear due to dead load (kN)")
	momentCmd.Flags().Float64Var(&shearLive, "live-shear", 0, "Shear due to live load (kN)")

	// Options
	momentCmd.Flags().StringVar(&momentCode, "design-code", "", "Code whose combinations apply (default: --code)")
	momentCmd.Flags().BoolVarP(&showAll, "all", "a", false, "Show all load combination results")
	momentCmd.Flags().BoolVarP(&useSimplified, "simplified", "s", false, "Use gravity combinations only (dead and live)")
}

func momentLoads() material.LoadEffects {
	return material.LoadEffects{
		Dead:       material.Effect{Moment: momentDead, Shear: shearDead},
		Live:       material.Effect{Moment: momentLive, Shear: shearLive},
		Roof:       material.Effect{Moment: momentRoof},
		Wind:       material.Effect{Moment: momentWind},
		Earthquake: material.Effect{Moment: momentEarthquake},
		Rain:       material.Effect{Moment: momentRain},
	}
}

func runMoment(cmd *cobra.Command, args []string) error {
	loads := momentLoads()
	if loads == (material.LoadEffects{}) {
		return fmt.Errorf("provide at least one unfactored moment; see 'rcbeam moment --help'")
	}

	name := momentCode
	if name == "" {
		name = cfg.Engine.DefaultCode
	}
	code, err := design.Get(name)
	if err != nil {
		return err
	}
	lc, ok := code.(design.LoadCombiner)
	if !ok {
		return fmt.Errorf("%s has no load combinations", code.Name())
	}
	combinations := lc.Combinations()
	if useSimplified {
		combinations = design.Gravity(combinations)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "          %s FACTORED MOMENT CALCULATION\n", code.Name())
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "UNFACTORED MOMENTS (kN-m):")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	printLoads(out, loads)

	governing, governingCombo := design.Governing(loads, combinations)

	if showAll {
		clause := ""
		if len(combinations) > 0 {
			clause = " (" + combinations[0].Clause + ")"
		}
		fmt.Fprintf(out, "LOAD COMBINATIONS%s:\n", clause)
		fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  #\tCombination\tMu (kN-m)\tVu (kN)\n")
		fmt.Fprintf(w, "  ─\t───────────\t─────────\t───────\n")
		for _, combo := range combinations {
			d := combo.Apply(loads)
			marker := ""
			if combo.ID == governingCombo.ID {
				marker = " ← GOVERNS"
			}
			fmt.Fprintf(w, "  %s\t%s\t%.2f\t%.2f%s\n", combo.ID, combo.Description, d.Moment, d.Shear, marker)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "RESULT:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	fmt.Fprintf(out, "  Governing Combination: %s (%s)\n", governingCombo.ID, governingCombo.Description)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  ╔═══════════════════════════════════╗\n")
	fmt.Fprintf(out, "  ║  FACTORED MOMENT (Mu) = %.2f kN-m  \n", governing.Moment)
	if governing.Shear != 0 {
		fmt.Fprintf(out, "  ║  FACTORED SHEAR  (Vu) = %.2f kN    \n", governing.Shear)
	}
	fmt.Fprintf(out, "  ╚═══════════════════════════════════╝\n")
	fmt.Fprintln(out)
	return nil
}

func printLoads(out io.Writer, l material.LoadEffects) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, row := range []struct {
		label string
		value float64
	}{
		{"Dead Load (D)", l.Dead.Moment},
		{"Live Load (L)", l.Live.Moment},
		{"Roof Live Load (Lr)", l.Roof.Moment},
		{"Wind Load (W)", l.Wind.Moment},
		{"Earthquake Load (E)", l.Earthquake.Moment},
		{"Rain Load (R)", l.Rain.Moment},
	} {
		if row.value != 0 {
			fmt.Fprintf(w, "  %s:\t%.2f\n", row.label, row.value)
		}
	}
	w.Flush()
	fmt.Fprintln(out)
}
