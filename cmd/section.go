package cmd

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/diagram"
	"github.com/alexiusacademia/rcbeam/internal/engine"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

var (
	sectionFile     string
	sectionCode     string
	sectionConcrete string
	sectionSteel    string
	sectionDiagram  bool
	sectionExport   string
	sectionStrain   string
)

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Polygonal section design and analysis",
	Long: `Design and analyze concrete sections of any polygonal shape
defined in JSON files, by strain compatibility under the stress block
of the selected code.

This allows analysis of complex shapes like T-beams, L-beams,
or any arbitrary polygonal section.

Subcommands:
  analyze  - Calculate moment capacity for a defined section
  design   - Calculate required reinforcement for a given moment

Example JSON file structure:
{
  "name": "T-Beam Section",
  "vertices": [
    {"x": 0, "y": 0},
    {"x": 300, "y": 0},
    {"x": 300, "y": 400},
    {"x": 600, "y": 400},
    {"x": 600, "y": 500},
    {"x": 0, "y": 500}
  ],
  "reinforcement": [
    {"y": 65, "area": 1256.64, "description": "4-20mm"}
  ]
}`,
}

func init() {
	rootCmd.AddCommand(sectionCmd)

	pf := sectionCmd.PersistentFlags()
	pf.StringVarP(&sectionFile, "file", "f", "", "Path to section JSON file [required]")
	pf.StringVar(&sectionCode, "design-code", "", "Design code (default: --code)")
	pf.StringVar(&sectionConcrete, "concrete", "", "Concrete grade, e.g. M25 or FC28 [required]")
	pf.StringVar(&sectionSteel, "steel", "", "Steel grade, e.g. Fe415 or G415 [required]")
	pf.BoolVar(&sectionDiagram, "diagram", false, "Show ASCII stress-strain diagram")
	pf.StringVarP(&sectionExport, "output", "o", "", "Export section diagram to file (png, svg, pdf)")
	pf.StringVar(&sectionStrain, "strain", "", "Export strain diagram to file (png, svg, pdf)")
}

// sectionInputs loads the section file and checks the grade flags
func sectionInputs() (*section.Section, string, error) {
	if sectionFile == "" || sectionConcrete == "" || sectionSteel == "" {
		return nil, "", fmt.Errorf("--file, --concrete and --steel are required")
	}
	sec, err := section.LoadFromFile(sectionFile)
	if err != nil {
		return nil, "", fmt.Errorf("loading section: %w", err)
	}
	code := sectionCode
	if code == "" {
		code = cfg.Engine.DefaultCode
	}
	return sec, code, nil
}

func printSectionCapacity(out io.Writer, sec *section.Section, sc *engine.SectionCapacity) {
	props := sc.Properties

	if sec.Name != "" {
		fmt.Fprintf(out, "  Section: %s\n\n", sec.Name)
	}

	fmt.Fprintln(out, "MATERIAL PROPERTIES:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Concrete:\t%s (%.1f MPa)\n", sc.Grades.Concrete, sc.Grades.Fck)
	fmt.Fprintf(w, "  Steel:\t%s (%.1f MPa)\n", sc.Grades.Steel, sc.Grades.Fy)
	fmt.Fprintf(w, "  Block intensity:\t%.2f MPa\n", sc.Block.Intensity)
	fmt.Fprintf(w, "  Block depth factor:\t%.4f\n", sc.Block.DepthFactor)
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "SECTION GEOMETRY:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Width (max):\t%.0f mm\n", props.Width)
	fmt.Fprintf(w, "  Height:\t%.0f mm\n", props.Height)
	fmt.Fprintf(w, "  Gross Area:\t%.0f mm²\n", props.Area)
	fmt.Fprintf(w, "  Effective Depth (d):\t%.0f mm\n", props.EffectiveDepth)
	fmt.Fprintf(w, "  Vertices:\t%d points\n", len(sec.Vertices))
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "REINFORCEMENT:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Layer\tY (mm)\tArea (mm²)\tDescription\n")
	fmt.Fprintf(w, "  ─────\t──────\t──────────\t───────────\n")
	for i, layer := range sec.Reinforcement {
		fmt.Fprintf(w, "  %d\t%.0f\t%.2f\t%s\n", i+1, layer.Y, layer.Area, layer.Description)
	}
	fmt.Fprintf(w, "\t\t\t\n")
	fmt.Fprintf(w, "  Total Tension Steel:\t%.2f mm²\t\t\n", props.TotalTensionSteel)
	if props.TotalCompressionSteel > 0 {
		fmt.Fprintf(w, "  Total Compression Steel:\t%.2f mm²\t\t\n", props.TotalCompressionSteel)
	}
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "NEUTRAL AXIS ANALYSIS:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Neutral axis depth (c):\t%.2f mm\n", sc.C)
	fmt.Fprintf(w, "  Compression block depth (a):\t%.2f mm\n", sc.A)
	fmt.Fprintf(w, "  c/d ratio:\t%.4f\n", sc.C/props.EffectiveDepth)
	fmt.Fprintf(w, "  Compression zone area:\t%.0f mm²\n", sc.CompressionArea)
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "STEEL LAYER ANALYSIS:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Layer\tStrain\tStress (MPa)\tForce (kN)\tStatus\n")
	fmt.Fprintf(w, "  ─────\t──────\t────────────\t──────────\t──────\n")
	for i, layer := range sc.SteelLayers {
		status := "Tension"
		if !layer.IsTension {
			status = "Compression"
		}
		if layer.HasYielded {
			status += " (yields)"
		}
		fmt.Fprintf(w, "  %d\t%.6f\t%.2f\t%.2f\t%s\n", i+1, layer.Strain, layer.Stress, layer.Force, status)
	}
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "INTERNAL FORCES:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Cc (concrete compression):\t%.2f kN\n", sc.Cc)
	if sc.Cs != 0 {
		fmt.Fprintf(w, "  Cs (compression steel):\t%.2f kN\n", sc.Cs)
	}
	fmt.Fprintf(w, "  T (tension steel):\t%.2f kN\n", sc.T)
	equilibrium := "✓"
	if math.Abs(sc.T-(sc.Cc+sc.Cs)) > 1 {
		equilibrium = "⚠"
	}
	fmt.Fprintf(w, "  Force equilibrium:\t%s\n", equilibrium)
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "MOMENT CAPACITY:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Maximum tensile strain (εt):\t%.6f\n", sc.EpsilonT)
	fmt.Fprintf(w, "  Strength reduction factor (φ):\t%.2f\n", sc.Phi)
	fmt.Fprintf(w, "  Nominal Moment (Mn):\t%.2f kN-m\n", sc.Mn)
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintf(out, "  ╔═════════════════════════════════════════════════╗\n")
	fmt.Fprintf(out, "  ║  DESIGN CAPACITY φMn = %.2f kN-m            \n", sc.PhiMn)
	fmt.Fprintf(out, "  ╚═════════════════════════════════════════════════╝\n")
	fmt.Fprintln(out)
}

// sectionDiagrams prints the ASCII diagram when show is set and exports
// the section and strain plots to the named files
func sectionDiagrams(out io.Writer, sec *section.Section, sc *engine.SectionCapacity, show bool, export, strain string) error {
	if !show && export == "" && strain == "" {
		return nil
	}
	data := diagram.FromSection(sec, sc.AnalysisResult, sc.Block)
	if show {
		fmt.Fprintln(out, diagram.ASCIISection(data))
	}
	if export != "" {
		if err := diagram.ExportSection(data, export); err != nil {
			return fmt.Errorf("exporting diagram: %w", err)
		}
		fmt.Fprintf(out, "  ✓ Diagram exported to: %s\n", export)
	}
	if strain != "" {
		if err := diagram.ExportStrain(data, strain); err != nil {
			return fmt.Errorf("exporting strain diagram: %w", err)
		}
		fmt.Fprintf(out, "  ✓ Strain diagram exported to: %s\n", strain)
	}
	return nil
}
