// Package report renders design results and their clause traces as text,
// PDF and spreadsheets, and reads batch requests from spreadsheets.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alexiusacademia/rcbeam/internal/clause"
	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/detailing"
)

const (
	heavyRule = "═══════════════════════════════════════════════════════════════"
	lightRule = "───────────────────────────────────────────────────────────────"
)

// Mark is the pass/fail glyph used in tables
func Mark(pass bool) string {
	if pass {
		return "✓"
	}
	return "✗"
}

func heading(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintf(w, "     %s\n", title)
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintln(w)
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "%s:\n", title)
	fmt.Fprintln(w, lightRule)
}

// WriteResult prints a design result in the CLI layout: inputs, then one
// block per load case, then request-level issues
func WriteResult(out io.Writer, res *design.Result) error {
	heading(out, fmt.Sprintf("RC BEAM DESIGN - %s", res.Code))

	section(out, "INPUT DATA")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if res.Label != "" {
		fmt.Fprintf(w, "  Label:\t%s\n", res.Label)
	}
	g := res.Section
	fmt.Fprintf(w, "  Shape:\t%s\n", g.Shape)
	fmt.Fprintf(w, "  Width (b):\t%.0f mm\n", g.Width)
	fmt.Fprintf(w, "  Depth (D):\t%.0f mm\n", g.Depth)
	fmt.Fprintf(w, "  Effective depth (d):\t%.0f mm\n", g.EffectiveDepth)
	if g.Shape.IsFlanged() {
		fmt.Fprintf(w, "  Flange (bf x Df):\t%.0f x %.0f mm\n", g.FlangeWidth, g.FlangeThickness)
	}
	fmt.Fprintf(w, "  Cover:\t%.0f mm\n", g.Cover)
	if m := res.Materials; m.Concrete != "" {
		fmt.Fprintf(w, "  Concrete:\t%s (%.1f MPa)\n", m.Concrete, m.Fck)
		fmt.Fprintf(w, "  Steel:\t%s (%.0f MPa)\n", m.Steel, m.Fy)
	}
	fmt.Fprintf(w, "  Result id:\t%s\n", res.ID)
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out)

	for _, c := range res.Cases {
		if err := writeCase(out, c); err != nil {
			return err
		}
	}

	if len(res.Issues) > 0 {
		section(out, "REQUEST ISSUES")
		writeIssues(out, res.Issues)
		fmt.Fprintln(out)
	}

	section(out, "RESULT")
	fmt.Fprintf(out, "  Status: %s\n", strings.ToUpper(string(res.Status)))
	if res.Governing != "" {
		fmt.Fprintf(out, "  Governing: %s (utilisation %.3f)\n", res.Governing, res.Utilisation)
	}
	fmt.Fprintln(out)
	return nil
}

func writeCase(out io.Writer, c design.CaseResult) error {
	d := c.Demand
	section(out, fmt.Sprintf("CASE %s  (Mu %.2f kN-m, Vu %.2f kN, Tu %.2f kN-m)", strings.ToUpper(c.Name), d.Moment, d.Shear, d.Torsion))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	f := c.Flexure
	fmt.Fprintf(w, "  Classification:\t%s\n", f.Classification)
	fmt.Fprintf(w, "  Ast required:\t%.1f mm²\t(min %.1f, max %.1f)\n", f.AstRequired, f.AstMin, f.AstMax)
	if f.AscRequired > 0 {
		fmt.Fprintf(w, "  Asc required:\t%.1f mm²\n", f.AscRequired)
	}
	fmt.Fprintf(w, "  xu/d:\t%.3f\t(limit %.3f)\n", f.NeutralAxisRatio, f.NeutralAxisLimitRatio)

	s := c.Shear
	fmt.Fprintf(w, "  Shear stress:\t%.3f MPa\t(concrete %.3f, max %.3f)\n", s.DesignStress, s.ConcreteStress, s.MaxStress)
	if s.Stirrup.Spacing > 0 {
		fmt.Fprintf(w, "  Stirrups:\t%d-leg φ%.0f @ %.0f mm\n", s.Stirrup.Legs, s.Stirrup.Diameter, s.Stirrup.Spacing)
	}

	dt := c.Detailing
	if dt.Bars.Count > 0 {
		fmt.Fprintf(w, "  Tension bars:\t%s\t(%.1f mm², clear %.1f mm)\n", dt.Bars, dt.AstProvided, dt.ClearSpacing)
	}
	if dt.CompressionBars.Count > 0 {
		fmt.Fprintf(w, "  Compression bars:\t%s\t(%.1f mm²)\n", dt.CompressionBars, dt.AscProvided)
	}
	if dt.Development.Length > 0 {
		fmt.Fprintf(w, "  Development length:\t%.0f mm\n", dt.Development.Length)
		fmt.Fprintf(w, "  Lap length:\t%.0f mm\n", dt.Lap.Length)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out)

	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  CHECK\tDEMAND\tCAPACITY\tUNIT\tUTIL\t\tCLAUSE")
	for _, ch := range c.Checks {
		fmt.Fprintf(w, "  %s\t%.2f\t%.2f\t%s\t%.3f\t%s\t%s\n",
			ch.Name, ch.Demand, ch.Capacity, ch.Unit, ch.Utilisation, Mark(ch.Pass), ch.Clause)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out)

	if issues := c.Issues(); len(issues) > 0 {
		writeIssues(out, issues)
		fmt.Fprintln(out)
	}
	return nil
}

func writeIssues(out io.Writer, issues []design.Issue) {
	for _, i := range issues {
		fmt.Fprintf(out, "  %s\n", i)
	}
}

// WriteTrace prints a clause-by-clause audit trail
func WriteTrace(out io.Writer, title string, rep clause.TraceReport) error {
	heading(out, title)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ROUTINE\tCLAUSE\tTITLE")
	for _, e := range rep.Entries {
		for i, ref := range e.Clauses {
			routine := e.Routine
			if i > 0 {
				routine = ""
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\n", routine, ref.ID, ref.Title)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(rep.Unregistered) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Routines without clause bindings: %s\n", strings.Join(rep.Unregistered, ", "))
	}
	fmt.Fprintln(out)
	return nil
}

// WriteClauses lists clause references, one per line with category
func WriteClauses(out io.Writer, refs []clause.Reference) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  CLAUSE\tCATEGORY\tTITLE")
	for _, r := range refs {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", r.ID, r.Category, r.Title)
		if r.Formula != "" {
			fmt.Fprintf(w, "  \t\t%s\n", r.Formula)
		}
	}
	return w.Flush()
}

// WriteSuggestions lists alternative bar arrangements for a required area
func WriteSuggestions(out io.Writer, required float64) error {
	suggestions := detailing.Suggest(required)
	if len(suggestions) == 0 {
		return nil
	}
	section(out, "SUGGESTED BAR COMBINATIONS")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Bars\tAs provided\tRatio\n")
	for _, s := range suggestions {
		fmt.Fprintf(w, "  %s\t%.0f mm²\t%.2f\n", s.Bars, s.Provided, s.Ratio)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return nil
}
