package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/alexiusacademia/rcbeam/internal/clause"
	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/version"
)

// Meta is the title block of a PDF report
type Meta struct {
	Title   string
	Project string
	Author  string
	Date    time.Time
}

// the core PDF fonts are cp1252; symbols outside it are spelled out
var latin = strings.NewReplacer(
	"φ", "dia ",
	"²", "2",
	"⁴", "4",
	"✓", "OK",
	"✗", "NG",
	"≤", "<=",
	"≥", ">=",
	"τ", "tau ",
	"ε", "eps ",
)

type pdfWriter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (p pdfWriter) text(s string) string {
	return p.tr(latin.Replace(s))
}

func (p pdfWriter) heading(s string) {
	p.pdf.Ln(4)
	p.pdf.SetFont("Helvetica", "B", 12)
	p.pdf.Cell(0, 7, p.text(s))
	p.pdf.Ln(8)
	p.pdf.SetFont("Helvetica", "", 9)
}

// row draws one table row; widths are in mm
func (p pdfWriter) row(widths []float64, cells []string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	p.pdf.SetFont("Helvetica", style, 8)
	for i, c := range cells {
		p.pdf.CellFormat(widths[i], 5.5, p.text(c), "1", 0, "L", bold, 0, "")
	}
	p.pdf.Ln(-1)
}

// WritePDF renders the result and its clause trace as an A4 report
func WritePDF(w io.Writer, res *design.Result, rep clause.TraceReport, meta Meta) error {
	if meta.Title == "" {
		meta.Title = "Reinforced Concrete Beam Design"
	}
	if meta.Date.IsZero() {
		meta.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(meta.Title, false)
	pdf.SetAuthor(meta.Author, false)
	pdf.SetCreator("rcbeam "+version.Version, false)
	pdf.SetFillColor(230, 236, 245)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("%s  |  page %d", res.ID, pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	p := pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, p.text(meta.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		"Project: " + meta.Project,
		"Author: " + meta.Author,
		"Date: " + meta.Date.Format("2006-01-02"),
		fmt.Sprintf("Code: %s    Status: %s", res.Code, strings.ToUpper(string(res.Status))),
	} {
		pdf.Cell(0, 6, p.text(line))
		pdf.Ln(6)
	}

	g := res.Section
	p.heading("Input")
	inputs := [][]string{
		{"Label", res.Label},
		{"Section", fmt.Sprintf("%s %.0f x %.0f mm, d = %.0f mm, cover %.0f mm", g.Shape, g.Width, g.Depth, g.EffectiveDepth, g.Cover)},
		{"Materials", fmt.Sprintf("%s (%.1f MPa), %s (%.0f MPa)", res.Materials.Concrete, res.Materials.Fck, res.Materials.Steel, res.Materials.Fy)},
	}
	if g.Shape.IsFlanged() {
		inputs = append(inputs, []string{"Flange", fmt.Sprintf("bf %.0f mm, Df %.0f mm", g.FlangeWidth, g.FlangeThickness)})
	}
	for _, r := range inputs {
		p.row([]float64{40, 140}, r, false)
	}

	widths := []float64{58, 22, 22, 16, 16, 10, 36}
	for _, c := range res.Cases {
		d := c.Demand
		p.heading(fmt.Sprintf("Case %s: Mu %.2f kN-m, Vu %.2f kN, Tu %.2f kN-m", c.Name, d.Moment, d.Shear, d.Torsion))
		pdf.MultiCell(0, 5, p.text(caseSummary(c)), "", "L", false)
		pdf.Ln(2)
		p.row(widths, []string{"Check", "Demand", "Capacity", "Unit", "Util.", "", "Clause"}, true)
		for _, ch := range c.Checks {
			p.row(widths, []string{
				ch.Name,
				fmt.Sprintf("%.2f", ch.Demand),
				fmt.Sprintf("%.2f", ch.Capacity),
				ch.Unit,
				fmt.Sprintf("%.3f", ch.Utilisation),
				Mark(ch.Pass),
				ch.Clause,
			}, false)
		}
		if issues := c.Issues(); len(issues) > 0 {
			pdf.Ln(2)
			for _, i := range issues {
				pdf.MultiCell(0, 4.5, p.text(i.String()), "", "L", false)
			}
		}
	}

	if len(res.Issues) > 0 {
		p.heading("Request issues")
		for _, i := range res.Issues {
			pdf.MultiCell(0, 4.5, p.text(i.String()), "", "L", false)
		}
	}

	p.heading("Clause trace")
	tw := []float64{62, 30, 88}
	p.row(tw, []string{"Routine", "Clause", "Title"}, true)
	for _, e := range rep.Entries {
		for i, ref := range e.Clauses {
			routine := e.Routine
			if i > 0 {
				routine = ""
			}
			p.row(tw, []string{routine, ref.ID, truncate(ref.Title, 58)}, false)
		}
	}
	if len(rep.Unregistered) > 0 {
		pdf.Ln(2)
		pdf.MultiCell(0, 4.5, "Routines without clause bindings: "+strings.Join(rep.Unregistered, ", "), "", "L", false)
	}

	if res.Governing != "" {
		p.heading("Result")
		pdf.Cell(0, 6, p.text(fmt.Sprintf("Governing: %s, utilisation %.3f", res.Governing, res.Utilisation)))
		pdf.Ln(6)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func caseSummary(c design.CaseResult) string {
	var lines []string
	f := c.Flexure
	lines = append(lines, fmt.Sprintf("Flexure: %s, Ast required %.1f mm² (min %.1f, max %.1f), xu/d %.3f",
		f.Classification, f.AstRequired, f.AstMin, f.AstMax, f.NeutralAxisRatio))
	if f.AscRequired > 0 {
		lines = append(lines, fmt.Sprintf("Compression steel: Asc required %.1f mm²", f.AscRequired))
	}
	if st := c.Shear.Stirrup; st.Spacing > 0 {
		lines = append(lines, fmt.Sprintf("Shear: %d-leg φ%.0f @ %.0f mm", st.Legs, st.Diameter, st.Spacing))
	}
	if dt := c.Detailing; dt.Bars.Count > 0 {
		lines = append(lines, fmt.Sprintf("Bars: %s bottom (%.1f mm²), %s top; development %.0f mm, lap %.0f mm",
			dt.Bars, dt.AstProvided, dt.CompressionBars, dt.Development.Length, dt.Lap.Length))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
