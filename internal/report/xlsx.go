package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/engine"
	"github.com/alexiusacademia/rcbeam/internal/material"
)

// ImportColumns are the recognised header names of a request sheet.
// Consecutive rows with the same non-empty label add load cases to one
// request; their section and material cells may be left blank.
var ImportColumns = []string{
	"label", "code", "shape",
	"width_mm", "depth_mm", "effective_depth_mm", "cover_mm",
	"flange_width_mm", "flange_thickness_mm", "compression_depth_mm",
	"concrete", "steel", "stirrup_steel",
	"case", "moment_knm", "shear_kn", "torsion_knm", "axial_kn",
	"span_mm", "support", "bar_diameter_mm", "ductile", "levels",
}

// RowError is one rejected spreadsheet row
type RowError struct {
	Row    int // 1-based sheet row
	Column string
	Err    error
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, %s: %v", e.Row, e.Column, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// ImportError lists the rows skipped while reading a sheet
type ImportError struct {
	Rows []RowError
}

func (e *ImportError) Error() string {
	msgs := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		msgs[i] = r.Error()
	}
	return fmt.Sprintf("%d rows skipped: %s", len(e.Rows), strings.Join(msgs, "; "))
}

// ReadRequests reads design requests from the first sheet of a workbook.
// Valid rows are returned even when others fail; the error is then an
// *ImportError.
func ReadRequests(r io.Reader) ([]design.Request, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s has no data rows", sheet)
	}

	header := make(map[string]int)
	for i, h := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"width_mm", "depth_mm", "effective_depth_mm", "cover_mm", "concrete", "steel"} {
		if _, ok := header[required]; !ok {
			return nil, fmt.Errorf("sheet %s: missing column %q", sheet, required)
		}
	}

	var (
		reqs    []design.Request
		skipped []RowError
	)
	for i := 1; i < len(rows); i++ {
		row := sheetRow{cells: rows[i], header: header, number: i + 1}
		if row.blank() {
			continue
		}
		label := row.str("label")
		demand, err := row.demand()
		if err != nil {
			skipped = append(skipped, *err)
			continue
		}
		if n := len(reqs); n > 0 && label != "" && reqs[n-1].Label == label && row.str("width_mm") == "" {
			if demand.Name == "" {
				demand.Name = fmt.Sprintf("row %d", row.number)
			}
			reqs[n-1].Demands = append(reqs[n-1].Demands, demand)
			continue
		}
		req, rerr := row.request()
		if rerr != nil {
			skipped = append(skipped, *rerr)
			continue
		}
		if demand.Name == "" {
			demand.Name = fmt.Sprintf("row %d", row.number)
		}
		req.Demands = []material.ForceDemand{demand}
		reqs = append(reqs, req)
	}
	if len(skipped) > 0 {
		return reqs, &ImportError{Rows: skipped}
	}
	return reqs, nil
}

type sheetRow struct {
	cells  []string
	header map[string]int
	number int
}

func (r sheetRow) blank() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (r sheetRow) str(col string) string {
	i, ok := r.header[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r sheetRow) num(col string) (float64, *RowError) {
	s := r.str(col)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &RowError{Row: r.number, Column: col, Err: err}
	}
	return v, nil
}

func (r sheetRow) demand() (material.ForceDemand, *RowError) {
	d := material.ForceDemand{Name: r.str("case")}
	for col, dst := range map[string]*float64{
		"moment_knm":  &d.Moment,
		"shear_kn":    &d.Shear,
		"torsion_knm": &d.Torsion,
		"axial_kn":    &d.Axial,
	} {
		v, err := r.num(col)
		if err != nil {
			return d, err
		}
		*dst = v
	}
	return d, nil
}

func (r sheetRow) request() (design.Request, *RowError) {
	req := design.Request{
		Label:        r.str("label"),
		Code:         r.str("code"),
		Concrete:     r.str("concrete"),
		Steel:        r.str("steel"),
		StirrupSteel: r.str("stirrup_steel"),
		Section:      material.SectionGeometry{Shape: material.Shape(strings.ToLower(r.str("shape")))},
		Span:         design.Span{Support: material.Support(strings.ToLower(r.str("support")))},
	}
	g := &req.Section
	for col, dst := range map[string]*float64{
		"width_mm":             &g.Width,
		"depth_mm":             &g.Depth,
		"effective_depth_mm":   &g.EffectiveDepth,
		"cover_mm":             &g.Cover,
		"flange_width_mm":      &g.FlangeWidth,
		"flange_thickness_mm":  &g.FlangeThickness,
		"compression_depth_mm": &g.CompressionDepth,
		"span_mm":              &req.Span.Length,
		"bar_diameter_mm":      &req.Detailing.BarDiameter,
	} {
		v, err := r.num(col)
		if err != nil {
			return req, err
		}
		*dst = v
	}
	if s := r.str("ductile"); s != "" {
		b, err := parseBool(s)
		if err != nil {
			return req, &RowError{Row: r.number, Column: "ductile", Err: err}
		}
		req.Detailing.Ductile = b
	}
	if s := r.str("levels"); s != "" {
		for _, l := range strings.Split(s, ",") {
			req.Serviceability.Levels = append(req.Serviceability.Levels, design.Level(strings.ToLower(strings.TrimSpace(l))))
		}
	}
	return req, nil
}

// parseBool accepts yes/no and y/n besides the strconv forms
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return strconv.ParseBool(s)
}

const (
	resultsSheet = "Results"
	checksSheet  = "Checks"
)

// WriteResults writes a batch as a workbook with a summary row per case
// and a sheet of every compliance check
func WriteResults(w io.Writer, items []engine.Item) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(checksSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	results := [][]any{{
		"index", "label", "code", "status", "case", "governing", "utilisation",
		"ast_required_mm2", "bars", "ast_provided_mm2", "stirrups", "pass", "id", "error",
	}}
	checks := [][]any{{
		"index", "label", "case", "check", "demand", "capacity", "unit", "utilisation", "pass", "clause",
	}}

	for _, it := range items {
		res := it.Result
		if res == nil {
			results = append(results, []any{it.Index, "", "", "error", "", "", "", "", "", "", "", false, "", it.Error})
			continue
		}
		if len(res.Cases) == 0 {
			msg := ""
			if err := res.Err(); err != nil {
				msg = err.Error()
			}
			results = append(results, []any{it.Index, res.Label, res.Code, string(res.Status), "", "", "", "", "", "", "", false, res.ID, msg})
			continue
		}
		for _, c := range res.Cases {
			st := c.Shear.Stirrup
			stirrups := ""
			if st.Spacing > 0 {
				stirrups = fmt.Sprintf("%d-leg φ%.0f @ %.0f", st.Legs, st.Diameter, st.Spacing)
			}
			results = append(results, []any{
				it.Index, res.Label, res.Code, string(res.Status), c.Name, c.Governing, c.Utilisation,
				c.Flexure.AstRequired, c.Detailing.Bars.String(), c.Detailing.AstProvided, stirrups, c.Pass, res.ID, "",
			})
			for _, ch := range c.Checks {
				checks = append(checks, []any{
					it.Index, res.Label, c.Name, ch.Name, ch.Demand, ch.Capacity, ch.Unit, ch.Utilisation, ch.Pass, ch.Clause,
				})
			}
		}
	}

	for sheet, rows := range map[string][][]any{resultsSheet: results, checksSheet: checks} {
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return err
			}
		}
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return err
		}
	}
	return f.Write(w)
}
