package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alexiusacademia/rcbeam/internal/section"
	"github.com/alexiusacademia/rcbeam/internal/serviceability"
)

var (
	blockFill  = color.RGBA{R: 100, G: 149, B: 237, A: 150}
	blockEdge  = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	steelColor = color.RGBA{R: 139, G: 69, B: 19, A: 255}
	axisColor  = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// Formats lists the image extensions the exporters accept
var Formats = []string{".png", ".svg", ".pdf"}

// SectionPlot draws the section outline, stress block, neutral axis and bars
func SectionPlot(data SectionData) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Beam Section"
	if data.Label != "" {
		p.Title.Text += ": " + data.Label
	}
	p.X.Label.Text = "Width (mm)"
	p.Y.Label.Text = "Height (mm)"

	outline := data.Outline
	if len(outline) < 3 {
		return nil, fmt.Errorf("section outline needs at least 3 vertices")
	}
	closed := make(plotter.XYs, len(outline)+1)
	minX, maxX := outline[0].X, outline[0].X
	for i, v := range outline {
		closed[i] = plotter.XY{X: v.X, Y: v.Y}
		minX, maxX = min(minX, v.X), max(maxX, v.X)
	}
	closed[len(outline)] = closed[0]

	beam, err := plotter.NewLine(closed)
	if err != nil {
		return nil, err
	}
	beam.LineStyle.Width = vg.Points(2)
	beam.LineStyle.Color = color.Black
	p.Add(beam)

	h := data.Geometry.Depth
	if block := clipAbove(outline, h-data.BlockDepth); len(block) >= 3 {
		poly, err := plotter.NewPolygon(block)
		if err != nil {
			return nil, err
		}
		poly.Color = blockFill
		poly.LineStyle.Color = blockEdge
		p.Add(poly)
	}

	naY := h - data.NeutralAxis
	na, err := plotter.NewLine(plotter.XYs{{X: minX - 20, Y: naY}, {X: maxX + 20, Y: naY}})
	if err != nil {
		return nil, err
	}
	na.LineStyle.Width = vg.Points(1.5)
	na.LineStyle.Color = axisColor
	na.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(na)

	labels := plotter.XYLabels{
		XYs:    []plotter.XY{{X: maxX + 30, Y: naY}},
		Labels: []string{"N.A."},
	}
	for _, top := range []bool{false, true} {
		pts := data.BarPositions(top)
		if len(pts) == 0 {
			continue
		}
		bars := data.Bars
		if top {
			bars = data.CompressionBars
		}
		sc, err := plotter.NewScatter(toXYs(pts))
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = steelColor
		sc.GlyphStyle.Radius = vg.Points(max(3, bars.Diameter/4))
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)

		y := pts[0].Y - 30
		if top {
			y = pts[0].Y + 20
		}
		labels.XYs = append(labels.XYs, plotter.XY{X: data.Geometry.Width / 2, Y: y})
		labels.Labels = append(labels.Labels, bars.String())
	}
	lbl, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, err
	}
	p.Add(lbl)
	return p, nil
}

// StrainPlot draws the linear strain profile with yield limits
func StrainPlot(data SectionData) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Strain Distribution"
	p.X.Label.Text = "Strain"
	p.Y.Label.Text = "Depth from top (mm)"

	h := data.Geometry.Depth
	d := data.Geometry.EffectiveDepth
	// depth is plotted as a negative ordinate so the top stays up
	pts := plotter.XYs{
		{X: data.EpsilonCU, Y: 0},
		{X: 0, Y: -data.NeutralAxis},
		{X: -data.EpsilonT, Y: -d},
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	p.Add(line)

	for _, x := range []float64{0, data.EpsilonY, -data.EpsilonY} {
		ref, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: -h}})
		if err != nil {
			return nil, err
		}
		ref.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
		ref.LineStyle.Color = color.RGBA{R: 255, G: 165, B: 0, A: 255}
		if x == 0 {
			ref.LineStyle.Color = color.Gray{Y: 128}
		}
		p.Add(ref)
	}

	keys, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	keys.GlyphStyle.Color = axisColor
	keys.GlyphStyle.Radius = vg.Points(4)
	p.Add(keys)
	return p, nil
}

// DeflectionPlot draws the moment and deflection along the span
func DeflectionPlot(points []serviceability.Point, title string) (*plot.Plot, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("deflected shape needs at least 2 points")
	}
	p := plot.New()
	p.Title.Text = "Deflected Shape"
	if title != "" {
		p.Title.Text += ": " + title
	}
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "Deflection (mm)"
	p.Add(plotter.NewGrid())

	shape := make(plotter.XYs, len(points))
	for i, pt := range points {
		// downward deflection plotted below the axis
		shape[i] = plotter.XY{X: pt.X, Y: -pt.Deflection}
	}
	line, err := plotter.NewLine(shape)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = blockEdge
	p.Add(line)
	p.Legend.Add("deflection", line)

	axis, err := plotter.NewLine(plotter.XYs{{X: points[0].X, Y: 0}, {X: points[len(points)-1].X, Y: 0}})
	if err != nil {
		return nil, err
	}
	axis.LineStyle.Color = color.Gray{Y: 128}
	p.Add(axis)
	return p, nil
}

// Save writes a plot, choosing the format from the file extension.
// Unknown extensions get ".png" appended.
func Save(p *plot.Plot, filename string, width, height vg.Length) error {
	ext := strings.ToLower(filepath.Ext(filename))
	known := false
	for _, f := range Formats {
		known = known || f == ext
	}
	if !known {
		filename += ".png"
	}
	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return p.Save(width, height, filename)
}

// ExportSection saves the section drawing
func ExportSection(data SectionData, filename string) error {
	p, err := SectionPlot(data)
	if err != nil {
		return err
	}
	return Save(p, filename, 8*vg.Inch, 6*vg.Inch)
}

// ExportStrain saves the strain profile
func ExportStrain(data SectionData, filename string) error {
	p, err := StrainPlot(data)
	if err != nil {
		return err
	}
	return Save(p, filename, 6*vg.Inch, 8*vg.Inch)
}

// ExportDeflection saves the deflected shape
func ExportDeflection(points []serviceability.Point, title, filename string) error {
	p, err := DeflectionPlot(points, title)
	if err != nil {
		return err
	}
	return Save(p, filename, 10*vg.Inch, 4*vg.Inch)
}

// clipAbove keeps the part of a polygon above y
func clipAbove(vertices []section.Point, y float64) plotter.XYs {
	if len(vertices) < 3 {
		return nil
	}
	var out plotter.XYs
	n := len(vertices)
	for i := 0; i < n; i++ {
		curr, next := vertices[i], vertices[(i+1)%n]
		currAbove, nextAbove := curr.Y >= y, next.Y >= y
		if currAbove {
			out = append(out, plotter.XY{X: curr.X, Y: curr.Y})
		}
		if currAbove != nextAbove {
			t := (y - curr.Y) / (next.Y - curr.Y)
			out = append(out, plotter.XY{X: curr.X + t*(next.X-curr.X), Y: y})
		}
	}
	return out
}

func toXYs(pts []section.Point) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, p := range pts {
		out[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return out
}
