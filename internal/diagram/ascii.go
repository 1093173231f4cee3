// Package diagram draws designed beam sections, strain profiles and
// deflected shapes as terminal text or image files.
package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
	"github.com/alexiusacademia/rcbeam/internal/section"
	"github.com/alexiusacademia/rcbeam/internal/serviceability"
)

// SectionData holds what the section drawings need from one design case
type SectionData struct {
	Label    string
	Geometry material.SectionGeometry

	// Outline is counter-clockwise from bottom-left, flange at the top
	Outline []section.Point

	NeutralAxis float64 // xu or c from the top (mm)
	BlockDepth  float64 // depth of the equivalent stress block (mm)

	Bars            material.BarGroup
	CompressionBars material.BarGroup
	Stirrup         float64 // diameter (mm)

	EpsilonCU float64
	EpsilonT  float64 // strain at the tension steel centroid
	EpsilonSC float64 // strain at the compression steel centroid
	EpsilonY  float64

	BlockStress float64 // uniform block intensity (MPa)
	Fs          float64 // tension steel stress (MPa)
	Fsc         float64
}

// FromCase collects drawing data for case i of a result, using the
// code's stress block for strains and the block depth
func FromCase(res *design.Result, i int, block section.StressBlock) (SectionData, error) {
	if res == nil || i < 0 || i >= len(res.Cases) {
		return SectionData{}, fmt.Errorf("no design case %d", i+1)
	}
	c := res.Cases[i]
	g := res.Section
	d := g.EffectiveDepth
	xu := c.Flexure.NeutralAxisRatio * d

	data := SectionData{
		Label:           c.Name,
		Geometry:        g,
		Outline:         section.FromGeometry(g, 0, 0).Vertices,
		NeutralAxis:     xu,
		BlockDepth:      math.Min(block.DepthFactor*xu, g.Depth),
		Bars:            c.Detailing.Bars,
		CompressionBars: c.Detailing.CompressionBars,
		Stirrup:         c.Shear.Stirrup.Diameter,
		EpsilonCU:       block.EpsilonCU,
		EpsilonY:        block.Fy / block.Es,
		BlockStress:     block.Intensity,
	}
	if res.Label != "" {
		data.Label = res.Label + " / " + c.Name
	}
	if xu > 0 {
		data.EpsilonT = block.EpsilonCU * (d - xu) / xu
		data.EpsilonSC = block.EpsilonCU * (xu - g.CompressionDepth) / xu
	}
	data.Fs = math.Min(data.EpsilonT*block.Es, block.Fy)
	if data.CompressionBars.Count > 0 {
		data.Fsc = math.Max(math.Min(data.EpsilonSC*block.Es, block.Fy), -block.Fy)
	}
	return data, nil
}

// FromSection collects drawing data for a polygonal section analysed by
// strain compatibility. The outline is shifted so its base sits at y = 0.
func FromSection(s *section.Section, res *section.AnalysisResult, block section.StressBlock) SectionData {
	props := res.Properties
	outline := make([]section.Point, len(s.Vertices))
	for i, v := range s.Vertices {
		outline[i] = section.Point{X: v.X, Y: v.Y - props.MinY}
	}
	data := SectionData{
		Label:   s.Name,
		Outline: outline,
		Geometry: material.SectionGeometry{
			Width:            props.Width,
			Depth:            props.Height,
			EffectiveDepth:   props.EffectiveDepth,
			CompressionDepth: props.CompressionCover,
		},
		NeutralAxis: res.C,
		BlockDepth:  res.A,
		EpsilonCU:   block.EpsilonCU,
		EpsilonT:    res.EpsilonT,
		EpsilonY:    block.Fy / block.Es,
		BlockStress: block.Intensity,
		Fs:          math.Min(res.EpsilonT*block.Es, block.Fy),
	}
	for _, l := range res.SteelLayers {
		if !l.IsTension {
			data.EpsilonSC = l.Strain
			data.Fsc = l.Stress
		}
	}
	return data
}

// TensionYields reports whether the tension steel strain exceeds yield
func (d SectionData) TensionYields() bool { return d.EpsilonT >= d.EpsilonY }

// CompressionYields reports whether the compression steel has yielded
func (d SectionData) CompressionYields() bool { return d.EpsilonSC >= d.EpsilonY }

// BarPositions places the bars of a group in layers across the web,
// returning centres measured from the bottom-left of the web.
// Compression bars hang from the top.
func (d SectionData) BarPositions(top bool) []section.Point {
	g, bars := d.Geometry, d.Bars
	if top {
		bars = d.CompressionBars
	}
	if bars.Count == 0 {
		return nil
	}
	layers := max(bars.Layers, 1)
	perLayer := (bars.Count + layers - 1) / layers
	edge := g.Cover + d.Stirrup + bars.Diameter/2
	pitch := bars.Diameter + math.Max(bars.Diameter, 25)

	var out []section.Point
	left := bars.Count
	for l := 0; l < layers && left > 0; l++ {
		n := min(perLayer, left)
		left -= n
		y := edge + float64(l)*pitch
		if top {
			y = g.Depth - y
		}
		for k := 0; k < n; k++ {
			x := g.Width / 2
			if n > 1 {
				x = edge + float64(k)*(g.Width-2*edge)/float64(n-1)
			}
			out = append(out, section.Point{X: x, Y: y})
		}
	}
	return out
}

// ASCIISection draws the section with its compression zone beside the
// strain and stress profiles
func ASCIISection(data SectionData) string {
	var sb strings.Builder

	widthChars := 30
	heightChars := 20
	g := data.Geometry

	row := func(depth float64) int { return int(depth / g.Depth * float64(heightChars)) }
	naLine := row(data.NeutralAxis)
	blockLine := row(data.BlockDepth)
	flangeLine := -1
	if g.Flanged() {
		flangeLine = row(g.FlangeThickness)
	}
	tensionLine := row(g.EffectiveDepth)
	compLine := -1
	if data.CompressionBars.Count > 0 {
		compLine = row(g.CompressionDepth)
	}

	fmt.Fprintf(&sb, "\n  %s\n", strings.ToUpper(data.Label))
	sb.WriteString("  SECTION                           STRAIN              STRESS\n")
	sb.WriteString("  ───────                           ──────              ──────\n")

	for i := 0; i <= heightChars; i++ {
		var body string
		switch {
		case i == 0:
			body = fmt.Sprintf("  ┌%s┐", strings.Repeat("─", widthChars))
		case i == heightChars:
			body = fmt.Sprintf("  └%s┘", strings.Repeat("─", widthChars))
		default:
			fill := []rune(strings.Repeat(" ", widthChars))
			if i <= blockLine {
				fill = []rune(strings.Repeat("░", widthChars))
			}
			mid := widthChars / 2
			if i == compLine {
				copy(fill[mid-2:], []rune("●──●"))
			}
			if i == tensionLine {
				copy(fill[mid-3:], []rune("●────●"))
			}
			edge := "│"
			if i == flangeLine {
				edge = "├"
			}
			body = fmt.Sprintf("  %s%s│", edge, string(fill))
		}
		sb.WriteString(body)
		if i == naLine {
			sb.WriteString(" ◄ N.A.")
		} else {
			sb.WriteString("       ")
		}

		sb.WriteString("    ")
		switch {
		case i == 0:
			fmt.Fprintf(&sb, "├─ εcu = %.4f", data.EpsilonCU)
		case i == naLine:
			sb.WriteString("├─ ε = 0")
		case i == tensionLine:
			fmt.Fprintf(&sb, "├─ εs = %.4f%s", data.EpsilonT, yieldMark(data.TensionYields()))
		case i == compLine:
			fmt.Fprintf(&sb, "├─ εsc = %.4f%s", data.EpsilonSC, yieldMark(data.CompressionYields()))
		case i < heightChars:
			sb.WriteString("│")
		}

		switch {
		case i == 0:
			fmt.Fprintf(&sb, "      ┌─ %.2f MPa", data.BlockStress)
		case i == blockLine && blockLine > 0:
			sb.WriteString("      └─ (stress block)")
		case i == tensionLine:
			fmt.Fprintf(&sb, "      ── fs = %.1f MPa", data.Fs)
		case i == compLine:
			fmt.Fprintf(&sb, "      ── fsc = %.1f MPa", data.Fsc)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n  Legend:\n")
	sb.WriteString("  ░░░ = compression zone (stress block)\n")
	if data.Bars.Count > 0 {
		fmt.Fprintf(&sb, "  ●●● = tension %s", data.Bars)
		if data.Bars.Layers > 1 {
			fmt.Fprintf(&sb, " in %d layers", data.Bars.Layers)
		}
		sb.WriteString("\n")
	}
	if data.CompressionBars.Count > 0 {
		fmt.Fprintf(&sb, "        compression %s\n", data.CompressionBars)
	}
	fmt.Fprintf(&sb, "  N.A. at %.1f mm from top, block depth %.1f mm\n", data.NeutralAxis, data.BlockDepth)
	return sb.String()
}

func yieldMark(y bool) string {
	if y {
		return " (yields)"
	}
	return ""
}

// ASCIIDeflection plots a deflected shape as rows of bars scaled to the
// largest deflection, one row per point
func ASCIIDeflection(points []serviceability.Point, width int) string {
	var sb strings.Builder
	if len(points) == 0 {
		return ""
	}
	peak := 0.0
	for _, p := range points {
		peak = math.Max(peak, math.Abs(p.Deflection))
	}
	sb.WriteString("\n  DEFLECTED SHAPE\n  ───────────────\n")
	for _, p := range points {
		n := 0
		if peak > 0 {
			n = int(math.Round(math.Abs(p.Deflection) / peak * float64(width)))
		}
		fmt.Fprintf(&sb, "  %7.0f │%s %.2f mm\n", p.X, pad(strings.Repeat("█", n), width), p.Deflection)
	}
	return sb.String()
}

// SummaryBox frames a title and lines
func SummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	fmt.Fprintf(&sb, "  ╔%s╗\n", border)
	fmt.Fprintf(&sb, "  ║  %s  ║\n", pad(title, maxLen-4))
	fmt.Fprintf(&sb, "  ╠%s╣\n", border)
	for _, line := range lines {
		fmt.Fprintf(&sb, "  ║  %s  ║\n", pad(line, maxLen-4))
	}
	fmt.Fprintf(&sb, "  ╚%s╝\n", border)
	return sb.String()
}

// pad right-pads by rune count; %-*s counts bytes
func pad(s string, n int) string {
	if k := len([]rune(s)); k < n {
		return s + strings.Repeat(" ", n-k)
	}
	return s
}
