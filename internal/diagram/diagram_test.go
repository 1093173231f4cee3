package diagram

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
	"github.com/alexiusacademia/rcbeam/internal/section"
	"github.com/alexiusacademia/rcbeam/internal/serviceability"
)

func block() section.StressBlock {
	return section.StressBlock{Intensity: 0.36 / 0.84 * 20, DepthFactor: 0.84, EpsilonCU: 0.0035, Es: 200000, Fy: 0.87 * 415}
}

func result(bars material.BarGroup) *design.Result {
	g := material.MustSection(material.SectionGeometry{Width: 230, Depth: 450, EffectiveDepth: 400, Cover: 25})
	return &design.Result{
		Label:   "B-1",
		Section: g,
		Cases: []design.CaseResult{{
			Name:      "ULS",
			Flexure:   design.FlexureResult{NeutralAxisRatio: 0.3},
			Shear:     design.ShearResult{Stirrup: design.Stirrup{Diameter: 8}},
			Detailing: design.DetailingResult{Bars: bars},
		}},
	}
}

func TestFromCase(t *testing.T) {
	data, err := FromCase(result(material.BarGroup{Count: 3, Diameter: 16, Layers: 1}), 0, block())
	require.NoError(t, err)

	assert.Equal(t, "B-1 / ULS", data.Label)
	assert.InDelta(t, 120, data.NeutralAxis, 1e-9)
	assert.InDelta(t, 100.8, data.BlockDepth, 1e-9)
	assert.InDelta(t, 0.0035*280/120, data.EpsilonT, 1e-12)
	assert.True(t, data.TensionYields())
	assert.InDelta(t, 0.87*415, data.Fs, 1e-9)
	assert.Len(t, data.Outline, 4)

	_, err = FromCase(result(material.BarGroup{}), 3, block())
	assert.Error(t, err)
}

func TestBarPositions(t *testing.T) {
	data, err := FromCase(result(material.BarGroup{Count: 3, Diameter: 16, Layers: 1}), 0, block())
	require.NoError(t, err)
	pts := data.BarPositions(false)
	require.Len(t, pts, 3)
	assert.InDelta(t, 41, pts[0].X, 1e-9)
	assert.InDelta(t, 115, pts[1].X, 1e-9)
	assert.InDelta(t, 189, pts[2].X, 1e-9)
	assert.InDelta(t, 41, pts[0].Y, 1e-9)
	assert.Nil(t, data.BarPositions(true))

	data.Bars = material.BarGroup{Count: 5, Diameter: 16, Layers: 2}
	pts = data.BarPositions(false)
	require.Len(t, pts, 5)
	assert.InDelta(t, 82, pts[3].Y, 1e-9)
	assert.InDelta(t, 82, pts[4].Y, 1e-9)

	data.CompressionBars = material.BarGroup{Count: 2, Diameter: 12, Layers: 1}
	top := data.BarPositions(true)
	require.Len(t, top, 2)
	assert.InDelta(t, 450-39, top[0].Y, 1e-9)
}

func TestASCIISection(t *testing.T) {
	data, err := FromCase(result(material.BarGroup{Count: 3, Diameter: 16, Layers: 1}), 0, block())
	require.NoError(t, err)
	out := ASCIISection(data)
	assert.Contains(t, out, "B-1 / ULS")
	assert.Contains(t, out, "◄ N.A.")
	assert.Contains(t, out, "3-φ16")
	assert.Contains(t, out, "(yields)")
	assert.NotContains(t, out, "compression 2")
}

func TestSummaryBoxAligns(t *testing.T) {
	out := SummaryBox("Result", []string{"Ast = 464 mm²", "status: pass"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	width := len([]rune(lines[0]))
	for _, l := range lines {
		assert.Equal(t, width, len([]rune(l)), l)
	}
}

func TestASCIIDeflection(t *testing.T) {
	assert.Empty(t, ASCIIDeflection(nil, 20))
	out := ASCIIDeflection([]serviceability.Point{{X: 0}, {X: 2000, Deflection: 4}, {X: 4000}}, 10)
	assert.Contains(t, out, strings.Repeat("█", 10)+" 4.00 mm")
}

func TestClipAbove(t *testing.T) {
	rect := []section.Point{{X: 0, Y: 0}, {X: 230, Y: 0}, {X: 230, Y: 450}, {X: 0, Y: 450}}
	clipped := clipAbove(rect, 350)
	require.Len(t, clipped, 4)
	for _, p := range clipped {
		assert.GreaterOrEqual(t, p.Y, 350.0)
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	data, err := FromCase(result(material.BarGroup{Count: 3, Diameter: 16, Layers: 1}), 0, block())
	require.NoError(t, err)

	require.NoError(t, ExportSection(data, filepath.Join(dir, "section")))
	_, err = os.Stat(filepath.Join(dir, "section.png"))
	assert.NoError(t, err)

	require.NoError(t, ExportStrain(data, filepath.Join(dir, "strain.svg")))
	_, err = os.Stat(filepath.Join(dir, "strain.svg"))
	assert.NoError(t, err)

	pts := make([]serviceability.Point, 11)
	for i := range pts {
		x := float64(i) * 400
		pts[i] = serviceability.Point{X: x, Deflection: 8 * math.Sin(math.Pi*x/4000)}
	}
	require.NoError(t, ExportDeflection(pts, "B-1", filepath.Join(dir, "out", "shape.png")))
	_, err = os.Stat(filepath.Join(dir, "out", "shape.png"))
	assert.NoError(t, err)

	assert.Error(t, ExportDeflection(pts[:1], "", filepath.Join(dir, "x.png")))
}

func TestFromSection(t *testing.T) {
	s := &section.Section{
		Name:          "T-1",
		Vertices:      []section.Point{{X: 0, Y: -100}, {X: 300, Y: -100}, {X: 300, Y: 400}, {X: 0, Y: 400}},
		Reinforcement: []section.RebarLayer{{Y: -40, Area: 1200, Type: "tension"}},
	}
	b := block()
	res, err := s.Analyze(b)
	require.NoError(t, err)

	data := FromSection(s, res, b)
	assert.Equal(t, "T-1", data.Label)
	assert.InDelta(t, 0, data.Outline[0].Y, 1e-9)
	assert.InDelta(t, 500, data.Geometry.Depth, 1e-9)
	assert.InDelta(t, 440, data.Geometry.EffectiveDepth, 1e-9)
	assert.InDelta(t, res.C, data.NeutralAxis, 1e-9)
	assert.True(t, data.TensionYields())
	assert.InDelta(t, b.Fy, data.Fs, 1e-9)

	out := ASCIISection(data)
	assert.Contains(t, out, "T-1")
	assert.NotContains(t, out, "tension 0")
}
