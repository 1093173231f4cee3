package detailing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/rcbeam/internal/codes/is456"
	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
)

func layout() Layout {
	return Layout{
		Width: 230, Cover: 25, Stirrup: 8,
		MinClear: func(bar float64) float64 { return max(bar, 25) },
	}
}

func TestSuggest(t *testing.T) {
	s := Suggest(464)
	require.Len(t, s, 2)
	assert.Equal(t, material.BarGroup{Count: 3, Diameter: 16, Layers: 1}, s[0].Bars)
	assert.Equal(t, material.BarGroup{Count: 2, Diameter: 20, Layers: 1}, s[1].Bars)
	for _, x := range s {
		assert.GreaterOrEqual(t, x.Ratio, 1.0)
	}
	assert.Empty(t, Suggest(0))
}

func TestSelectBarsSmallestFirst(t *testing.T) {
	sel := SelectBars(464, 0, layout())
	assert.Equal(t, material.BarGroup{Count: 5, Diameter: 12, Layers: 1}, sel.Bars)
	assert.InDelta(t, 26.0, sel.ClearSpacing, 1e-9)
	assert.Empty(t, sel.Issues)
}

func TestSelectBarsPreferred(t *testing.T) {
	sel := SelectBars(464, 16, layout())
	assert.Equal(t, material.BarGroup{Count: 3, Diameter: 16, Layers: 1}, sel.Bars)
	assert.InDelta(t, 58.0, sel.ClearSpacing, 1e-9)
}

func TestSelectBarsTwoLayers(t *testing.T) {
	sel := SelectBars(2000, 25, layout())
	assert.Equal(t, material.BarGroup{Count: 5, Diameter: 25, Layers: 2}, sel.Bars)
	require.Len(t, sel.Issues, 1)
	assert.Equal(t, design.CodeBarLayout, sel.Issues[0].Code)
	assert.Equal(t, design.Warning, sel.Issues[0].Severity)
}

func TestSelectBarsOverflow(t *testing.T) {
	sel := SelectBars(6000, 20, layout())
	assert.Equal(t, 20, sel.Bars.Count)
	assert.Equal(t, 5, sel.Bars.Layers)
	require.Len(t, sel.Issues, 1)
	assert.NotEmpty(t, sel.Issues[0].Hint)
}

func TestMinimumTwoBars(t *testing.T) {
	sel := SelectBars(50, 0, layout())
	assert.Equal(t, 2, sel.Bars.Count)
}

func designInput(t *testing.T, ductile bool) (design.Code, Input) {
	t.Helper()
	code := is456.New()
	g, err := code.Materials().Grades("M20", "Fe415")
	require.NoError(t, err)
	sec := material.MustSection(material.SectionGeometry{Width: 230, Depth: 450, EffectiveDepth: 400, Cover: 25})
	demand := material.ForceDemand{Moment: 60, Shear: 100}

	fr := code.Flexure().Design(design.FlexureInput{Section: sec, Grades: g, Demand: demand})
	sr := code.Shear().Design(design.ShearInput{Section: sec, Grades: g, Demand: demand, AstProvided: fr.AstRequired})
	return code, Input{
		Section: sec,
		Grades:  g,
		Flexure: fr,
		Shear:   sr,
		Options: design.DetailingOptions{Aggregate: 20, Hook: design.Hook90, Ductile: ductile},
		Span:    4000,
	}
}

func TestDetail(t *testing.T) {
	code, in := designInput(t, false)
	res := Detail(code.Detailing(), in)

	assert.GreaterOrEqual(t, res.AstProvided, in.Flexure.AstRequired)
	assert.Equal(t, material.BarGroup{Count: 2, Diameter: HangerBar, Layers: 1}, res.CompressionBars)
	assert.Greater(t, res.Development.Length, 0.0)
	assert.True(t, res.CompressionDevelopment.Compression)
	assert.GreaterOrEqual(t, res.Lap.Length, res.Development.Length)
	assert.Equal(t, design.MainBar, res.MainHook.Use)
	assert.Equal(t, design.StirrupBar, res.StirrupHook.Use)
	assert.Nil(t, res.Ductile)

	require.Len(t, res.Checks, 2)
	assert.Equal(t, "IS456:26.3.2", res.Checks[0].Clause)
	assert.Equal(t, "IS456:26.3.3", res.Checks[1].Clause)
	assert.True(t, res.Pass())
	assert.Empty(t, res.Issues)

	assert.Contains(t, res.Trace, is456.RoutineDevelopment)
	assert.Contains(t, res.Trace, is456.RoutineLap)
	assert.NotContains(t, res.Trace, is456.RoutineDuctileSteel)
}

func TestDetailDuctile(t *testing.T) {
	code, in := designInput(t, true)
	res := Detail(code.Detailing(), in)

	require.NotNil(t, res.Ductile)
	assert.GreaterOrEqual(t, res.AscProvided, 0.5*res.AstProvided)
	assert.Equal(t, design.SeismicHoop, res.StirrupHook.Use)
	assert.Equal(t, design.Hook135, res.StirrupHook.Angle)
	assert.Greater(t, len(res.Checks), 2)
	assert.True(t, res.Pass(), "%v", res.Checks)
	assert.Contains(t, res.Trace, is456.RoutineDuctileSteel)
	assert.LessOrEqual(t, res.Ductile.HingeSpacing, in.Shear.Stirrup.Spacing)
}

func TestFailedSpacingWarns(t *testing.T) {
	code, in := designInput(t, false)
	in.Section = material.MustSection(material.SectionGeometry{Width: 600, Depth: 450, EffectiveDepth: 400, Cover: 25})
	in.Options.BarDiameter = 32
	res := Detail(code.Detailing(), in)

	assert.False(t, res.Pass())
	require.NotEmpty(t, res.Issues)
	assert.Equal(t, design.CodeSpacing, res.Issues[len(res.Issues)-1].Code)
}
