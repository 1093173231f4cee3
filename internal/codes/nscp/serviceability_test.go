package nscp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

func TestMinimumDepth(t *testing.T) {
	var tr design.Trace
	in := design.SpanDepthInput{
		Section: beam(), Grades: grades(t, "FC28", "G415"),
		Span: 6000, Support: material.SimplySupported,
	}
	res := Serviceability{}.SpanDepth(in, &tr)
	assert.Equal(t, 12.0, res.Value)
	assert.InDelta(t, 16/(0.4+415.0/700), res.Limit, 1e-9)
	assert.True(t, res.Pass)

	in.Grades = grades(t, "FC28", "G420")
	res = Serviceability{}.SpanDepth(in, &tr)
	assert.Equal(t, 16.0, res.Limit)
	assert.Equal(t, 375.0, res.Factors["h_min_mm"])

	in.Support = material.Cantilever
	res = Serviceability{}.SpanDepth(in, &tr)
	assert.False(t, res.Pass)
	assert.Equal(t, design.Trace{RoutineMinimumDepth, RoutineMinimumDepth, RoutineMinimumDepth}, tr)
}

func TestBransonInertia(t *testing.T) {
	g := grades(t, "FC28", "G415")
	p := section.NewTransformed(beam(), 1257, 0, g.ModularRatio())
	mcr := p.CrackingMoment(g.Fcr)
	var tr design.Trace
	s := Serviceability{}

	assert.Equal(t, p.Ig, s.EffectiveInertia(design.StiffnessInput{Grades: g, Properties: p, Moment: mcr / 2}, &tr))

	m := 3 * mcr
	r := 1.0 / 27
	got := s.EffectiveInertia(design.StiffnessInput{Grades: g, Properties: p, Moment: m}, &tr)
	assert.InDelta(t, r*p.Ig+(1-r)*p.Icr, got, 1e-3*p.Icr)
	assert.Greater(t, got, p.Icr)
	assert.Less(t, got, p.Ig)
}

func TestLongTermMultiplier(t *testing.T) {
	var tr design.Trace
	s := Serviceability{}

	assert.Equal(t, 2.0, s.LongTermMultiplier(design.TimeInput{}, 0, &tr))
	assert.InDelta(t, 2.0/1.5, s.LongTermMultiplier(design.TimeInput{}, 0.01, &tr), 1e-12)
	assert.Equal(t, 1.4, s.LongTermMultiplier(design.TimeInput{Duration: 365}, 0, &tr))
	assert.InDelta(t, 0.5, s.LongTermMultiplier(design.TimeInput{Duration: 45}, 0, &tr), 1e-12)
}

func TestCreepCoefficient(t *testing.T) {
	var tr design.Trace
	s := Serviceability{}

	base := s.CreepCoefficient(design.TimeInput{}, &tr)
	vu := 2.35 * 1.25 * math.Pow(28, -0.118) * (1.27 - 0.0067*70)
	tp := math.Pow(1825, 0.6)
	assert.InDelta(t, tp/(10+tp)*vu, base, 1e-12)

	assert.Greater(t, s.CreepCoefficient(design.TimeInput{Duration: 10000}, &tr), base)
	assert.Less(t, s.CreepCoefficient(design.TimeInput{LoadingAge: 90}, &tr), base)
	assert.Less(t, s.CreepCoefficient(design.TimeInput{Humidity: 90}, &tr), base)
	assert.Contains(t, tr, RoutineCreep)
}

func TestShrinkage(t *testing.T) {
	var tr design.Trace
	s := Serviceability{}

	eps := s.ShrinkageStrain(design.TimeInput{}, &tr)
	assert.InDelta(t, 1825.0/1860*780e-6*(1.40-0.0102*70), eps, 1e-12)
	assert.Greater(t, s.ShrinkageStrain(design.TimeInput{Humidity: 40}, &tr), eps)
	assert.Less(t, s.ShrinkageStrain(design.TimeInput{Humidity: 90}, &tr), eps)

	assert.InDelta(t, 0.7*eps/500, s.ShrinkageCurvature(eps, beam(), 1, 0, &tr), 1e-15)
	assert.InDelta(t, eps/500, s.ShrinkageCurvature(eps, beam(), 4, 0, &tr), 1e-15)
	assert.Zero(t, s.ShrinkageCurvature(eps, beam(), 1, 1, &tr))

	assert.Equal(t, 25.0, s.DeflectionLimit(6000, &tr))
}

func TestCrackControlSpacing(t *testing.T) {
	g := grades(t, "FC28", "G415")
	bars := material.BarGroup{Count: 4, Diameter: 20, Layers: 1}
	p := section.NewTransformed(beam(), bars.Area(), 0, g.ModularRatio())
	var tr design.Trace

	res := Serviceability{}.Crack(design.CrackInput{
		Section: beam(), Grades: g, Properties: p, Bars: bars, StirrupDiameter: 10, Moment: 100e6,
	}, &tr)
	require.Equal(t, design.CrackWidth, res.Level)
	assert.Equal(t, "mm", res.Unit)
	assert.InDelta(t, 60.0, res.Value, 1e-9)
	assert.InDelta(t, p.SteelStress(100e6), res.Factors["fs"], 1e-9)
	assert.True(t, res.Pass)

	wide := material.MustSection(material.SectionGeometry{Width: 600, Depth: 500, EffectiveDepth: 440, Cover: 40})
	two := material.BarGroup{Count: 2, Diameter: 20, Layers: 1}
	res = Serviceability{}.Crack(design.CrackInput{
		Section: wide, Grades: g, Properties: section.NewTransformed(wide, two.Area(), 0, g.ModularRatio()),
		Bars: two, StirrupDiameter: 10,
	}, &tr)
	assert.Equal(t, 480.0, res.Value)
	assert.False(t, res.Pass)
	assert.Contains(t, tr, RoutineCrackControl)
}
