package serviceability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/rcbeam/internal/codes/is456"
	"github.com/alexiusacademia/rcbeam/internal/codes/nscp"
	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

func isInput(t *testing.T, support material.Support, serviceMoment float64) Input {
	t.Helper()
	g, err := is456.Materials{}.Grades("M20", "Fe415")
	require.NoError(t, err)
	return Input{
		Section:     material.MustSection(material.SectionGeometry{Width: 230, Depth: 450, EffectiveDepth: 400, Cover: 25}),
		Grades:      g,
		Span:        4000,
		Support:     support,
		AstRequired: 464,
		AstProvided: 565,
		AscProvided: 226,
		Bars:        material.BarGroup{Count: 5, Diameter: 12, Layers: 1},
		Stirrup:     8,
		Moment:      60,
		Options:     design.ServiceabilityOptions{ServiceMoment: serviceMoment},
	}
}

func grossEI(in Input) float64 {
	p := section.NewTransformed(in.Section, in.AstProvided, in.AscProvided, in.Grades.ModularRatio())
	return in.Grades.Ec * p.Ig
}

func TestServiceMoment(t *testing.T) {
	in := isInput(t, material.SimplySupported, 0)
	assert.InDelta(t, 40.0, ServiceMoment(is456.Serviceability{}, in), 1e-12)
	assert.InDelta(t, 60/1.4, ServiceMoment(nscp.Serviceability{}, in), 1e-12)

	in.Options.ServiceMoment = 25
	assert.Equal(t, 25.0, ServiceMoment(is456.Serviceability{}, in))
}

func TestMomentShapes(t *testing.T) {
	l := 6000.0
	assert.Equal(t, 1.0, MomentShape(material.SimplySupported, l/2, l))
	assert.Zero(t, MomentShape(material.SimplySupported, 0, l))
	assert.Equal(t, 1.0, MomentShape(material.Cantilever, 0, l))
	assert.Zero(t, MomentShape(material.Cantilever, l, l))
	assert.InDelta(t, 1.0, MomentShape(material.BothEndsContinuous, l/2, l), 1e-12)
	assert.InDelta(t, -2.0, MomentShape(material.BothEndsContinuous, 0, l), 1e-12)
	assert.InDelta(t, 1.0, MomentShape(material.OneEndContinuous, 3*l/8, l), 1e-12)
	assert.InDelta(t, -128.0/72, MomentShape(material.OneEndContinuous, l, l), 1e-12)
}

func TestElasticDeflection(t *testing.T) {
	// 10 kN-m is below the cracking moment, so Ieff = Ig at every station
	ms := 10e6
	l := 4000.0
	tests := []struct {
		support material.Support
		want    float64 // × Ms L² / EI
	}{
		{material.SimplySupported, 5.0 / 48},
		{material.Cantilever, 1.0 / 4},
		{material.BothEndsContinuous, 1.0 / 16},
		{material.OneEndContinuous, 2.0 / 27},
	}
	for _, tt := range tests {
		t.Run(string(tt.support), func(t *testing.T) {
			in := isInput(t, tt.support, 10)
			res := Check(is456.Serviceability{}, design.Intermediate, in)
			want := tt.want * ms * l * l / grossEI(in)
			assert.InEpsilon(t, want, res.Components["short_term"], 1e-6)
		})
	}
}

func TestIntermediate(t *testing.T) {
	in := isInput(t, material.SimplySupported, 10)
	res := Check(is456.Serviceability{}, design.Intermediate, in)

	short := res.Components["short_term"]
	lambda := 1.6 / (1 + 50*226/(230*400.0))
	assert.InDelta(t, lambda, res.Factors["long_term_factor"], 1e-9)
	assert.InDelta(t, short*(1+lambda*0.6), res.Value, 1e-9)
	assert.Equal(t, 16.0, res.Limit)
	assert.Equal(t, "mm", res.Unit)
	assert.True(t, res.Pass)
	assert.Equal(t, design.Trace{is456.RoutineEffectiveInertia, is456.RoutineCreep, is456.RoutineLongTerm, is456.RoutineDeflectionLimit}, res.Trace)

	// cracking lowers the stiffness below Ig
	cracked := Check(is456.Serviceability{}, design.Intermediate, isInput(t, material.SimplySupported, 0))
	assert.Greater(t, cracked.Components["short_term"], 4*short)
	assert.Less(t, cracked.Factors["ieff_min_mm4"], 230*450*450*450/12.0)
}

func TestAdvanced(t *testing.T) {
	in := isInput(t, material.SimplySupported, 0)
	res := Check(is456.Serviceability{}, design.Advanced, in)

	c := res.Components
	assert.Greater(t, c["creep"], 0.0)
	assert.Greater(t, c["shrinkage"], 0.0)
	assert.InDelta(t, c["short_term"]+c["creep"]+c["shrinkage"], res.Value, 1e-9)
	assert.Equal(t, 1.6, res.Factors["creep_coefficient"])
	assert.InDelta(t, in.Grades.Ec/2.6, res.Factors["ece_mpa"], 1e-9)
	assert.Equal(t, 0.125, res.Factors["k3"])
	assert.InDelta(t, 0.125*res.Factors["shrinkage_curvature"]*4000*4000, c["shrinkage"], 1e-12)
	assert.Contains(t, res.Trace, is456.RoutineShrinkageCurve)

	in.Support = material.Cantilever
	cant := Check(is456.Serviceability{}, design.Advanced, in)
	assert.Equal(t, 0.5, cant.Factors["k3"])
	assert.Greater(t, cant.Value, res.Value)
}

func TestAdvancedLongerLoadingCreepsMore(t *testing.T) {
	in := isInput(t, material.SimplySupported, 0)
	in.Section = material.MustSection(material.SectionGeometry{Width: 300, Depth: 500, EffectiveDepth: 440, Cover: 40})
	g, err := nscp.Materials{}.Grades("FC28", "G415")
	require.NoError(t, err)
	in.Grades = g

	base := Check(nscp.Serviceability{}, design.Advanced, in)
	in.Options.Duration = 10000
	longer := Check(nscp.Serviceability{}, design.Advanced, in)
	assert.Greater(t, longer.Components["creep"], base.Components["creep"])
	assert.Greater(t, longer.Components["shrinkage"], base.Components["shrinkage"])
	assert.Contains(t, base.Trace, nscp.RoutineCreep)
}

func TestBasic(t *testing.T) {
	res := Check(is456.Serviceability{}, design.Basic, isInput(t, material.SimplySupported, 0))
	assert.Equal(t, design.Basic, res.Level)
	assert.Equal(t, 10.0, res.Value)
	assert.True(t, res.Pass)
	assert.Empty(t, res.Issues)

	in := isInput(t, material.Cantilever, 0)
	in.Span = 6000
	res = Check(is456.Serviceability{}, design.Basic, in)
	assert.False(t, res.Pass)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, design.CodeServiceability, res.Issues[0].Code)
	assert.Equal(t, "IS456:23.2.1", res.Issues[0].Clause)
}

func TestCrack(t *testing.T) {
	res := Check(is456.Serviceability{}, design.CrackWidth, isInput(t, material.SimplySupported, 0))
	assert.Equal(t, design.CrackWidth, res.Level)
	assert.Equal(t, 40.0, res.Factors["service_moment_knm"])
	assert.Greater(t, res.Value, 0.0)
	assert.Equal(t, is456.MaxCrackWidth, res.Limit)
	assert.Equal(t, design.Trace{is456.RoutineCrackWidth}, res.Trace)
}

func TestCheckAllOrder(t *testing.T) {
	in := isInput(t, material.SimplySupported, 0)
	in.Options.Levels = []design.Level{design.CrackWidth, design.Basic, design.Advanced}
	out := CheckAll(is456.Serviceability{}, in)
	require.Len(t, out, 3)
	for i, l := range in.Options.Levels {
		assert.Equal(t, l, out[i].Level)
	}

	bad := Check(is456.Serviceability{}, design.Level("exact"), in)
	require.Len(t, bad.Issues, 1)
	assert.Equal(t, design.CodeInvalidInput, bad.Issues[0].Code)
}

func TestShape(t *testing.T) {
	in := isInput(t, material.SimplySupported, 10)
	pts := Shape(is456.Serviceability{}, in)
	require.Len(t, pts, Stations)

	want := 5.0 / 48 * 10e6 * 4000 * 4000 / grossEI(in)
	assert.InEpsilon(t, want, pts[Stations/2].Deflection, 1e-3)
	assert.InDelta(t, 0.0, pts[0].Deflection, 1e-12)
	assert.InDelta(t, 0.0, pts[Stations-1].Deflection, 1e-9)
	assert.InDelta(t, 10.0, pts[Stations/2].Moment, 1e-9)

	in.Support = material.Cantilever
	pts = Shape(is456.Serviceability{}, in)
	want = 10e6 * 4000 * 4000 / (4 * grossEI(in))
	assert.InEpsilon(t, want, pts[Stations-1].Deflection, 1e-3)

	in.Span = 0
	assert.Empty(t, Shape(is456.Serviceability{}, in))
}
