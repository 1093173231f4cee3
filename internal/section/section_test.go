package section

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/rcbeam/internal/material"
)

func rect() material.SectionGeometry {
	return material.MustSection(material.SectionGeometry{Width: 300, Depth: 500, EffectiveDepth: 450, Cover: 25})
}

func tee() material.SectionGeometry {
	return material.MustSection(material.SectionGeometry{
		Width: 300, Depth: 500, EffectiveDepth: 450, Cover: 25,
		FlangeWidth: 1200, FlangeThickness: 100,
	})
}

func TestRectangleProperties(t *testing.T) {
	p := FromGeometry(rect(), 0, 0).CalculateProperties()

	assert.InDelta(t, 300.0*500, p.Area, 1e-9)
	assert.InDelta(t, 250.0, p.CentroidY, 1e-9)
	assert.InDelta(t, 300.0*math.Pow(500, 3)/12, p.Inertia, 1e-3)
	assert.Equal(t, 300.0, p.Width)
	assert.Equal(t, 500.0, p.Height)
}

func TestTeeProperties(t *testing.T) {
	p := FromGeometry(tee(), 0, 0).CalculateProperties()

	// web 300x400 centred at 200, flange 1200x100 centred at 450
	web, flange := 300.0*400, 1200.0*100
	cy := (web*200 + flange*450) / (web + flange)
	ig := 300*math.Pow(400, 3)/12 + web*math.Pow(cy-200, 2) +
		1200*math.Pow(100, 3)/12 + flange*math.Pow(450-cy, 2)

	assert.InDelta(t, web+flange, p.Area, 1e-6)
	assert.InDelta(t, cy, p.CentroidY, 1e-9)
	assert.InDelta(t, 150.0, p.CentroidX, 1e-9)
	assert.InDelta(t, ig, p.Inertia, 1e-3)
}

func TestEllIsOneSided(t *testing.T) {
	g := material.MustSection(material.SectionGeometry{
		Shape: material.Ell, Width: 300, Depth: 500, EffectiveDepth: 450, Cover: 25,
		FlangeWidth: 800, FlangeThickness: 120,
	})
	s := FromGeometry(g, 0, 0)
	assert.InDelta(t, 800.0, s.WidthAtDepth(50), 1e-9)
	assert.InDelta(t, 300.0, s.WidthAtDepth(300), 1e-9)
	assert.InDelta(t, g.GrossArea(), s.CalculateProperties().Area, 1e-6)
}

func TestWidthAtDepth(t *testing.T) {
	s := FromGeometry(tee(), 0, 0)
	assert.InDelta(t, 1200.0, s.WidthAtDepth(50), 1e-9)
	assert.InDelta(t, 300.0, s.WidthAtDepth(250), 1e-9)
}

func TestCompressionBlock(t *testing.T) {
	s := FromGeometry(tee(), 0, 0)

	// inside the flange
	assert.InDelta(t, 1200.0*80, s.CompressionBlockArea(80), 1e-6)
	assert.InDelta(t, 40.0, s.CompressionBlockCentroid(80), 1e-9)
	assert.InDelta(t, 1200*math.Pow(80, 3)/3, s.CompressionBlockInertia(80), 1e-3)

	// below the flange
	area := 1200.0*100 + 300.0*50
	centroid := (1200.0*100*50 + 300.0*50*125) / area
	assert.InDelta(t, area, s.CompressionBlockArea(150), 1e-6)
	assert.InDelta(t, centroid, s.CompressionBlockCentroid(150), 1e-9)

	assert.Zero(t, s.CompressionBlockArea(0))
}

func TestTransformedMatchesClosedFormForRectangle(t *testing.T) {
	g := rect()
	ast, m := 1200.0, 9.33
	tr := NewTransformed(g, ast, 0, m)

	// b x²/2 = m Ast (d - x)
	b, d := 300.0, 450.0
	x := (-m*ast + math.Sqrt(m*m*ast*ast+2*b*m*ast*d)) / b
	icr := b*math.Pow(x, 3)/3 + m*ast*math.Pow(d-x, 2)

	assert.InDelta(t, x, tr.CrackedDepth, 1e-6)
	assert.InDelta(t, icr, tr.Icr, icr*1e-9)
	assert.InDelta(t, d-x/3, tr.LeverArm, 1e-6)
	assert.InDelta(t, 250.0, tr.Yt, 1e-9)
	assert.Less(t, tr.Icr, tr.Ig)
}

func TestTransformedCompressionSteelRaisesInertia(t *testing.T) {
	g := rect()
	single := NewTransformed(g, 1500, 0, 10)
	double := NewTransformed(g, 1500, 600, 10)
	assert.Less(t, double.CrackedDepth, single.CrackedDepth)
	assert.Greater(t, double.Icr, single.Icr)
}

func TestCrackingMomentAndSteelStress(t *testing.T) {
	tr := NewTransformed(rect(), 1200, 0, 9.33)
	fcr := 3.13
	assert.InDelta(t, fcr*tr.Ig/250, tr.CrackingMoment(fcr), 1e-6)

	m := 100e6
	fs := tr.SteelStress(m)
	assert.InDelta(t, 9.33*m*(450-tr.CrackedDepth)/tr.Icr, fs, 1e-9)
	assert.Greater(t, fs, 0.0)
}

func TestAnalyzeRectangleMatchesWhitneyBlock(t *testing.T) {
	g := rect()
	as, fc, fy := 1500.0, 28.0, 415.0
	s := FromGeometry(g, as, 0)

	res, err := s.Analyze(StressBlock{Intensity: 0.85 * fc, DepthFactor: 0.85, EpsilonCU: 0.003, Es: 200000, Fy: fy})
	require.NoError(t, err)

	a := as * fy / (0.85 * fc * 300)
	assert.InDelta(t, a, res.A, 1e-3)
	assert.InDelta(t, as*fy*(450-a/2)/1e6, res.Mn, 1e-3)
	assert.Greater(t, res.EpsilonT, 0.005)
}

func TestRequiredTensionInvertsAnalyze(t *testing.T) {
	g := tee()
	block := StressBlock{Intensity: 0.85 * 21, DepthFactor: 0.85, EpsilonCU: 0.003, Es: 200000, Fy: 415}
	s := FromGeometry(g, 1, 0)

	as, res, err := s.RequiredTension(block, 400, 0.04*g.GrossArea())
	require.NoError(t, err)
	assert.InDelta(t, 400.0, res.Mn, 1e-3)

	check, err := FromGeometry(g, as, 0).Analyze(block)
	require.NoError(t, err)
	assert.InDelta(t, 400.0, check.Mn, 1e-3)
}

func TestRequiredTensionFailsBeyondMaximum(t *testing.T) {
	g := rect()
	block := StressBlock{Intensity: 0.85 * 21, DepthFactor: 0.85, EpsilonCU: 0.003, Es: 200000, Fy: 415}
	_, _, err := FromGeometry(g, 1, 0).RequiredTension(block, 5000, 2000)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	s := &Section{Vertices: []Point{{0, 0}, {1, 0}}}
	assert.Error(t, s.Validate())

	s = FromGeometry(rect(), 100, 0)
	s.Reinforcement[0].Area = -1
	var ve *ValidationError
	assert.ErrorAs(t, s.Validate(), &ve)
}
