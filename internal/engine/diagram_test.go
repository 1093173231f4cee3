package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/rcbeam/internal/material"
	"github.com/alexiusacademia/rcbeam/internal/section"
	"github.com/alexiusacademia/rcbeam/internal/serviceability"
)

func TestStressBlock(t *testing.T) {
	e := newEngine(t)
	res, err := e.Design(scenarioA())
	require.NoError(t, err)

	sb, err := e.StressBlock(res.Code, res.Materials)
	require.NoError(t, err)
	assert.InDelta(t, 0.84, sb.DepthFactor, 1e-9)
	assert.InDelta(t, 0.0035, sb.EpsilonCU, 1e-9)
	assert.Greater(t, sb.Intensity, 0.0)

	_, err = e.StressBlock("EC2", res.Materials)
	assert.Error(t, err)
}

func TestDeflection(t *testing.T) {
	e := newEngine(t)
	req := scenarioA()
	res, err := e.Design(req)
	require.NoError(t, err)

	pts, err := e.Deflection(req, res, 0)
	require.NoError(t, err)
	require.Len(t, pts, serviceability.Stations)
	assert.InDelta(t, 0, pts[0].Deflection, 1e-6)
	assert.InDelta(t, 0, pts[len(pts)-1].Deflection, 1e-6)
	mid := pts[len(pts)/2]
	assert.Greater(t, mid.Deflection, 0.0)
	assert.Greater(t, mid.Moment, 0.0)

	_, err = e.Deflection(req, res, 3)
	assert.Error(t, err)

	req.Span.Length = 0
	_, err = e.Deflection(req, res, 0)
	assert.Error(t, err)
}

func TestSectionDesignRoundTrip(t *testing.T) {
	e := newEngine(t)
	g := material.SectionGeometry{Width: 300, Depth: 500, EffectiveDepth: 440, Cover: 40}
	s := section.FromGeometry(g, 1000, 0)

	as, capacity, err := e.DesignSection("NSCP2015", "FC28", "G415", s, 150)
	require.NoError(t, err)
	assert.Greater(t, as, 0.0)
	assert.InDelta(t, 0.9, capacity.Phi, 1e-9)
	assert.InDelta(t, 150, capacity.PhiMn, 0.01)

	s.Reinforcement[0].Area = as
	check, err := e.AnalyzeSection("nscp2015", "FC28", "G415", s)
	require.NoError(t, err)
	assert.Equal(t, "NSCP2015", check.Code)
	assert.InDelta(t, 150, check.PhiMn, 0.01)

	// IS 456 carries its partial factors in the block
	is, err := e.AnalyzeSection("IS456", "M20", "Fe415", s)
	require.NoError(t, err)
	assert.Equal(t, 1.0, is.Phi)

	_, _, err = e.DesignSection("NSCP2015", "FC28", "G415", s, -1)
	assert.Error(t, err)
	_, err = e.AnalyzeSection("NSCP2015", "M20", "G415", s)
	assert.Error(t, err)
}
