package nscp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
)

func shearInput(t *testing.T, shear float64) design.ShearInput {
	return design.ShearInput{
		Section:     beam(),
		Grades:      grades(t, "FC28", "G415"),
		Demand:      material.ForceDemand{Shear: shear},
		AstProvided: 1257,
	}
}

func TestConcreteShear(t *testing.T) {
	res := Shear{}.Design(shearInput(t, 150))

	require.Equal(t, design.Resolved, res.State)
	vc := 0.17 * math.Sqrt(28) * 300 * 440
	assert.InDelta(t, 0.75*vc/1e3, res.ConcreteCapacity, 1e-9)
	assert.InDelta(t, 0.75*(vc+0.66*math.Sqrt(28)*300*440)/1e3, res.MaxCapacity, 1e-9)
	assert.True(t, res.StirrupsRequired)

	assert.Equal(t, 10.0, res.Stirrup.Diameter)
	assert.Equal(t, 220.0, res.Stirrup.Spacing)
	assert.Equal(t, 220.0, res.Stirrup.SpacingMax)
	assert.Greater(t, res.Capacity, 150.0)
}

func TestHeavyShearHalvesSpacing(t *testing.T) {
	res := Shear{}.Design(shearInput(t, 300))

	require.Equal(t, design.Resolved, res.State)
	assert.Equal(t, 110.0, res.Stirrup.SpacingMax)
	assert.Equal(t, 100.0, res.Stirrup.Spacing)
	assert.GreaterOrEqual(t, res.Capacity, 300.0)
}

func TestLightShearUsesMaximumSpacing(t *testing.T) {
	res := Shear{}.Design(shearInput(t, 30))

	require.Equal(t, design.Resolved, res.State)
	assert.False(t, res.StirrupsRequired)
	assert.Equal(t, 220.0, res.Stirrup.Spacing)
}

func TestShearBeyondSectionLimit(t *testing.T) {
	res := Shear{}.Design(shearInput(t, 450))

	assert.Equal(t, design.Infeasible, res.State)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "NSCP:422.5.1.2", res.Issues[0].Clause)
}

func TestAxialForceOnConcreteShear(t *testing.T) {
	base := Shear{}.Design(shearInput(t, 150)).ConcreteCapacity

	in := shearInput(t, 150)
	in.Demand.Axial = 500
	assert.Greater(t, Shear{}.Design(in).ConcreteCapacity, base)

	in.Demand.Axial = -200
	res := Shear{}.Design(in)
	assert.Less(t, res.ConcreteCapacity, base)
	assert.GreaterOrEqual(t, res.ConcreteCapacity, 0.0)
	assert.Contains(t, res.Trace, RoutineAxialShear)
}

func TestTorsionBelowThreshold(t *testing.T) {
	in := shearInput(t, 100)
	in.Demand.Torsion = 3
	require.Less(t, 3.0, Threshold(28, 300, 500))

	res := Shear{}.Design(in)
	require.Equal(t, design.Resolved, res.State)
	assert.Zero(t, res.TorsionSteel)
	require.NotEmpty(t, res.Issues)
	assert.Equal(t, design.CodeTorsion, res.Issues[0].Code)
	assert.NotContains(t, res.Trace, RoutineTorsionSteel)
}

func TestTorsionReinforcement(t *testing.T) {
	in := shearInput(t, 100)
	in.Demand.Torsion = 20
	res := Shear{}.Design(in)

	require.Equal(t, design.Resolved, res.State)
	assert.True(t, res.StirrupsRequired)
	// ph/8 with a 10 mm stirrup at 40 mm cover
	assert.Equal(t, 155.0, res.Stirrup.SpacingMax)
	assert.LessOrEqual(t, res.Stirrup.Spacing, 155.0)

	aoh := 210.0 * 410
	ats := 20e6 / (0.75 * 2 * 0.85 * aoh * 415)
	assert.InDelta(t, ats*2*(210+410), res.TorsionSteel, 1e-6)
	assert.Contains(t, res.Trace, RoutineTorsionSection)
	assert.Contains(t, res.Trace, RoutineTorsionSteel)
}

func TestExcessiveTorsionIsInfeasible(t *testing.T) {
	in := shearInput(t, 100)
	in.Demand.Torsion = 60
	res := Shear{}.Design(in)

	assert.Equal(t, design.Infeasible, res.State)
	assert.Equal(t, "NSCP:422.7.7.1", res.Issues[len(res.Issues)-1].Clause)
}
