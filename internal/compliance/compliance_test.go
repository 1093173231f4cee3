package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/rcbeam/internal/codes/is456"
	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
)

func sampleCase() Case {
	return Case{
		Name:   "1",
		Demand: material.ForceDemand{Moment: 60, Shear: 100},
		Flexure: design.FlexureResult{
			Classification: design.SinglyReinforced, State: design.Resolved,
			DesignMoment: 60, Capacity: 75,
			AstRequired: 464, AstMax: 4140,
			Trace: design.Trace{is456.RoutineLimitingDepth, is456.RoutineSingly, is456.RoutineSteelLimits},
		},
		Shear: design.ShearResult{
			State: design.Resolved, EquivalentShear: 100, MaxCapacity: 257.6, Capacity: 125,
			Stirrup: design.Stirrup{Diameter: 8, Legs: 2, Spacing: 260, SpacingMin: 75, SpacingMax: 300},
			Trace:   design.Trace{is456.RoutineShearStress, is456.RoutineConcreteShear, is456.RoutineStirrups},
		},
		Detailing: design.DetailingResult{
			Checks: []design.RuleCheck{
				design.NewRuleCheck("minimum clear spacing", "IS456:26.3.2", "mm", 25, 26, false),
				design.NewRuleCheck("maximum bar spacing", "IS456:26.3.3", "mm", 180, 38, true),
			},
		},
		Serviceability: []design.ServiceabilityResult{
			{Level: design.Basic, Value: 10, Limit: 27, Unit: "ratio", Pass: true, Trace: design.Trace{is456.RoutineSpanDepth}},
		},
	}
}

func TestUtilisation(t *testing.T) {
	assert.Equal(t, 0.5, Utilisation(5, 10))
	assert.Zero(t, Utilisation(0, 0))
	assert.Equal(t, MaxUtilisation, Utilisation(5, 0))
	assert.Equal(t, MaxUtilisation, Utilisation(1e9, 1))
}

func TestFromRule(t *testing.T) {
	lower := FromRule("", design.NewRuleCheck("min", "", "mm", 25, 50, false))
	assert.Equal(t, 0.5, lower.Utilisation)
	assert.True(t, lower.Pass)

	upper := FromRule("", design.NewRuleCheck("max", "", "mm", 180, 200, true))
	assert.InDelta(t, 200.0/180, upper.Utilisation, 1e-12)
	assert.False(t, upper.Pass)
}

func TestAggregate(t *testing.T) {
	res := Aggregate(sampleCase())

	names := make([]string, 0, len(res.Checks))
	for _, c := range res.Checks {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"flexure capacity",
		"tension steel maximum",
		"shear ceiling",
		"shear capacity",
		"stirrup steel",
		"stirrup spacing maximum",
		"stirrup spacing minimum",
		"detailing: minimum clear spacing",
		"detailing: maximum bar spacing",
		"serviceability: basic",
	}, names)

	assert.Equal(t, "detailing: minimum clear spacing", res.Governing)
	assert.InDelta(t, 25.0/26, res.Utilisation, 1e-12)
	assert.True(t, res.Pass)
	assert.True(t, res.Feasible)

	assert.Equal(t, "IS456:G-1.1", res.Checks[0].Clause)
	assert.NotEmpty(t, res.Checks[2].Clause)
	assert.Equal(t, "IS456:26.3.2", res.Checks[7].Clause)
}

func TestGoverningTieKeepsFirst(t *testing.T) {
	c := sampleCase()
	c.Flexure.Capacity = 60
	c.Shear.Capacity = 100
	res := Aggregate(c)
	assert.Equal(t, "flexure capacity", res.Governing)
	assert.Equal(t, 1.0, res.Utilisation)
	assert.True(t, res.Pass)
}

func TestFailingCheck(t *testing.T) {
	c := sampleCase()
	c.Serviceability[0] = design.ServiceabilityResult{Level: design.Basic, Value: 30, Limit: 27, Unit: "ratio"}
	res := Aggregate(c)
	assert.False(t, res.Pass)
	assert.True(t, res.Feasible)
	assert.Equal(t, "serviceability: basic", res.Governing)
}

func TestInfeasible(t *testing.T) {
	c := sampleCase()
	c.Shear = design.ShearResult{State: design.Infeasible, EquivalentShear: 400, MaxCapacity: 257.6}
	res := Aggregate(c)

	assert.False(t, res.Feasible)
	assert.False(t, res.Pass)
	for _, ch := range res.Checks {
		assert.NotEqual(t, "shear capacity", ch.Name)
	}
	assert.Equal(t, "shear ceiling", res.Governing)
}

func TestNoRecomputation(t *testing.T) {
	c := sampleCase()
	res := Aggregate(c)
	assert.Equal(t, c.Flexure, res.Flexure)
	assert.Equal(t, c.Shear, res.Shear)
	assert.Equal(t, c.Detailing, res.Detailing)
	require.Len(t, res.Serviceability, 1)
	assert.Equal(t, c.Serviceability[0], res.Serviceability[0])
}

func TestNominalStirrupsDoNotGovern(t *testing.T) {
	c := sampleCase()
	c.Shear.ConcreteCapacity = 45
	c.Shear.SteelDemand = 0
	c.Shear.Stirrup.Spacing = 300
	res := Aggregate(c)

	var pitch design.Check
	for _, ch := range res.Checks {
		if ch.Name == "stirrup spacing maximum" {
			pitch = ch
		}
	}
	assert.Equal(t, 300.0, pitch.Demand)
	assert.Equal(t, 300.0, pitch.Capacity)
	assert.True(t, pitch.Pass)
	assert.Zero(t, pitch.Utilisation)
	assert.NotEqual(t, "stirrup spacing maximum", res.Governing)
}

func TestStirrupSteelUtilisation(t *testing.T) {
	c := sampleCase()
	c.Shear.ConcreteCapacity = 45
	c.Shear.SteelDemand = 55
	c.Shear.Capacity = 155
	res := Aggregate(c)

	require.Greater(t, len(res.Checks), 6)
	steel, pitch := res.Checks[4], res.Checks[5]
	assert.Equal(t, "stirrup steel", steel.Name)
	assert.InDelta(t, 55.0/110, steel.Utilisation, 1e-12)
	assert.Equal(t, "stirrup spacing maximum", pitch.Name)
	assert.Equal(t, steel.Utilisation, pitch.Utilisation)

	c.Shear.Stirrup.Spacing = 320
	res = Aggregate(c)
	assert.False(t, res.Checks[5].Pass)
	assert.InDelta(t, 320.0/300, res.Checks[5].Utilisation, 1e-12)
	assert.False(t, res.Pass)
}

func TestInfeasibleFlexureFailsCapacity(t *testing.T) {
	c := sampleCase()
	c.Flexure.State = design.Infeasible
	c.Flexure.Capacity = 0
	res := Aggregate(c)
	assert.False(t, res.Checks[0].Pass)
	assert.Equal(t, MaxUtilisation, res.Checks[0].Utilisation)
	assert.Equal(t, "flexure capacity", res.Governing)
}
