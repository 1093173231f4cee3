// Package is456 implements limit-state design of reinforced concrete beams
// to IS 456:2000, with ductile detailing to IS 13920:2016.
//
// Importing the package registers the code as "IS456".
package is456

import (
	"github.com/alexiusacademia/rcbeam/internal/clause"
	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

// Name is the registry name of the code
const Name = "IS456"

// Routine ids recorded in result traces
const (
	RoutineMaterials       = "is456.material.properties"
	RoutineSteelStress     = "is456.material.fsc"
	RoutineLoadCombination = "is456.loads.combinations"

	RoutineLimitingDepth  = "is456.flexure.xu_max"
	RoutineLimitingMoment = "is456.flexure.mu_lim"
	RoutineSingly         = "is456.flexure.singly"
	RoutineDoubly         = "is456.flexure.doubly"
	RoutineFlangeWidth    = "is456.flexure.flange_width"
	RoutineFlanged        = "is456.flexure.flanged"
	RoutineSteelLimits    = "is456.flexure.steel_limits"
	RoutineTorsionMoment  = "is456.torsion.equivalent_moment"

	RoutineShearStress     = "is456.shear.nominal_stress"
	RoutineConcreteShear   = "is456.shear.tau_c"
	RoutineAxialShear      = "is456.shear.axial_enhancement"
	RoutineMaxShear        = "is456.shear.tau_c_max"
	RoutineStirrups        = "is456.shear.stirrups"
	RoutineMinimumShear    = "is456.shear.minimum"
	RoutineTorsionShear    = "is456.torsion.equivalent_shear"
	RoutineTorsionStirrups = "is456.torsion.stirrups"

	RoutineDevelopment     = "is456.detailing.development_length"
	RoutineDevelopmentComp = "is456.detailing.development_length_compression"
	RoutineLap             = "is456.detailing.lap"
	RoutineHook            = "is456.detailing.hook"
	RoutineStirrupHook     = "is456.detailing.stirrup_hook"
	RoutineMinSpacing      = "is456.detailing.min_spacing"
	RoutineMaxSpacing      = "is456.detailing.max_spacing"
	RoutineDuctileSteel    = "is13920.ductile.steel_ratio"
	RoutineDuctileHoops    = "is13920.ductile.hoops"
	RoutineDuctileLaps     = "is13920.ductile.laps"

	RoutineSpanDepth        = "is456.serviceability.span_depth"
	RoutineEffectiveInertia = "is456.serviceability.effective_inertia"
	RoutineLongTerm         = "is456.serviceability.long_term"
	RoutineCreep            = "is456.serviceability.creep"
	RoutineShrinkage        = "is456.serviceability.shrinkage"
	RoutineShrinkageCurve   = "is456.serviceability.shrinkage_curvature"
	RoutineDeflectionLimit  = "is456.serviceability.deflection_limit"
	RoutineCrackWidth       = "is456.serviceability.crack_width"
)

func init() {
	clause.Register(RoutineMaterials, "IS456:6.2.3.1", "IS456:6.2.2")
	clause.Register(RoutineSteelStress, "IS456:Fig23")
	clause.Register(RoutineLoadCombination, "IS456:18.2")

	clause.Register(RoutineLimitingDepth, "IS456:38.1.f")
	clause.Register(RoutineLimitingMoment, "IS456:G-1.1.c", "IS456:38.1")
	clause.Register(RoutineSingly, "IS456:G-1.1", "IS456:38.1")
	clause.Register(RoutineDoubly, "IS456:G-1.2", "IS456:Fig23")
	clause.Register(RoutineFlangeWidth, "IS456:23.1.2")
	clause.Register(RoutineFlanged, "IS456:G-2.2")
	clause.Register(RoutineSteelLimits, "IS456:26.5.1.1", "IS456:26.5.1.2")
	clause.Register(RoutineTorsionMoment, "IS456:41.4.2")

	clause.Register(RoutineShearStress, "IS456:40.1")
	clause.Register(RoutineConcreteShear, "IS456:40.2.1")
	clause.Register(RoutineAxialShear, "IS456:40.2.2")
	clause.Register(RoutineMaxShear, "IS456:40.2.3")
	clause.Register(RoutineStirrups, "IS456:40.4", "IS456:26.5.1.5")
	clause.Register(RoutineMinimumShear, "IS456:40.3", "IS456:26.5.1.6")
	clause.Register(RoutineTorsionShear, "IS456:41.3.1")
	clause.Register(RoutineTorsionStirrups, "IS456:41.4.3")

	clause.Register(RoutineDevelopment, "IS456:26.2.1", "IS456:26.2.1.1")
	clause.Register(RoutineDevelopmentComp, "IS456:26.2.1", "IS456:26.2.1.1", "IS456:26.2.2.2")
	clause.Register(RoutineLap, "IS456:26.2.5.1")
	clause.Register(RoutineHook, "IS456:26.2.2.1")
	clause.Register(RoutineStirrupHook, "IS456:26.2.2.4")
	clause.Register(RoutineMinSpacing, "IS456:26.3.2", "IS456:26.4.1")
	clause.Register(RoutineMaxSpacing, "IS456:26.3.3")
	clause.Register(RoutineDuctileSteel, "IS13920:6.2.1", "IS13920:6.2.2", "IS13920:6.2.3")
	clause.Register(RoutineDuctileHoops, "IS13920:6.3.5", "IS13920:6.3.2", "IS13920:6.3.3")
	clause.Register(RoutineDuctileLaps, "IS13920:6.2.6")

	clause.Register(RoutineSpanDepth, "IS456:23.2.1", "IS456:Fig4", "IS456:Fig5", "IS456:Fig6")
	clause.Register(RoutineEffectiveInertia, "IS456:C-2")
	clause.Register(RoutineLongTerm, "IS456:C-3", "IS456:C-4", "IS456:6.2.5.1")
	clause.Register(RoutineCreep, "IS456:6.2.5.1", "IS456:C-4")
	clause.Register(RoutineShrinkage, "IS456:6.2.4.1")
	clause.Register(RoutineShrinkageCurve, "IS456:C-3")
	clause.Register(RoutineDeflectionLimit, "IS456:23.2")
	clause.Register(RoutineCrackWidth, "IS456:35.3.2", "IS456:AnnexF")

	design.MustRegister(Name, New())
}

// Code is the IS 456 implementation of design.Code
type Code struct {
	materials      Materials
	flexure        Flexure
	shear          Shear
	detailing      Detailing
	serviceability Serviceability
}

// New returns the IS 456 code
func New() *Code {
	return &Code{}
}

func (c *Code) Name() string  { return Name }
func (c *Code) Title() string { return "IS 456:2000 limit state design with IS 13920:2016 ductile detailing" }

func (c *Code) Materials() design.MaterialFactory          { return c.materials }
func (c *Code) Flexure() design.FlexureDesigner            { return c.flexure }
func (c *Code) Shear() design.ShearDesigner                { return c.shear }
func (c *Code) Detailing() design.DetailingRules           { return c.detailing }
func (c *Code) Serviceability() design.ServiceabilityRules { return c.serviceability }

// StressBlock returns the uniform block equivalent to the 38.1 parabolic
// rectangular distribution: 0.36 fck b xu acting at 0.42 xu from the top,
// with steel at 0.87 fy
func (c *Code) StressBlock(m material.Grades) section.StressBlock {
	return section.StressBlock{
		Intensity:   0.36 / 0.84 * m.Fck,
		DepthFactor: 0.84,
		EpsilonCU:   EpsilonCU,
		Es:          Es,
		Fy:          DesignYield(m.Fy),
	}
}

// Combinations implements design.LoadCombiner
func (c *Code) Combinations() []design.LoadCombination {
	return LoadCombinations
}

// LoadCombinations are the limit state of collapse combinations of Table 18
var LoadCombinations = []design.LoadCombination{
	{ID: "1", Description: "1.5(DL + LL)", Clause: "IS456:18.2", Dead: 1.5, Live: 1.5, Roof: 1.5},
	{ID: "2", Description: "1.2(DL + LL + WL)", Clause: "IS456:18.2", Dead: 1.2, Live: 1.2, Roof: 1.2, Wind: 1.2},
	{ID: "3", Description: "1.2(DL + LL + EL)", Clause: "IS456:18.2", Dead: 1.2, Live: 1.2, Roof: 1.2, Earthquake: 1.2},
	{ID: "4", Description: "1.5(DL + WL)", Clause: "IS456:18.2", Dead: 1.5, Wind: 1.5},
	{ID: "5", Description: "1.5(DL + EL)", Clause: "IS456:18.2", Dead: 1.5, Earthquake: 1.5},
	{ID: "6", Description: "0.9DL + 1.5WL", Clause: "IS456:18.2", Dead: 0.9, Wind: 1.5},
	{ID: "7", Description: "0.9DL + 1.5EL", Clause: "IS456:18.2", Dead: 0.9, Earthquake: 1.5},
}
