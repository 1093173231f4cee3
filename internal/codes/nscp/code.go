// Package nscp implements strength design of reinforced concrete beams to
// NSCP 2015 Volume 1 chapter 4.
//
// NSCP chapter 4 follows ACI 318-14 section numbering with a leading 4, so
// the same implementation is also registered as "ACI318".
package nscp

import (
	"github.com/alexiusacademia/rcbeam/internal/clause"
	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

// Registry names
const (
	Name      = "NSCP2015"
	AliasName = "ACI318"
)

// Routine ids recorded in result traces
const (
	RoutineMaterials       = "nscp.material.properties"
	RoutineLoadCombination = "nscp.loads.combinations"

	RoutineBeta1          = "nscp.flexure.beta1"
	RoutinePhi            = "nscp.flexure.phi"
	RoutineSteelLimits    = "nscp.flexure.steel_limits"
	RoutineLimitingMoment = "nscp.flexure.tension_controlled_limit"
	RoutineSingly         = "nscp.flexure.singly"
	RoutineDoubly         = "nscp.flexure.doubly"
	RoutineFlangeWidth    = "nscp.flexure.flange_width"
	RoutineFlanged        = "nscp.flexure.flanged"

	RoutineConcreteShear  = "nscp.shear.vc"
	RoutineAxialShear     = "nscp.shear.axial"
	RoutineMaxShear       = "nscp.shear.vs_max"
	RoutineStirrups       = "nscp.shear.stirrups"
	RoutineMinimumShear   = "nscp.shear.minimum"
	RoutineShearSpacing   = "nscp.shear.max_spacing"
	RoutineTorsionLimit   = "nscp.torsion.threshold"
	RoutineTorsionSection = "nscp.torsion.section_limit"
	RoutineTorsionSteel   = "nscp.torsion.reinforcement"

	RoutineDevelopment     = "nscp.detailing.development_length"
	RoutineDevelopmentComp = "nscp.detailing.development_length_compression"
	RoutineLap             = "nscp.detailing.lap_tension"
	RoutineLapComp         = "nscp.detailing.lap_compression"
	RoutineHook            = "nscp.detailing.hook"
	RoutineStirrupHook     = "nscp.detailing.stirrup_hook"
	RoutineSeismicHook     = "nscp.detailing.seismic_hook"
	RoutineMinSpacing      = "nscp.detailing.min_spacing"
	RoutineMaxSpacing      = "nscp.detailing.max_spacing"
	RoutineDuctileSteel    = "nscp.ductile.longitudinal"
	RoutineDuctileHoops    = "nscp.ductile.hoops"
	RoutineDuctileLaps     = "nscp.ductile.laps"

	RoutineMinimumDepth     = "nscp.serviceability.minimum_depth"
	RoutineEffectiveInertia = "nscp.serviceability.effective_inertia"
	RoutineLongTerm         = "nscp.serviceability.long_term"
	RoutineCreep            = "aci209.creep"
	RoutineShrinkage        = "aci209.shrinkage"
	RoutineShrinkageCurve   = "aci435.shrinkage_curvature"
	RoutineDeflectionLimit  = "nscp.serviceability.deflection_limit"
	RoutineCrackControl     = "nscp.serviceability.crack_control"
)

func init() {
	clause.Register(RoutineMaterials, "NSCP:419.2.2.1", "NSCP:419.2.3.1", "NSCP:420.2.2.2")
	clause.Register(RoutineLoadCombination, "NSCP:203.3.1")

	clause.Register(RoutineBeta1, "NSCP:422.2.2.4.3")
	clause.Register(RoutinePhi, "NSCP:421.2.2")
	clause.Register(RoutineSteelLimits, "NSCP:409.6.1.2", "NSCP:409.3.3.1")
	clause.Register(RoutineLimitingMoment, "NSCP:409.3.3.1", "NSCP:422.2.2.4.1")
	clause.Register(RoutineSingly, "NSCP:422.2.2.4.1", "NSCP:422.3.1")
	clause.Register(RoutineDoubly, "NSCP:422.3.1")
	clause.Register(RoutineFlangeWidth, "NSCP:406.3.2.1")
	clause.Register(RoutineFlanged, "NSCP:422.2.2.4.1", "NSCP:422.3.1")

	clause.Register(RoutineConcreteShear, "NSCP:422.5.5.1", "NSCP:421.2.1")
	clause.Register(RoutineAxialShear, "NSCP:422.5.6.1", "NSCP:422.5.7.1")
	clause.Register(RoutineMaxShear, "NSCP:422.5.1.2")
	clause.Register(RoutineStirrups, "NSCP:422.5.10.5.3")
	clause.Register(RoutineMinimumShear, "NSCP:409.6.3.1", "NSCP:409.6.3.3")
	clause.Register(RoutineShearSpacing, "NSCP:409.7.6.2.2")
	clause.Register(RoutineTorsionLimit, "NSCP:422.7.4.1")
	clause.Register(RoutineTorsionSection, "NSCP:422.7.7.1")
	clause.Register(RoutineTorsionSteel, "NSCP:422.7.6.1", "NSCP:422.7.5.1", "NSCP:409.6.4.2", "NSCP:409.7.6.3.3")

	clause.Register(RoutineDevelopment, "NSCP:425.4.2.2", "NSCP:425.4.2.4")
	clause.Register(RoutineDevelopmentComp, "NSCP:425.4.9.2")
	clause.Register(RoutineLap, "NSCP:425.5.2.1")
	clause.Register(RoutineLapComp, "NSCP:425.5.5.1")
	clause.Register(RoutineHook, "NSCP:425.3.1", "NSCP:425.4.3.1")
	clause.Register(RoutineStirrupHook, "NSCP:425.3.2")
	clause.Register(RoutineSeismicHook, "NSCP:425.3.4")
	clause.Register(RoutineMinSpacing, "NSCP:425.2.1")
	clause.Register(RoutineMaxSpacing, "NSCP:424.3.2")
	clause.Register(RoutineDuctileSteel, "NSCP:418.6.3.1", "NSCP:418.6.3.2")
	clause.Register(RoutineDuctileHoops, "NSCP:418.6.4.1", "NSCP:418.6.4.4", "NSCP:418.6.4.6", "NSCP:425.7.2.2")
	clause.Register(RoutineDuctileLaps, "NSCP:418.6.3.3")

	clause.Register(RoutineMinimumDepth, "NSCP:409.3.1.1")
	clause.Register(RoutineEffectiveInertia, "NSCP:424.2.3.5")
	clause.Register(RoutineLongTerm, "NSCP:424.2.4.1.1", "NSCP:424.2.4.1.3")
	clause.Register(RoutineCreep, "ACI209R:2.2")
	clause.Register(RoutineShrinkage, "ACI209R:2.3")
	clause.Register(RoutineShrinkageCurve, "ACI435:3.5")
	clause.Register(RoutineDeflectionLimit, "NSCP:424.2.2")
	clause.Register(RoutineCrackControl, "NSCP:424.3.2")

	design.MustRegister(Name, New(Name))
	design.MustRegister(AliasName, New(AliasName))
}

// Code is the NSCP 2015 implementation of design.Code
type Code struct {
	name           string
	materials      Materials
	flexure        Flexure
	shear          Shear
	detailing      Detailing
	serviceability Serviceability
}

// New returns the code registered under name
func New(name string) *Code {
	return &Code{name: name}
}

func (c *Code) Name() string { return c.name }

func (c *Code) Title() string {
	if c.name == AliasName {
		return "ACI 318-14 strength design (NSCP 2015 chapter 4 numbering)"
	}
	return "NSCP 2015 Volume 1 strength design"
}

func (c *Code) Materials() design.MaterialFactory          { return c.materials }
func (c *Code) Flexure() design.FlexureDesigner            { return c.flexure }
func (c *Code) Shear() design.ShearDesigner                { return c.shear }
func (c *Code) Detailing() design.DetailingRules           { return c.detailing }
func (c *Code) Serviceability() design.ServiceabilityRules { return c.serviceability }

// StressBlock returns the equivalent rectangular stress block for the grades
func (c *Code) StressBlock(m material.Grades) section.StressBlock {
	return StressBlock(m)
}

// StrengthReduction is φ for a section whose extreme tension steel strains
// to epsilonT
func (c *Code) StrengthReduction(epsilonT float64, m material.Grades) float64 {
	return Phi(epsilonT, m.Fy)
}

// Combinations implements design.LoadCombiner
func (c *Code) Combinations() []design.LoadCombination {
	return LoadCombinations
}
