package design

import (
	"github.com/alexiusacademia/rcbeam/internal/material"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

// Code is a design-code implementation. Every capability must be non-nil.
type Code interface {
	Name() string
	Title() string
	Materials() MaterialFactory
	Flexure() FlexureDesigner
	Shear() ShearDesigner
	Detailing() DetailingRules
	Serviceability() ServiceabilityRules
}

// LoadCombiner is implemented by codes that can factor unfactored load effects
type LoadCombiner interface {
	Combinations() []LoadCombination
}

// MaterialFactory resolves grade names into material properties
type MaterialFactory interface {
	// Grades returns a material.FieldErrors value when a name is not permitted
	Grades(concrete, steel string) (material.Grades, error)
	ConcreteGrades() []string
	SteelGrades() []string
}

// FlexureInput is everything a flexure designer needs for one demand
type FlexureInput struct {
	Section material.SectionGeometry
	Grades  material.Grades
	Demand  material.ForceDemand
	Span    float64 // effective span (mm), used for flange width
	Support material.Support
}

// FlexureDesigner sizes longitudinal reinforcement
type FlexureDesigner interface {
	Design(in FlexureInput) FlexureResult
	// Capacity returns the design moment capacity (kN-m) for the given steel
	Capacity(in FlexureInput, ast, asc float64) float64
}

// ShearInput is everything a shear designer needs for one demand
type ShearInput struct {
	Section     material.SectionGeometry
	Grades      material.Grades
	StirrupFy   float64 // yield strength of stirrup steel (MPa)
	Demand      material.ForceDemand
	AstProvided float64 // tension steel continuing past the section (mm²)
	Diameter    float64 // preferred stirrup diameter, 0 for the smallest that works
	Legs        int
}

// ShearDesigner sizes transverse reinforcement
type ShearDesigner interface {
	Design(in ShearInput) ShearResult
}

// DuctileInput describes the arrangement checked by seismic detailing rules
type DuctileInput struct {
	Section         material.SectionGeometry
	Grades          material.Grades
	Bars            material.BarGroup
	CompressionBars material.BarGroup
	StirrupDiameter float64
	Spacing         float64 // stirrup spacing from shear design
	Span            float64
}

// DetailingRules are the code formulas used by the detailing engine
type DetailingRules interface {
	Development(g material.Grades, bar float64, compression bool, tr *Trace) Development
	Lap(g material.Grades, bar float64, cond LapCondition, tr *Trace) Lap
	Hook(g material.Grades, bar float64, angle HookAngle, use BarUse, tr *Trace) Hook
	MinClearSpacing(bar, aggregate float64, tr *Trace) float64
	MaxBarSpacing(g material.Grades, cover float64, tr *Trace) float64
	Ductile(in DuctileInput, tr *Trace) (Ductile, []RuleCheck)
}

// SpanDepthInput feeds the basic span/depth check
type SpanDepthInput struct {
	Section     material.SectionGeometry
	Grades      material.Grades
	Span        float64
	Support     material.Support
	AstRequired float64
	AstProvided float64
	AscProvided float64
}

// StiffnessInput feeds a tension-stiffening rule at one moment
type StiffnessInput struct {
	Section    material.SectionGeometry
	Grades     material.Grades
	Properties section.Transformed
	Moment     float64 // service moment at the station (N-mm)
}

// TimeInput describes the sustained-load history
type TimeInput struct {
	LoadingAge float64 // days
	Duration   float64 // days under load
	Humidity   float64 // relative humidity, percent
}

// CrackInput feeds crack-width or bar-spacing crack control
type CrackInput struct {
	Section         material.SectionGeometry
	Grades          material.Grades
	Properties      section.Transformed
	Bars            material.BarGroup
	StirrupDiameter float64
	Moment          float64 // service moment (N-mm)
}

// ServiceabilityRules are the code formulas used by the serviceability checker
type ServiceabilityRules interface {
	// ServiceLoadFactor converts a factored moment to a service moment
	ServiceLoadFactor() float64
	SpanDepth(in SpanDepthInput, tr *Trace) ServiceabilityResult
	EffectiveInertia(in StiffnessInput, tr *Trace) float64
	// LongTermMultiplier is the single combined creep and shrinkage factor
	LongTermMultiplier(t TimeInput, rhoCompression float64, tr *Trace) float64
	CreepCoefficient(t TimeInput, tr *Trace) float64
	ShrinkageStrain(t TimeInput, tr *Trace) float64
	// ShrinkageCurvature returns the curvature (1/mm) for a shrinkage strain
	ShrinkageCurvature(strain float64, s material.SectionGeometry, pt, pc float64, tr *Trace) float64
	DeflectionLimit(span float64, tr *Trace) float64
	Crack(in CrackInput, tr *Trace) ServiceabilityResult
}

// missingCapabilities returns the names of nil capabilities of c
func missingCapabilities(c Code) []string {
	var missing []string
	if c.Materials() == nil {
		missing = append(missing, "Materials")
	}
	if c.Flexure() == nil {
		missing = append(missing, "Flexure")
	}
	if c.Shear() == nil {
		missing = append(missing, "Shear")
	}
	if c.Detailing() == nil {
		missing = append(missing, "Detailing")
	}
	if c.Serviceability() == nil {
		missing = append(missing, "Serviceability")
	}
	return missing
}
