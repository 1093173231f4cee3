package design

import (
	"github.com/alexiusacademia/rcbeam/internal/material"
	"github.com/alexiusacademia/rcbeam/internal/table"
)

// SchemaVersion is the version of the serialized Result layout
const SchemaVersion = "1.0.0"

// Units names the unit of every numeric field family in a Result.
// Field name suffixes (_mm, _mm2, _knm, _kn, _mpa) follow these units.
type Units struct {
	Length   string `json:"length"`
	Area     string `json:"area"`
	Moment   string `json:"moment"`
	Force    string `json:"force"`
	Stress   string `json:"stress"`
	Time     string `json:"time"`
	Humidity string `json:"humidity"`
}

// DefaultUnits is the unit system used throughout the engine
var DefaultUnits = Units{
	Length:   "mm",
	Area:     "mm2",
	Moment:   "kN.m",
	Force:    "kN",
	Stress:   "MPa",
	Time:     "days",
	Humidity: "percent",
}

// Trace is the ordered list of routine ids a calculation ran
type Trace []string

// Add appends routine ids in call order
func (t *Trace) Add(routines ...string) {
	*t = append(*t, routines...)
}

// TraceRoutines implements clause.Traceable
func (t Trace) TraceRoutines() []string {
	return t
}

// Classification of a flexural section
type Classification string

const (
	Unclassified     Classification = "unclassified"
	SinglyReinforced Classification = "singly_reinforced"
	DoublyReinforced Classification = "doubly_reinforced"
	Flanged          Classification = "flanged"
)

// State is the terminal state of a design step
type State string

const (
	Resolved   State = "resolved"
	Infeasible State = "infeasible"
)

// FlexureResult is the outcome of flexural design for one demand
type FlexureResult struct {
	Classification Classification `json:"classification"`
	State          State          `json:"state"`

	Moment       float64 `json:"moment_knm"`        // |Mu| as given
	DesignMoment float64 `json:"design_moment_knm"` // Mu including torsion equivalent moment

	AstCalculated float64 `json:"ast_calculated_mm2"` // from equilibrium, before minimum steel
	AstRequired   float64 `json:"ast_required_mm2"`   // governing tension steel
	AstMin        float64 `json:"ast_min_mm2"`
	AstMax        float64 `json:"ast_max_mm2"`
	AscRequired   float64 `json:"asc_required_mm2"`
	AscMax        float64 `json:"asc_max_mm2"`
	Fsc           float64 `json:"fsc_mpa,omitempty"` // stress in compression steel

	NeutralAxisRatio      float64 `json:"xu_d"`     // xu/d (or c/d)
	NeutralAxisLimitRatio float64 `json:"xu_max_d"` // limiting xu/d
	Phi                   float64 `json:"phi,omitempty"`

	LimitingMoment    float64 `json:"mu_lim_knm"`  // singly reinforced limit of the section
	CompressionMoment float64 `json:"mu2_knm"`     // extra capacity from compression steel
	Capacity          float64 `json:"capacity_knm"` // design capacity for the required steel

	EffectiveWidth  float64 `json:"effective_width_mm"` // b, or bf for flanged sections
	NeutralInFlange bool    `json:"na_in_flange,omitempty"`

	Issues []Issue `json:"issues,omitempty"`
	Trace  Trace   `json:"trace"`
}

// Stirrup describes a vertical stirrup layout
type Stirrup struct {
	Diameter   float64 `json:"diameter_mm"`
	Legs       int     `json:"legs"`
	Spacing    float64 `json:"spacing_mm"`
	SpacingMin float64 `json:"spacing_min_mm"`
	SpacingMax float64 `json:"spacing_max_mm"`
	Area       float64 `json:"asv_mm2"` // area of all legs
}

// ShearResult is the outcome of shear (and torsion) design for one demand
type ShearResult struct {
	State State `json:"state"`

	Shear           float64 `json:"shear_kn"`
	EquivalentShear float64 `json:"equivalent_shear_kn"` // Vu with torsion effect
	Torsion         float64 `json:"torsion_knm"`

	DesignStress   float64 `json:"tau_v_mpa"`     // nominal shear stress
	ConcreteStress float64 `json:"tau_c_mpa"`     // design shear strength of concrete
	MaxStress      float64 `json:"tau_c_max_mpa"` // ceiling with shear reinforcement
	SteelPercent   float64 `json:"pt_percent"`

	ConcreteCapacity float64 `json:"vc_kn"`       // design concrete contribution
	SteelDemand      float64 `json:"vus_kn"`      // shear to be carried by stirrups
	Capacity         float64 `json:"capacity_kn"` // design capacity with provided stirrups
	MaxCapacity      float64 `json:"max_capacity_kn"`

	StirrupsRequired bool    `json:"stirrups_required"` // by the stress check
	Stirrup          Stirrup `json:"stirrup"`

	TorsionSteel float64 `json:"torsion_longitudinal_mm2,omitempty"`

	TableClamps []table.Clamp `json:"table_clamps,omitempty"`
	Issues      []Issue       `json:"issues,omitempty"`
	Trace       Trace         `json:"trace"`
}

// HookAngle is a standard bend angle in degrees
type HookAngle int

const (
	Hook90  HookAngle = 90
	Hook135 HookAngle = 135
	Hook180 HookAngle = 180
)

// Valid reports whether a is a standard hook angle
func (a HookAngle) Valid() bool {
	return a == Hook90 || a == Hook135 || a == Hook180
}

// BarUse distinguishes hook rules for main bars and transverse bars
type BarUse string

const (
	MainBar     BarUse = "main"
	StirrupBar  BarUse = "stirrup"
	SeismicHoop BarUse = "seismic_hoop"
)

// Hook is standard hook geometry
type Hook struct {
	Use            BarUse    `json:"use"`
	Angle          HookAngle `json:"angle_deg"`
	BarDiameter    float64   `json:"bar_diameter_mm"`
	BendRadius     float64   `json:"bend_radius_mm"`     // internal radius
	Extension      float64   `json:"extension_mm"`       // straight tail beyond the bend
	AnchorageValue float64   `json:"anchorage_value_mm"` // development credited to the hook
}

// Development is an anchorage length calculation
type Development struct {
	BarDiameter float64 `json:"bar_diameter_mm"`
	Compression bool    `json:"compression"`
	BondStress  float64 `json:"bond_stress_mpa,omitempty"`
	Length      float64 `json:"length_mm"`
}

// LapCondition selects lap-length multipliers
type LapCondition struct {
	Compression     bool `json:"compression"`
	CriticalSection bool `json:"critical_section"` // tension lap at maximum moment or direct tension
	TopBar          bool `json:"top_bar"`
	Seismic         bool `json:"seismic"`
}

// Lap is a lap-splice length with the multiplier applied
type Lap struct {
	Condition  LapCondition `json:"condition"`
	Base       float64      `json:"base_mm"`
	Multiplier float64      `json:"multiplier"`
	Length     float64      `json:"length_mm"`
}

// RuleCheck is one pass/fail detailing rule
type RuleCheck struct {
	Rule     string  `json:"rule"`
	Clause   string  `json:"clause"`
	Required float64 `json:"required"`
	Provided float64 `json:"provided"`
	Unit     string  `json:"unit"`
	// Upper marks Required as a maximum rather than a minimum
	Upper bool `json:"upper,omitempty"`
	Pass  bool `json:"pass"`
}

// NewRuleCheck evaluates provided against required. When upper is true
// the rule passes for provided <= required, otherwise provided >= required.
func NewRuleCheck(rule, clause, unit string, required, provided float64, upper bool) RuleCheck {
	pass := provided >= required
	if upper {
		pass = provided <= required
	}
	return RuleCheck{Rule: rule, Clause: clause, Required: required, Provided: provided, Unit: unit, Upper: upper, Pass: pass}
}

// Ductile holds seismic detailing adjustments
type Ductile struct {
	HingeZone    float64 `json:"hinge_zone_mm"`    // length from each support face
	HingeSpacing float64 `json:"hinge_spacing_mm"` // hoop spacing in the hinge zone
	MidSpacing   float64 `json:"mid_spacing_mm"`   // spacing outside the hinge zone
	LapSpacing   float64 `json:"lap_spacing_mm"`   // hoop spacing over lap splices
	FirstHoop    float64 `json:"first_hoop_mm"`
	LapExclusion float64 `json:"lap_exclusion_mm"` // no laps within this distance of the face
	RhoMin       float64 `json:"rho_min"`
	RhoMax       float64 `json:"rho_max"`
	Hoop         Hook    `json:"hoop"`
}

// DetailingResult is the bar arrangement and anchorage for one demand
type DetailingResult struct {
	Bars            material.BarGroup `json:"bars"`
	CompressionBars material.BarGroup `json:"compression_bars"`
	AstProvided     float64           `json:"ast_provided_mm2"`
	AscProvided     float64           `json:"asc_provided_mm2"`
	ClearSpacing    float64           `json:"clear_spacing_mm"`

	Development            Development `json:"development"`
	CompressionDevelopment Development `json:"compression_development"`
	Lap                    Lap         `json:"lap"`
	MainHook               Hook        `json:"main_hook"`
	StirrupHook            Hook        `json:"stirrup_hook"`

	Checks  []RuleCheck `json:"checks"`
	Ductile *Ductile    `json:"ductile,omitempty"`

	Issues []Issue `json:"issues,omitempty"`
	Trace  Trace   `json:"trace"`
}

// Pass reports whether every detailing rule passed
func (d DetailingResult) Pass() bool {
	for _, c := range d.Checks {
		if !c.Pass {
			return false
		}
	}
	return true
}

// Level is a serviceability check variant
type Level string

const (
	Basic        Level = "basic"
	Intermediate Level = "intermediate"
	Advanced     Level = "advanced"
	CrackWidth   Level = "crack"
)

// Valid reports whether l is a known level
func (l Level) Valid() bool {
	switch l {
	case Basic, Intermediate, Advanced, CrackWidth:
		return true
	}
	return false
}

// ServiceabilityResult is one serviceability check. Value and Limit share Unit.
type ServiceabilityResult struct {
	Level      Level              `json:"level"`
	Value      float64            `json:"value"`
	Limit      float64            `json:"limit"`
	Unit       string             `json:"unit"`
	Pass       bool               `json:"pass"`
	Factors    map[string]float64 `json:"factors,omitempty"`
	Components map[string]float64 `json:"components,omitempty"`
	Issues     []Issue            `json:"issues,omitempty"`
	Trace      Trace              `json:"trace"`
}

// Check is one utilisation entry of a compliance case
type Check struct {
	Name        string  `json:"name"`
	Demand      float64 `json:"demand"`
	Capacity    float64 `json:"capacity"`
	Unit        string  `json:"unit"`
	Utilisation float64 `json:"utilisation"`
	Pass        bool    `json:"pass"`
	Clause      string  `json:"clause,omitempty"`
}

// CaseResult aggregates every check for one load case
type CaseResult struct {
	Name           string                 `json:"name"`
	Demand         material.ForceDemand   `json:"demand"`
	Flexure        FlexureResult          `json:"flexure"`
	Shear          ShearResult            `json:"shear"`
	Detailing      DetailingResult        `json:"detailing"`
	Serviceability []ServiceabilityResult `json:"serviceability,omitempty"`

	Checks      []Check `json:"checks"`
	Governing   string  `json:"governing"`
	Utilisation float64 `json:"utilisation"`
	Pass        bool    `json:"pass"`
	Feasible    bool    `json:"feasible"`
}

// TraceRoutines returns the routine ids of every component in pipeline order
func (c CaseResult) TraceRoutines() []string {
	var out []string
	out = append(out, c.Flexure.Trace...)
	out = append(out, c.Shear.Trace...)
	out = append(out, c.Detailing.Trace...)
	for _, s := range c.Serviceability {
		out = append(out, s.Trace...)
	}
	return out
}

// Issues collects the issues of every component
func (c CaseResult) Issues() []Issue {
	var out []Issue
	out = append(out, c.Flexure.Issues...)
	out = append(out, c.Shear.Issues...)
	out = append(out, c.Detailing.Issues...)
	for _, s := range c.Serviceability {
		out = append(out, s.Issues...)
	}
	return out
}

// Status summarises a Result
type Status string

const (
	StatusPass       Status = "pass"
	StatusFail       Status = "fail"
	StatusInfeasible Status = "infeasible"
	StatusInvalid    Status = "invalid"
)

// Result is the versioned design result returned for one Request
type Result struct {
	SchemaVersion string `json:"schema_version"`
	ID            string `json:"id"`
	Label         string `json:"label,omitempty"`
	Code          string `json:"code"`
	Units         Units  `json:"units"`

	Section   material.SectionGeometry `json:"section"`
	Materials material.Grades          `json:"materials"`

	Cases []CaseResult `json:"cases"`

	Governing     string  `json:"governing,omitempty"` // case/check with the highest utilisation
	Utilisation   float64 `json:"utilisation"`
	Status        Status  `json:"status"`
	Issues        []Issue `json:"issues,omitempty"` // request-level issues
	EngineVersion string  `json:"engine_version"`
}

// TraceRoutines returns routine ids across all cases in order
func (r *Result) TraceRoutines() []string {
	var out []string
	for _, c := range r.Cases {
		out = append(out, c.TraceRoutines()...)
	}
	return out
}

// Err converts a failed result into the matching error type.
// It returns nil for pass and fail statuses.
func (r *Result) Err() error {
	switch r.Status {
	case StatusInvalid:
		return &ValidationError{Issues: r.Issues}
	case StatusInfeasible:
		var issues []Issue
		for _, c := range r.Cases {
			for _, i := range c.Issues() {
				if i.Code == CodeInfeasible {
					issues = append(issues, i)
				}
			}
		}
		return &InfeasibleDesignError{Issues: issues}
	}
	return nil
}
