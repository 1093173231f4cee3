// Package serviceability checks deflection and cracking of a designed beam.
// The code-specific formulas come from design.ServiceabilityRules; this
// package owns the moment diagrams, the curvature integration and the
// creep and shrinkage split.
package serviceability

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/alexiusacademia/rcbeam/internal/clause"
	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

// Stations is the number of points the curvature is sampled at along the span
const Stations = 101

// Input is a designed section under service load
type Input struct {
	Section material.SectionGeometry
	Grades  material.Grades
	Span    float64 // effective span (mm)
	Support material.Support

	AstRequired float64
	AstProvided float64
	AscProvided float64
	Bars        material.BarGroup
	Stirrup     float64 // stirrup diameter (mm)

	// Moment is the factored design moment (kN-m). It is converted with the
	// code's service load factor unless Options.ServiceMoment is set.
	Moment  float64
	Options design.ServiceabilityOptions
}

// ServiceMoment returns the service moment in kN-m
func ServiceMoment(rules design.ServiceabilityRules, in Input) float64 {
	if in.Options.ServiceMoment > 0 {
		return in.Options.ServiceMoment
	}
	f := rules.ServiceLoadFactor()
	if f <= 0 {
		return math.Abs(in.Moment)
	}
	return math.Abs(in.Moment) / f
}

func (in Input) time() design.TimeInput {
	o := in.Options
	t := design.TimeInput{LoadingAge: o.LoadingAge, Duration: o.Duration, Humidity: o.Humidity}
	if t.LoadingAge <= 0 {
		t.LoadingAge = design.DefaultLoadingAge
	}
	if t.Duration <= 0 {
		t.Duration = design.DefaultDuration
	}
	if t.Humidity <= 0 {
		t.Humidity = design.DefaultHumidity
	}
	return t
}

func (in Input) sustained() float64 {
	if in.Options.SustainedFraction > 0 {
		return in.Options.SustainedFraction
	}
	return design.DefaultSustainedFraction
}

// steel ratios in percent of b d, with b the flange width for flanged sections
func (in Input) percentages() (pt, pc float64) {
	g := in.Section
	b := g.Width
	if g.Flanged() {
		b = g.FlangeWidth
	}
	bd := b * g.EffectiveDepth
	return 100 * in.AstProvided / bd, 100 * in.AscProvided / bd
}

// CheckAll runs every level in Options.Levels, in order
func CheckAll(rules design.ServiceabilityRules, in Input) []design.ServiceabilityResult {
	out := make([]design.ServiceabilityResult, 0, len(in.Options.Levels))
	for _, l := range in.Options.Levels {
		out = append(out, Check(rules, l, in))
	}
	return out
}

// Check runs one serviceability level
func Check(rules design.ServiceabilityRules, level design.Level, in Input) design.ServiceabilityResult {
	var res design.ServiceabilityResult
	switch level {
	case design.Basic:
		res = basic(rules, in)
	case design.Intermediate:
		res = intermediate(rules, in)
	case design.Advanced:
		res = advanced(rules, in)
	case design.CrackWidth:
		res = crack(rules, in)
	default:
		return design.ServiceabilityResult{
			Level: level,
			Issues: []design.Issue{{
				Code: design.CodeInvalidInput, Severity: design.Error,
				Field:   "serviceability.levels",
				Message: fmt.Sprintf("unknown serviceability level %q", level),
			}},
		}
	}

	if !res.Pass {
		res.Issues = append(res.Issues, design.Warn(design.CodeServiceability, lastClause(res.Trace),
			"%s check: %.4g %s exceeds the limit %.4g %s", level, res.Value, res.Unit, res.Limit, res.Unit))
	}
	return res
}

func basic(rules design.ServiceabilityRules, in Input) design.ServiceabilityResult {
	var tr design.Trace
	res := rules.SpanDepth(design.SpanDepthInput{
		Section:     in.Section,
		Grades:      in.Grades,
		Span:        in.Span,
		Support:     in.Support,
		AstRequired: in.AstRequired,
		AstProvided: in.AstProvided,
		AscProvided: in.AscProvided,
	}, &tr)
	res.Trace = append(tr, res.Trace...)
	return res
}

// properties returns the transformed section with modular ratio Es/e
func (in Input) properties(e float64) section.Transformed {
	m := in.Grades.ModularRatio()
	if e > 0 && in.Grades.Es > 0 {
		m = in.Grades.Es / e
	}
	return section.NewTransformed(in.Section, in.AstProvided, in.AscProvided, m)
}

// profile is a deflection integrated along the span
type profile struct {
	Deflection float64 // mm at the reference point
	MinInertia float64 // smallest Ieff over the stations (mm⁴)
}

// deflect integrates M m / (E Ieff) over the span for a service moment
// ms (N-mm) with the given modulus and transformed properties
func deflect(rules design.ServiceabilityRules, in Input, p section.Transformed, e, ms float64, tr *design.Trace) profile {
	l := in.Span
	xs := make([]float64, Stations)
	fs := make([]float64, Stations)
	out := profile{MinInertia: math.Inf(1)}

	var scratch design.Trace
	for i := range xs {
		x := l * float64(i) / float64(Stations-1)
		mx := ms * MomentShape(in.Support, x, l)
		ieff := rules.EffectiveInertia(design.StiffnessInput{
			Section:    in.Section,
			Grades:     in.Grades,
			Properties: p,
			Moment:     math.Abs(mx),
		}, &scratch)
		out.MinInertia = math.Min(out.MinInertia, ieff)
		xs[i] = x
		fs[i] = mx / (e * ieff) * VirtualMoment(in.Support, x, l)
	}
	mergeTrace(tr, scratch)
	out.Deflection = integrate.Simpsons(xs, fs)
	return out
}

func intermediate(rules design.ServiceabilityRules, in Input) design.ServiceabilityResult {
	var tr design.Trace
	m := in.Grades
	ms := ServiceMoment(rules, in)
	p := in.properties(m.Ec)
	short := deflect(rules, in, p, m.Ec, ms*1e6, &tr)

	_, pc := in.percentages()
	lambda := rules.LongTermMultiplier(in.time(), pc/100, &tr)
	sf := in.sustained()
	long := lambda * sf * short.Deflection
	total := short.Deflection + long

	limit := rules.DeflectionLimit(in.Span, &tr)
	return design.ServiceabilityResult{
		Level: design.Intermediate,
		Value: total,
		Limit: limit,
		Unit:  "mm",
		Pass:  total <= limit,
		Factors: map[string]float64{
			"service_moment_knm":  ms,
			"cracking_moment_knm": p.CrackingMoment(m.Fcr) / 1e6,
			"ieff_min_mm4":        short.MinInertia,
			"long_term_factor":    lambda,
			"sustained_fraction":  sf,
		},
		Components: map[string]float64{
			"short_term": short.Deflection,
			"long_term":  long,
		},
		Trace: tr,
	}
}

func advanced(rules design.ServiceabilityRules, in Input) design.ServiceabilityResult {
	var tr design.Trace
	m := in.Grades
	t := in.time()
	ms := ServiceMoment(rules, in)
	sf := in.sustained()

	short := deflect(rules, in, in.properties(m.Ec), m.Ec, ms*1e6, &tr)

	// creep: the sustained part on the effective modulus, less its
	// instantaneous share already counted
	theta := rules.CreepCoefficient(t, &tr)
	ece := m.Ec / (1 + theta)
	sustained := deflect(rules, in, in.properties(m.Ec), m.Ec, sf*ms*1e6, &tr)
	crept := deflect(rules, in, in.properties(ece), ece, sf*ms*1e6, &tr)
	creep := math.Max(crept.Deflection-sustained.Deflection, 0)

	strain := rules.ShrinkageStrain(t, &tr)
	pt, pc := in.percentages()
	psi := rules.ShrinkageCurvature(strain, in.Section, pt, pc, &tr)
	k3 := ShrinkageCoefficient(in.Support)
	shrinkage := k3 * psi * in.Span * in.Span

	total := short.Deflection + creep + shrinkage
	limit := rules.DeflectionLimit(in.Span, &tr)
	return design.ServiceabilityResult{
		Level: design.Advanced,
		Value: total,
		Limit: limit,
		Unit:  "mm",
		Pass:  total <= limit,
		Factors: map[string]float64{
			"service_moment_knm":  ms,
			"sustained_fraction":  sf,
			"creep_coefficient":   theta,
			"ece_mpa":             ece,
			"shrinkage_strain":    strain,
			"shrinkage_curvature": psi,
			"k3":                  k3,
		},
		Components: map[string]float64{
			"short_term": short.Deflection,
			"creep":      creep,
			"shrinkage":  shrinkage,
		},
		Trace: tr,
	}
}

func crack(rules design.ServiceabilityRules, in Input) design.ServiceabilityResult {
	var tr design.Trace
	ms := ServiceMoment(rules, in)
	res := rules.Crack(design.CrackInput{
		Section:         in.Section,
		Grades:          in.Grades,
		Properties:      in.properties(in.Grades.Ec),
		Bars:            in.Bars,
		StirrupDiameter: in.Stirrup,
		Moment:          ms * 1e6,
	}, &tr)
	res.Trace = append(tr, res.Trace...)
	if res.Factors == nil {
		res.Factors = map[string]float64{}
	}
	res.Factors["service_moment_knm"] = ms
	return res
}

// mergeTrace appends the routines of src not yet recorded in dst,
// keeping first-call order
func mergeTrace(dst *design.Trace, src design.Trace) {
	seen := make(map[string]bool, len(*dst))
	for _, r := range *dst {
		seen[r] = true
	}
	for _, r := range src {
		if !seen[r] {
			seen[r] = true
			dst.Add(r)
		}
	}
}

// lastClause is the first clause of the most recent registered routine
func lastClause(tr design.Trace) string {
	for i := len(tr) - 1; i >= 0; i-- {
		if refs := clause.Refs(tr[i]); len(refs) > 0 {
			return refs[0]
		}
	}
	return ""
}
