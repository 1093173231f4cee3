package nscp

import (
	"math"

	"github.com/alexiusacademia/rcbeam/internal/design"
)

// Stirrup sizing limits
const (
	MinStirrupSpacing   = 75.0  // practical minimum pitch (mm)
	MaxStirrupPitch     = 600.0 // 409.7.6.2.2
	MaxTorsionPitch     = 300.0 // 409.7.6.3.3
	MaxStirrupSteelFy   = 420.0 // 420.2.2.4, fyt for shear design
	spacingRoundingStep = 5.0
)

// StirrupDiameters is the escalation order tried before a design is infeasible
var StirrupDiameters = []float64{10, 12, 16}

// Shear designs perpendicular stirrups to 422.5 and closed stirrups for
// torsion to 422.7
type Shear struct{}

// torsionGeometry is the closed stirrup centreline used by 422.7
type torsionGeometry struct {
	Aoh, Ph float64 // area and perimeter enclosed by the stirrup centreline
}

func torsionSection(b, h, cover, dia float64) torsionGeometry {
	x1 := b - 2*cover - dia
	y1 := h - 2*cover - dia
	return torsionGeometry{
		Aoh: x1 * y1,
		Ph:  2 * (x1 + y1),
	}
}

// Threshold returns φTth (kN-m) below which torsion may be neglected
func Threshold(fc, b, h float64) float64 {
	acp, pcp := b*h, 2*(b+h)
	return PhiShear * 0.083 * Lambda * math.Sqrt(fc) * acp * acp / pcp / 1e6
}

// Design implements design.ShearDesigner
func (s Shear) Design(in design.ShearInput) design.ShearResult {
	g, m := in.Section, in.Grades
	demand := in.Demand.Magnitudes()
	b, d, h := g.Width, g.EffectiveDepth, g.Depth
	fc := m.Fck
	sqrtFc := math.Sqrt(fc)

	res := design.ShearResult{
		State:           design.Resolved,
		Shear:           demand.Shear,
		EquivalentShear: demand.Shear,
		Torsion:         demand.Torsion,
	}
	vu := demand.Shear
	res.DesignStress = vu * 1e3 / (b * d)
	res.SteelPercent = 100 * in.AstProvided / (b * d)

	// 422.5.5.1 Vc = 0.17λ√f'c bw d
	vc := 0.17 * Lambda * sqrtFc * b * d
	res.Trace.Add(RoutineConcreteShear)
	if p := in.Demand.Axial; p != 0 {
		ag := g.GrossArea()
		if p > 0 {
			vc *= 1 + p*1e3/(14*ag)
		} else {
			vc = math.Max(vc*(1+p*1e3/(3.5*ag)), 0)
		}
		res.Trace.Add(RoutineAxialShear)
	}
	res.ConcreteCapacity = PhiShear * vc / 1e3
	res.ConcreteStress = res.ConcreteCapacity * 1e3 / (b * d)

	// 422.5.1.2 Vs <= 0.66√f'c bw d
	vsMax := 0.66 * sqrtFc * b * d
	res.MaxCapacity = PhiShear * (vc + vsMax) / 1e3
	res.MaxStress = res.MaxCapacity * 1e3 / (b * d)
	res.Trace.Add(RoutineMaxShear)

	legs := in.Legs
	if legs <= 0 {
		legs = 2
	}
	fyt := in.StirrupFy
	if fyt <= 0 {
		fyt = m.Fy
	}
	fyt = math.Min(fyt, MaxStirrupSteelFy)

	candidates := stirrupCandidates(in.Diameter)
	torsion := false
	if demand.Torsion > 0 {
		res.Trace.Add(RoutineTorsionLimit)
		if demand.Torsion > Threshold(fc, b, h) {
			torsion = true
		} else {
			res.Issues = append(res.Issues, design.Issue{
				Code: design.CodeTorsion, Severity: design.Info, Clause: "NSCP:422.7.4.1",
				Message: "torsion is below the threshold and is neglected",
			})
		}
	}

	if torsion {
		// 422.7.7.1 with the first candidate stirrup centreline
		tg := torsionSection(b, h, g.Cover, candidates[0])
		lhs := math.Hypot(vu*1e3/(b*d), demand.Torsion*1e6*tg.Ph/(1.7*tg.Aoh*tg.Aoh))
		rhs := PhiShear * (vc/(b*d) + 0.66*sqrtFc)
		res.Trace.Add(RoutineTorsionSection)
		if lhs > rhs {
			res.State = design.Infeasible
			res.Issues = append(res.Issues, design.InfeasibleIssue("NSCP:422.7.7.1",
				"increase the section width or depth",
				"combined shear and torsion stress %.2f MPa exceeds %.2f MPa", lhs, rhs))
			return res
		}
	}

	if vu > res.MaxCapacity {
		res.State = design.Infeasible
		res.Issues = append(res.Issues, design.InfeasibleIssue("NSCP:422.5.1.2",
			"increase the section width or depth",
			"Vu = %.1f kN exceeds φ(Vc + 0.66√f'c bw d) = %.1f kN", vu, res.MaxCapacity))
		return res
	}

	res.StirrupsRequired = vu > res.ConcreteCapacity || torsion
	res.SteelDemand = math.Max(vu-res.ConcreteCapacity, 0)
	vs := res.SteelDemand / PhiShear * 1e3

	// 409.7.6.2.2, halved beyond 0.33√f'c bw d
	smax := math.Min(d/2, MaxStirrupPitch)
	if vs > 0.33*sqrtFc*b*d {
		smax = math.Min(d/4, MaxStirrupPitch/2)
	}
	res.Trace.Add(RoutineShearSpacing)

	// 409.6.3.3 Av,min/s
	minPerLength := 0.0
	if vu > 0.5*res.ConcreteCapacity || torsion {
		minPerLength = math.Max(0.062*sqrtFc*b/fyt, 0.35*b/fyt)
	}
	res.Trace.Add(RoutineMinimumShear)

	var (
		st   design.Stirrup
		done bool
	)
	for _, dia := range candidates {
		leg := math.Pi * dia * dia / 4
		asv := float64(legs) * leg
		limit := smax

		// Av/s and At/s per unit length
		avs := vs / (fyt * d)
		ats := 0.0
		if torsion {
			tg := torsionSection(b, h, g.Cover, dia)
			ats = demand.Torsion * 1e6 / (PhiShear * 2 * 0.85 * tg.Aoh * fyt)
			limit = math.Min(limit, math.Min(tg.Ph/8, MaxTorsionPitch))
			// 422.7.5.1 Al = (At/s) ph (fyt/fy)
			res.TorsionSteel = ats * tg.Ph * fyt / m.Fy
		}
		need := math.Max(avs+2*ats, minPerLength)

		sv := limit
		if need > 0 {
			sv = math.Min(asv/need, limit)
		}
		if torsion {
			// each outer leg of the closed stirrup carries At
			sv = math.Min(sv, leg/ats)
		}
		sv = math.Floor(sv/spacingRoundingStep) * spacingRoundingStep

		st = design.Stirrup{
			Diameter:   dia,
			Legs:       legs,
			Spacing:    sv,
			SpacingMin: MinStirrupSpacing,
			SpacingMax: limit,
			Area:       asv,
		}
		if sv >= MinStirrupSpacing {
			done = true
			break
		}
	}
	res.Stirrup = st
	res.Trace.Add(RoutineStirrups)
	if torsion {
		res.Trace.Add(RoutineTorsionSteel)
	}

	if !done {
		res.State = design.Infeasible
		res.Issues = append(res.Issues, design.InfeasibleIssue("NSCP:422.5.10.5.3",
			"increase the number of stirrup legs or the section size",
			"stirrup spacing %.0f mm with %d-leg φ%.0f is below the practical minimum %.0f mm",
			st.Spacing, legs, st.Diameter, MinStirrupSpacing))
		return res
	}

	provided := st.Area * fyt * d / st.Spacing
	res.Capacity = math.Min(PhiShear*(vc+math.Min(provided, vsMax))/1e3, res.MaxCapacity)
	return res
}

// stirrupCandidates starts the escalation at the preferred diameter
func stirrupCandidates(preferred float64) []float64 {
	if preferred <= 0 {
		return StirrupDiameters
	}
	out := []float64{preferred}
	for _, d := range StirrupDiameters {
		if d > preferred {
			out = append(out, d)
		}
	}
	return out
}
