package is456

import (
	"math"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/table"
)

// Table 19: design shear strength of concrete τc (MPa) by pt (%) and fck
var ConcreteShearStrength = table.MustGrid("IS456 Table 19", "pt", "fck",
	[]float64{0.15, 0.25, 0.50, 0.75, 1.00, 1.25, 1.50, 1.75, 2.00, 2.25, 2.50, 2.75, 3.00},
	[]float64{15, 20, 25, 30, 35, 40},
	[][]float64{
		{0.28, 0.28, 0.29, 0.29, 0.29, 0.30},
		{0.35, 0.36, 0.36, 0.37, 0.37, 0.38},
		{0.46, 0.48, 0.49, 0.50, 0.50, 0.51},
		{0.54, 0.56, 0.57, 0.59, 0.59, 0.60},
		{0.60, 0.62, 0.64, 0.66, 0.67, 0.68},
		{0.64, 0.67, 0.70, 0.71, 0.73, 0.74},
		{0.68, 0.72, 0.74, 0.76, 0.78, 0.79},
		{0.71, 0.75, 0.78, 0.80, 0.82, 0.84},
		{0.71, 0.79, 0.82, 0.84, 0.86, 0.88},
		{0.71, 0.81, 0.85, 0.88, 0.90, 0.92},
		{0.71, 0.82, 0.88, 0.91, 0.93, 0.95},
		{0.71, 0.82, 0.90, 0.94, 0.96, 0.98},
		{0.71, 0.82, 0.92, 0.96, 0.99, 1.01},
	})

// Table 20: maximum shear stress τc,max (MPa). M40 and above take 4.0.
var MaxShearStress = table.MustCurve("IS456 Table 20", "fck",
	[]float64{15, 20, 25, 30, 35, 40},
	[]float64{2.5, 2.8, 3.1, 3.5, 3.7, 4.0})

// Stirrup sizing limits
const (
	MinStirrupSpacing   = 75.0  // practical minimum pitch (mm)
	MaxStirrupPitch     = 300.0 // 26.5.1.5
	MaxStirrupSteelFy   = 415.0 // 40.4, fy of stirrups is not taken greater than 415
	spacingRoundingStep = 5.0
)

// StirrupDiameters is the escalation order tried before a design is infeasible
var StirrupDiameters = []float64{8, 10, 12}

// Shear designs vertical stirrups to 40 and 41
type Shear struct{}

// Design implements design.ShearDesigner
func (s Shear) Design(in design.ShearInput) design.ShearResult {
	g, m := in.Section, in.Grades
	demand := in.Demand.Magnitudes()
	b, d := g.Width, g.EffectiveDepth

	res := design.ShearResult{
		State:   design.Resolved,
		Shear:   demand.Shear,
		Torsion: demand.Torsion,
	}

	// 41.3.1 equivalent shear
	ve := demand.Shear
	if demand.Torsion > 0 {
		ve += 1.6 * demand.Torsion * 1e3 / b
		res.Trace.Add(RoutineTorsionShear)
	}
	res.EquivalentShear = ve
	res.DesignStress = ve * 1e3 / (b * d)
	res.Trace.Add(RoutineShearStress)

	res.SteelPercent = 100 * in.AstProvided / (b * d)
	tc := ConcreteShearStrength.At(res.SteelPercent, m.Fck)
	res.ConcreteStress = tc.Value
	res.TableClamps = append(res.TableClamps, tc.Clamps...)
	for _, c := range tc.Clamps {
		res.Issues = append(res.Issues, design.Warn(design.CodeTableClamped, "IS456:40.2.1", "Table 19: %s", c))
	}
	res.Trace.Add(RoutineConcreteShear)

	// 40.2.2 members under axial compression
	if demand.Axial > 0 {
		delta := math.Min(1+3*demand.Axial*1e3/(g.GrossArea()*m.Fck), 1.5)
		res.ConcreteStress *= delta
		res.Trace.Add(RoutineAxialShear)
	}

	res.MaxStress = MaxShearStress.At(m.Fck).Value
	res.MaxCapacity = res.MaxStress * b * d / 1e3
	res.ConcreteCapacity = res.ConcreteStress * b * d / 1e3
	res.Trace.Add(RoutineMaxShear)

	if res.DesignStress > res.MaxStress {
		res.State = design.Infeasible
		res.Issues = append(res.Issues, design.InfeasibleIssue("IS456:40.2.3",
			"increase the section width or depth",
			"nominal shear stress %.2f MPa exceeds τc,max = %.2f MPa", res.DesignStress, res.MaxStress))
		return res
	}

	res.StirrupsRequired = res.DesignStress > res.ConcreteStress
	res.SteelDemand = math.Max(ve-res.ConcreteCapacity, 0)

	legs := in.Legs
	if legs <= 0 {
		legs = 2
	}
	fy := in.StirrupFy
	if fy <= 0 {
		fy = m.Fy
	}
	fyd := DesignYield(math.Min(fy, MaxStirrupSteelFy))

	smax := math.Min(0.75*d, MaxStirrupPitch)
	if demand.Torsion > 0 {
		// 26.5.1.7 closed stirrups: x1 and y1 are the stirrup dimensions
		x1 := b - 2*g.Cover
		y1 := g.Depth - 2*g.Cover
		smax = math.Min(smax, math.Min(x1, (x1+y1)/4))
	}

	var (
		st   design.Stirrup
		done bool
	)
	for _, dia := range stirrupCandidates(in.Diameter) {
		asv := float64(legs) * math.Pi * dia * dia / 4
		sv := s.spacing(in, dia, asv, fyd, ve, res.ConcreteStress)
		sv = math.Min(sv, smax)
		sv = math.Floor(sv/spacingRoundingStep) * spacingRoundingStep

		st = design.Stirrup{
			Diameter:   dia,
			Legs:       legs,
			Spacing:    sv,
			SpacingMin: MinStirrupSpacing,
			SpacingMax: smax,
			Area:       asv,
		}
		if sv >= MinStirrupSpacing {
			done = true
			break
		}
	}
	res.Stirrup = st
	res.Trace.Add(RoutineMinimumShear)
	if demand.Torsion > 0 {
		res.Trace.Add(RoutineTorsionStirrups)
	} else {
		res.Trace.Add(RoutineStirrups)
	}

	if !done {
		res.State = design.Infeasible
		res.Issues = append(res.Issues, design.InfeasibleIssue("IS456:40.4",
			"increase the number of stirrup legs or the section size",
			"stirrup spacing %.0f mm with %d-leg φ%.0f is below the practical minimum %.0f mm",
			st.Spacing, legs, st.Diameter, MinStirrupSpacing))
		return res
	}

	vs := fyd * st.Area * d / st.Spacing / 1e3
	res.Capacity = math.Min(res.ConcreteCapacity+vs, res.MaxCapacity)
	return res
}

// spacing returns the largest pitch satisfying strength and minimum
// reinforcement for stirrups of diameter dia and total leg area asv
func (s Shear) spacing(in design.ShearInput, dia, asv, fyd, ve, tauC float64) float64 {
	g := in.Section
	demand := in.Demand.Magnitudes()
	b, d := g.Width, g.EffectiveDepth

	// 26.5.1.6 Asv/(b sv) >= 0.4/(0.87 fy)
	sv := asv * fyd / (0.4 * b)

	if demand.Torsion > 0 {
		// 41.4.3, b1 and d1 between corner bar centres
		b1 := b - 2*g.Cover - dia
		d1 := g.Depth - 2*g.Cover - dia
		if b1 <= 0 || d1 <= 0 {
			b1, d1 = b-2*g.Cover, g.Depth-2*g.Cover
		}
		per := demand.Torsion*1e6/(b1*d1*fyd) + demand.Shear*1e3/(2.5*d1*fyd)
		sv = math.Min(sv, asv/per)
		if excess := ve*1e3/(b*d) - tauC; excess > 0 {
			sv = math.Min(sv, asv*fyd/(excess*b))
		}
		return sv
	}

	if vus := ve*1e3 - tauC*b*d; vus > 0 {
		sv = math.Min(sv, fyd*asv*d/vus)
	}
	return sv
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
