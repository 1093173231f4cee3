package is456

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
)

// Flexure designs rectangular and flanged sections to Annex G
type Flexure struct{}

// flexureSection is the working set of one flexural design
type flexureSection struct {
	b, bw, d, dc, D float64
	bf, Df         float64
	fck, fy        float64
	xuMax          float64
}

func newFlexureSection(g material.SectionGeometry, m material.Grades) flexureSection {
	return flexureSection{
		b: g.Width, bw: g.Width, d: g.EffectiveDepth, dc: g.CompressionDepth, D: g.Depth,
		Df:    g.FlangeThickness,
		fck:   m.Fck,
		fy:    m.Fy,
		xuMax: LimitingDepthRatio(m.Fy) * g.EffectiveDepth,
	}
}

// limitingMoment returns Mu,lim for width b (N-mm)
func (s flexureSection) limitingMoment(b float64) float64 {
	return 0.36 * s.fck * b * s.xuMax * (s.d - 0.42*s.xuMax)
}

// neutralAxis solves Mu = 0.36 fck b xu (d - 0.42 xu) for xu
func (s flexureSection) neutralAxis(b, mu float64) float64 {
	k := 0.36 * s.fck * b
	disc := s.d*s.d - 4*0.42*mu/k
	if disc < 0 {
		disc = 0
	}
	return (s.d - math.Sqrt(disc)) / (2 * 0.42)
}

// fsc returns the compression steel stress with the neutral axis at xu
func (s flexureSection) fsc(xu float64) float64 {
	if xu <= s.dc {
		return 0
	}
	return SteelStress(s.fy, EpsilonCU*(xu-s.dc)/xu)
}

// yf is the equivalent flange depth of G-2.2
func (s flexureSection) yf(xu float64) float64 {
	if s.Df/s.d <= 0.2 {
		return s.Df
	}
	return math.Min(0.15*xu+0.65*s.Df, s.Df)
}

// flangedForce and flangedMoment are the web + flange compression of G-2.2
func (s flexureSection) flangedForce(xu float64) float64 {
	return 0.36*s.fck*s.bw*xu + 0.45*s.fck*(s.bf-s.bw)*s.yf(xu)
}

func (s flexureSection) flangedMoment(xu float64) float64 {
	yf := s.yf(xu)
	return 0.36*s.fck*s.bw*xu*(s.d-0.42*xu) + 0.45*s.fck*(s.bf-s.bw)*yf*(s.d-yf/2)
}

// Design implements design.FlexureDesigner
func (f Flexure) Design(in design.FlexureInput) design.FlexureResult {
	g, m := in.Section, in.Grades
	demand := in.Demand.Magnitudes()
	res := design.FlexureResult{
		Classification: design.Unclassified,
		State:          design.Resolved,
		Moment:         demand.Moment,
		EffectiveWidth: g.Width,
	}
	res.Trace.Add(RoutineMaterials)

	mu := demand.Moment
	if demand.Torsion > 0 {
		mt := demand.Torsion * (1 + g.Depth/g.Width) / 1.7
		mu += mt
		res.Trace.Add(RoutineTorsionMoment)
		if mt > demand.Moment {
			res.Issues = append(res.Issues, design.Warn(design.CodeTorsion, "IS456:41.4.2",
				"torsion moment Mt = %.2f kN-m exceeds Mu; provide longitudinal steel on the flexural compression face for Me2 = %.2f kN-m",
				mt, mt-demand.Moment))
		}
	}
	res.DesignMoment = mu

	s := newFlexureSection(g, m)
	res.AstMin = 0.85 * s.bw * s.d / s.fy
	res.AstMax = 0.04 * s.bw * s.D
	res.AscMax = 0.04 * s.bw * s.D
	res.NeutralAxisLimitRatio = s.xuMax / s.d
	res.Trace.Add(RoutineLimitingDepth)

	muNmm := mu * 1e6
	if g.Flanged() {
		f.flanged(&res, s, in, muNmm)
	} else {
		f.rectangular(&res, s, s.b, muNmm)
	}
	if res.State == design.Infeasible {
		return withoutCapacity(res)
	}

	res.AstRequired = res.AstCalculated
	if res.AstCalculated < res.AstMin {
		res.AstRequired = res.AstMin
		res.Issues = append(res.Issues, design.Issue{
			Code: design.CodeMinimumSteel, Severity: design.Info, Clause: "IS456:26.5.1.1",
			Message: fmt.Sprintf("minimum tension steel %.0f mm² governs over %.0f mm² from equilibrium", res.AstMin, res.AstCalculated),
		})
	}
	res.Trace.Add(RoutineSteelLimits)

	if res.AstRequired > res.AstMax {
		res.State = design.Infeasible
		res.Issues = append(res.Issues, design.InfeasibleIssue("IS456:26.5.1.1",
			"increase the section depth or width",
			"tension steel %.0f mm² exceeds the maximum 0.04bD = %.0f mm²", res.AstRequired, res.AstMax))
	}
	if res.AscRequired > res.AscMax {
		res.State = design.Infeasible
		res.Issues = append(res.Issues, design.InfeasibleIssue("IS456:26.5.1.2",
			"increase the section depth or width",
			"compression steel %.0f mm² exceeds the maximum 0.04bD = %.0f mm²", res.AscRequired, res.AscMax))
	}
	if res.State == design.Resolved && res.Classification != design.DoublyReinforced {
		res.Capacity = f.Capacity(in, res.AstRequired, res.AscRequired)
	}
	if res.State == design.Infeasible {
		return withoutCapacity(res)
	}
	return res
}

// withoutCapacity clears the capacity of an infeasible design; the steel
// it would need is reported but no resistance is claimed
func withoutCapacity(res design.FlexureResult) design.FlexureResult {
	res.Capacity = 0
	res.CompressionMoment = 0
	return res
}

// rectangular designs a rectangle of width b, singly or doubly reinforced
func (f Flexure) rectangular(res *design.FlexureResult, s flexureSection, b, mu float64) {
	mulim := s.limitingMoment(b)
	res.LimitingMoment = mulim / 1e6
	res.Trace.Add(RoutineLimitingMoment)

	if res.Classification == design.Unclassified {
		res.Classification = design.SinglyReinforced
	}

	// inclusive boundary: Mu = Mu,lim is singly reinforced
	if res.DesignMoment <= res.LimitingMoment {
		xu := s.neutralAxis(b, mu)
		res.NeutralAxisRatio = xu / s.d
		res.AstCalculated = 0.36 * s.fck * b * xu / DesignYield(s.fy)
		res.Trace.Add(RoutineSingly)
		return
	}

	if res.Classification == design.SinglyReinforced {
		res.Classification = design.DoublyReinforced
	}
	f.compressionSteel(res, s, 0.36*s.fck*b*s.xuMax, mulim, mu)
}

// compressionSteel adds compression steel for the moment above the
// limiting moment mulim; cLim is the concrete force at xu,max
func (f Flexure) compressionSteel(res *design.FlexureResult, s flexureSection, cLim, mulim, mu float64) {
	res.NeutralAxisRatio = s.xuMax / s.d
	if s.dc >= s.xuMax {
		res.State = design.Infeasible
		res.Issues = append(res.Issues, design.InfeasibleIssue("IS456:G-1.2",
			"reduce the cover to the compression steel or deepen the section",
			"compression steel at d' = %.0f mm is not above the limiting neutral axis (%.0f mm)", s.dc, s.xuMax))
		return
	}

	fsc := s.fsc(s.xuMax)
	res.Trace.Add(RoutineSteelStress, RoutineDoubly)

	mu2 := mu - mulim
	asc := mu2 / (fsc * (s.d - s.dc))
	res.Fsc = fsc
	res.AscRequired = asc
	res.AstCalculated = (cLim + asc*fsc) / DesignYield(s.fy)
	res.CompressionMoment = mu2 / 1e6
	res.Capacity = res.LimitingMoment + res.CompressionMoment
}

// flanged follows 23.1.2 for the effective width and G-2.2 when the
// neutral axis falls below the flange
func (f Flexure) flanged(res *design.FlexureResult, s flexureSection, in design.FlexureInput, mu float64) {
	res.Classification = design.Flanged

	bf, issue := EffectiveFlangeWidth(in.Section, in.Span, in.Support)
	if issue != nil {
		res.Issues = append(res.Issues, *issue)
	}
	res.Trace.Add(RoutineFlangeWidth)
	s.bf = bf
	res.EffectiveWidth = bf

	// neutral axis in the flange: a rectangle of width bf
	if mu <= s.limitingMoment(bf) {
		if xu := s.neutralAxis(bf, mu); xu <= s.Df {
			res.NeutralInFlange = true
			f.rectangular(res, s, bf, mu)
			return
		}
	} else if s.xuMax <= s.Df {
		res.NeutralInFlange = true
		f.rectangular(res, s, bf, mu)
		return
	}

	res.Trace.Add(RoutineFlanged)
	mulim := s.flangedMoment(s.xuMax)
	res.LimitingMoment = mulim / 1e6
	res.Trace.Add(RoutineLimitingMoment)

	if res.DesignMoment > res.LimitingMoment {
		f.compressionSteel(res, s, s.flangedForce(s.xuMax), mulim, mu)
		return
	}

	// the steel never drops below the rectangle at xu = Df. With yf < Df
	// G-2.2 carries that same force on a longer lever arm.
	floor := 0.36 * s.fck * s.bf * s.Df / DesignYield(s.fy)

	// G-2.2 jumps above the rectangular capacity at xu = Df; below that
	// jump the lever arm at xu = Df is used
	if m0 := s.flangedMoment(s.Df); m0 >= mu {
		res.NeutralAxisRatio = s.Df / s.d
		res.AstCalculated = math.Max(s.flangedForce(s.Df)*(mu/m0)/DesignYield(s.fy), floor)
		return
	}

	lo, hi := s.Df, s.xuMax
	for i := 0; i < 100 && hi-lo > 1e-9; i++ {
		xu := (lo + hi) / 2
		if s.flangedMoment(xu) < mu {
			lo = xu
		} else {
			hi = xu
		}
	}
	xu := (lo + hi) / 2
	res.NeutralAxisRatio = xu / s.d
	res.AstCalculated = math.Max(s.flangedForce(xu)/DesignYield(s.fy), floor)
}

// EffectiveFlangeWidth returns bf per 23.1.2, capped at the provided
// flange width. Without a span the provided width is used with a warning.
func EffectiveFlangeWidth(g material.SectionGeometry, span float64, support material.Support) (float64, *design.Issue) {
	if span <= 0 {
		issue := design.Warn(design.CodeInvalidInput, "IS456:23.1.2",
			"span not given; the provided flange width %.0f mm is taken as effective", g.FlangeWidth)
		return g.FlangeWidth, &issue
	}

	// distance between points of zero moment
	l0 := span
	if support == material.OneEndContinuous || support == material.BothEndsContinuous {
		l0 = 0.7 * span
	}

	var bf float64
	if g.Shape == material.Ell {
		bf = l0/12 + g.Width + 3*g.FlangeThickness
	} else {
		bf = l0/6 + g.Width + 6*g.FlangeThickness
	}
	return math.Min(bf, g.FlangeWidth), nil
}

// Capacity implements design.FlexureDesigner. The neutral axis is limited
// to xu,max for over-reinforced sections.
func (f Flexure) Capacity(in design.FlexureInput, ast, asc float64) float64 {
	g := in.Section
	s := newFlexureSection(g, in.Grades)
	tension := DesignYield(s.fy) * ast

	if g.Flanged() {
		bf, _ := EffectiveFlangeWidth(g, in.Span, in.Support)
		s.bf = bf
		xu := s.balance(func(xu float64) float64 { return 0.36 * s.fck * bf * xu }, asc, tension, 0, s.xuMax)
		if xu > s.Df {
			xu = s.balance(s.flangedForce, asc, tension, s.Df, s.xuMax)
			return (s.flangedMoment(xu) + asc*s.fsc(xu)*(s.d-s.dc)) / 1e6
		}
		return s.rectMoment(bf, xu, asc)
	}

	xu := s.balance(func(xu float64) float64 { return 0.36 * s.fck * s.b * xu }, asc, tension, 0, s.xuMax)
	return s.rectMoment(s.b, xu, asc)
}

func (s flexureSection) rectMoment(b, xu, asc float64) float64 {
	return (0.36*s.fck*b*xu*(s.d-0.42*xu) + asc*s.fsc(xu)*(s.d-s.dc)) / 1e6
}

// balance finds xu in [lo, hi] where concrete plus compression steel
// force equals the tension force
func (s flexureSection) balance(concrete func(float64) float64, asc, tension, lo, hi float64) float64 {
	net := func(xu float64) float64 {
		return concrete(xu) + asc*s.fsc(xu) - tension
	}
	if net(hi) <= 0 {
		return hi
	}
	if net(lo) >= 0 {
		return lo
	}
	for i := 0; i < 100 && hi-lo > 1e-9; i++ {
		xu := (lo + hi) / 2
		if net(xu) < 0 {
			lo = xu
		} else {
			hi = xu
		}
	}
	return (lo + hi) / 2
}
