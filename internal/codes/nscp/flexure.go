package nscp

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

// Flexure designs beams with the equivalent rectangular stress block.
// Singly reinforced sections are kept tension-controlled (εt >= 0.005);
// moments above that limit take compression steel.
type Flexure struct{}

// StressBlock returns the 422.2.2.4 stress block for the grades
func StressBlock(m material.Grades) section.StressBlock {
	return section.StressBlock{
		Intensity:   0.85 * m.Fck,
		DepthFactor: Beta1(m.Fck),
		EpsilonCU:   EpsilonCU,
		Es:          Es,
		Fy:          m.Fy,
	}
}

// tensionLimit is the singly reinforced section at εt = 0.005
type tensionLimit struct {
	C, A   float64 // neutral axis and block depth (mm)
	Mn     float64 // nominal moment (N-mm)
	AsLim  float64 // tension steel at the limit (mm²)
	Design float64 // φMn (kN-m)
}

func limitFor(g material.SectionGeometry, m material.Grades) tensionLimit {
	d := g.EffectiveDepth
	c := LimitDepthRatio() * d
	a := Beta1(m.Fck) * c

	sec := section.FromGeometry(g, 0, 0)
	cc := 0.85 * m.Fck * sec.CompressionBlockArea(a)
	mn := cc * (d - sec.CompressionBlockCentroid(a))
	return tensionLimit{
		C:      c,
		A:      a,
		Mn:     mn,
		AsLim:  cc / m.Fy,
		Design: PhiFlexure * mn / 1e6,
	}
}

// Design implements design.FlexureDesigner
func (f Flexure) Design(in design.FlexureInput) design.FlexureResult {
	g, m := in.Section, in.Grades
	demand := in.Demand.Magnitudes()
	fc, fy := m.Fck, m.Fy
	b, d, h := g.Width, g.EffectiveDepth, g.Depth

	res := design.FlexureResult{
		Classification:        design.Unclassified,
		State:                 design.Resolved,
		Moment:                demand.Moment,
		DesignMoment:          demand.Moment,
		EffectiveWidth:        b,
		Phi:                   PhiFlexure,
		AstMin:                RhoMin(fc, fy) * b * d,
		AstMax:                0.04 * b * h,
		AscMax:                0.04 * b * h,
		NeutralAxisLimitRatio: LimitDepthRatio(),
	}
	res.Trace.Add(RoutineMaterials, RoutineBeta1)

	eff := g
	if g.Flanged() {
		res.Classification = design.Flanged
		bf, issue := EffectiveFlangeWidth(g, in.Span)
		if issue != nil {
			res.Issues = append(res.Issues, *issue)
		}
		res.Trace.Add(RoutineFlangeWidth)
		res.EffectiveWidth = bf
		eff.FlangeWidth = bf

		// the flange alone at a = hf carries the moment
		hf := g.FlangeThickness
		if demand.Moment*1e6 <= PhiFlexure*0.85*fc*bf*hf*(d-hf/2) {
			res.NeutralInFlange = true
			eff = g.WithWidth(bf)
		}
	}

	lim := limitFor(eff, m)
	res.LimitingMoment = lim.Design
	res.Trace.Add(RoutineLimitingMoment)

	if res.DesignMoment <= res.LimitingMoment {
		if res.Classification == design.Unclassified {
			res.Classification = design.SinglyReinforced
		}
		if eff.Flanged() {
			f.flanged(&res, eff, m, lim)
		} else {
			f.singly(&res, eff, m)
		}
	} else {
		if res.Classification == design.Unclassified {
			res.Classification = design.DoublyReinforced
		}
		f.doubly(&res, eff, m, lim)
	}
	if res.State == design.Infeasible {
		return withoutCapacity(res)
	}

	res.AstRequired = res.AstCalculated
	if res.AstCalculated < res.AstMin {
		res.AstRequired = res.AstMin
		res.Issues = append(res.Issues, design.Issue{
			Code: design.CodeMinimumSteel, Severity: design.Info, Clause: "NSCP:409.6.1.2",
			Message: fmt.Sprintf("minimum tension steel %.0f mm² governs over %.0f mm² from equilibrium", res.AstMin, res.AstCalculated),
		})
	}
	res.Trace.Add(RoutineSteelLimits)

	if res.AstRequired > res.AstMax {
		res.State = design.Infeasible
		res.Issues = append(res.Issues, design.InfeasibleIssue("NSCP:422.3.1",
			"increase the section depth or width",
			"tension steel %.0f mm² exceeds the practical maximum 0.04bh = %.0f mm²", res.AstRequired, res.AstMax))
	}
	if res.AscRequired > res.AscMax {
		res.State = design.Infeasible
		res.Issues = append(res.Issues, design.InfeasibleIssue("NSCP:422.3.1",
			"increase the section depth or width",
			"compression steel %.0f mm² exceeds the practical maximum 0.04bh = %.0f mm²", res.AscRequired, res.AscMax))
	}
	if res.State == design.Resolved && res.AscRequired == 0 {
		res.Capacity = f.Capacity(in, res.AstRequired, 0)
	}
	res.Trace.Add(RoutinePhi)
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

// singly uses the closed-form ρ for a rectangle of width b
func (f Flexure) singly(res *design.FlexureResult, g material.SectionGeometry, m material.Grades) {
	fc, fy := m.Fck, m.Fy
	b, d := g.Width, g.EffectiveDepth
	phi := PhiFlexure

	// Rn = Mu / (φ * b * d²)
	Rn := res.DesignMoment * 1e6 / (phi * b * math.Pow(d, 2))

	// ρ = (0.85*f'c/fy) * (1 - √(1 - 2*Rn/(0.85*f'c)))
	term := math.Min(2*Rn/(0.85*fc), 1)
	rho := (0.85 * fc / fy) * (1 - math.Sqrt(1-term))
	res.AstCalculated = rho * b * d

	a := res.AstCalculated * fy / (0.85 * fc * b)
	c := a / Beta1(fc)
	res.NeutralAxisRatio = c / d
	if c > 0 {
		res.Phi = Phi(EpsilonCU*(d-c)/c, fy)
	}
	res.Trace.Add(RoutineSingly)
}

// flanged resizes the tension steel of the T or L polygon until its
// nominal strength reaches Mu/φ
func (f Flexure) flanged(res *design.FlexureResult, g material.SectionGeometry, m material.Grades, lim tensionLimit) {
	res.Trace.Add(RoutineFlanged)
	mn := res.DesignMoment / PhiFlexure
	if mn <= 0 {
		return
	}

	as, r, err := section.FromGeometry(g, 1, 0).RequiredTension(StressBlock(m), mn, 1.01*lim.AsLim)
	if err != nil {
		res.State = design.Infeasible
		res.Issues = append(res.Issues, design.InfeasibleIssue("NSCP:422.3.1",
			"increase the section depth or flange width", "flanged section cannot develop %.2f kN-m: %v", res.DesignMoment, err))
		return
	}
	res.AstCalculated = as
	res.NeutralAxisRatio = r.C / g.EffectiveDepth
	res.Phi = Phi(r.EpsilonT, m.Fy)
}

// doubly holds the section at the tension-controlled limit and adds a
// steel couple for the remaining moment
func (f Flexure) doubly(res *design.FlexureResult, g material.SectionGeometry, m material.Grades, lim tensionLimit) {
	fc, fy := m.Fck, m.Fy
	d, dc := g.EffectiveDepth, g.CompressionDepth
	res.NeutralAxisRatio = lim.C / d
	res.Trace.Add(RoutineDoubly)

	// εsc = εcu * (c - d') / c
	epsilonSc := EpsilonCU * (lim.C - dc) / lim.C
	fsc := math.Min(math.Max(epsilonSc, 0)*Es, fy)
	if dc <= lim.A {
		// displaced concrete
		fsc -= 0.85 * fc
	}
	if fsc <= 0 || dc >= d {
		res.State = design.Infeasible
		res.Issues = append(res.Issues, design.InfeasibleIssue("NSCP:422.3.1",
			"reduce the cover to the compression steel or deepen the section",
			"compression steel at d' = %.0f mm is ineffective at the tension-controlled neutral axis c = %.0f mm", dc, lim.C))
		return
	}

	// Mu2 is resisted by the steel couple
	mu2 := res.DesignMoment - res.LimitingMoment
	leverArm := d - dc
	as2 := mu2 * 1e6 / (PhiFlexure * fy * leverArm)

	res.Fsc = fsc
	res.AstCalculated = lim.AsLim + as2
	res.AscRequired = as2 * fy / fsc
	res.CompressionMoment = mu2
	res.Capacity = res.LimitingMoment + res.CompressionMoment
	res.Phi = PhiFlexure
}

// EffectiveFlangeWidth limits the overhangs per 406.3.2.1, capped at the
// provided width. Without a span the provided width is used with a warning.
func EffectiveFlangeWidth(g material.SectionGeometry, span float64) (float64, *design.Issue) {
	if span <= 0 {
		issue := design.Warn(design.CodeInvalidInput, "NSCP:406.3.2.1",
			"span not given; the provided flange width %.0f mm is taken as effective", g.FlangeWidth)
		return g.FlangeWidth, &issue
	}
	hf := g.FlangeThickness
	var bf float64
	if g.Shape == material.Ell {
		bf = g.Width + math.Min(6*hf, span/12)
	} else {
		bf = g.Width + 2*math.Min(8*hf, span/8)
	}
	return math.Min(bf, g.FlangeWidth), nil
}

// Capacity implements design.FlexureDesigner by strain compatibility on
// the section polygon, φ from the extreme tension strain
func (f Flexure) Capacity(in design.FlexureInput, ast, asc float64) float64 {
	if ast <= 0 {
		return 0
	}
	g := in.Section
	if g.Flanged() {
		g.FlangeWidth, _ = EffectiveFlangeWidth(g, in.Span)
	}
	r, err := section.FromGeometry(g, ast, asc).Analyze(StressBlock(in.Grades))
	if err != nil {
		return 0
	}
	return Phi(r.EpsilonT, in.Grades.Fy) * r.Mn
}
