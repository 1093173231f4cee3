package nscp

import (
	"math"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
)

// Lap splice classes (425.5.2.1)
const (
	ClassA        = 1.0
	ClassB        = 1.3
	TopBarFactor  = 1.3 // ψt, 425.4.2.4
	MinLap        = 300.0
	MinDevelop    = 300.0
	MinDevelopCmp = 200.0
)

// Detailing implements design.DetailingRules for NSCP chapter 25 with the
// special moment frame beam rules of 418.6
type Detailing struct{}

// developmentTension is ld for straight deformed bars without ψ factors
func developmentTension(g material.Grades, bar float64) float64 {
	k := 2.1
	if bar > 20 {
		k = 1.7
	}
	return math.Max(g.Fy/(k*Lambda*math.Sqrt(g.Fck))*bar, MinDevelop)
}

func (Detailing) Development(g material.Grades, bar float64, compression bool, tr *design.Trace) design.Development {
	if compression {
		tr.Add(RoutineDevelopmentComp)
		ldc := math.Max(0.24*g.Fy/(Lambda*math.Sqrt(g.Fck)), 0.043*g.Fy) * bar
		return design.Development{
			BarDiameter: bar,
			Compression: true,
			Length:      math.Max(ldc, MinDevelopCmp),
		}
	}
	tr.Add(RoutineDevelopment)
	return design.Development{
		BarDiameter: bar,
		Length:      developmentTension(g, bar),
	}
}

// Lap uses Class B at critical sections and Class A elsewhere, with ψt
// for top bars. Compression laps follow 425.5.5.1.
func (d Detailing) Lap(g material.Grades, bar float64, cond design.LapCondition, tr *design.Trace) design.Lap {
	if cond.Seismic {
		tr.Add(RoutineDuctileLaps)
	}
	if cond.Compression {
		tr.Add(RoutineLapComp)
		base := 0.071 * g.Fy * bar
		if g.Fy > 420 {
			base = (0.13*g.Fy - 24) * bar
		}
		return design.Lap{Condition: cond, Base: base, Multiplier: 1, Length: math.Max(base, MinLap)}
	}

	dev := d.Development(g, bar, false, tr)
	tr.Add(RoutineLap)
	mult := ClassA
	if cond.CriticalSection {
		mult = ClassB
	}
	if cond.TopBar {
		mult *= TopBarFactor
	}
	return design.Lap{
		Condition:  cond,
		Base:       dev.Length,
		Multiplier: mult,
		Length:     math.Max(mult*dev.Length, MinLap),
	}
}

// bendDiameter is the inside bend diameter of main bars (425.3.1)
func bendDiameter(bar float64) float64 {
	switch {
	case bar > 36:
		return 10 * bar
	case bar >= 28:
		return 8 * bar
	}
	return 6 * bar
}

// Hook returns standard hook geometry (425.3). Main bar hooks are credited
// with ldh and 135° bends are treated as 90° hooks.
func (Detailing) Hook(g material.Grades, bar float64, angle design.HookAngle, use design.BarUse, tr *design.Trace) design.Hook {
	h := design.Hook{Use: use, Angle: angle, BarDiameter: bar}

	switch use {
	case design.SeismicHoop:
		tr.Add(RoutineSeismicHook, RoutineDuctileHoops)
		h.Angle = design.Hook135
		h.BendRadius = 2 * bar
		h.Extension = math.Max(6*bar, 75)
	case design.StirrupBar:
		tr.Add(RoutineStirrupHook)
		h.BendRadius = 2 * bar
		if bar > 16 {
			h.BendRadius = bendDiameter(bar) / 2
		}
		if angle == design.Hook180 {
			h.Extension = math.Max(4*bar, 65)
		} else {
			h.Extension = 6 * bar
		}
	default:
		tr.Add(RoutineHook)
		h.BendRadius = bendDiameter(bar) / 2
		if angle == design.Hook180 {
			h.Extension = math.Max(4*bar, 65)
		} else {
			h.Extension = 12 * bar
		}
		// 425.4.3.1 ldh
		h.AnchorageValue = math.Max(math.Max(0.24*g.Fy/(Lambda*math.Sqrt(g.Fck))*bar, 8*bar), 150)
	}
	return h
}

// MinClearSpacing is max(25 mm, db, 4/3 dagg) (425.2.1)
func (Detailing) MinClearSpacing(bar, aggregate float64, tr *design.Trace) float64 {
	tr.Add(RoutineMinSpacing)
	return math.Max(math.Max(25, bar), 4*aggregate/3)
}

// MaxBarSpacing limits centre-to-centre spacing of tension bars for crack
// control (424.3.2) with fs = 2/3 fy and cc the clear cover
func (Detailing) MaxBarSpacing(g material.Grades, cover float64, tr *design.Trace) float64 {
	tr.Add(RoutineMaxSpacing)
	return crackControlSpacing(2*g.Fy/3, cover)
}

func crackControlSpacing(fs, cover float64) float64 {
	if fs <= 0 {
		return 300
	}
	return math.Min(380*(280/fs)-2.5*cover, 300*(280/fs))
}

// Ductile applies 418.6 for beams of special moment frames
func (Detailing) Ductile(in design.DuctileInput, tr *design.Trace) (design.Ductile, []design.RuleCheck) {
	g, m := in.Section, in.Grades
	b, d, h := g.Width, g.EffectiveDepth, g.Depth
	tr.Add(RoutineDuctileSteel, RoutineDuctileHoops, RoutineDuctileLaps)

	smallest := in.Bars.Diameter
	if in.CompressionBars.Count > 0 && in.CompressionBars.Diameter < smallest {
		smallest = in.CompressionBars.Diameter
	}
	largest := math.Max(in.Bars.Diameter, in.CompressionBars.Diameter)

	du := design.Ductile{
		HingeZone:    2 * h,
		FirstHoop:    50,
		LapExclusion: 2 * h,
		LapSpacing:   math.Min(d/4, 100),
		RhoMin:       RhoMin(m.Fck, m.Fy),
		RhoMax:       0.025,
	}
	hinge := math.Min(math.Min(d/4, 6*smallest), 150)
	du.HingeSpacing = hinge
	du.MidSpacing = d / 2
	if in.Spacing > 0 {
		du.HingeSpacing = math.Min(in.Spacing, hinge)
		du.MidSpacing = math.Min(in.Spacing, d/2)
	}
	du.Hoop = design.Hook{
		Use:         design.SeismicHoop,
		Angle:       design.Hook135,
		BarDiameter: in.StirrupDiameter,
		BendRadius:  2 * in.StirrupDiameter,
		Extension:   math.Max(6*in.StirrupDiameter, 75),
	}

	hoop := 10.0
	if largest > 32 {
		hoop = 12
	}

	rho := in.Bars.Area() / (b * d)
	checks := []design.RuleCheck{
		design.NewRuleCheck("tension steel ratio minimum", "NSCP:409.6.1.2", "ratio", du.RhoMin, rho, false),
		design.NewRuleCheck("tension steel ratio maximum", "NSCP:418.6.3.1", "ratio", du.RhoMax, rho, true),
		design.NewRuleCheck("continuous bars top and bottom", "NSCP:418.6.3.1", "count",
			2, float64(min(in.Bars.Count, in.CompressionBars.Count)), false),
		design.NewRuleCheck("hoop diameter", "NSCP:425.7.2.2", "mm", hoop, in.StirrupDiameter, false),
		design.NewRuleCheck("positive moment strength at joint face", "NSCP:418.6.3.2", "ratio",
			0.5, ratio(in.CompressionBars.Area(), in.Bars.Area()), false),
	}
	return du, checks
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
