package is456

import (
	"math"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
	"github.com/alexiusacademia/rcbeam/internal/table"
)

// BondStress is τbd for plain bars in tension (26.2.1.1). M40 and above take 1.9.
var BondStress = table.MustCurve("IS456 26.2.1.1", "fck",
	[]float64{15, 20, 25, 30, 35, 40},
	[]float64{1.0, 1.2, 1.4, 1.5, 1.7, 1.9})

// MaxBarSpacingTable is the clear distance between tension bars (Table 15,
// no redistribution) by fy
var MaxBarSpacingTable = table.MustCurve("IS456 Table 15", "fy",
	[]float64{250, 415, 500},
	[]float64{300, 180, 150})

// Detailing implements design.DetailingRules for IS 456 with IS 13920
// ductile rules
type Detailing struct{}

// bondStress returns τbd for the bar type and stress sign
func bondStress(fck float64, deformed, compression bool) float64 {
	tbd := BondStress.At(fck).Value
	if deformed {
		tbd *= 1.6
	}
	if compression {
		tbd *= 1.25
	}
	return tbd
}

func (Detailing) Development(g material.Grades, bar float64, compression bool, tr *design.Trace) design.Development {
	if compression {
		tr.Add(RoutineDevelopmentComp)
	} else {
		tr.Add(RoutineDevelopment)
	}
	tbd := bondStress(g.Fck, g.Deformed, compression)
	return design.Development{
		BarDiameter: bar,
		Compression: compression,
		BondStress:  tbd,
		Length:      bar * DesignYield(g.Fy) / (4 * tbd),
	}
}

// Lap follows 26.2.5.1: flexural tension max(Ld, 30φ), direct tension or
// critical sections max(2Ld, 30φ), compression max(Ldc, 24φ)
func (d Detailing) Lap(g material.Grades, bar float64, cond design.LapCondition, tr *design.Trace) design.Lap {
	dev := d.Development(g, bar, cond.Compression, tr)
	tr.Add(RoutineLap)

	lap := design.Lap{Condition: cond, Base: dev.Length, Multiplier: 1}
	switch {
	case cond.Compression:
		lap.Length = math.Max(dev.Length, 24*bar)
	case cond.CriticalSection:
		lap.Multiplier = 2
		lap.Length = math.Max(2*dev.Length, 30*bar)
	default:
		lap.Length = math.Max(dev.Length, 30*bar)
	}
	if cond.Seismic {
		tr.Add(RoutineDuctileLaps)
	}
	return lap
}

// Hook returns standard hook and bend geometry (26.2.2.1, 26.2.2.4).
// Bends of 135° on main bars are credited as 90° bends.
func (Detailing) Hook(g material.Grades, bar float64, angle design.HookAngle, use design.BarUse, tr *design.Trace) design.Hook {
	k := 2.0
	if g.Deformed {
		k = 4
	}
	h := design.Hook{Use: use, Angle: angle, BarDiameter: bar, BendRadius: k * bar}

	switch use {
	case design.SeismicHoop:
		tr.Add(RoutineStirrupHook, RoutineDuctileHoops)
		h.Angle = design.Hook135
		h.BendRadius = 2 * bar
		h.Extension = math.Max(6*bar, 65)
	case design.StirrupBar:
		tr.Add(RoutineStirrupHook)
		h.BendRadius = 2 * bar
		switch angle {
		case design.Hook180:
			h.Extension = 4 * bar
		case design.Hook135:
			h.Extension = 6 * bar
		default:
			h.Extension = 8 * bar
		}
	default:
		tr.Add(RoutineHook)
		h.Extension = 4 * bar
		if angle == design.Hook180 {
			h.AnchorageValue = 16 * bar
		} else {
			h.AnchorageValue = 8 * bar
		}
	}
	return h
}

// MinClearSpacing is the larger of the bar diameter and aggregate + 5 mm (26.3.2)
func (Detailing) MinClearSpacing(bar, aggregate float64, tr *design.Trace) float64 {
	tr.Add(RoutineMinSpacing)
	return math.Max(bar, aggregate+5)
}

// MaxBarSpacing reads Table 15 for the steel grade (26.3.3)
func (Detailing) MaxBarSpacing(g material.Grades, cover float64, tr *design.Trace) float64 {
	tr.Add(RoutineMaxSpacing)
	return MaxBarSpacingTable.At(g.Fy).Value
}

// Ductile applies IS 13920 beam rules: steel ratio limits (6.2.1, 6.2.2),
// hoop spacing over 2d from each face (6.3.5) and lap restrictions (6.2.6)
func (Detailing) Ductile(in design.DuctileInput, tr *design.Trace) (design.Ductile, []design.RuleCheck) {
	g, m := in.Section, in.Grades
	b, d := g.Width, g.EffectiveDepth
	tr.Add(RoutineDuctileSteel, RoutineDuctileHoops, RoutineDuctileLaps)

	smallest := in.Bars.Diameter
	if in.CompressionBars.Count > 0 && in.CompressionBars.Diameter < smallest {
		smallest = in.CompressionBars.Diameter
	}

	du := design.Ductile{
		HingeZone:    2 * d,
		FirstHoop:    50,
		LapExclusion: 2 * d,
		LapSpacing:   math.Min(d/4, 100),
		RhoMin:       0.24 * math.Sqrt(m.Fck) / m.Fy,
		RhoMax:       0.025,
	}
	hinge := math.Min(math.Min(d/4, 6*smallest), 100)
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
		Extension:   math.Max(6*in.StirrupDiameter, 65),
	}

	rho := in.Bars.Area() / (b * d)
	checks := []design.RuleCheck{
		design.NewRuleCheck("tension steel ratio minimum", "IS13920:6.2.1", "ratio", du.RhoMin, rho, false),
		design.NewRuleCheck("tension steel ratio maximum", "IS13920:6.2.2", "ratio", du.RhoMax, rho, true),
		design.NewRuleCheck("longitudinal bar diameter", "IS13920:6.2.1", "mm", 12, smallest, false),
		design.NewRuleCheck("bars on each face", "IS13920:6.2.1", "count",
			2, float64(min(in.Bars.Count, in.CompressionBars.Count)), false),
		design.NewRuleCheck("hoop diameter", "IS13920:6.3.3", "mm", 8, in.StirrupDiameter, false),
		design.NewRuleCheck("positive steel at joint face", "IS13920:6.2.3", "ratio",
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
