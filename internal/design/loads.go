package design

import "github.com/alexiusacademia/rcbeam/internal/material"

// LoadCombination is a set of load factors from a code's strength-design
// combinations
type LoadCombination struct {
	ID          string
	Description string
	Clause      string

	// Load factors for each load type
	Dead       float64 // D - Dead load
	Live       float64 // L - Live load
	Roof       float64 // Lr - Roof live load
	Wind       float64 // W - Wind load
	Earthquake float64 // E - Earthquake load
	Rain       float64 // R - Rain load
}

func (lc LoadCombination) factor(e func(material.Effect) float64, l material.LoadEffects) float64 {
	return lc.Dead*e(l.Dead) +
		lc.Live*e(l.Live) +
		lc.Roof*e(l.Roof) +
		lc.Wind*e(l.Wind) +
		lc.Earthquake*e(l.Earthquake) +
		lc.Rain*e(l.Rain)
}

// Apply factors the load effects into a demand named after the combination
func (lc LoadCombination) Apply(l material.LoadEffects) material.ForceDemand {
	return material.ForceDemand{
		Name:    lc.ID + ": " + lc.Description,
		Moment:  lc.factor(func(e material.Effect) float64 { return e.Moment }, l),
		Shear:   lc.factor(func(e material.Effect) float64 { return e.Shear }, l),
		Torsion: lc.factor(func(e material.Effect) float64 { return e.Torsion }, l),
	}
}

// Expand applies every combination that produces a non-zero effect,
// in combination order
func Expand(l material.LoadEffects, combos []LoadCombination) []material.ForceDemand {
	var out []material.ForceDemand
	for _, c := range combos {
		d := c.Apply(l)
		if d.Moment == 0 && d.Shear == 0 && d.Torsion == 0 {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Governing returns the combination producing the largest |moment|
func Governing(l material.LoadEffects, combos []LoadCombination) (material.ForceDemand, LoadCombination) {
	var (
		best    material.ForceDemand
		bestLC  LoadCombination
		bestAbs float64
	)
	for _, c := range combos {
		d := c.Apply(l).Magnitudes()
		if d.Moment > bestAbs {
			bestAbs = d.Moment
			best = c.Apply(l)
			bestLC = c
		}
	}
	return best, bestLC
}

// Gravity keeps the combinations without wind or earthquake load
func Gravity(combos []LoadCombination) []LoadCombination {
	var out []LoadCombination
	for _, c := range combos {
		if c.Wind == 0 && c.Earthquake == 0 {
			out = append(out, c)
		}
	}
	return out
}
