// Package detailing turns flexure and shear results into a bar arrangement
// with anchorage, laps, hooks and spacing checks. The formulas come from
// the selected code's design.DetailingRules.
package detailing

import (
	"github.com/alexiusacademia/rcbeam/internal/clause"
	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
)

// Input is everything needed to detail one load case
type Input struct {
	Section material.SectionGeometry
	Grades  material.Grades
	Flexure design.FlexureResult
	Shear   design.ShearResult
	Options design.DetailingOptions
	Span    float64
}

// Detail applies rules to the designed section
func Detail(rules design.DetailingRules, in Input) design.DetailingResult {
	var res design.DetailingResult
	tr := &res.Trace
	g, m, opt := in.Section, in.Grades, in.Options

	stirrup := in.Shear.Stirrup.Diameter
	if stirrup == 0 {
		stirrup = opt.StirrupDiameter
	}
	aggregate := opt.Aggregate
	if aggregate == 0 {
		aggregate = design.DefaultAggregate
	}
	layout := Layout{
		Width:   g.Width,
		Cover:   g.Cover,
		Stirrup: stirrup,
		MinClear: func(bar float64) float64 {
			var scratch design.Trace
			return rules.MinClearSpacing(bar, aggregate, &scratch)
		},
	}

	tension := SelectBars(in.Flexure.AstRequired, opt.BarDiameter, layout)
	res.Bars = tension.Bars
	res.AstProvided = tension.Bars.Area()
	res.ClearSpacing = tension.ClearSpacing
	res.Issues = append(res.Issues, tension.Issues...)

	// compression steel, with half the tension steel at the support face
	// for ductile beams, otherwise hanger bars
	ascTarget := in.Flexure.AscRequired
	if opt.Ductile {
		ascTarget = max(ascTarget, 0.5*res.AstProvided)
	}
	if ascTarget > 0 {
		comp := SelectBars(ascTarget, opt.BarDiameter, layout)
		res.CompressionBars = comp.Bars
		res.Issues = append(res.Issues, comp.Issues...)
	} else {
		res.CompressionBars = material.BarGroup{Count: 2, Diameter: HangerBar, Layers: 1}
	}
	res.AscProvided = res.CompressionBars.Area()

	bar := res.Bars.Diameter
	res.Development = rules.Development(m, bar, false, tr)
	res.CompressionDevelopment = rules.Development(m, res.CompressionBars.Diameter, true, tr)
	res.Lap = rules.Lap(m, bar, design.LapCondition{
		CriticalSection: opt.CriticalSection,
		TopBar:          opt.TopBars,
		Seismic:         opt.Ductile,
	}, tr)

	hook := opt.Hook
	if !hook.Valid() {
		hook = design.Hook90
	}
	res.MainHook = rules.Hook(m, bar, hook, design.MainBar, tr)
	if opt.Ductile {
		res.StirrupHook = rules.Hook(m, stirrup, design.Hook135, design.SeismicHoop, tr)
	} else {
		res.StirrupHook = rules.Hook(m, stirrup, design.Hook135, design.StirrupBar, tr)
	}

	minClear := rules.MinClearSpacing(bar, aggregate, tr)
	res.Checks = append(res.Checks, design.NewRuleCheck("minimum clear spacing", lastClause(*tr), "mm",
		minClear, res.ClearSpacing, false))
	maxSpacing := rules.MaxBarSpacing(m, g.Cover, tr)
	res.Checks = append(res.Checks, design.NewRuleCheck("maximum bar spacing", lastClause(*tr), "mm",
		maxSpacing, res.ClearSpacing+bar, true))

	res.Issues = append(res.Issues, failures(design.CodeSpacing, res.Checks)...)

	if opt.Ductile {
		du, checks := rules.Ductile(design.DuctileInput{
			Section:         g,
			Grades:          m,
			Bars:            res.Bars,
			CompressionBars: res.CompressionBars,
			StirrupDiameter: stirrup,
			Spacing:         in.Shear.Stirrup.Spacing,
			Span:            in.Span,
		}, tr)
		res.Ductile = &du
		res.Checks = append(res.Checks, checks...)
		res.Issues = append(res.Issues, failures(design.CodeDuctile, checks)...)
	}
	return res
}

// failures warns once per failed check
func failures(code string, checks []design.RuleCheck) []design.Issue {
	var out []design.Issue
	for _, c := range checks {
		if !c.Pass {
			out = append(out, design.Warn(code, c.Clause,
				"%s: provided %.4g %s against %.4g", c.Rule, c.Provided, c.Unit, c.Required))
		}
	}
	return out
}

// lastClause is the first clause registered for the most recent routine
func lastClause(tr design.Trace) string {
	if len(tr) == 0 {
		return ""
	}
	if refs := clause.Refs(tr[len(tr)-1]); len(refs) > 0 {
		return refs[0]
	}
	return ""
}
