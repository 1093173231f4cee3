// Package compliance rolls the component results of one load case into
// utilisation checks. It never recomputes a design value.
package compliance

import (
	"math"
	"slices"
	"strings"

	"github.com/alexiusacademia/rcbeam/internal/clause"
	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
)

// MaxUtilisation caps reported utilisation where the capacity is zero
const MaxUtilisation = 99.99

// tolerance absorbs the iteration error of capacities designed to equal
// the demand
const tolerance = 1e-4

// Case is the component results of one load case
type Case struct {
	Name           string
	Demand         material.ForceDemand
	Flexure        design.FlexureResult
	Shear          design.ShearResult
	Detailing      design.DetailingResult
	Serviceability []design.ServiceabilityResult
}

// Utilisation returns demand / capacity, capped at MaxUtilisation
func Utilisation(demand, capacity float64) float64 {
	switch {
	case demand <= 0:
		return 0
	case capacity <= 0:
		return MaxUtilisation
	}
	return math.Min(demand/capacity, MaxUtilisation)
}

// NewCheck builds a demand/capacity check
func NewCheck(name, unit, clauseID string, demand, capacity float64) design.Check {
	u := Utilisation(demand, capacity)
	return design.Check{
		Name:        name,
		Demand:      demand,
		Capacity:    capacity,
		Unit:        unit,
		Utilisation: u,
		Pass:        u <= 1+tolerance,
		Clause:      clauseID,
	}
}

// FromRule converts a detailing rule. Utilisation is provided/required for
// maxima and required/provided for minima.
func FromRule(prefix string, r design.RuleCheck) design.Check {
	demand, capacity := r.Required, r.Provided
	if r.Upper {
		demand, capacity = r.Provided, r.Required
	}
	c := NewCheck(prefix+r.Rule, r.Unit, r.Clause, demand, capacity)
	c.Pass = r.Pass
	return c
}

// Checks lists every check of a case in a fixed order: flexure, steel
// limits, shear, stirrups, detailing rules, serviceability levels
func Checks(c Case) []design.Check {
	f, s := c.Flexure, c.Shear
	var out []design.Check

	out = append(out, NewCheck("flexure capacity", "kN.m", flexureClause(f), f.DesignMoment, f.Capacity))
	steel := routineClause(f.Trace, "steel_limits", true)
	out = append(out, NewCheck("tension steel maximum", "mm2", steel, f.AstRequired, f.AstMax))
	if f.AscRequired > 0 {
		out = append(out, NewCheck("compression steel maximum", "mm2", steel, f.AscRequired, f.AscMax))
	}

	shearClause := find(s.Trace, clause.Shear, clause.Torsion)
	out = append(out, NewCheck("shear ceiling", "kN", shearClause, s.EquivalentShear, s.MaxCapacity))
	if s.State == design.Resolved {
		out = append(out, NewCheck("shear capacity", "kN", shearClause, s.EquivalentShear, s.Capacity))
	}
	if st := s.Stirrup; st.Spacing > 0 {
		out = append(out, stirrupChecks(s, shearClause)...)
	}

	for _, r := range c.Detailing.Checks {
		out = append(out, FromRule("detailing: ", r))
	}

	for _, r := range c.Serviceability {
		ch := NewCheck("serviceability: "+string(r.Level), r.Unit, find(r.Trace, clause.Serviceability), r.Value, r.Limit)
		ch.Pass = r.Pass
		out = append(out, ch)
	}
	return out
}

// stirrupChecks rates the stirrups by the shear their steel carries. The
// designer places nominal stirrups at the maximum pitch, so a pitch within
// its limit reports the steel utilisation rather than spacing/limit.
func stirrupChecks(s design.ShearResult, clauseID string) []design.Check {
	st := s.Stirrup
	provided := s.Capacity - s.ConcreteCapacity
	steel := NewCheck("stirrup steel", "kN", clauseID, s.SteelDemand, provided)

	pitch := NewCheck("stirrup spacing maximum", "mm", clauseID, st.Spacing, st.SpacingMax)
	if pitch.Pass {
		pitch.Utilisation = steel.Utilisation
	}
	return []design.Check{
		steel,
		pitch,
		NewCheck("stirrup spacing minimum", "mm", clauseID, st.SpacingMin, st.Spacing),
	}
}

// Aggregate builds the case result. The governing check is the one with
// the highest utilisation, the first listed on ties.
func Aggregate(c Case) design.CaseResult {
	res := design.CaseResult{
		Name:           c.Name,
		Demand:         c.Demand,
		Flexure:        c.Flexure,
		Shear:          c.Shear,
		Detailing:      c.Detailing,
		Serviceability: c.Serviceability,
		Checks:         Checks(c),
		Feasible:       c.Flexure.State != design.Infeasible && c.Shear.State != design.Infeasible,
	}

	res.Pass = res.Feasible
	for i, ch := range res.Checks {
		if i == 0 || ch.Utilisation > res.Utilisation {
			res.Governing = ch.Name
			res.Utilisation = ch.Utilisation
		}
		res.Pass = res.Pass && ch.Pass
	}
	return res
}

// branch routines share their last id segment across codes
var branchRoutine = map[design.Classification]string{
	design.SinglyReinforced: "singly",
	design.DoublyReinforced: "doubly",
	design.Flanged:          "flanged",
}

func flexureClause(f design.FlexureResult) string {
	if id := routineClause(f.Trace, branchRoutine[f.Classification], false); id != "" {
		return id
	}
	return find(f.Trace, clause.Flexure)
}

// routineClause returns the first (or last) clause of the latest routine
// whose id ends in "."+name
func routineClause(tr design.Trace, name string, last bool) string {
	if name == "" {
		return ""
	}
	for i := len(tr) - 1; i >= 0; i-- {
		if !strings.HasSuffix(tr[i], "."+name) {
			continue
		}
		refs := clause.Refs(tr[i])
		if len(refs) == 0 {
			return ""
		}
		if last {
			return refs[len(refs)-1]
		}
		return refs[0]
	}
	return ""
}

// find returns the last clause in trace order belonging to one of the
// categories, scanning routines and their clauses from the end
func find(tr design.Trace, categories ...clause.Category) string {
	for i := len(tr) - 1; i >= 0; i-- {
		refs := clause.Refs(tr[i])
		for j := len(refs) - 1; j >= 0; j-- {
			ref, err := clause.Lookup(refs[j])
			if err != nil {
				continue
			}
			if slices.Contains(categories, ref.Category) {
				return ref.ID
			}
		}
	}
	return ""
}
