package serviceability

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
)

// MomentShape is the uniformly loaded moment diagram normalised to the
// governing service moment, at x from the left end of a span l.
// Sagging is positive except for the cantilever, which is fixed at x = 0
// and returns the hogging magnitude.
func MomentShape(s material.Support, x, l float64) float64 {
	if l <= 0 {
		return 0
	}
	u := x / l
	switch s {
	case material.Cantilever:
		return (1 - u) * (1 - u)
	case material.BothEndsContinuous:
		// wL²/24 at midspan, -wL²/12 at the supports
		return 12*u*(1-u) - 2
	case material.OneEndContinuous:
		// propped at x = 0, continuous at x = l; 9wL²/128 at 3l/8
		return (3*u/8 - u*u/2) / (9.0 / 128)
	default:
		return 4 * u * (1 - u)
	}
}

// VirtualMoment is the moment from a unit load at the reference point:
// midspan of a simple span, or the free end of a cantilever. Continuous
// spans use the simple-span virtual system.
func VirtualMoment(s material.Support, x, l float64) float64 {
	if s == material.Cantilever {
		return l - x
	}
	if x <= l/2 {
		return x / 2
	}
	return (l - x) / 2
}

// ShrinkageCoefficient is k3 of δcs = k3 ψcs l²
func ShrinkageCoefficient(s material.Support) float64 {
	switch s {
	case material.Cantilever:
		return 0.5
	case material.OneEndContinuous:
		return 0.086
	case material.BothEndsContinuous:
		return 0.063
	default:
		return 0.125
	}
}

// Point is one station of a diagram
type Point struct {
	X          float64 `json:"x_mm"`
	Moment     float64 `json:"moment_knm"`
	Deflection float64 `json:"deflection_mm"` // positive downwards
}

// Shape returns the short-term moment and deflection along the span by
// integrating the curvature twice
func Shape(rules design.ServiceabilityRules, in Input) []Point {
	l := in.Span
	pts := make([]Point, Stations)
	if l <= 0 {
		return pts[:0]
	}
	m := in.Grades
	ms := ServiceMoment(rules, in)
	p := in.properties(m.Ec)

	kappa := make([]float64, Stations)
	var scratch design.Trace
	for i := range pts {
		x := l * float64(i) / float64(Stations-1)
		mx := ms * MomentShape(in.Support, x, l)
		ieff := rules.EffectiveInertia(design.StiffnessInput{
			Section: in.Section, Grades: m, Properties: p, Moment: math.Abs(mx * 1e6),
		}, &scratch)
		pts[i] = Point{X: x, Moment: mx}
		kappa[i] = mx * 1e6 / (m.Ec * ieff)
	}

	// w'' = -κ for spans deflecting under sagging, +κ for the cantilever
	sign := -1.0
	if in.Support == material.Cantilever {
		sign = 1
	}
	h := l / float64(Stations-1)
	slope := make([]float64, Stations)
	for i := 1; i < Stations; i++ {
		slope[i] = sign * h * (kappa[i-1] + kappa[i]) / 2
	}
	floats.CumSum(slope, slope)
	w := make([]float64, Stations)
	for i := 1; i < Stations; i++ {
		w[i] = h * (slope[i-1] + slope[i]) / 2
	}
	floats.CumSum(w, w)

	// spans supported at both ends: restore w(l) = 0
	if in.Support != material.Cantilever {
		end := w[Stations-1]
		for i := range w {
			w[i] -= end * pts[i].X / l
		}
	}
	for i := range pts {
		pts[i].Deflection = w[i]
	}
	return pts
}
