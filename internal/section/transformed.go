package section

import (
	"math"

	"github.com/alexiusacademia/rcbeam/internal/material"
)

// Transformed holds the elastic properties of a reinforced section
// under sagging moment. Depths are measured from the top fibre.
type Transformed struct {
	// Gross concrete section, steel ignored
	Area     float64 `json:"area_mm2"`
	Centroid float64 `json:"centroid_mm"` // depth of the gross centroid
	Ig       float64 `json:"ig_mm4"`
	Yt       float64 `json:"yt_mm"` // centroid to extreme tension fibre

	// Cracked transformed section, concrete in tension ignored
	ModularRatio float64 `json:"modular_ratio"`
	CrackedDepth float64 `json:"x_mm"`
	Icr          float64 `json:"icr_mm4"`
	LeverArm     float64 `json:"z_mm"`

	EffectiveDepth   float64 `json:"effective_depth_mm"`
	CompressionDepth float64 `json:"compression_depth_mm"`
	Ast              float64 `json:"ast_mm2"`
	Asc              float64 `json:"asc_mm2"`
}

// NewTransformed computes gross and cracked properties for the section
// with tension steel ast at d, compression steel asc at d' and modular ratio m
func NewTransformed(g material.SectionGeometry, ast, asc, m float64) Transformed {
	s := FromGeometry(g, 0, 0)
	props := s.CalculateProperties()

	t := Transformed{
		Area:             props.Area,
		Centroid:         props.MaxY - props.CentroidY,
		Ig:               props.Inertia,
		Yt:               props.CentroidY - props.MinY,
		ModularRatio:     m,
		EffectiveDepth:   g.EffectiveDepth,
		CompressionDepth: g.CompressionDepth,
		Ast:              ast,
		Asc:              asc,
	}
	if ast <= 0 || m <= 0 {
		t.CrackedDepth = t.Centroid
		t.Icr = t.Ig
		t.LeverArm = g.EffectiveDepth - t.CrackedDepth/3
		return t
	}

	d, dc := g.EffectiveDepth, g.CompressionDepth
	ascFactor := func(x float64) float64 {
		if dc < x {
			return m - 1
		}
		return m
	}
	// first moment of the transformed area about a trial axis at depth x
	moment := func(x float64) float64 {
		qc := s.CompressionBlockArea(x) * (x - s.CompressionBlockCentroid(x))
		return qc + ascFactor(x)*asc*(x-dc) - m*ast*(d-x)
	}

	lo, hi := 0.0, d
	for iter := 0; iter < 200 && hi-lo > 1e-9; iter++ {
		x := (lo + hi) / 2
		if moment(x) < 0 {
			lo = x
		} else {
			hi = x
		}
	}
	x := (lo + hi) / 2

	t.CrackedDepth = x
	t.Icr = s.CompressionBlockInertia(x) +
		ascFactor(x)*asc*math.Pow(x-dc, 2) +
		m*ast*math.Pow(d-x, 2)
	t.LeverArm = d - x/3
	return t
}

// CrackingMoment returns fcr Ig / yt (N-mm)
func (t Transformed) CrackingMoment(fcr float64) float64 {
	if t.Yt == 0 {
		return 0
	}
	return fcr * t.Ig / t.Yt
}

// SteelStress returns the elastic tension steel stress (MPa) under
// moment m (N-mm) on the cracked section
func (t Transformed) SteelStress(m float64) float64 {
	if t.Icr == 0 {
		return 0
	}
	return t.ModularRatio * m * (t.EffectiveDepth - t.CrackedDepth) / t.Icr
}
