package detailing

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
)

// MainBarDiameters are tried from smallest to largest when no diameter is preferred
var MainBarDiameters = []float64{12, 16, 20, 25, 28, 32}

// HangerBar is the diameter of nominal top bars when no compression steel is required
const HangerBar = 12.0

// Suggestion is one bar arrangement providing at least the required area
type Suggestion struct {
	Bars     material.BarGroup `json:"bars"`
	Provided float64           `json:"provided_mm2"`
	Ratio    float64           `json:"ratio"` // provided / required
}

// Suggest lists 2 to 8 bar arrangements of common diameters for area (mm²)
func Suggest(area float64) []Suggestion {
	var out []Suggestion
	if area <= 0 {
		return out
	}
	for _, dia := range []float64{16, 20, 25, 28, 32} {
		count := int(area/material.BarArea(dia)) + 1
		if count < 2 || count > 8 {
			continue
		}
		bars := material.BarGroup{Count: count, Diameter: dia, Layers: 1}
		out = append(out, Suggestion{Bars: bars, Provided: bars.Area(), Ratio: bars.Area() / area})
	}
	return out
}

// Layout is the web geometry bars are placed in
type Layout struct {
	Width   float64 // web width (mm)
	Cover   float64 // clear cover to stirrups (mm)
	Stirrup float64 // stirrup diameter (mm)
	// MinClear returns the minimum clear spacing for a bar diameter
	MinClear func(bar float64) float64
}

func (l Layout) inner() float64 {
	return l.Width - 2*(l.Cover+l.Stirrup)
}

// PerLayer is the number of bars of diameter bar that fit in one layer
func (l Layout) PerLayer(bar float64) int {
	clear := l.MinClear(bar)
	n := int(math.Floor((l.inner() + clear) / (bar + clear)))
	return max(n, 0)
}

// ClearSpacing is the clear gap between n bars spread across one layer
func (l Layout) ClearSpacing(bar float64, n int) float64 {
	if n < 2 {
		return l.inner() - bar
	}
	return (l.inner() - float64(n)*bar) / float64(n-1)
}

// Selection is the chosen bar group with its layout
type Selection struct {
	Bars         material.BarGroup
	ClearSpacing float64
	Issues       []design.Issue
}

func countFor(area, bar float64) int {
	return max(int(math.Ceil(area/material.BarArea(bar)-1e-9)), 2)
}

// SelectBars chooses at least two bars providing area. A preferred diameter
// is used as given; otherwise the smallest diameter fitting one layer wins,
// then the smallest fitting two layers with a warning.
func SelectBars(area, preferred float64, l Layout) Selection {
	candidates := MainBarDiameters
	if preferred > 0 {
		candidates = []float64{preferred}
	}

	for _, bar := range candidates {
		n := countFor(area, bar)
		if n <= l.PerLayer(bar) {
			return Selection{
				Bars:         material.BarGroup{Count: n, Diameter: bar, Layers: 1},
				ClearSpacing: l.ClearSpacing(bar, n),
			}
		}
	}

	for _, bar := range candidates {
		n := countFor(area, bar)
		per := (n + 1) / 2
		if per <= l.PerLayer(bar) {
			return Selection{
				Bars:         material.BarGroup{Count: n, Diameter: bar, Layers: 2},
				ClearSpacing: l.ClearSpacing(bar, per),
				Issues: []design.Issue{design.Warn(design.CodeBarLayout, "",
					"%d-φ%.0f do not fit one layer of a %.0f mm web; placed in two layers", n, bar, l.Width)},
			}
		}
	}

	bar := candidates[len(candidates)-1]
	n := countFor(area, bar)
	per := max(l.PerLayer(bar), 1)
	layers := (n + per - 1) / per
	return Selection{
		Bars:         material.BarGroup{Count: n, Diameter: bar, Layers: layers},
		ClearSpacing: l.ClearSpacing(bar, min(per, n)),
		Issues: []design.Issue{{
			Code:     design.CodeBarLayout,
			Severity: design.Warning,
			Message:  fmt.Sprintf("%d-φ%.0f need %d layers in a %.0f mm web", n, bar, layers, l.Width),
			Hint:     "widen the web or accept the effective depth loss of extra layers",
		}},
	}
}
