package material

import (
	"fmt"
	"math"
	"sort"
)

// Grades holds the resolved material strengths for one design.
// It is produced by a code's material factory from grade names.
type Grades struct {
	Concrete string  `json:"concrete"`
	Steel    string  `json:"steel"`
	Fck      float64 `json:"fck_mpa"` // characteristic (or specified) concrete strength
	Fy       float64 `json:"fy_mpa"`  // steel yield strength
	Es       float64 `json:"es_mpa"`  // steel elastic modulus
	Ec       float64 `json:"ec_mpa"`  // concrete elastic modulus per the code
	Fcr      float64 `json:"fcr_mpa"` // modulus of rupture per the code
	Deformed bool    `json:"deformed"`
}

// ModularRatio returns Es/Ec
func (g Grades) ModularRatio() float64 {
	if g.Ec == 0 {
		return 0
	}
	return g.Es / g.Ec
}

// YieldStrain returns fy/Es
func (g Grades) YieldStrain() float64 {
	return g.Fy / g.Es
}

// GradeTable is an enumerated set of grade names and their strengths (MPa)
type GradeTable map[string]float64

// Lookup returns the strength for a grade name or a FieldError naming the permitted set
func (t GradeTable) Lookup(field, name string) (float64, error) {
	v, ok := t[name]
	if !ok {
		return 0, FieldError{
			Field:   field,
			Message: fmt.Sprintf("grade %q is not permitted", name),
			Hint:    fmt.Sprintf("use one of %v", t.Names()),
		}
	}
	return v, nil
}

// Names returns the grade names sorted by strength
func (t GradeTable) Names() []string {
	names := make([]string, 0, len(t))
	for n := range t {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if t[names[i]] == t[names[j]] {
			return names[i] < names[j]
		}
		return t[names[i]] < t[names[j]]
	})
	return names
}

// Nominal bar diameters stocked by the bar catalogue (mm)
var BarDiameters = []float64{6, 8, 10, 12, 16, 20, 25, 28, 32, 36, 40}

// BarArea returns the nominal area of one bar (mm²)
func BarArea(diameter float64) float64 {
	return math.Pi * diameter * diameter / 4
}

// IsCatalogueBar reports whether d is a stocked diameter
func IsCatalogueBar(d float64) bool {
	for _, bd := range BarDiameters {
		if bd == d {
			return true
		}
	}
	return false
}

// BarGroup is a set of identical bars
type BarGroup struct {
	Count    int     `json:"count"`
	Diameter float64 `json:"diameter_mm"`
	Layers   int     `json:"layers"`
}

// Area returns the total area of the group (mm²)
func (b BarGroup) Area() float64 {
	return float64(b.Count) * BarArea(b.Diameter)
}

func (b BarGroup) String() string {
	if b.Count == 0 {
		return "none"
	}
	return fmt.Sprintf("%d-φ%.0f", b.Count, b.Diameter)
}
