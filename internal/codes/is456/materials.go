package is456

import (
	"math"

	"github.com/alexiusacademia/rcbeam/internal/material"
	"github.com/alexiusacademia/rcbeam/internal/table"
)

// IS 456:2000 material constants
const (
	Es = 200000.0 // MPa, Fig. 23

	EpsilonCU = 0.0035 // ultimate concrete strain in flexure (38.1 b)

	DesignStressRatio = 0.87 // fy/γm with γm = 1.15, as rounded in 38.1 e
)

// ConcreteGrades are the permitted concrete grades (Table 2), fck in MPa
var ConcreteGrades = material.GradeTable{
	"M15": 15, "M20": 20, "M25": 25, "M30": 30, "M35": 35,
	"M40": 40, "M45": 45, "M50": 50, "M55": 55, "M60": 60,
}

// SteelGrades are the permitted reinforcement grades, fy in MPa
var SteelGrades = material.GradeTable{
	"Fe250": 250, "Fe415": 415, "Fe500": 500, "Fe550": 550,
}

// Materials is the IS 456 material factory
type Materials struct{}

// Grades resolves grade names. Fe250 is mild steel (plain bars); higher
// grades are high-yield deformed bars.
func (Materials) Grades(concrete, steel string) (material.Grades, error) {
	var errs material.FieldErrors
	fck, err := ConcreteGrades.Lookup("concrete", concrete)
	if err != nil {
		errs = append(errs, material.AsFieldErrors(err)...)
	}
	fy, err := SteelGrades.Lookup("steel", steel)
	if err != nil {
		errs = append(errs, material.AsFieldErrors(err)...)
	}
	if len(errs) > 0 {
		return material.Grades{}, errs
	}
	return NewGrades(concrete, steel, fck, fy), nil
}

// NewGrades derives elastic properties for given strengths
func NewGrades(concrete, steel string, fck, fy float64) material.Grades {
	return material.Grades{
		Concrete: concrete,
		Steel:    steel,
		Fck:      fck,
		Fy:       fy,
		Es:       Es,
		Ec:       5000 * math.Sqrt(fck),
		Fcr:      0.7 * math.Sqrt(fck),
		Deformed: fy > 250,
	}
}

func (Materials) ConcreteGrades() []string { return ConcreteGrades.Names() }
func (Materials) SteelGrades() []string    { return SteelGrades.Names() }

// DesignYield returns 0.87 fy
func DesignYield(fy float64) float64 {
	return DesignStressRatio * fy
}

// LimitingDepthRatio returns xu,max/d for the steel grade (38.1 f)
func LimitingDepthRatio(fy float64) float64 {
	return EpsilonCU / (EpsilonCU + 0.002 + DesignYield(fy)/Es)
}

// Design stress-strain curve of Fig. 23B: linear up to 0.8 fyd, then
// the tabulated inelastic strains
var (
	inelasticStress = []float64{0.80, 0.85, 0.90, 0.95, 0.975, 1.0}
	inelasticStrain = []float64{0, 0.0001, 0.0003, 0.0007, 0.0010, 0.0020}
)

// SteelStressCurve returns design stress (MPa) against strain for fy.
// Mild steel (Fe250) is elastic-perfectly-plastic.
func SteelStressCurve(fy float64) *table.Curve {
	fyd := DesignYield(fy)
	if fy <= 250 {
		return table.MustCurve("fsc", "strain", []float64{0, fyd / Es}, []float64{0, fyd})
	}
	xs := []float64{0}
	ys := []float64{0}
	for i, r := range inelasticStress {
		xs = append(xs, r*fyd/Es+inelasticStrain[i])
		ys = append(ys, r*fyd)
	}
	return table.MustCurve("fsc", "strain", xs, ys)
}

// SteelStress returns the design stress in steel at strain (compression positive)
func SteelStress(fy, strain float64) float64 {
	if strain <= 0 {
		return 0
	}
	// strains beyond the curve sit on the yield plateau
	return SteelStressCurve(fy).At(strain).Value
}
