package nscp

import (
	"math"

	"github.com/alexiusacademia/rcbeam/internal/material"
)

// NSCP 2015 Material Constants

const (
	// Beta1 factors for equivalent rectangular stress block
	// Section 422.2.2.4.3
	Beta1Max = 0.85 // for f'c <= 28 MPa
	Beta1Min = 0.65 // minimum value

	// Strain limits
	EpsilonCU = 0.003 // Ultimate concrete strain (Section 422.2.2.1)
	EpsilonT  = 0.005 // Tension-controlled strain used as the design limit

	// Strength reduction factors (Section 421.2)
	PhiFlexure     = 0.90 // Tension-controlled sections
	PhiShear       = 0.75 // Shear and torsion
	PhiCompression = 0.65 // Compression-controlled (tied)

	// Modulus of elasticity for steel (Section 420.2.2.2)
	Es = 200000.0 // MPa

	// Lightweight concrete factor, normalweight only
	Lambda = 1.0
)

// ConcreteGrades are specified strengths f'c (MPa)
var ConcreteGrades = material.GradeTable{
	"FC17": 17, "FC21": 21, "FC24": 24, "FC28": 28, "FC35": 35, "FC42": 42,
}

// SteelGrades are deformed reinforcement grades (PNS 49), fy in MPa
var SteelGrades = material.GradeTable{
	"G230": 230, "G275": 275, "G415": 415, "G420": 420, "G520": 520,
}

// Materials is the NSCP material factory
type Materials struct{}

func (Materials) Grades(concrete, steel string) (material.Grades, error) {
	var errs material.FieldErrors
	fc, err := ConcreteGrades.Lookup("concrete", concrete)
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
	return NewGrades(concrete, steel, fc, fy), nil
}

// NewGrades derives Ec (419.2.2.1) and fr (419.2.3.1) for given strengths
func NewGrades(concrete, steel string, fc, fy float64) material.Grades {
	return material.Grades{
		Concrete: concrete,
		Steel:    steel,
		Fck:      fc,
		Fy:       fy,
		Es:       Es,
		Ec:       4700 * math.Sqrt(fc),
		Fcr:      0.62 * Lambda * math.Sqrt(fc),
		Deformed: true,
	}
}

func (Materials) ConcreteGrades() []string { return ConcreteGrades.Names() }
func (Materials) SteelGrades() []string    { return SteelGrades.Names() }

// Beta1 calculates the factor for equivalent rectangular stress block
// NSCP 2015 Section 422.2.2.4.3
func Beta1(fc float64) float64 {
	if fc <= 28 {
		return Beta1Max
	}
	// β1 = 0.85 - 0.05(f'c - 28)/7 for f'c > 28 MPa
	beta1 := Beta1Max - 0.05*(fc-28)/7
	return math.Max(beta1, Beta1Min)
}

// Phi calculates the strength reduction factor based on strain
// NSCP 2015 Section 421.2.2, tension-controlled at εt >= 0.005
func Phi(epsilonT float64, fy float64) float64 {
	epsilonTY := fy / Es

	if epsilonT >= EpsilonT {
		// Tension-controlled
		return PhiFlexure
	} else if epsilonT <= epsilonTY {
		// Compression-controlled
		return PhiCompression
	}
	// Transition zone
	return PhiCompression + (PhiFlexure-PhiCompression)*(epsilonT-epsilonTY)/(EpsilonT-epsilonTY)
}

// RhoMin calculates minimum reinforcement ratio
// NSCP 2015 Section 409.6.1.2
func RhoMin(fc, fy float64) float64 {
	// ρmin = max(√f'c / 4fy, 1.4/fy)
	rho1 := math.Sqrt(fc) / (4 * fy)
	rho2 := 1.4 / fy
	return math.Max(rho1, rho2)
}

// RhoMax calculates maximum reinforcement ratio for a tension-controlled
// rectangular section (εt = 0.005)
func RhoMax(fc, fy float64) float64 {
	// c/d = εcu / (εcu + εt) = 0.003 / (0.003 + 0.005) = 0.375
	return 0.85 * Beta1(fc) * (fc / fy) * LimitDepthRatio()
}

// RhoBalanced calculates balanced reinforcement ratio
func RhoBalanced(fc, fy float64) float64 {
	epsilonTY := fy / Es
	// c/d at balanced = εcu / (εcu + εy)
	cb := EpsilonCU / (EpsilonCU + epsilonTY)
	return 0.85 * Beta1(fc) * (fc / fy) * cb
}

// LimitDepthRatio is c/d at the tension-controlled strain limit
func LimitDepthRatio() float64 {
	return EpsilonCU / (EpsilonCU + EpsilonT)
}
