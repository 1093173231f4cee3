package engine

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/rcbeam/internal/material"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

// StrengthReducer is implemented by codes whose resistance factor depends
// on the tension strain at ultimate. Codes without it carry their material
// factors inside the stress block and use φ = 1.
type StrengthReducer interface {
	StrengthReduction(epsilonT float64, m material.Grades) float64
}

// maxSteelRatio bounds the tension area searched by DesignSection
const maxSteelRatio = 0.04

// SectionCapacity is the strain-compatibility result of a polygonal section
type SectionCapacity struct {
	*section.AnalysisResult
	Code   string
	Grades material.Grades
	Block  section.StressBlock
	Phi    float64
	PhiMn  float64 // design capacity (kN-m)
}

// sectionSetup resolves the code, grades and stress block for a section
// analysis
func (e *Engine) sectionSetup(code, concrete, steel string) (string, material.Grades, section.StressBlock, StrengthReducer, error) {
	c, err := e.codes.Get(code)
	if err != nil {
		return "", material.Grades{}, section.StressBlock{}, nil, err
	}
	m, err := c.Materials().Grades(concrete, steel)
	if err != nil {
		return "", material.Grades{}, section.StressBlock{}, nil, err
	}
	block, err := e.StressBlock(c.Name(), m)
	if err != nil {
		return "", material.Grades{}, section.StressBlock{}, nil, err
	}
	sr, _ := c.(StrengthReducer)
	return c.Name(), m, block, sr, nil
}

func phiOf(sr StrengthReducer, epsT float64, m material.Grades) float64 {
	if sr == nil {
		return 1
	}
	return sr.StrengthReduction(epsT, m)
}

// AnalyzeSection returns the design moment capacity of s with its defined
// reinforcement
func (e *Engine) AnalyzeSection(code, concrete, steel string, s *section.Section) (*SectionCapacity, error) {
	name, m, block, sr, err := e.sectionSetup(code, concrete, steel)
	if err != nil {
		return nil, err
	}
	res, err := s.Analyze(block)
	if err != nil {
		return nil, err
	}
	phi := phiOf(sr, res.EpsilonT, m)
	e.logger.Debug("section analyzed", "section", s.Name, "code", name, "c", res.C, "mn", res.Mn, "phi", phi)
	return &SectionCapacity{
		AnalysisResult: res,
		Code:           name,
		Grades:         m,
		Block:          block,
		Phi:            phi,
		PhiMn:          phi * res.Mn,
	}, nil
}

// DesignSection sizes the first tension layer of s so that φMn equals mu
// (kN-m). φ is iterated because it follows the resulting tension strain.
// It returns the required area and the capacity at that area.
func (e *Engine) DesignSection(code, concrete, steel string, s *section.Section, mu float64) (float64, *SectionCapacity, error) {
	if mu <= 0 {
		return 0, nil, fmt.Errorf("design moment must be positive, got %.2f kN-m", mu)
	}
	name, m, block, sr, err := e.sectionSetup(code, concrete, steel)
	if err != nil {
		return 0, nil, err
	}
	if err := s.Validate(); err != nil {
		return 0, nil, err
	}
	maxArea := maxSteelRatio * s.CalculateProperties().Area

	phi := phiOf(sr, math.Inf(1), m)
	var (
		as  float64
		res *section.AnalysisResult
	)
	for range 20 {
		as, res, err = s.RequiredTension(block, mu/phi, maxArea)
		if err != nil {
			return 0, nil, err
		}
		next := phiOf(sr, res.EpsilonT, m)
		if math.Abs(next-phi) < 1e-6 {
			break
		}
		phi = next
	}
	e.logger.Debug("section designed", "section", s.Name, "code", name, "mu", mu, "as", as, "phi", phi)
	return as, &SectionCapacity{
		AnalysisResult: res,
		Code:           name,
		Grades:         m,
		Block:          block,
		Phi:            phi,
		PhiMn:          phi * res.Mn,
	}, nil
}
