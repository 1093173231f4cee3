package section

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// LoadFromFile loads a section definition from a JSON file
func LoadFromFile(filepath string) (*Section, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var section Section
	if err := json.Unmarshal(data, &section); err != nil {
		return nil, err
	}

	if err := section.Validate(); err != nil {
		return nil, err
	}

	return &section, nil
}

// StressBlock is an equivalent uniform concrete stress block with
// elastic-perfectly-plastic steel
type StressBlock struct {
	Intensity   float64 // uniform stress over the block (MPa), e.g. 0.85 f'c
	DepthFactor float64 // block depth a = DepthFactor * c
	EpsilonCU   float64 // ultimate concrete strain
	Es          float64 // steel modulus (MPa)
	Fy          float64 // steel yield strength (MPa)
}

// AnalysisResult holds the results of section analysis
type AnalysisResult struct {
	Properties *SectionProperties

	// Neutral axis and compression block
	C float64 // Neutral axis depth from top (mm)
	A float64 // Compression block depth (mm)

	// Compression zone
	CompressionArea     float64 // Area of compression block (mm²)
	CompressionCentroid float64 // Depth to centroid of compression block (mm)

	// Strains
	EpsilonT float64 // Maximum tensile strain (at lowest tension steel)

	// Forces (kN)
	Cc float64 // Concrete compression force
	Cs float64 // Compression steel force (if any)
	T  float64 // Total tension steel force

	SteelLayers []SteelLayerResult

	Mn float64 // Nominal moment capacity about the tension steel (kN-m)
}

// SteelLayerResult holds analysis results for each reinforcement layer
type SteelLayerResult struct {
	Y          float64 // Position from section bottom (mm)
	Area       float64 // Steel area (mm²)
	Strain     float64 // Strain at this layer, compression positive
	Stress     float64 // Stress (MPa)
	Force      float64 // Force (kN), net of displaced concrete
	IsTension  bool
	HasYielded bool
}

// Analyze finds the neutral axis by force equilibrium and the nominal
// moment capacity of the section
func (s *Section) Analyze(block StressBlock) (*AnalysisResult, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if block.Intensity <= 0 || block.DepthFactor <= 0 || block.EpsilonCU <= 0 || block.Es <= 0 || block.Fy <= 0 {
		return nil, fmt.Errorf("invalid stress block %+v", block)
	}

	props := s.CalculateProperties()
	if props.TotalTensionSteel <= 0 {
		return nil, &ValidationError{"section has no tension reinforcement"}
	}

	// Net compression minus tension grows with c, so bisect on c
	lo, hi := 1e-6, props.Height
	var res *AnalysisResult
	for iter := 0; iter < 200; iter++ {
		c := (lo + hi) / 2
		res = s.forcesAt(props, block, c)
		imbalance := res.T - (res.Cc + res.Cs)
		if math.Abs(imbalance) < 1e-6 {
			break
		}
		if imbalance > 0 {
			lo = c
		} else {
			hi = c
		}
	}

	d := props.EffectiveDepth
	mn := res.Cc * (d - res.CompressionCentroid)
	for _, layer := range res.SteelLayers {
		if !layer.IsTension {
			mn += layer.Force * (d - (props.MaxY - layer.Y))
		}
	}
	res.Mn = mn / 1000

	var maxTensileStrain float64
	for _, layer := range res.SteelLayers {
		if layer.IsTension && -layer.Strain > maxTensileStrain {
			maxTensileStrain = -layer.Strain
		}
	}
	res.EpsilonT = maxTensileStrain
	return res, nil
}

func (s *Section) forcesAt(props *SectionProperties, block StressBlock, c float64) *AnalysisResult {
	a := math.Min(block.DepthFactor*c, props.Height)
	res := &AnalysisResult{Properties: props, C: c, A: a}

	res.CompressionArea = s.CompressionBlockArea(a)
	res.CompressionCentroid = s.CompressionBlockCentroid(a)
	res.Cc = block.Intensity * res.CompressionArea / 1000

	epsilonY := block.Fy / block.Es
	for _, layer := range s.Reinforcement {
		depthFromTop := props.MaxY - layer.Y
		strain := block.EpsilonCU * (c - depthFromTop) / c

		stress := math.Max(math.Min(strain*block.Es, block.Fy), -block.Fy)
		force := layer.Area * stress / 1000

		lr := SteelLayerResult{
			Y:          layer.Y,
			Area:       layer.Area,
			Strain:     strain,
			Stress:     stress,
			IsTension:  strain < 0,
			HasYielded: math.Abs(strain) >= epsilonY,
		}
		if strain >= 0 {
			// subtract displaced concrete within the block
			if depthFromTop <= a {
				force = layer.Area * (stress - block.Intensity) / 1000
			}
			res.Cs += force
		} else {
			res.T += -force
		}
		lr.Force = force
		res.SteelLayers = append(res.SteelLayers, lr)
	}
	return res
}

// TensionLayer returns the index of the first tension layer, or -1
func (s *Section) TensionLayer() int {
	props := s.CalculateProperties()
	mid := (props.MinY + props.MaxY) / 2
	for i, layer := range s.Reinforcement {
		if !isCompression(layer, mid) {
			return i
		}
	}
	return -1
}

// RequiredTension finds the tension steel area whose nominal capacity
// equals mn (kN-m), keeping the other layers as defined. The first
// tension layer is resized. It fails when even maxArea is insufficient.
func (s *Section) RequiredTension(block StressBlock, mn, maxArea float64) (float64, *AnalysisResult, error) {
	idx := s.TensionLayer()
	if idx < 0 {
		return 0, nil, &ValidationError{"section has no tension reinforcement layer"}
	}

	working := *s
	working.Reinforcement = append([]RebarLayer(nil), s.Reinforcement...)
	capacity := func(as float64) (*AnalysisResult, error) {
		working.Reinforcement[idx].Area = as
		return working.Analyze(block)
	}

	top, err := capacity(maxArea)
	if err != nil {
		return 0, nil, err
	}
	if top.Mn < mn {
		return 0, top, fmt.Errorf("capacity %.2f kN-m at %.0f mm² is below %.2f kN-m", top.Mn, maxArea, mn)
	}

	lo, hi := 1e-6, maxArea
	var res *AnalysisResult
	for iter := 0; iter < 100; iter++ {
		as := (lo + hi) / 2
		if res, err = capacity(as); err != nil {
			return 0, nil, err
		}
		if math.Abs(res.Mn-mn) < 1e-6*math.Max(mn, 1) {
			return as, res, nil
		}
		if res.Mn < mn {
			lo = as
		} else {
			hi = as
		}
	}
	return hi, res, nil
}
