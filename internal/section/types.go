// Package section computes properties of polygonal concrete sections:
// gross area, centroid and inertia, widths at depth, compression-block
// integrals and transformed (cracked) properties with reinforcement layers.
package section

import (
	"fmt"

	"github.com/alexiusacademia/rcbeam/internal/material"
)

// Section represents a concrete section defined by vertices
// The section is defined in a local coordinate system where:
// - Y-axis points upward (positive = compression zone at top)
// - X-axis points to the right
// - Origin can be at any convenient location
type Section struct {
	Name string `json:"name"`

	// Vertices should be defined counter-clockwise for the outer boundary
	// The section is assumed to be a simple polygon (no holes)
	Vertices []Point `json:"vertices"`

	// Reinforcement layers
	Reinforcement []RebarLayer `json:"reinforcement"`
}

// Point represents a 2D coordinate
type Point struct {
	X float64 `json:"x"` // mm
	Y float64 `json:"y"` // mm
}

// RebarLayer represents a layer of reinforcement at a specific depth
type RebarLayer struct {
	// Position of the reinforcement layer centroid
	Y float64 `json:"y"` // mm from bottom of section

	// Reinforcement area in this layer
	Area float64 `json:"area"` // mm²

	Description string `json:"description,omitempty"`

	// Type: "tension" or "compression" (default: auto-detect based on position)
	Type string `json:"type,omitempty"`
}

// SectionProperties holds calculated geometric properties
type SectionProperties struct {
	// Overall dimensions
	Width  float64 // Maximum width (mm)
	Height float64 // Total height (mm)
	Area   float64 // Gross area (mm²)

	// Centroid location
	CentroidX float64 // mm
	CentroidY float64 // mm

	// Second moment of area about the horizontal centroidal axis (mm⁴)
	Inertia float64

	// Bounding box
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64

	// Reinforcement summary
	TotalTensionSteel     float64 // mm²
	TotalCompressionSteel float64 // mm²
	EffectiveDepth        float64 // mm (to centroid of tension steel)
	CompressionCover      float64 // mm (to centroid of compression steel)
}

// FromGeometry builds the polygon for a beam section with the flange at
// the top. ast and asc are placed at d and d' from the top; zero areas
// are omitted.
func FromGeometry(g material.SectionGeometry, ast, asc float64) *Section {
	D, bw := g.Depth, g.Width
	s := &Section{Name: string(g.Shape)}

	switch g.Shape {
	case material.Tee:
		o := (g.FlangeWidth - bw) / 2
		yf := D - g.FlangeThickness
		s.Vertices = []Point{
			{0, 0}, {bw, 0}, {bw, yf}, {bw + o, yf},
			{bw + o, D}, {-o, D}, {-o, yf}, {0, yf},
		}
	case material.Ell:
		o := g.FlangeWidth - bw
		yf := D - g.FlangeThickness
		s.Vertices = []Point{
			{0, 0}, {bw, 0}, {bw, yf}, {bw + o, yf},
			{bw + o, D}, {0, D},
		}
	default:
		s.Vertices = []Point{{0, 0}, {bw, 0}, {bw, D}, {0, D}}
	}

	if ast > 0 {
		s.Reinforcement = append(s.Reinforcement, RebarLayer{Y: D - g.EffectiveDepth, Area: ast, Type: "tension"})
	}
	if asc > 0 {
		s.Reinforcement = append(s.Reinforcement, RebarLayer{Y: D - g.CompressionDepth, Area: asc, Type: "compression"})
	}
	return s
}

// Validate checks if the section definition is valid
func (s *Section) Validate() error {
	if len(s.Vertices) < 3 {
		return &ValidationError{"section must have at least 3 vertices"}
	}
	for i, layer := range s.Reinforcement {
		if layer.Area <= 0 {
			return &ValidationError{msg: fmt.Sprintf("reinforcement layer %d must have positive area", i+1)}
		}
	}
	if area, _, _ := s.calculateAreaAndCentroid(); area <= 0 {
		return &ValidationError{"section has zero area"}
	}
	return nil
}

// ValidationError represents a section validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}
