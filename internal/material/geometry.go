package material

import (
	"fmt"
	"math"
)

// Shape identifies the cross-section family of a beam
type Shape string

const (
	Rectangular Shape = "rectangular"
	Tee         Shape = "tee" // flange on both sides of the web
	Ell         Shape = "ell" // flange on one side of the web
)

// IsFlanged reports whether the shape carries a flange
func (s Shape) IsFlanged() bool {
	return s == Tee || s == Ell
}

// SectionGeometry describes a beam cross-section.
// Values are immutable once returned by NewSection.
type SectionGeometry struct {
	Shape Shape `json:"shape" yaml:"shape"`

	// Geometry (mm)
	Width            float64 `json:"width_mm" yaml:"width_mm" validate:"gt=0"`                               // b or bw - web width
	Depth            float64 `json:"depth_mm" yaml:"depth_mm" validate:"gt=0"`                               // D - overall depth
	EffectiveDepth   float64 `json:"effective_depth_mm" yaml:"effective_depth_mm" validate:"gt=0"`           // d - to centroid of tension steel
	CompressionDepth float64 `json:"compression_depth_mm,omitempty" yaml:"compression_depth_mm" validate:"gte=0"` // d' - to centroid of compression steel
	Cover            float64 `json:"cover_mm" yaml:"cover_mm" validate:"gt=0"`                               // clear cover to stirrups
	FlangeWidth      float64 `json:"flange_width_mm,omitempty" yaml:"flange_width_mm" validate:"gte=0"`       // bf - provided flange width
	FlangeThickness  float64 `json:"flange_thickness_mm,omitempty" yaml:"flange_thickness_mm" validate:"gte=0"` // Df - flange depth

	// Derived quantities, filled by NewSection
	DepthRatio     float64 `json:"depth_ratio" yaml:"-"`        // d/D
	CentroidOffset float64 `json:"centroid_offset_mm" yaml:"-"` // D - d
}

// NewSection validates the geometry and computes derived quantities.
// A zero CompressionDepth defaults to D - d (symmetric cover).
func NewSection(g SectionGeometry) (SectionGeometry, error) {
	if g.Shape == "" {
		g.Shape = Rectangular
		if g.FlangeWidth > 0 || g.FlangeThickness > 0 {
			g.Shape = Tee
		}
	}
	if g.CompressionDepth == 0 && g.Depth > g.EffectiveDepth {
		g.CompressionDepth = g.Depth - g.EffectiveDepth
	}

	if errs := validateSection(g); len(errs) > 0 {
		return SectionGeometry{}, errs
	}

	g.DepthRatio = g.EffectiveDepth / g.Depth
	g.CentroidOffset = g.Depth - g.EffectiveDepth
	return g, nil
}

// MustSection is NewSection for fixtures and examples; it panics on invalid input
func MustSection(g SectionGeometry) SectionGeometry {
	s, err := NewSection(g)
	if err != nil {
		panic(err)
	}
	return s
}

func validateSection(g SectionGeometry) FieldErrors {
	var errs FieldErrors
	errs = append(errs, structErrors(g)...)

	switch g.Shape {
	case Rectangular, Tee, Ell:
	default:
		errs = append(errs, FieldError{Field: "shape", Message: fmt.Sprintf("unknown section shape %q", g.Shape)})
	}

	if g.EffectiveDepth >= g.Depth && g.Depth > 0 {
		errs = append(errs, FieldError{
			Field:   "effective_depth_mm",
			Message: fmt.Sprintf("effective depth %.1f mm must be less than overall depth %.1f mm", g.EffectiveDepth, g.Depth),
			Hint:    "effective depth is measured to the tension steel centroid; reduce it or increase the overall depth",
		})
	}
	if g.CompressionDepth >= g.EffectiveDepth && g.EffectiveDepth > 0 {
		errs = append(errs, FieldError{
			Field:   "compression_depth_mm",
			Message: fmt.Sprintf("compression steel depth %.1f mm must be less than effective depth %.1f mm", g.CompressionDepth, g.EffectiveDepth),
		})
	}
	if g.Cover >= g.Depth-g.EffectiveDepth && g.Depth > g.EffectiveDepth {
		errs = append(errs, FieldError{
			Field:   "cover_mm",
			Message: fmt.Sprintf("clear cover %.1f mm leaves no room for bars above the tension steel centroid (D - d = %.1f mm)", g.Cover, g.Depth-g.EffectiveDepth),
			Hint:    "clear cover is measured to the outside of the stirrups",
		})
	}

	if g.Shape.IsFlanged() {
		if g.FlangeWidth <= g.Width {
			errs = append(errs, FieldError{
				Field:   "flange_width_mm",
				Message: fmt.Sprintf("flange width %.1f mm must exceed web width %.1f mm", g.FlangeWidth, g.Width),
			})
		}
		if g.FlangeThickness <= 0 || g.FlangeThickness >= g.Depth {
			errs = append(errs, FieldError{
				Field:   "flange_thickness_mm",
				Message: fmt.Sprintf("flange thickness %.1f mm must be positive and less than overall depth", g.FlangeThickness),
			})
		}
	}
	return errs
}

// Flanged reports whether flange dimensions are active
func (g SectionGeometry) Flanged() bool {
	return g.Shape.IsFlanged()
}

// GrossArea returns the concrete area (mm²)
func (g SectionGeometry) GrossArea() float64 {
	area := g.Width * g.Depth
	if g.Flanged() {
		area += (g.FlangeWidth - g.Width) * g.FlangeThickness
	}
	return area
}

// LeverArmCompression returns d - d' (mm)
func (g SectionGeometry) LeverArmCompression() float64 {
	return g.EffectiveDepth - g.CompressionDepth
}

// WithWidth returns a rectangular copy of the section with a different width.
// It is used to treat a flanged section with the neutral axis inside the flange
// as a rectangle of the effective flange width.
func (g SectionGeometry) WithWidth(b float64) SectionGeometry {
	out := g
	out.Shape = Rectangular
	out.Width = b
	out.FlangeWidth = 0
	out.FlangeThickness = 0
	return out
}

// Support describes the end restraint of the span
type Support string

const (
	SimplySupported    Support = "simply_supported"
	OneEndContinuous   Support = "one_end_continuous"
	BothEndsContinuous Support = "both_ends_continuous"
	Cantilever         Support = "cantilever"
)

// Valid reports whether s is a known support condition
func (s Support) Valid() bool {
	switch s {
	case SimplySupported, OneEndContinuous, BothEndsContinuous, Cantilever:
		return true
	}
	return false
}

// ForceDemand is one factored load case acting on the section.
// Any component may be zero.
type ForceDemand struct {
	Name    string  `json:"name" yaml:"name"`
	Moment  float64 `json:"moment_knm" yaml:"moment_knm"`   // Mu (kN-m)
	Shear   float64 `json:"shear_kn" yaml:"shear_kn"`       // Vu (kN)
	Torsion float64 `json:"torsion_knm" yaml:"torsion_knm"` // Tu (kN-m)
	Axial   float64 `json:"axial_kn" yaml:"axial_kn"`       // Pu (kN), compression positive
}

// Magnitudes returns the demand with moment, shear and torsion as absolute values.
// Axial force keeps its sign.
func (f ForceDemand) Magnitudes() ForceDemand {
	f.Moment = math.Abs(f.Moment)
	f.Shear = math.Abs(f.Shear)
	f.Torsion = math.Abs(f.Torsion)
	return f
}

// LoadEffects holds unfactored load effects by load type
type LoadEffects struct {
	Dead       Effect `json:"dead" yaml:"dead"`
	Live       Effect `json:"live" yaml:"live"`
	Roof       Effect `json:"roof" yaml:"roof"`
	Wind       Effect `json:"wind" yaml:"wind"`
	Earthquake Effect `json:"earthquake" yaml:"earthquake"`
	Rain       Effect `json:"rain" yaml:"rain"`
}

// Effect is the unfactored moment, shear and torsion due to one load type
type Effect struct {
	Moment  float64 `json:"moment_knm" yaml:"moment_knm"`
	Shear   float64 `json:"shear_kn" yaml:"shear_kn"`
	Torsion float64 `json:"torsion_knm" yaml:"torsion_knm"`
}

// IsZero reports whether no load effect was provided
func (l LoadEffects) IsZero() bool {
	return l == LoadEffects{}
}
