package material

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSectionDerivesQuantities(t *testing.T) {
	s, err := NewSection(SectionGeometry{Width: 230, Depth: 450, EffectiveDepth: 400, Cover: 25})
	require.NoError(t, err)

	assert.Equal(t, Rectangular, s.Shape)
	assert.InDelta(t, 400.0/450.0, s.DepthRatio, 1e-12)
	assert.Equal(t, 50.0, s.CentroidOffset)
	assert.Equal(t, 50.0, s.CompressionDepth, "d' defaults to D - d")
	assert.Equal(t, 230.0*450.0, s.GrossArea())
}

func TestNewSectionInfersFlange(t *testing.T) {
	s, err := NewSection(SectionGeometry{
		Width: 230, Depth: 450, EffectiveDepth: 400, Cover: 25,
		FlangeWidth: 1200, FlangeThickness: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, Tee, s.Shape)
	assert.True(t, s.Flanged())
	assert.Equal(t, 230.0*450.0+970.0*100.0, s.GrossArea())
}

func TestNewSectionRejectsInvalidGeometry(t *testing.T) {
	tests := []struct {
		name  string
		geom  SectionGeometry
		field string
	}{
		{"zero width", SectionGeometry{Width: 0, Depth: 450, EffectiveDepth: 400, Cover: 25}, "width_mm"},
		{"negative depth", SectionGeometry{Width: 230, Depth: -1, EffectiveDepth: 400, Cover: 25}, "depth_mm"},
		{"d equals D", SectionGeometry{Width: 230, Depth: 400, EffectiveDepth: 400, Cover: 25}, "effective_depth_mm"},
		{"zero cover", SectionGeometry{Width: 230, Depth: 450, EffectiveDepth: 400}, "cover_mm"},
		{"cover too large", SectionGeometry{Width: 230, Depth: 450, EffectiveDepth: 400, Cover: 60}, "cover_mm"},
		{"flange narrower than web", SectionGeometry{Shape: Tee, Width: 300, Depth: 450, EffectiveDepth: 400, Cover: 25, FlangeWidth: 200, FlangeThickness: 100}, "flange_width_mm"},
		{"flange thicker than beam", SectionGeometry{Shape: Ell, Width: 300, Depth: 450, EffectiveDepth: 400, Cover: 25, FlangeWidth: 900, FlangeThickness: 500}, "flange_thickness_mm"},
		{"unknown shape", SectionGeometry{Shape: "box", Width: 300, Depth: 450, EffectiveDepth: 400, Cover: 25}, "shape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSection(tt.geom)
			require.Error(t, err)

			fields := map[string]bool{}
			for _, fe := range AsFieldErrors(err) {
				fields[fe.Field] = true
			}
			assert.True(t, fields[tt.field], "expected an error on %s, got %v", tt.field, err)
		})
	}
}

func TestWithWidthDropsFlange(t *testing.T) {
	s := MustSection(SectionGeometry{Width: 230, Depth: 450, EffectiveDepth: 400, Cover: 25, FlangeWidth: 1200, FlangeThickness: 100})
	r := s.WithWidth(1200)

	assert.Equal(t, Rectangular, r.Shape)
	assert.Equal(t, 1200.0, r.Width)
	assert.Zero(t, r.FlangeWidth)
	assert.Equal(t, s.EffectiveDepth, r.EffectiveDepth)
}

func TestGradeTableLookup(t *testing.T) {
	table := GradeTable{"M20": 20, "M25": 25, "M15": 15}

	v, err := table.Lookup("concrete", "M25")
	require.NoError(t, err)
	assert.Equal(t, 25.0, v)

	_, err = table.Lookup("concrete", "M22")
	require.Error(t, err)
	fe := AsFieldErrors(err)
	require.Len(t, fe, 1)
	assert.Equal(t, "concrete", fe[0].Field)
	assert.Contains(t, fe[0].Hint, "[M15 M20 M25]")
}

func TestBarGroup(t *testing.T) {
	g := BarGroup{Count: 3, Diameter: 16, Layers: 1}
	assert.InDelta(t, 3*math.Pi*64, g.Area(), 1e-9)
	assert.Equal(t, "3-φ16", g.String())
	assert.Equal(t, "none", BarGroup{}.String())
	assert.True(t, IsCatalogueBar(25))
	assert.False(t, IsCatalogueBar(22))
}

func TestForceDemandMagnitudes(t *testing.T) {
	f := ForceDemand{Moment: -60, Shear: -80, Torsion: -2, Axial: -10}.Magnitudes()
	assert.Equal(t, 60.0, f.Moment)
	assert.Equal(t, 80.0, f.Shear)
	assert.Equal(t, 2.0, f.Torsion)
	assert.Equal(t, -10.0, f.Axial)
}
