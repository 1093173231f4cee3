package all

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/rcbeam/internal/clause"
	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/material"
)

func TestBuiltinCodesRegistered(t *testing.T) {
	assert.Equal(t, []string{"ACI318", "IS456", "NSCP2015"}, design.Names())

	nscp, err := design.Get("nscp2015")
	require.NoError(t, err)
	aci, err := design.Get("ACI318")
	require.NoError(t, err)
	assert.NotEqual(t, nscp.Title(), aci.Title())

	_, ok := nscp.(design.LoadCombiner)
	assert.True(t, ok)
}

func TestEveryClauseReferenceResolves(t *testing.T) {
	reg := clause.Default()
	require.NoError(t, reg.Verify())

	routines := reg.Routines()
	require.NotEmpty(t, routines)
	for _, r := range routines {
		refs := reg.References(r)
		assert.NotEmpty(t, refs, r)
	}
}

// issues raised by a spread of designs must cite clauses in the database
func TestIssueClausesResolve(t *testing.T) {
	cases := []struct {
		code, concrete, steel string
	}{
		{"IS456", "M20", "Fe415"},
		{"NSCP2015", "FC28", "G415"},
	}
	sections := []material.SectionGeometry{
		{Width: 230, Depth: 450, EffectiveDepth: 400, Cover: 25},
		{Width: 150, Depth: 250, EffectiveDepth: 200, Cover: 20},
		{Shape: material.Tee, Width: 250, Depth: 600, EffectiveDepth: 550, Cover: 30, FlangeWidth: 900, FlangeThickness: 80},
	}
	demands := []material.ForceDemand{
		{Moment: 10, Shear: 10},
		{Moment: 150, Shear: 150, Torsion: 10},
		{Moment: 600, Shear: 700, Axial: -100},
	}

	for _, tc := range cases {
		code, err := design.Get(tc.code)
		require.NoError(t, err)
		g, err := code.Materials().Grades(tc.concrete, tc.steel)
		require.NoError(t, err)

		for _, s := range sections {
			sec := material.MustSection(s)
			for _, d := range demands {
				fr := code.Flexure().Design(design.FlexureInput{Section: sec, Grades: g, Demand: d})
				sr := code.Shear().Design(design.ShearInput{Section: sec, Grades: g, Demand: d, AstProvided: 600})
				for _, is := range append(fr.Issues, sr.Issues...) {
					if is.Clause == "" {
						continue
					}
					_, err := clause.Lookup(is.Clause)
					assert.NoError(t, err, "%s: %s", tc.code, is.Message)
				}
			}
		}
	}
}
