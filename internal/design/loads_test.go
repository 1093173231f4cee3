package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/rcbeam/internal/material"
)

var combos = []LoadCombination{
	{ID: "1", Description: "1.4D", Dead: 1.4},
	{ID: "2", Description: "1.2D + 1.6L + 0.5Lr", Dead: 1.2, Live: 1.6, Roof: 0.5},
	{ID: "3", Description: "1.2D + 1.0L + 1.0W", Dead: 1.2, Live: 1.0, Wind: 1.0},
	{ID: "4", Description: "0.9D + 1.0E", Dead: 0.9, Earthquake: 1.0},
}

func TestApply(t *testing.T) {
	l := material.LoadEffects{
		Dead: material.Effect{Moment: 50, Shear: 40},
		Live: material.Effect{Moment: 30, Shear: 20, Torsion: 2},
	}
	d := combos[1].Apply(l)
	assert.Equal(t, "2: 1.2D + 1.6L + 0.5Lr", d.Name)
	assert.InDelta(t, 108, d.Moment, 1e-9)
	assert.InDelta(t, 80, d.Shear, 1e-9)
	assert.InDelta(t, 3.2, d.Torsion, 1e-9)
}

func TestExpandSkipsEmptyCombinations(t *testing.T) {
	l := material.LoadEffects{Wind: material.Effect{Moment: 20}}
	demands := Expand(l, combos)
	require.Len(t, demands, 1)
	assert.InDelta(t, 20, demands[0].Moment, 1e-9)
}

func TestGoverning(t *testing.T) {
	l := material.LoadEffects{
		Dead:       material.Effect{Moment: 50},
		Live:       material.Effect{Moment: 30},
		Earthquake: material.Effect{Moment: -200},
	}
	d, lc := Governing(l, combos)
	assert.Equal(t, "4", lc.ID)
	assert.InDelta(t, -155, d.Moment, 1e-9, "sign is kept")

	_, lc = Governing(material.LoadEffects{}, combos)
	assert.Empty(t, lc.ID)
}

func TestGravity(t *testing.T) {
	got := Gravity(combos)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}
