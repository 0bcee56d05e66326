package model

import (
	"testing"

	"github.com/hexfront/engine/internal/hex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSector_Center(t *testing.T) {
	s := Sector{Positions: []hex.MapPos{
		{5, 0}, {6, 0}, {5, 1}, {6, 1}, {7, 1}, {5, 2}, {6, 2},
	}}
	assert.Equal(t, hex.MapPos{X: 6, Y: 1}, s.Center())

	column := Sector{Positions: []hex.MapPos{{6, 0}, {6, 1}, {6, 2}}}
	assert.Equal(t, hex.MapPos{X: 6, Y: 1}, column.Center())

	single := Sector{Positions: []hex.MapPos{{4, 3}}}
	assert.Equal(t, hex.MapPos{X: 4, Y: 3}, single.Center())
}

func TestSector_CenterPanicsWhenEmpty(t *testing.T) {
	assert.Panics(t, func() { (&Sector{}).Center() })
}

func TestSector_Contains(t *testing.T) {
	s := Sector{Positions: []hex.MapPos{{1, 1}, {1, 2}}}
	assert.True(t, s.Contains(hex.MapPos{X: 1, Y: 2}))
	assert.False(t, s.Contains(hex.MapPos{X: 2, Y: 2}))
}

func TestExactPos_Tiles(t *testing.T) {
	road := At(hex.MapPos{X: 2, Y: 2}, TwoTiles(hex.East))
	require.Len(t, road.Tiles(), 2)
	assert.True(t, road.Covers(hex.MapPos{X: 3, Y: 2}))
	assert.True(t, road.Covers(hex.MapPos{X: 2, Y: 2}))
	assert.False(t, road.Covers(hex.MapPos{X: 1, Y: 2}))

	slot := At(hex.MapPos{X: 2, Y: 2}, Slot(1))
	assert.Equal(t, []hex.MapPos{{X: 2, Y: 2}}, slot.Tiles())
}

func TestSlotID_Equality(t *testing.T) {
	assert.Equal(t, Slot(0), Slot(0))
	assert.NotEqual(t, Slot(0), Slot(1))
	assert.NotEqual(t, WholeTile(), Air())
	assert.Equal(t, "TwoTiles(West)", TwoTiles(hex.West).String())
	assert.Equal(t, "(1, 2):Id(2)", At(hex.MapPos{X: 1, Y: 2}, Slot(2)).String())
}

func TestParseGameType(t *testing.T) {
	gt, err := ParseGameType("single_vs_ai")
	require.NoError(t, err)
	assert.Equal(t, SingleVsAI, gt)

	gt, err = ParseGameType("Hotseat")
	require.NoError(t, err)
	assert.Equal(t, Hotseat, gt)

	_, err = ParseGameType("coop")
	assert.Error(t, err)
}

func TestUnit_IsCarried(t *testing.T) {
	u := Unit{}
	assert.False(t, u.IsCarried())
	u.IsLoaded = true
	assert.True(t, u.IsCarried())
	u = Unit{IsAttached: true}
	assert.True(t, u.IsCarried())
}
