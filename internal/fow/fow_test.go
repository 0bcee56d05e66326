package fow

import (
	"slices"
	"testing"

	"github.com/hexfront/engine/internal/event"
	"github.com/hexfront/engine/internal/hex"
	"github.com/hexfront/engine/internal/model"
	"github.com/hexfront/engine/internal/rules"
	"github.com/hexfront/engine/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testWorld struct {
	t     *testing.T
	rules *rules.Catalog
	st    *state.Full
	next  model.UnitID
}

func newTestWorld(t *testing.T) *testWorld {
	terrain := hex.NewGrid[model.Terrain](hex.Size{W: 10, H: 10})
	terrain.Set(hex.MapPos{X: 3, Y: 0}, model.Trees)
	layout := model.Layout{
		Terrain: terrain,
		Objects: []model.Object{
			{ID: 1, Class: model.ReinforcementSector, Pos: model.At(hex.MapPos{X: 9, Y: 9}, model.WholeTile()), Owner: 0},
			{ID: 2, Class: model.ReinforcementSector, Pos: model.At(hex.MapPos{X: 9, Y: 0}, model.WholeTile()), Owner: 1},
		},
	}
	c := rules.Default()
	return &testWorld{t: t, rules: c, st: state.NewFull(c, layout, 2)}
}

func (w *testWorld) create(player model.PlayerID, typeName string, x, y int, slot model.SlotID) *model.Unit {
	w.next++
	typeID := w.rules.UnitTypeID(typeName)
	ut := w.rules.UnitType(typeID)
	w.st.ApplyEvent(event.CreateUnit{Unit: model.Unit{
		ID:       w.next,
		Player:   player,
		Type:     typeID,
		Pos:      model.At(hex.MapPos{X: x, Y: y}, slot),
		IsAlive:  true,
		Count:    ut.Count,
		Morale:   100,
		Detailed: true,
	}})
	return state.MustUnit(w.st, w.next)
}

func TestFow_Reset(t *testing.T) {
	w := newTestWorld(t)
	w.create(0, "soldier", 0, 0, model.Slot(0))
	f := New(w.rules, w.st, 0)

	assert.Equal(t, Excellent, f.Ground(hex.MapPos{X: 0, Y: 0}))
	assert.Equal(t, Excellent, f.Ground(hex.MapPos{X: 2, Y: 0}))
	assert.Equal(t, Normal, f.Ground(hex.MapPos{X: 3, Y: 0}))
	assert.Equal(t, No, f.Ground(hex.MapPos{X: 4, Y: 0}), "behind the trees")
	assert.Equal(t, No, f.Ground(hex.MapPos{X: 5, Y: 5}), "out of range")
	assert.Equal(t, Excellent, f.Ground(hex.MapPos{X: 9, Y: 9}), "own reinforcement sector")
	assert.Equal(t, No, f.Ground(hex.MapPos{X: 9, Y: 0}), "enemy reinforcement sector")
	assert.True(t, f.IsGroundTileVisible(hex.MapPos{X: 1, Y: 1}))
	assert.Equal(t, model.PlayerID(0), f.Player())
}

func TestFow_InfantryHidesInTrees(t *testing.T) {
	w := newTestWorld(t)
	w.create(0, "soldier", 0, 0, model.Slot(0))
	squad := w.create(1, "soldier", 3, 0, model.Slot(0))
	jeep := w.create(1, "jeep", 3, 0, model.Slot(1))
	f := New(w.rules, w.st, 0)

	assert.False(t, f.IsVisible(squad))
	assert.True(t, f.IsVisible(jeep))

	open := model.At(hex.MapPos{X: 2, Y: 1}, model.Slot(0))
	assert.True(t, f.IsVisibleAt(squad, open))
}

func TestFow_CoverRangeSeesInfantry(t *testing.T) {
	w := newTestWorld(t)
	w.create(0, "scout", 1, 0, model.Slot(0))
	squad := w.create(1, "soldier", 3, 0, model.Slot(0))
	f := New(w.rules, w.st, 0)

	assert.Equal(t, Excellent, f.Ground(hex.MapPos{X: 3, Y: 0}))
	assert.True(t, f.IsVisible(squad))
}

func TestFow_PassengerIsNeverVisible(t *testing.T) {
	w := newTestWorld(t)
	w.create(0, "soldier", 0, 0, model.Slot(0))
	truck := w.create(1, "truck", 2, 0, model.Slot(0))
	passenger := w.create(1, "soldier", 2, 1, model.Slot(0))
	w.st.ApplyEvent(event.LoadUnit{TransporterID: truck.ID, PassengerID: passenger.ID, From: passenger.Pos, To: truck.Pos})
	f := New(w.rules, w.st, 0)

	assert.True(t, f.IsVisible(truck))
	assert.False(t, f.IsVisible(passenger))
	assert.True(t, f.IsVisibleAt(passenger, passenger.Pos), "the tile itself is visible")
}

func TestFow_AirUnitIgnoresTerrain(t *testing.T) {
	w := newTestWorld(t)
	w.create(0, "soldier", 0, 0, model.Slot(0))
	heli := w.create(1, "helicopter", 4, 0, model.Air())
	f := New(w.rules, w.st, 0)

	assert.Equal(t, No, f.Ground(hex.MapPos{X: 4, Y: 0}))
	assert.True(t, f.IsVisible(heli))
}

func TestFow_OpenAttackRevealsAttacker(t *testing.T) {
	w := newTestWorld(t)
	mine := w.create(0, "soldier", 0, 0, model.Slot(0))
	sniper := w.create(1, "soldier", 5, 5, model.Slot(0))
	f := New(w.rules, w.st, 0)
	require.False(t, f.IsVisible(sniper))

	f.Apply(w.st, event.AttackUnit{AttackerID: sniper.ID, DefenderID: mine.ID, IsAmbush: true})
	assert.False(t, f.IsVisible(sniper))

	f.Apply(w.st, event.AttackUnit{AttackerID: sniper.ID, DefenderID: mine.ID})
	assert.True(t, f.IsVisible(sniper))

	f.Apply(w.st, event.EndTurn{OldID: 1, NewID: 0})
	assert.False(t, f.IsVisible(sniper))
}

func TestFow_MoveExtendsSight(t *testing.T) {
	w := newTestWorld(t)
	scout := w.create(0, "scout", 0, 5, model.Slot(0))
	f := New(w.rules, w.st, 0)
	far := hex.MapPos{X: 9, Y: 5}
	require.Equal(t, No, f.Ground(far))

	to := model.At(hex.MapPos{X: 1, Y: 5}, model.Slot(0))
	w.st.ApplyEvent(event.EndTurn{OldID: 1, NewID: 0})
	w.st.ApplyEvent(event.Move{UnitID: scout.ID, From: scout.Pos, To: to, Cost: 4})
	f.Apply(w.st, event.Move{UnitID: scout.ID, From: scout.Pos, To: to, Cost: 4})
	assert.Equal(t, Excellent, f.Ground(far))
}

func TestFow_UnknownEventPanics(t *testing.T) {
	w := newTestWorld(t)
	f := New(w.rules, w.st, 0)
	assert.Panics(t, func() { f.Apply(w.st, nil) })
}

func TestView(t *testing.T) {
	w := newTestWorld(t)
	mine := w.create(0, "soldier", 0, 0, model.Slot(0))
	hidden := w.create(1, "soldier", 3, 0, model.Slot(0))
	seen := w.create(1, "jeep", 2, 1, model.Slot(0))
	v := NewView(w.st, New(w.rules, w.st, 0))

	var ids []model.UnitID
	for u := range v.Units() {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []model.UnitID{mine.ID, seen.ID}, ids)

	_, ok := v.Unit(hidden.ID)
	assert.False(t, ok)
	assert.Empty(t, slices.Collect(v.UnitsAt(hex.MapPos{X: 3, Y: 0})))
	assert.Equal(t, w.st.ReinforcementPoints(1), v.ReinforcementPoints(1))
	assert.Equal(t, 2, v.PlayersCount())
}
