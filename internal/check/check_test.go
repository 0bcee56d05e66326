package check

import (
	"errors"
	"testing"

	"github.com/hexfront/engine/internal/command"
	"github.com/hexfront/engine/internal/event"
	"github.com/hexfront/engine/internal/hex"
	"github.com/hexfront/engine/internal/model"
	"github.com/hexfront/engine/internal/rules"
	"github.com/hexfront/engine/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	soldierID model.UnitID = iota + 1
	enemySoldierID
	scoutID
	flankerID
	enemyJeepID
	truckID
	mortarID
	enemyHeliID
	jeepID
	fieldGunID
)

func at(x, y int, slot model.SlotID) model.ExactPos {
	return model.At(hex.MapPos{X: x, Y: y}, slot)
}

type testGame struct {
	rules *rules.Catalog
	st    *state.Full
}

func newTestGame(t *testing.T) *testGame {
	t.Helper()
	terrain := hex.NewGrid[model.Terrain](hex.Size{W: 10, H: 10})
	terrain.Set(hex.MapPos{X: 2, Y: 5}, model.Trees)
	layout := model.Layout{
		Terrain: terrain,
		Objects: []model.Object{
			{ID: 1, Class: model.ReinforcementSector, Pos: at(0, 0, model.WholeTile()), Owner: 0},
			{ID: 2, Class: model.ReinforcementSector, Pos: at(9, 9, model.WholeTile()), Owner: 1},
		},
	}
	g := &testGame{rules: rules.Default()}
	g.st = state.NewFull(g.rules, layout, 2)
	for range 2 {
		g.st.ApplyEvent(event.EndTurn{OldID: 0, NewID: 1})
		g.st.ApplyEvent(event.EndTurn{OldID: 1, NewID: 0})
	}
	g.create(soldierID, 0, "soldier", at(1, 1, model.Slot(0)))
	g.create(enemySoldierID, 1, "soldier", at(3, 1, model.Slot(0)))
	g.create(scoutID, 0, "scout", at(0, 0, model.Slot(1)))
	g.create(flankerID, 0, "soldier", at(1, 5, model.Slot(0)))
	g.create(enemyJeepID, 1, "jeep", at(3, 5, model.Slot(0)))
	g.create(truckID, 0, "truck", at(1, 2, model.Slot(0)))
	g.create(mortarID, 0, "mortar", at(0, 5, model.Slot(0)))
	g.create(enemyHeliID, 1, "helicopter", at(1, 4, model.Air()))
	g.create(jeepID, 0, "jeep", at(4, 7, model.Slot(0)))
	g.create(fieldGunID, 0, "field_gun", at(5, 7, model.Slot(0)))
	return g
}

func (g *testGame) create(id model.UnitID, player model.PlayerID, typeName string, pos model.ExactPos) {
	typeID := g.rules.UnitTypeID(typeName)
	ut := g.rules.UnitType(typeID)
	g.st.ApplyEvent(event.CreateUnit{Unit: model.Unit{
		ID:                   id,
		Player:               player,
		Type:                 typeID,
		Pos:                  pos,
		IsAlive:              true,
		Count:                ut.Count,
		Morale:               100,
		Detailed:             true,
		MovePoints:           ut.MovePoints,
		AttackPoints:         ut.AttackPoints,
		ReactiveAttackPoints: ut.ReactiveAttackPoints,
	}})
}

func (g *testGame) check(cmd command.Command) error {
	return Command(g.rules, 0, g.st, cmd)
}

func TestCommand_EndTurn(t *testing.T) {
	g := newTestGame(t)
	assert.NoError(t, g.check(command.EndTurn{}))
}

func TestCommand_CreateUnit(t *testing.T) {
	g := newTestGame(t)
	soldier := g.rules.UnitTypeID("soldier")
	tests := []struct {
		name string
		cmd  command.CreateUnit
		want error
	}{
		{"ok", command.CreateUnit{Pos: at(0, 0, model.Slot(0)), Type: soldier}, nil},
		{"bad type", command.CreateUnit{Pos: at(0, 0, model.Slot(0)), Type: 999}, ErrBadUnitType},
		{"off map", command.CreateUnit{Pos: at(10, 0, model.Slot(0)), Type: soldier}, ErrOffMap},
		{"no sector", command.CreateUnit{Pos: at(2, 2, model.Slot(0)), Type: soldier}, ErrNotInReinforcementSector},
		{"enemy sector", command.CreateUnit{Pos: at(9, 9, model.Slot(0)), Type: soldier}, ErrNotInReinforcementSector},
		{"too expensive", command.CreateUnit{Pos: at(0, 0, model.WholeTile()), Type: g.rules.UnitTypeID("mammoth_tank")}, ErrNotEnoughReinforcementPoints},
		{"occupied", command.CreateUnit{Pos: at(0, 0, model.Slot(1)), Type: soldier}, ErrTileIsOccupied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, g.check(tt.cmd), tt.want)
		})
	}
}

func TestCommand_Move(t *testing.T) {
	g := newTestGame(t)
	start := at(1, 1, model.Slot(0))
	tests := []struct {
		name string
		cmd  command.Move
		want error
	}{
		{"ok", command.Move{UnitID: soldierID, Path: []model.ExactPos{start, at(2, 1, model.Slot(0))}}, nil},
		{"two steps", command.Move{UnitID: soldierID, Path: []model.ExactPos{start, at(2, 1, model.Slot(0)), at(2, 2, model.Slot(0))}}, nil},
		{"hunt doubles cost", command.Move{UnitID: soldierID, Mode: model.Hunt, Path: []model.ExactPos{start, at(2, 1, model.Slot(0)), at(2, 2, model.Slot(0))}}, ErrNotEnoughMovePoints},
		{"bad id", command.Move{UnitID: 100, Path: []model.ExactPos{start, at(2, 1, model.Slot(0))}}, ErrBadUnitID},
		{"enemy unit", command.Move{UnitID: enemySoldierID, Path: []model.ExactPos{at(3, 1, model.Slot(0)), at(4, 1, model.Slot(0))}}, ErrCanNotCommandEnemyUnits},
		{"too short", command.Move{UnitID: soldierID, Path: []model.ExactPos{start}}, ErrBadPath},
		{"wrong start", command.Move{UnitID: soldierID, Path: []model.ExactPos{at(2, 1, model.Slot(0)), at(3, 1, model.Slot(1))}}, ErrBadPath},
		{"jump", command.Move{UnitID: soldierID, Path: []model.ExactPos{start, at(3, 1, model.Slot(1))}}, ErrBadPath},
		{"occupied", command.Move{UnitID: soldierID, Path: []model.ExactPos{start, at(2, 1, model.Slot(0)), at(3, 1, model.Slot(0))}}, ErrBadPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, g.check(tt.cmd), tt.want)
		})
	}
}

func TestCommand_Attack(t *testing.T) {
	g := newTestGame(t)
	tests := []struct {
		name string
		cmd  command.Attack
		want error
	}{
		{"ok", command.Attack{AttackerID: soldierID, DefenderID: enemySoldierID}, nil},
		{"bad attacker", command.Attack{AttackerID: 100, DefenderID: enemySoldierID}, ErrBadAttackerID},
		{"bad defender", command.Attack{AttackerID: soldierID, DefenderID: 100}, ErrBadDefenderID},
		{"enemy attacker", command.Attack{AttackerID: enemySoldierID, DefenderID: soldierID}, ErrCanNotCommandEnemyUnits},
		{"no line of sight", command.Attack{AttackerID: flankerID, DefenderID: enemyJeepID}, ErrNoLos},
		{"indirect fire ignores sight", command.Attack{AttackerID: mortarID, DefenderID: enemyJeepID}, nil},
		{"air target too far", command.Attack{AttackerID: soldierID, DefenderID: enemyHeliID}, ErrOutOfRange},
		{"ground target too far", command.Attack{AttackerID: soldierID, DefenderID: enemyJeepID}, ErrOutOfRange},
		{"mortar can't hit air", command.Attack{AttackerID: mortarID, DefenderID: enemyHeliID}, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, g.check(tt.cmd), tt.want)
		})
	}
}

func TestAttack_PointsAndMorale(t *testing.T) {
	g := newTestGame(t)
	attacker := *state.MustUnit(g.st, soldierID)
	defender := state.MustUnit(g.st, enemySoldierID)

	assert.NoError(t, Attack(g.rules, g.st, &attacker, defender, model.Reactive))

	attacker.Morale = MinimalMorale - 1
	assert.ErrorIs(t, Attack(g.rules, g.st, &attacker, defender, model.Active), ErrBadMorale)

	attacker.Morale = 100
	attacker.AttackPoints = 0
	assert.ErrorIs(t, Attack(g.rules, g.st, &attacker, defender, model.Active), ErrNotEnoughAttackPoints)

	attacker.ReactiveAttackPoints = 0
	assert.ErrorIs(t, Attack(g.rules, g.st, &attacker, defender, model.Reactive), ErrNotEnoughReactiveAttackPoints)

	attacker.IsAlive = false
	assert.ErrorIs(t, Attack(g.rules, g.st, &attacker, defender, model.Reactive), ErrUnitIsDead)
}

func TestAttack_TooClose(t *testing.T) {
	g := newTestGame(t)
	mortar := *state.MustUnit(g.st, mortarID)
	mortar.Pos = at(3, 5, model.Slot(1))
	assert.ErrorIs(t, Attack(g.rules, g.st, &mortar, state.MustUnit(g.st, enemyJeepID), model.Active), ErrTooClose)
}

func TestCommand_LoadUnit(t *testing.T) {
	g := newTestGame(t)
	tests := []struct {
		name string
		cmd  command.LoadUnit
		want error
	}{
		{"ok", command.LoadUnit{TransporterID: truckID, PassengerID: soldierID}, nil},
		{"bad transporter", command.LoadUnit{TransporterID: 100, PassengerID: soldierID}, ErrBadTransporterID},
		{"bad passenger", command.LoadUnit{TransporterID: truckID, PassengerID: 100}, ErrBadPassengerID},
		{"enemy passenger", command.LoadUnit{TransporterID: truckID, PassengerID: enemySoldierID}, ErrCanNotCommandEnemyUnits},
		{"not a transporter", command.LoadUnit{TransporterID: jeepID, PassengerID: soldierID}, ErrBadTransporterClass},
		{"not infantry", command.LoadUnit{TransporterID: truckID, PassengerID: jeepID}, ErrBadPassengerClass},
		{"too far", command.LoadUnit{TransporterID: truckID, PassengerID: flankerID}, ErrTransporterIsTooFarAway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, g.check(tt.cmd), tt.want)
		})
	}
}

func TestCommand_LoadUnitTired(t *testing.T) {
	g := newTestGame(t)
	g.st.ApplyEvent(event.Move{UnitID: soldierID, From: at(1, 1, model.Slot(0)), To: at(2, 1, model.Slot(0)), Cost: 9})
	assert.ErrorIs(t, g.check(command.LoadUnit{TransporterID: truckID, PassengerID: soldierID}), ErrPassengerHasNotEnoughMovePoints)
}

func TestCommand_UnloadUnit(t *testing.T) {
	g := newTestGame(t)
	unload := command.UnloadUnit{TransporterID: truckID, PassengerID: soldierID, Pos: at(2, 2, model.Slot(0))}
	assert.ErrorIs(t, g.check(unload), ErrTransporterIsEmpty)

	g.st.ApplyEvent(event.LoadUnit{TransporterID: truckID, PassengerID: soldierID, From: at(1, 1, model.Slot(0)), To: at(1, 2, model.Slot(0))})
	assert.ErrorIs(t, g.check(command.LoadUnit{TransporterID: truckID, PassengerID: scoutID}), ErrTransporterIsNotEmpty)

	tests := []struct {
		name string
		cmd  command.UnloadUnit
		want error
	}{
		{"ok", unload, nil},
		{"too far", command.UnloadUnit{TransporterID: truckID, PassengerID: soldierID, Pos: at(3, 3, model.Slot(0))}, ErrUnloadDistanceIsTooBig},
		{"off map", command.UnloadUnit{TransporterID: truckID, PassengerID: soldierID, Pos: at(-1, 2, model.Slot(0))}, ErrOffMap},
		{"occupied", command.UnloadUnit{TransporterID: truckID, PassengerID: soldierID, Pos: at(1, 2, model.Slot(0))}, ErrDestinationTileIsNotEmpty},
		{"someone else", command.UnloadUnit{TransporterID: truckID, PassengerID: scoutID, Pos: at(2, 2, model.Slot(0))}, ErrBadPassengerID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, g.check(tt.cmd), tt.want)
		})
	}

	moved := command.Move{UnitID: soldierID, Path: []model.ExactPos{at(1, 2, model.Slot(0)), at(2, 2, model.Slot(0))}}
	assert.ErrorIs(t, g.check(moved), ErrUnitIsCarried)
}

func TestCommand_AttachDetach(t *testing.T) {
	g := newTestGame(t)
	tests := []struct {
		name string
		cmd  command.Attach
		want error
	}{
		{"ok", command.Attach{TransporterID: jeepID, AttachedUnitID: fieldGunID}, nil},
		{"bad transporter", command.Attach{TransporterID: 100, AttachedUnitID: fieldGunID}, ErrBadTransporterID},
		{"bad attached", command.Attach{TransporterID: jeepID, AttachedUnitID: jeepID}, ErrBadAttachedUnitID},
		{"infantry can't tow", command.Attach{TransporterID: soldierID, AttachedUnitID: fieldGunID}, ErrBadTransporterClass},
		{"not towable", command.Attach{TransporterID: jeepID, AttachedUnitID: flankerID}, ErrBadAttachedUnitClass},
		{"too far", command.Attach{TransporterID: jeepID, AttachedUnitID: truckID}, ErrAttachedUnitIsTooFarAway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, g.check(tt.cmd), tt.want)
		})
	}

	detach := command.Detach{TransporterID: jeepID, Pos: at(6, 7, model.Slot(0))}
	assert.ErrorIs(t, g.check(detach), ErrTransporterIsNotAttached)

	g.st.ApplyEvent(event.Attach{TransporterID: jeepID, AttachedUnitID: fieldGunID, From: at(4, 7, model.Slot(0)), To: at(5, 7, model.Slot(0))})
	assert.ErrorIs(t, g.check(command.Attach{TransporterID: jeepID, AttachedUnitID: truckID}), ErrTransporterIsAttached)
	assert.NoError(t, g.check(detach))
	assert.ErrorIs(t, g.check(command.Detach{TransporterID: jeepID, Pos: at(5, 7, model.Slot(1))}), ErrUnloadDistanceIsTooBig)
	assert.ErrorIs(t, g.check(command.Detach{TransporterID: jeepID, Pos: at(5, 10, model.Slot(0))}), ErrOffMap)
	assert.ErrorIs(t, g.check(command.Move{UnitID: fieldGunID, Path: []model.ExactPos{at(5, 7, model.Slot(0)), at(6, 7, model.Slot(0))}}), ErrUnitIsCarried)
}

func TestCommand_Smoke(t *testing.T) {
	g := newTestGame(t)
	assert.NoError(t, g.check(command.Smoke{UnitID: mortarID, Pos: hex.MapPos{X: 3, Y: 5}}))
	assert.ErrorIs(t, g.check(command.Smoke{UnitID: soldierID, Pos: hex.MapPos{X: 3, Y: 1}}), ErrBadUnitType)
	assert.ErrorIs(t, g.check(command.Smoke{UnitID: mortarID, Pos: hex.MapPos{X: 9, Y: 5}}), ErrOutOfRange)
	assert.ErrorIs(t, g.check(command.Smoke{UnitID: mortarID, Pos: hex.MapPos{X: -3, Y: 5}}), ErrOffMap)

	g.st.ApplyEvent(event.AttackUnit{AttackerID: mortarID, DefenderID: enemyJeepID, Mode: model.Active})
	assert.ErrorIs(t, g.check(command.Smoke{UnitID: mortarID, Pos: hex.MapPos{X: 3, Y: 5}}), ErrNotEnoughAttackPoints)
}

func TestCommand_SetReactionFireMode(t *testing.T) {
	g := newTestGame(t)
	assert.NoError(t, g.check(command.SetReactionFireMode{UnitID: soldierID, Mode: model.HoldFire}))
	assert.ErrorIs(t, g.check(command.SetReactionFireMode{UnitID: enemySoldierID}), ErrCanNotCommandEnemyUnits)
	assert.ErrorIs(t, g.check(command.SetReactionFireMode{UnitID: 100}), ErrBadUnitID)
}

func TestCommand_DoesNotMutate(t *testing.T) {
	g := newTestGame(t)
	before := state.Capture(g.st)
	commands := []command.Command{
		command.EndTurn{},
		command.CreateUnit{Pos: at(0, 0, model.Slot(0)), Type: g.rules.UnitTypeID("soldier")},
		command.Move{UnitID: soldierID, Path: []model.ExactPos{at(1, 1, model.Slot(0)), at(2, 1, model.Slot(0))}},
		command.Attack{AttackerID: soldierID, DefenderID: enemySoldierID},
		command.LoadUnit{TransporterID: truckID, PassengerID: soldierID},
		command.Attach{TransporterID: jeepID, AttachedUnitID: fieldGunID},
		command.Smoke{UnitID: mortarID, Pos: hex.MapPos{X: 3, Y: 5}},
		command.SetReactionFireMode{UnitID: soldierID, Mode: model.HoldFire},
	}
	for _, cmd := range commands {
		require.NoError(t, g.check(cmd), cmd.Kind())
	}
	assert.Equal(t, before, state.Capture(g.st))
}

func TestCommand_ErrorsAreSentinels(t *testing.T) {
	g := newTestGame(t)
	err := g.check(command.Move{UnitID: 100})
	assert.True(t, errors.Is(err, ErrBadUnitID))
	assert.Equal(t, "bad unit id", err.Error())
}
