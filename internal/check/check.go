package check

import (
	"fmt"

	"github.com/hexfront/engine/internal/command"
	"github.com/hexfront/engine/internal/fov"
	"github.com/hexfront/engine/internal/hex"
	"github.com/hexfront/engine/internal/model"
	"github.com/hexfront/engine/internal/pathfinder"
	"github.com/hexfront/engine/internal/rules"
	"github.com/hexfront/engine/internal/state"
)

// MinimalMorale is the morale a unit needs to open fire.
const MinimalMorale = 50

// Command reports the first rule cmd breaks when issued by player against
// st, or nil. It never modifies st.
func Command(c *rules.Catalog, player model.PlayerID, st state.GameState, cmd command.Command) error {
	switch cmd := cmd.(type) {
	case command.EndTurn:
		return nil
	case command.CreateUnit:
		return checkCreateUnit(c, player, st, cmd)
	case command.Move:
		return checkMove(c, player, st, cmd)
	case command.Attack:
		return checkAttackCommand(c, player, st, cmd)
	case command.LoadUnit:
		return checkLoadUnit(c, player, st, cmd)
	case command.UnloadUnit:
		return checkUnloadUnit(c, player, st, cmd)
	case command.Attach:
		return checkAttach(c, player, st, cmd)
	case command.Detach:
		return checkDetach(c, player, st, cmd)
	case command.SetReactionFireMode:
		u, ok := st.Unit(cmd.UnitID)
		if !ok {
			return ErrBadUnitID
		}
		if !u.IsAlive {
			return ErrUnitIsDead
		}
		if u.Player != player {
			return ErrCanNotCommandEnemyUnits
		}
		return nil
	case command.Smoke:
		return checkSmoke(c, player, st, cmd)
	}
	panic(fmt.Sprintf("check: unknown command %T", cmd))
}

func checkCreateUnit(c *rules.Catalog, player model.PlayerID, st state.GameState, cmd command.CreateUnit) error {
	if !c.HasUnitType(cmd.Type) {
		return ErrBadUnitType
	}
	if !st.Map().InBoard(cmd.Pos.MapPos) {
		return ErrOffMap
	}
	inSector := false
	for o := range st.ObjectsAt(cmd.Pos.MapPos) {
		if o.Class == model.ReinforcementSector && o.Owner == player {
			inSector = true
			break
		}
	}
	if !inSector {
		return ErrNotInReinforcementSector
	}
	if st.ReinforcementPoints(player) < c.UnitType(cmd.Type).Cost {
		return ErrNotEnoughReinforcementPoints
	}
	if !state.IsExactPosFree(c, st, cmd.Type, cmd.Pos) {
		return ErrTileIsOccupied
	}
	return nil
}

func checkMove(c *rules.Catalog, player model.PlayerID, st state.GameState, cmd command.Move) error {
	u, ok := st.Unit(cmd.UnitID)
	if !ok {
		return ErrBadUnitID
	}
	if !u.IsAlive {
		return ErrUnitIsDead
	}
	if u.Player != player {
		return ErrCanNotCommandEnemyUnits
	}
	if u.IsCarried() {
		return ErrUnitIsCarried
	}
	if len(cmd.Path) < 2 || cmd.Path[0] != u.Pos {
		return ErrBadPath
	}
	for i := 1; i < len(cmd.Path); i++ {
		prev, next := cmd.Path[i-1], cmd.Path[i]
		if hex.Distance(prev.MapPos, next.MapPos) != 1 {
			return ErrBadPath
		}
		if !state.IsExactPosFree(c, st, u.Type, next) {
			return ErrBadPath
		}
	}
	cost := pathfinder.PathCost(c, st, u, cmd.Path) * pathfinder.MoveCostModifier(cmd.Mode)
	if cost > u.MovePoints {
		return ErrNotEnoughMovePoints
	}
	return nil
}

func checkAttackCommand(c *rules.Catalog, player model.PlayerID, st state.GameState, cmd command.Attack) error {
	attacker, ok := st.Unit(cmd.AttackerID)
	if !ok {
		return ErrBadAttackerID
	}
	defender, ok := st.Unit(cmd.DefenderID)
	if !ok {
		return ErrBadDefenderID
	}
	if !attacker.IsAlive {
		return ErrUnitIsDead
	}
	if attacker.Player != player {
		return ErrCanNotCommandEnemyUnits
	}
	if !defender.IsAlive {
		return ErrUnitIsDead
	}
	return Attack(c, st, attacker, defender, model.Active)
}

// Attack checks whether attacker can shoot at defender in the given fire
// mode.
func Attack(c *rules.Catalog, st state.GameState, attacker, defender *model.Unit, mode model.FireMode) error {
	if !attacker.IsAlive || !defender.IsAlive {
		return ErrUnitIsDead
	}
	switch mode {
	case model.Active:
		if attacker.AttackPoints <= 0 {
			return ErrNotEnoughAttackPoints
		}
	case model.Reactive:
		if attacker.ReactiveAttackPoints <= 0 {
			return ErrNotEnoughReactiveAttackPoints
		}
	}
	if attacker.Morale < MinimalMorale {
		return ErrBadMorale
	}
	attackerType := c.UnitType(attacker.Type)
	defenderType := c.UnitType(defender.Type)
	weapon := c.WeaponType(attackerType.Weapon)
	distance := hex.Distance(attacker.Pos.MapPos, defender.Pos.MapPos)
	if defenderType.IsAir {
		airRange, ok := weapon.AirRange()
		if !ok || distance > airRange {
			return ErrOutOfRange
		}
	} else {
		if distance > weapon.MaxDistance {
			return ErrOutOfRange
		}
		if distance < weapon.MinDistance {
			return ErrTooClose
		}
	}
	if !weapon.IsIndirect && !Los(c, st, attacker, defender) {
		return ErrNoLos
	}
	return nil
}

// Los reports whether attacker can see the defender's tile within its line
// of sight range.
func Los(c *rules.Catalog, st state.GameState, attacker, defender *model.Unit) bool {
	attackerType := c.UnitType(attacker.Type)
	sweep := fov.Sweep
	if attackerType.IsAir || c.UnitType(defender.Type).IsAir {
		sweep = fov.Simple
	}
	target := defender.Pos.MapPos
	found := false
	sweep(st, attacker.Pos.MapPos, attackerType.LosRange, func(pos hex.MapPos) {
		if pos == target {
			found = true
		}
	})
	return found
}

func checkLoadUnit(c *rules.Catalog, player model.PlayerID, st state.GameState, cmd command.LoadUnit) error {
	transporter, ok := st.Unit(cmd.TransporterID)
	if !ok {
		return ErrBadTransporterID
	}
	passenger, ok := st.Unit(cmd.PassengerID)
	if !ok || passenger.ID == transporter.ID {
		return ErrBadPassengerID
	}
	if !passenger.IsAlive || !transporter.IsAlive {
		return ErrUnitIsDead
	}
	if passenger.Player != player || transporter.Player != player {
		return ErrCanNotCommandEnemyUnits
	}
	if !c.UnitType(transporter.Type).IsTransporter {
		return ErrBadTransporterClass
	}
	if !c.UnitType(passenger.Type).IsInfantry || passenger.IsCarried() {
		return ErrBadPassengerClass
	}
	if transporter.PassengerID != 0 {
		return ErrTransporterIsNotEmpty
	}
	if hex.Distance(transporter.Pos.MapPos, passenger.Pos.MapPos) > 1 {
		return ErrTransporterIsTooFarAway
	}
	if passenger.MovePoints == 0 {
		return ErrPassengerHasNotEnoughMovePoints
	}
	return nil
}

func checkUnloadUnit(c *rules.Catalog, player model.PlayerID, st state.GameState, cmd command.UnloadUnit) error {
	transporter, ok := st.Unit(cmd.TransporterID)
	if !ok {
		return ErrBadTransporterID
	}
	passenger, ok := st.Unit(cmd.PassengerID)
	if !ok {
		return ErrBadPassengerID
	}
	if !passenger.IsAlive || !transporter.IsAlive {
		return ErrUnitIsDead
	}
	if passenger.Player != player || transporter.Player != player {
		return ErrCanNotCommandEnemyUnits
	}
	if !c.UnitType(transporter.Type).IsTransporter {
		return ErrBadTransporterClass
	}
	if !c.UnitType(passenger.Type).IsInfantry {
		return ErrBadPassengerClass
	}
	if !st.Map().InBoard(cmd.Pos.MapPos) {
		return ErrOffMap
	}
	if hex.Distance(transporter.Pos.MapPos, cmd.Pos.MapPos) > 1 {
		return ErrUnloadDistanceIsTooBig
	}
	if transporter.PassengerID == 0 {
		return ErrTransporterIsEmpty
	}
	if transporter.PassengerID != passenger.ID {
		return ErrBadPassengerID
	}
	if !state.IsExactPosFree(c, st, passenger.Type, cmd.Pos) {
		return ErrDestinationTileIsNotEmpty
	}
	cost := pathfinder.TileCost(c, st, passenger, transporter.Pos, cmd.Pos)
	if cost > c.UnitType(passenger.Type).MovePoints {
		return ErrNotEnoughMovePoints
	}
	return nil
}

func checkAttach(c *rules.Catalog, player model.PlayerID, st state.GameState, cmd command.Attach) error {
	transporter, ok := st.Unit(cmd.TransporterID)
	if !ok {
		return ErrBadTransporterID
	}
	attached, ok := st.Unit(cmd.AttachedUnitID)
	if !ok || attached.ID == transporter.ID {
		return ErrBadAttachedUnitID
	}
	if !transporter.IsAlive || !attached.IsAlive {
		return ErrUnitIsDead
	}
	if transporter.Player != player || attached.Player != player {
		return ErrCanNotCommandEnemyUnits
	}
	transporterType := c.UnitType(transporter.Type)
	if transporterType.IsInfantry || transporterType.IsAir || transporterType.IsBig || transporter.IsCarried() {
		return ErrBadTransporterClass
	}
	if !c.UnitType(attached.Type).CanBeTowed {
		return ErrBadAttachedUnitClass
	}
	if transporter.AttachedUnitID != 0 {
		return ErrTransporterIsAttached
	}
	if attached.IsCarried() || attached.AttachedUnitID != 0 || attached.PassengerID != 0 {
		return ErrBadAttachedUnitClass
	}
	if hex.Distance(transporter.Pos.MapPos, attached.Pos.MapPos) > 1 {
		return ErrAttachedUnitIsTooFarAway
	}
	if transporter.MovePoints <= 0 {
		return ErrNotEnoughMovePoints
	}
	return nil
}

func checkDetach(c *rules.Catalog, player model.PlayerID, st state.GameState, cmd command.Detach) error {
	transporter, ok := st.Unit(cmd.TransporterID)
	if !ok {
		return ErrBadTransporterID
	}
	if !transporter.IsAlive {
		return ErrUnitIsDead
	}
	if transporter.Player != player {
		return ErrCanNotCommandEnemyUnits
	}
	if transporter.AttachedUnitID == 0 {
		return ErrTransporterIsNotAttached
	}
	if !st.Map().InBoard(cmd.Pos.MapPos) {
		return ErrOffMap
	}
	if hex.Distance(transporter.Pos.MapPos, cmd.Pos.MapPos) != 1 {
		return ErrUnloadDistanceIsTooBig
	}
	if !state.IsExactPosFree(c, st, transporter.Type, cmd.Pos) {
		return ErrDestinationTileIsNotEmpty
	}
	return nil
}

func checkSmoke(c *rules.Catalog, player model.PlayerID, st state.GameState, cmd command.Smoke) error {
	u, ok := st.Unit(cmd.UnitID)
	if !ok {
		return ErrBadUnitID
	}
	if !u.IsAlive {
		return ErrUnitIsDead
	}
	if u.Player != player {
		return ErrCanNotCommandEnemyUnits
	}
	ut := c.UnitType(u.Type)
	weapon := c.WeaponType(ut.Weapon)
	if _, ok := weapon.SmokeClouds(); !ok {
		return ErrBadUnitType
	}
	if !st.Map().InBoard(cmd.Pos) {
		return ErrOffMap
	}
	if hex.Distance(u.Pos.MapPos, cmd.Pos) > weapon.MaxDistance {
		return ErrOutOfRange
	}
	if u.AttackPoints != ut.AttackPoints {
		return ErrNotEnoughAttackPoints
	}
	return nil
}
