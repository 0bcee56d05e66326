package engine

import (
	"fmt"
	"maps"

	"github.com/hexfront/engine/internal/combat"
	"github.com/hexfront/engine/internal/command"
	"github.com/hexfront/engine/internal/dispatcher"
	"github.com/hexfront/engine/internal/event"
	"github.com/hexfront/engine/internal/hex"
	"github.com/hexfront/engine/internal/model"
	"github.com/hexfront/engine/internal/pathfinder"
	"github.com/hexfront/engine/internal/state"
)

func (c *Core) registerHandlers() error {
	d, err := dispatcher.New(c.cmdLog)
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}
	handlers := map[string]dispatcher.HandlerFunc{
		command.KindEndTurn:             c.handleEndTurn,
		command.KindCreateUnit:          c.handleCreateUnit,
		command.KindMove:                c.handleMove,
		command.KindAttack:              c.handleAttack,
		command.KindLoadUnit:            c.handleLoadUnit,
		command.KindUnloadUnit:          c.handleUnloadUnit,
		command.KindAttach:              c.handleAttach,
		command.KindDetach:              c.handleDetach,
		command.KindSetReactionFireMode: c.handleSetReactionFireMode,
		command.KindSmoke:               c.handleSmoke,
	}
	for _, kind := range command.Kinds {
		h, ok := handlers[kind]
		if !ok {
			panic(fmt.Sprintf("engine: no handler for %s", kind))
		}
		d.Register(kind, h, dispatcher.Guarded(c.Check), dispatcher.Logged())
	}
	c.dispatcher = d
	return nil
}

// HasHandler reports whether commands of kind are accepted.
func (c *Core) HasHandler(kind string) bool {
	return c.dispatcher.HasHandler(kind)
}

func (c *Core) nextPlayer() model.PlayerID {
	return model.PlayerID((int(c.current) + 1) % len(c.players))
}

func (c *Core) handleEndTurn(command.Command) error {
	old, next := c.current, c.nextPlayer()
	var events []event.Event
	for s := range c.state.Sectors() {
		if s.Owner == next {
			events = append(events, event.VictoryPoint{Player: next, Pos: s.Center(), Count: 1})
		}
	}
	for o := range c.state.Objects() {
		if o.Timed && o.Timer <= 0 {
			events = append(events, event.RemoveSmoke{ID: o.ID})
		}
	}
	for _, ev := range events {
		c.apply(ev)
	}
	c.apply(event.EndTurn{OldID: old, NewID: next})
	c.current = next
	if next == 0 {
		c.turn++
	}
	c.log.Debug("turn passed", "from", old, "to", next, "turn", c.turn)
	return nil
}

func (c *Core) handleCreateUnit(cmd command.Command) error {
	create := cmd.(command.CreateUnit)
	ut := c.rules.UnitType(create.Type)
	c.apply(event.CreateUnit{Unit: model.Unit{
		ID:               c.unitIDs.Next(),
		Player:           c.current,
		Type:             create.Type,
		Pos:              create.Pos,
		IsAlive:          true,
		Count:            ut.Count,
		Morale:           100,
		Detailed:         true,
		ReactionFireMode: model.Normal,
	}})
	return nil
}

// handleMove walks the path one tile at a time. The walk stops early when
// the next tile holds a hidden unit, when the unit is shot at, or when its
// owner spots or loses sight of an enemy.
func (c *Core) handleMove(cmd command.Command) error {
	move := cmd.(command.Move)
	owner := c.players[state.MustUnit(c.state, move.UnitID).Player]
	for i := 1; i < len(move.Path); i++ {
		from, to := move.Path[i-1], move.Path[i]
		if hidden, ok := state.UnitAt(c.state, to); ok {
			c.apply(event.Reveal{Unit: *hidden})
			break
		}
		u := state.MustUnit(c.state, move.UnitID)
		cost := pathfinder.TileCost(c.rules, c.state, u, from, to) * pathfinder.MoveCostModifier(move.Mode)
		if u.MovePoints <= 0 || cost > u.MovePoints {
			break
		}
		visible := owner.visible
		c.apply(event.Move{
			UnitID: move.UnitID,
			From:   from,
			To:     to,
			Mode:   move.Mode,
			Cost:   cost,
		})
		if c.reactionFire(move.UnitID) != notAttacked {
			break
		}
		if !maps.Equal(visible, owner.visible) {
			break
		}
	}
	return nil
}

func (c *Core) handleAttack(cmd command.Command) error {
	attack := cmd.(command.Attack)
	attacker := state.MustUnit(c.state, attack.AttackerID)
	defender := state.MustUnit(c.state, attack.DefenderID)
	ev, err := c.resolver.Attack(c.state, c.players[defender.Player].fow, attacker, defender, model.Active)
	if err != nil {
		return err
	}
	c.apply(ev)
	c.reactionFire(attack.AttackerID)
	return nil
}

func (c *Core) handleLoadUnit(cmd command.Command) error {
	load := cmd.(command.LoadUnit)
	c.apply(event.LoadUnit{
		TransporterID: load.TransporterID,
		PassengerID:   load.PassengerID,
		From:          state.MustUnit(c.state, load.PassengerID).Pos,
		To:            state.MustUnit(c.state, load.TransporterID).Pos,
	})
	return nil
}

func (c *Core) handleUnloadUnit(cmd command.Command) error {
	unload := cmd.(command.UnloadUnit)
	passenger := *state.MustUnit(c.state, unload.PassengerID)
	passenger.Pos = unload.Pos
	c.apply(event.UnloadUnit{
		Unit:          passenger,
		TransporterID: unload.TransporterID,
		From:          state.MustUnit(c.state, unload.TransporterID).Pos,
		To:            unload.Pos,
	})
	c.reactionFire(unload.PassengerID)
	return nil
}

func (c *Core) handleAttach(cmd command.Command) error {
	attach := cmd.(command.Attach)
	c.apply(event.Attach{
		TransporterID:  attach.TransporterID,
		AttachedUnitID: attach.AttachedUnitID,
		From:           state.MustUnit(c.state, attach.TransporterID).Pos,
		To:             state.MustUnit(c.state, attach.AttachedUnitID).Pos,
	})
	c.reactionFire(attach.TransporterID)
	return nil
}

func (c *Core) handleDetach(cmd command.Command) error {
	detach := cmd.(command.Detach)
	c.apply(event.Detach{
		TransporterID: detach.TransporterID,
		From:          state.MustUnit(c.state, detach.TransporterID).Pos,
		To:            detach.Pos,
	})
	c.reactionFire(detach.TransporterID)
	return nil
}

func (c *Core) handleSetReactionFireMode(cmd command.Command) error {
	set := cmd.(command.SetReactionFireMode)
	c.apply(event.SetReactionFireMode{UnitID: set.UnitID, Mode: set.Mode})
	return nil
}

// handleSmoke lays a cloud on the target and the weapon's extra clouds on
// distinct neighbouring tiles, turning one or two steps around the target
// each time.
func (c *Core) handleSmoke(cmd command.Command) error {
	smoke := cmd.(command.Smoke)
	u := state.MustUnit(c.state, smoke.UnitID)
	extra, _ := c.rules.UnitWeapon(u.Type).SmokeClouds()
	c.apply(event.Smoke{ID: c.objectIDs.Next(), Pos: smoke.Pos, UnitID: smoke.UnitID})
	dir := c.rng.IntN(hex.DirCount - 1)
	for range extra {
		dir = (dir + 1 + c.rng.IntN(2)) % hex.DirCount
		pos := smoke.Pos.Neighbor(hex.DirFromIndex(dir))
		if !c.state.Map().InBoard(pos) {
			continue
		}
		c.apply(event.Smoke{ID: c.objectIDs.Next(), Pos: pos, UnitID: smoke.UnitID})
	}
	c.reactionFire(smoke.UnitID)
	return nil
}

type reaction uint8

const (
	notAttacked reaction = iota
	attacked
	killed
)

// reactionFire gives every enemy unit one chance to shoot at the target,
// in id order. It stops once the target is dead.
func (c *Core) reactionFire(targetID model.UnitID) reaction {
	result := notAttacked
	var ids []model.UnitID
	for u := range c.state.Units() {
		ids = append(ids, u.ID)
	}
	for _, id := range ids {
		target, ok := c.state.Unit(targetID)
		if !ok || !target.IsAlive {
			return killed
		}
		reactor, ok := c.state.Unit(id)
		if !ok || reactor.Player == target.Player {
			continue
		}
		if !combat.CanReact(c.rules, c.state, c.players[reactor.Player].fow, reactor, target) {
			continue
		}
		ev, err := c.resolver.Attack(c.state, c.players[target.Player].fow, reactor, target, model.Reactive)
		if err != nil {
			continue
		}
		c.apply(ev)
		result = attacked
	}
	if target, ok := c.state.Unit(targetID); !ok || !target.IsAlive {
		return killed
	}
	return result
}
