// Package ai is a greedy computer opponent. It knows the match only through
// its player's filtered event stream and answers with one command at a time.
package ai

import (
	"github.com/hexfront/engine/internal/check"
	"github.com/hexfront/engine/internal/command"
	"github.com/hexfront/engine/internal/event"
	"github.com/hexfront/engine/internal/hex"
	"github.com/hexfront/engine/internal/model"
	"github.com/hexfront/engine/internal/pathfinder"
	"github.com/hexfront/engine/internal/rules"
	"github.com/hexfront/engine/internal/state"
)

// Rand is the random source used to shuffle choices.
type Rand interface {
	IntN(n int) int
}

// Player plays one side.
type Player struct {
	rules      *rules.Catalog
	id         model.PlayerID
	state      *state.Partial
	pathfinder *pathfinder.Pathfinder
	rng        Rand
}

func New(c *rules.Catalog, layout model.Layout, players int, id model.PlayerID, rng Rand) *Player {
	st := state.NewPartial(c, layout, players, id)
	return &Player{
		rules:      c,
		id:         id,
		state:      st,
		pathfinder: pathfinder.New(c, st.Map().Size()),
		rng:        rng,
	}
}

func (p *Player) ID() model.PlayerID {
	return p.id
}

// State is what the player currently knows.
func (p *Player) State() *state.Partial {
	return p.state
}

// Sync applies the next event of the player's stream.
func (p *Player) Sync(ev event.Event) {
	p.state.Sync(ev)
}

// Command picks the next move: attack if anything is in reach, else
// advance, else reinforce. EndTurn when nothing is left to do.
func (p *Player) Command() command.Command {
	if cmd, ok := p.attackCommand(); ok {
		return cmd
	}
	if cmd, ok := p.moveCommand(); ok {
		return cmd
	}
	if cmd, ok := p.createUnitCommand(); ok {
		return cmd
	}
	return command.EndTurn{}
}

func (p *Player) valid(cmd command.Command) bool {
	return check.Command(p.rules, p.id, p.state, cmd) == nil
}

func (p *Player) attackCommand() (command.Command, bool) {
	for u := range p.state.Units() {
		if u.Player != p.id || u.AttackPoints <= 0 {
			continue
		}
		for target := range p.state.Units() {
			if target.Player == p.id {
				continue
			}
			cmd := command.Attack{AttackerID: u.ID, DefenderID: target.ID}
			if p.valid(cmd) {
				return cmd, true
			}
		}
	}
	return nil, false
}

func (p *Player) moveCommand() (command.Command, bool) {
	for u := range p.state.Units() {
		if u.Player != p.id || !u.IsAlive || u.IsCarried() || u.MovePoints <= 0 {
			continue
		}
		if p.closeToEnemies(u) {
			continue
		}
		p.pathfinder.FillMap(p.state, u)
		dest, ok := p.bestPos(u)
		if !ok {
			continue
		}
		path := pathfinder.TruncatePath(p.rules, p.state, u, p.pathfinder.Path(dest))
		if path == nil {
			continue
		}
		if pathfinder.PathCost(p.rules, p.state, u, path) > u.MovePoints {
			continue
		}
		cmd := command.Move{UnitID: u.ID, Path: path, Mode: model.Fast}
		if p.valid(cmd) {
			return cmd, true
		}
	}
	return nil, false
}

// closeToEnemies reports whether some known enemy is within u's weapon
// range.
func (p *Player) closeToEnemies(u *model.Unit) bool {
	weapon := p.rules.UnitWeapon(u.Type)
	for target := range p.state.Units() {
		if target.Player == p.id {
			continue
		}
		maxDistance := weapon.MaxDistance
		if p.rules.UnitType(target.Type).IsAir {
			airRange, ok := weapon.AirRange()
			if !ok {
				continue
			}
			maxDistance = airRange
		}
		if hex.Distance(u.Pos.MapPos, target.Pos.MapPos) <= maxDistance {
			return true
		}
	}
	return false
}

// bestPos picks the cheapest reachable tile next to an enemy or inside a
// sector the player doesn't own. A unit already standing in such a sector
// stays.
func (p *Player) bestPos(u *model.Unit) (model.ExactPos, bool) {
	var best model.ExactPos
	bestCost := pathfinder.Unreachable
	found := false
	consider := func(pos hex.MapPos) {
		if cost, exact, ok := p.estimate(u, pos); ok && cost < bestCost {
			best, bestCost, found = exact, cost, true
		}
	}
	for enemy := range p.state.Units() {
		if enemy.Player == p.id || !enemy.IsAlive {
			continue
		}
		for dir := range hex.Dirs() {
			pos := enemy.Pos.MapPos.Neighbor(dir)
			if p.state.Map().InBoard(pos) {
				consider(pos)
			}
		}
	}
	for sector := range p.state.Sectors() {
		if sector.Owner == p.id {
			continue
		}
		for _, pos := range sector.Positions {
			if u.Pos.MapPos == pos {
				return model.ExactPos{}, false
			}
			consider(pos)
		}
	}
	return best, found
}

func (p *Player) estimate(u *model.Unit, dest hex.MapPos) (int, model.ExactPos, bool) {
	exact, ok := state.FreeExactPos(p.rules, p.state, u.Type, dest)
	if !ok {
		return 0, model.ExactPos{}, false
	}
	path := p.pathfinder.Path(exact)
	if path == nil {
		return 0, model.ExactPos{}, false
	}
	return pathfinder.PathCost(p.rules, p.state, u, path), exact, true
}

func (p *Player) createUnitCommand() (command.Command, bool) {
	var sectors []*model.Object
	for o := range p.state.Objects() {
		if o.Class == model.ReinforcementSector && o.Owner == p.id {
			sectors = append(sectors, o)
		}
	}
	shuffle(p.rng, sectors)
	types := p.rules.UnitTypes()
	shuffle(p.rng, types)
	points := p.state.ReinforcementPoints(p.id)
	for _, typeID := range types {
		if p.rules.UnitType(typeID).Cost > points {
			continue
		}
		for _, sector := range sectors {
			pos, ok := state.FreeExactPos(p.rules, p.state, typeID, sector.Pos.MapPos)
			if !ok {
				continue
			}
			cmd := command.CreateUnit{Pos: pos, Type: typeID}
			if p.valid(cmd) {
				return cmd, true
			}
		}
	}
	return nil, false
}

func shuffle[T any](rng Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
