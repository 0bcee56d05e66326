// Package state holds the world model. Full is the authoritative state
// owned by the engine; Partial is a player's fog-limited reconstruction of
// it. Both change only by applying events.
package state

import (
	"fmt"
	"iter"

	"github.com/hexfront/engine/internal/arena"
	"github.com/hexfront/engine/internal/event"
	"github.com/hexfront/engine/internal/hex"
	"github.com/hexfront/engine/internal/model"
	"github.com/hexfront/engine/internal/rules"
)

// InitialReinforcementPoints is what every player starts with.
const InitialReinforcementPoints = 10

// GameState is read access to a world. Iterators yield entities in
// ascending id order. Returned pointers must not be modified.
type GameState interface {
	Units() iter.Seq[*model.Unit]
	Unit(id model.UnitID) (*model.Unit, bool)
	UnitsAt(pos hex.MapPos) iter.Seq[*model.Unit]
	Objects() iter.Seq[*model.Object]
	ObjectsAt(pos hex.MapPos) iter.Seq[*model.Object]
	Map() *hex.Grid[model.Terrain]
	Sectors() iter.Seq[*model.Sector]
	Score(player model.PlayerID) int
	ReinforcementPoints(player model.PlayerID) int
	PlayersCount() int
}

// Mutator is the single write path into the authoritative world.
type Mutator interface {
	ApplyEvent(ev event.Event)
}

// MustUnit returns the unit with id or panics.
func MustUnit(st GameState, id model.UnitID) *model.Unit {
	u, ok := st.Unit(id)
	if !ok {
		panic(fmt.Sprintf("state: no unit with id %d", id))
	}
	return u
}

// UnitAt returns the unit standing exactly at pos.
func UnitAt(st GameState, pos model.ExactPos) (*model.Unit, bool) {
	for u := range st.UnitsAt(pos.MapPos) {
		if u.Pos == pos {
			return u, true
		}
	}
	return nil, false
}

// HasUnitsAt reports whether any unit, alive or not, is on the tile.
func HasUnitsAt(st GameState, pos hex.MapPos) bool {
	for range st.UnitsAt(pos) {
		return true
	}
	return false
}

func Object(st GameState, id model.ObjectID) (*model.Object, bool) {
	for o := range st.Objects() {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

func Sector(st GameState, id model.SectorID) (*model.Sector, bool) {
	for s := range st.Sectors() {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// IsUnitInObject reports whether a unit stands in or on an object.
func IsUnitInObject(u *model.Unit, o *model.Object) bool {
	if u.Pos == o.Pos {
		return true
	}
	return o.Pos.Slot.Kind == model.SlotWholeTile && o.Pos.MapPos == u.Pos.MapPos
}

// world is the storage shared by Full and Partial.
type world struct {
	rules               *rules.Catalog
	units               *arena.Arena[model.UnitID, model.Unit]
	objects             *arena.Arena[model.ObjectID, model.Object]
	sectors             *arena.Arena[model.SectorID, model.Sector]
	terrain             *hex.Grid[model.Terrain]
	score               []int
	reinforcementPoints []int
	// strict worlds panic on events that refer to unknown entities
	strict bool
}

func newWorld(c *rules.Catalog, layout model.Layout, players int, strict bool) world {
	if players < 1 {
		panic(fmt.Sprintf("state: bad players count %d", players))
	}
	w := world{
		rules:               c,
		units:               arena.New[model.UnitID, model.Unit](),
		objects:             arena.New[model.ObjectID, model.Object](),
		sectors:             arena.New[model.SectorID, model.Sector](),
		terrain:             layout.Terrain.Clone(),
		score:               make([]int, players),
		reinforcementPoints: make([]int, players),
		strict:              strict,
	}
	for i := range w.reinforcementPoints {
		w.reinforcementPoints[i] = InitialReinforcementPoints
	}
	for _, o := range layout.Objects {
		w.objects.Insert(o.ID, o)
	}
	for _, s := range layout.Sectors {
		s.Positions = append([]hex.MapPos(nil), s.Positions...)
		w.sectors.Insert(s.ID, s)
	}
	return w
}

func (w *world) Units() iter.Seq[*model.Unit] {
	return w.units.Values()
}

func (w *world) Unit(id model.UnitID) (*model.Unit, bool) {
	return w.units.Get(id)
}

func (w *world) UnitsAt(pos hex.MapPos) iter.Seq[*model.Unit] {
	return func(yield func(*model.Unit) bool) {
		for u := range w.units.Values() {
			if u.Pos.MapPos == pos && !yield(u) {
				return
			}
		}
	}
}

func (w *world) Objects() iter.Seq[*model.Object] {
	return w.objects.Values()
}

func (w *world) ObjectsAt(pos hex.MapPos) iter.Seq[*model.Object] {
	return func(yield func(*model.Object) bool) {
		for o := range w.objects.Values() {
			if o.Pos.Covers(pos) && !yield(o) {
				return
			}
		}
	}
}

func (w *world) Map() *hex.Grid[model.Terrain] {
	return w.terrain
}

func (w *world) Sectors() iter.Seq[*model.Sector] {
	return w.sectors.Values()
}

func (w *world) Score(player model.PlayerID) int {
	return w.score[player]
}

func (w *world) ReinforcementPoints(player model.PlayerID) int {
	return w.reinforcementPoints[player]
}

func (w *world) PlayersCount() int {
	return len(w.score)
}

// lookup returns the unit or nil; strict worlds panic instead of
// returning nil.
func (w *world) lookup(id model.UnitID) *model.Unit {
	u, ok := w.units.Get(id)
	if !ok {
		if w.strict {
			panic(fmt.Sprintf("state: event refers to unknown unit %d", id))
		}
		return nil
	}
	return u
}

func (w *world) mustUnit(id model.UnitID) *model.Unit {
	u, ok := w.units.Get(id)
	if !ok {
		panic(fmt.Sprintf("state: event refers to unknown unit %d", id))
	}
	return u
}

// Full is the authoritative world.
type Full struct {
	world
}

var (
	_ GameState = (*Full)(nil)
	_ Mutator   = (*Full)(nil)
)

// NewFull builds the authoritative world from a scenario layout.
func NewFull(c *rules.Catalog, layout model.Layout, players int) *Full {
	return &Full{world: newWorld(c, layout, players, true)}
}

// ApplyEvent mutates the world. Events must have passed validation; an
// event that breaks an invariant panics.
func (s *Full) ApplyEvent(ev event.Event) {
	s.apply(ev, nil)
}

// Partial is one player's knowledge of the world.
type Partial struct {
	world
	player model.PlayerID
	shown  map[model.UnitID]struct{}
}

var _ GameState = (*Partial)(nil)

func NewPartial(c *rules.Catalog, layout model.Layout, players int, player model.PlayerID) *Partial {
	return &Partial{
		world:  newWorld(c, layout, players, false),
		player: player,
		shown:  make(map[model.UnitID]struct{}),
	}
}

// Player is the observer this state belongs to.
func (s *Partial) Player() model.PlayerID {
	return s.player
}

// Sync applies an event from the player's filtered stream.
func (s *Partial) Sync(ev event.Event) {
	s.apply(ev, s.shown)
}

// WasShown reports whether the unit appeared through ShowUnit during the
// current turn.
func (s *Partial) WasShown(id model.UnitID) bool {
	_, ok := s.shown[id]
	return ok
}
