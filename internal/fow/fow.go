// Package fow tracks what one player can see.
package fow

import (
	"fmt"

	"github.com/hexfront/engine/internal/event"
	"github.com/hexfront/engine/internal/fov"
	"github.com/hexfront/engine/internal/hex"
	"github.com/hexfront/engine/internal/model"
	"github.com/hexfront/engine/internal/rules"
	"github.com/hexfront/engine/internal/state"
)

// Visibility of a tile.
type Visibility uint8

const (
	// No means the tile is not seen.
	No Visibility = iota
	// Normal tiles show vehicles but not infantry.
	Normal
	// Excellent tiles show everything.
	Excellent
)

func (v Visibility) String() string {
	switch v {
	case No:
		return "No"
	case Normal:
		return "Normal"
	case Excellent:
		return "Excellent"
	}
	return fmt.Sprintf("Visibility(%d)", v)
}

// Fow is a per-player visibility grid for ground and air.
type Fow struct {
	rules  *rules.Catalog
	player model.PlayerID
	ground *hex.Grid[Visibility]
	air    *hex.Grid[Visibility]
}

// New builds the player's fog and computes it from st.
func New(c *rules.Catalog, st state.GameState, player model.PlayerID) *Fow {
	size := st.Map().Size()
	f := &Fow{
		rules:  c,
		player: player,
		ground: hex.NewGrid[Visibility](size),
		air:    hex.NewGrid[Visibility](size),
	}
	f.Reset(st)
	return f
}

func (f *Fow) Player() model.PlayerID {
	return f.player
}

// Ground is the ground visibility of a tile.
func (f *Fow) Ground(pos hex.MapPos) Visibility {
	return f.ground.At(pos)
}

// IsGroundTileVisible reports whether the tile is seen at all.
func (f *Fow) IsGroundTileVisible(pos hex.MapPos) bool {
	return f.ground.At(pos) != No
}

// IsVisible reports whether the player sees the unit where it stands.
// Passengers are never visible on their own.
func (f *Fow) IsVisible(u *model.Unit) bool {
	if u.IsLoaded {
		return false
	}
	return f.IsVisibleAt(u, u.Pos)
}

// IsVisibleAt reports whether the player would see the unit at pos.
func (f *Fow) IsVisibleAt(u *model.Unit, pos model.ExactPos) bool {
	if pos.Slot.Kind == model.SlotAir {
		return f.air.At(pos.MapPos) != No
	}
	switch f.ground.At(pos.MapPos) {
	case Excellent:
		return true
	case Normal:
		return !f.rules.UnitType(u.Type).IsInfantry
	}
	return false
}

func calcVisibility(st state.GameState, ut *rules.UnitType, origin, pos hex.MapPos) Visibility {
	distance := hex.Distance(origin, pos)
	if distance > ut.LosRange {
		return No
	}
	if !ut.IsAir && distance <= ut.CoverLosRange {
		return Excellent
	}
	vis := Excellent
	switch st.Map().At(pos) {
	case model.City, model.Trees:
		vis = Normal
	}
	for o := range st.ObjectsAt(pos) {
		if o.Class == model.Building || o.Class == model.Smoke {
			vis = Normal
		}
	}
	return vis
}

func (f *Fow) fovUnit(st state.GameState, u *model.Unit) {
	if !u.IsAlive || u.IsLoaded {
		return
	}
	ut := f.rules.UnitType(u.Type)
	origin := u.Pos.MapPos
	look := func(pos hex.MapPos) {
		vis := calcVisibility(st, ut, origin, pos)
		tile := f.ground.Ptr(pos)
		if vis > *tile {
			*tile = vis
		}
	}
	if u.Pos.Slot.Kind == model.SlotAir {
		fov.Simple(st, origin, ut.LosRange, look)
	} else {
		fov.Sweep(st, origin, ut.LosRange, look)
	}
	fov.Simple(st, origin, ut.LosRange, func(pos hex.MapPos) {
		f.air.Set(pos, Excellent)
	})
}

// Reset recomputes the grids from the player's live units. The player's own
// reinforcement sectors are always fully visible.
func (f *Fow) Reset(st state.GameState) {
	f.ground.Fill(No)
	f.air.Fill(No)
	for u := range st.Units() {
		if u.Player == f.player {
			f.fovUnit(st, u)
		}
	}
	for o := range st.Objects() {
		if o.Class != model.ReinforcementSector || o.Owner != f.player {
			continue
		}
		for _, pos := range o.Pos.Tiles() {
			if f.ground.InBoard(pos) {
				f.ground.Set(pos, Excellent)
				f.air.Set(pos, Excellent)
			}
		}
	}
}

// Apply patches the grids after ev was applied to st.
func (f *Fow) Apply(st state.GameState, ev event.Event) {
	switch ev := ev.(type) {
	case event.Move:
		f.fovOwn(st, ev.UnitID)
	case event.EndTurn:
		if ev.NewID == f.player {
			f.Reset(st)
		}
	case event.CreateUnit:
		f.fovOwn(st, ev.Unit.ID)
	case event.AttackUnit:
		if ev.IsAmbush || ev.AttackerID == 0 {
			return
		}
		if a, ok := st.Unit(ev.AttackerID); ok {
			f.ground.Set(a.Pos.MapPos, Excellent)
			if a.Pos.Slot.Kind == model.SlotAir {
				f.air.Set(a.Pos.MapPos, Excellent)
			}
		}
	case event.UnloadUnit:
		f.fovOwn(st, ev.Unit.ID)
	case event.Detach:
		f.fovOwn(st, ev.TransporterID)
	case event.Reveal,
		event.ShowUnit,
		event.HideUnit,
		event.LoadUnit,
		event.Attach,
		event.SetReactionFireMode,
		event.SectorOwnerChanged,
		event.VictoryPoint,
		event.Smoke,
		event.RemoveSmoke:
	default:
		panic(fmt.Sprintf("fow: unknown event %T", ev))
	}
}

func (f *Fow) fovOwn(st state.GameState, id model.UnitID) {
	u, ok := st.Unit(id)
	if ok && u.Player == f.player {
		f.fovUnit(st, u)
	}
}
