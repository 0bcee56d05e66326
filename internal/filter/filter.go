// Package filter projects authoritative events onto what one player is
// allowed to learn from them.
package filter

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hexfront/engine/internal/event"
	"github.com/hexfront/engine/internal/fow"
	"github.com/hexfront/engine/internal/model"
	"github.com/hexfront/engine/internal/state"
)

// UnitSet is a set of unit ids.
type UnitSet map[model.UnitID]struct{}

func (s UnitSet) Add(id model.UnitID) {
	s[id] = struct{}{}
}

func (s UnitSet) Has(id model.UnitID) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (s UnitSet) Sorted() []model.UnitID {
	return slices.Sorted(maps.Keys(s))
}

// Redact strips what an enemy can't know about a unit: its points and
// cargo.
func Redact(u model.Unit) model.Unit {
	u.Detailed = false
	u.MovePoints = 0
	u.AttackPoints = 0
	u.ReactiveAttackPoints = 0
	u.PassengerID = 0
	return u
}

func showAt(u *model.Unit, pos model.ExactPos) event.ShowUnit {
	shown := Redact(*u)
	shown.Pos = pos
	return event.ShowUnit{Unit: shown}
}

// Events filters ev, already applied to st, for player whose fog is f. It
// also returns the units the player learns about directly through this
// event; the passive diff skips them.
func Events(st state.GameState, f *fow.Fow, player model.PlayerID, ev event.Event) ([]event.Event, UnitSet) {
	active := UnitSet{}
	var out []event.Event
	switch ev := ev.(type) {
	case event.Move:
		u := state.MustUnit(st, ev.UnitID)
		if u.Player == player {
			out = append(out, ev)
			break
		}
		prevVisible := f.IsVisibleAt(u, ev.From)
		nextVisible := f.IsVisibleAt(u, ev.To)
		if !prevVisible && nextVisible {
			out = append(out, showAt(u, ev.From))
			if u.AttachedUnitID != 0 {
				active.Add(u.AttachedUnitID)
				out = append(out, showAt(state.MustUnit(st, u.AttachedUnitID), ev.From))
			}
		}
		if prevVisible || nextVisible {
			ev.Cost = 0
			out = append(out, ev)
		}
		if prevVisible && !nextVisible {
			out = append(out, event.HideUnit{UnitID: u.ID})
		}
		active.Add(u.ID)
	case event.EndTurn, event.RemoveSmoke, event.VictoryPoint, event.SectorOwnerChanged:
		out = append(out, ev)
	case event.CreateUnit:
		u := state.MustUnit(st, ev.Unit.ID)
		switch {
		case u.Player == player:
			out = append(out, ev)
			active.Add(u.ID)
		case f.IsVisibleAt(u, ev.Unit.Pos):
			out = append(out, event.CreateUnit{Unit: Redact(ev.Unit)})
			active.Add(u.ID)
		}
	case event.AttackUnit:
		attacker := state.MustUnit(st, ev.AttackerID)
		if attacker.Player != player && !ev.IsAmbush {
			if !f.IsVisible(attacker) {
				out = append(out, showAt(attacker, attacker.Pos))
			}
			active.Add(attacker.ID)
		}
		active.Add(ev.DefenderID)
		if attacker.Player != player && ev.IsAmbush {
			ev.AttackerID = 0
		}
		out = append(out, ev)
	case event.Reveal:
		if ev.Unit.Player != player {
			out = append(out, event.ShowUnit{Unit: Redact(ev.Unit)})
		}
	case event.ShowUnit, event.HideUnit:
		panic(fmt.Sprintf("filter: %s is never produced by the engine", ev.Kind()))
	case event.LoadUnit:
		passenger := state.MustUnit(st, ev.PassengerID)
		transporter := state.MustUnit(st, ev.TransporterID)
		transporterVisible := f.IsVisible(transporter)
		passengerVisible := f.IsVisibleAt(passenger, ev.From)
		if passenger.Player == player {
			out = append(out, ev)
			break
		}
		if !passengerVisible && !transporterVisible {
			break
		}
		if !passengerVisible {
			shown := showAt(passenger, ev.From)
			shown.Unit.IsLoaded = false
			out = append(out, shown)
		}
		if !transporterVisible {
			ev.TransporterID = 0
		}
		out = append(out, ev)
		active.Add(passenger.ID)
	case event.UnloadUnit:
		active.Add(ev.Unit.ID)
		passenger := state.MustUnit(st, ev.Unit.ID)
		transporter := state.MustUnit(st, ev.TransporterID)
		transporterVisible := f.IsVisibleAt(transporter, ev.From)
		passengerVisible := f.IsVisibleAt(passenger, ev.To)
		if passenger.Player == player {
			out = append(out, ev)
			break
		}
		if !passengerVisible && !transporterVisible {
			break
		}
		if !transporterVisible {
			ev.TransporterID = 0
		}
		ev.Unit = Redact(ev.Unit)
		out = append(out, ev)
		if !passengerVisible {
			out = append(out, event.HideUnit{UnitID: passenger.ID})
		}
	case event.Attach:
		transporter := state.MustUnit(st, ev.TransporterID)
		if transporter.Player == player {
			out = append(out, ev)
			break
		}
		active.Add(transporter.ID)
		attached := state.MustUnit(st, ev.AttachedUnitID)
		attachedVisible := f.IsVisibleAt(attached, ev.To)
		transporterVisible := f.IsVisibleAt(transporter, ev.From)
		switch {
		case attachedVisible:
			if !transporterVisible {
				shown := showAt(transporter, ev.From)
				shown.Unit.AttachedUnitID = 0
				out = append(out, shown)
			}
			out = append(out, ev)
		case transporterVisible:
			out = append(out,
				event.Move{UnitID: transporter.ID, From: ev.From, To: ev.To, Mode: model.Fast},
				event.HideUnit{UnitID: transporter.ID},
			)
		}
	case event.Detach:
		transporter := state.MustUnit(st, ev.TransporterID)
		if transporter.Player == player {
			out = append(out, ev)
			break
		}
		active.Add(transporter.ID)
		fromVisible := f.IsVisibleAt(transporter, ev.From)
		toVisible := f.IsVisibleAt(transporter, ev.To)
		switch {
		case fromVisible:
			out = append(out, ev)
			if !toVisible {
				out = append(out, event.HideUnit{UnitID: transporter.ID})
			}
		case toVisible:
			shown := showAt(transporter, ev.From)
			shown.Unit.AttachedUnitID = 0
			out = append(out,
				shown,
				event.Move{UnitID: transporter.ID, From: ev.From, To: ev.To, Mode: model.Fast},
			)
		}
	case event.SetReactionFireMode:
		if state.MustUnit(st, ev.UnitID).Player == player {
			out = append(out, ev)
		}
	case event.Smoke:
		u, ok := st.Unit(ev.UnitID)
		if !ok || !f.IsVisible(u) {
			ev.UnitID = 0
		}
		out = append(out, ev)
	default:
		panic(fmt.Sprintf("filter: unknown event %T", ev))
	}
	return out, active
}

// VisibleEnemies is the set of enemy units player currently sees.
func VisibleEnemies(st state.GameState, f *fow.Fow, player model.PlayerID) UnitSet {
	visible := UnitSet{}
	for u := range st.Units() {
		if u.Player != player && f.IsVisible(u) {
			visible.Add(u.ID)
		}
	}
	return visible
}

// PassiveShowHide emits ShowUnit for enemies that came into view and
// HideUnit for those that left it, skipping the ones in active.
func PassiveShowHide(st state.GameState, active, old, current UnitSet) []event.Event {
	var out []event.Event
	for _, id := range current.Sorted() {
		if old.Has(id) || active.Has(id) {
			continue
		}
		u := state.MustUnit(st, id)
		out = append(out, showAt(u, u.Pos))
	}
	for _, id := range old.Sorted() {
		if current.Has(id) || active.Has(id) {
			continue
		}
		out = append(out, event.HideUnit{UnitID: id})
	}
	return out
}
