package state

import (
	"fmt"

	"github.com/hexfront/engine/internal/event"
	"github.com/hexfront/engine/internal/model"
)

const (
	endTurnReinforcement = 10
	moraleRecovery       = 10
	maxMorale            = 100
)

// SmokeLifetime is the number of end-of-turn ticks a smoke cloud lasts.
func SmokeLifetime(players int) int {
	return 3*players - 1
}

// apply runs the event table. shown is nil for the authoritative world.
func (w *world) apply(ev event.Event, shown map[model.UnitID]struct{}) {
	switch ev := ev.(type) {
	case event.Move:
		w.applyMove(ev)
	case event.EndTurn:
		clear(shown)
		w.applyEndTurn(ev)
	case event.CreateUnit:
		w.applyCreateUnit(ev)
	case event.AttackUnit:
		w.applyAttackUnit(ev)
	case event.Reveal:
	case event.ShowUnit:
		if shown == nil {
			panic("state: ShowUnit applied to the authoritative world")
		}
		u := ev.Unit
		if known, ok := w.units.Get(u.ID); ok {
			*known = u
		} else {
			w.units.Insert(u.ID, u)
		}
		shown[u.ID] = struct{}{}
	case event.HideUnit:
		if shown == nil {
			panic("state: HideUnit applied to the authoritative world")
		}
		u := w.mustUnit(ev.UnitID)
		if u.PassengerID != 0 {
			w.units.Delete(u.PassengerID)
		}
		w.units.Delete(ev.UnitID)
		delete(shown, ev.UnitID)
	case event.LoadUnit:
		w.applyLoadUnit(ev)
	case event.UnloadUnit:
		w.applyUnloadUnit(ev)
	case event.Attach:
		w.applyAttach(ev)
	case event.Detach:
		w.applyDetach(ev)
	case event.SetReactionFireMode:
		if u := w.lookup(ev.UnitID); u != nil {
			u.ReactionFireMode = ev.Mode
		}
	case event.SectorOwnerChanged:
		s, ok := w.sectors.Get(ev.SectorID)
		if !ok {
			panic(fmt.Sprintf("state: unknown sector %d", ev.SectorID))
		}
		s.Owner = ev.NewOwner
	case event.VictoryPoint:
		w.score[ev.Player] += ev.Count
	case event.Smoke:
		w.applySmoke(ev)
	case event.RemoveSmoke:
		if !w.objects.Delete(ev.ID) && w.strict {
			panic(fmt.Sprintf("state: unknown smoke object %d", ev.ID))
		}
	default:
		panic(fmt.Sprintf("state: unknown event %T", ev))
	}
}

// follow moves the units riding with u to pos.
func (w *world) follow(u *model.Unit, pos model.ExactPos) {
	if u.PassengerID != 0 {
		if p, ok := w.units.Get(u.PassengerID); ok {
			p.Pos = pos
		}
	}
	if u.AttachedUnitID != 0 {
		if a, ok := w.units.Get(u.AttachedUnitID); ok {
			a.Pos = pos
		}
	}
}

func (w *world) applyMove(ev event.Move) {
	u := w.mustUnit(ev.UnitID)
	u.Pos = ev.To
	if u.Detailed {
		if u.MovePoints <= 0 {
			panic(fmt.Sprintf("state: %s moves without move points", u))
		}
		u.MovePoints -= ev.Cost
		if u.MovePoints < 0 {
			panic(fmt.Sprintf("state: %s move points underflow", u))
		}
	}
	w.follow(u, ev.To)
}

func (w *world) applyEndTurn(ev event.EndTurn) {
	w.reinforcementPoints[ev.OldID] += endTurnReinforcement
	for u := range w.units.Values() {
		ut := w.rules.UnitType(u.Type)
		switch u.Player {
		case ev.NewID:
			if u.Detailed {
				u.MovePoints = ut.MovePoints
				u.AttackPoints = ut.AttackPoints
				u.ReactiveAttackPoints = ut.ReactiveAttackPoints
			}
			u.Morale = min(u.Morale+moraleRecovery, maxMorale)
		case ev.OldID:
			if u.Detailed && w.rules.WeaponType(ut.Weapon).ReactionFire {
				u.ReactiveAttackPoints += u.AttackPoints
				u.AttackPoints = 0
			}
		}
	}
	for o := range w.objects.Values() {
		if !o.Timed {
			continue
		}
		o.Timer--
		if o.Timer < 0 {
			panic(fmt.Sprintf("state: object %d timer underflow", o.ID))
		}
	}
}

func (w *world) applyCreateUnit(ev event.CreateUnit) {
	u := ev.Unit
	cost := w.rules.UnitType(u.Type).Cost
	rp := &w.reinforcementPoints[u.Player]
	if *rp < cost {
		if w.strict {
			panic(fmt.Sprintf("state: player %d can't afford unit type %d", u.Player, u.Type))
		}
		*rp = cost
	}
	*rp -= cost
	w.units.Insert(u.ID, u)
}

func (w *world) applyAttackUnit(ev event.AttackUnit) {
	d := w.mustUnit(ev.DefenderID)
	d.Count -= ev.Killed
	d.Morale = max(d.Morale-ev.Suppression, 0)
	if ev.RemoveMovePoints && d.Detailed {
		d.MovePoints = 0
	}
	if d.Count <= 0 {
		if d.PassengerID != 0 {
			w.units.Delete(d.PassengerID)
		}
		if d.AttachedUnitID != 0 {
			if a, ok := w.units.Get(d.AttachedUnitID); ok {
				a.IsAttached = false
				a.MovePoints = 0
				a.AttackPoints = 0
				a.ReactiveAttackPoints = 0
			}
		}
		if ev.LeaveWrecks {
			d.Count = 0
			d.IsAlive = false
			d.PassengerID = 0
			d.AttachedUnitID = 0
			d.MovePoints = 0
			d.AttackPoints = 0
			d.ReactiveAttackPoints = 0
		} else {
			w.units.Delete(d.ID)
		}
	}
	if ev.AttackerID == 0 {
		return
	}
	a, ok := w.units.Get(ev.AttackerID)
	if !ok || !a.Detailed {
		return
	}
	switch ev.Mode {
	case model.Active:
		if a.AttackPoints < 1 {
			panic(fmt.Sprintf("state: %s attacks without attack points", a))
		}
		a.AttackPoints--
	case model.Reactive:
		if a.ReactiveAttackPoints < 1 {
			panic(fmt.Sprintf("state: %s reacts without reactive attack points", a))
		}
		a.ReactiveAttackPoints--
	}
}

func (w *world) applyLoadUnit(ev event.LoadUnit) {
	if ev.TransporterID != 0 {
		if t := w.lookup(ev.TransporterID); t != nil {
			t.PassengerID = ev.PassengerID
		}
	}
	p := w.mustUnit(ev.PassengerID)
	p.Pos = ev.To
	p.IsLoaded = true
	if p.Detailed {
		p.MovePoints = 0
	}
}

func (w *world) applyUnloadUnit(ev event.UnloadUnit) {
	if ev.TransporterID != 0 {
		if t := w.lookup(ev.TransporterID); t != nil {
			t.PassengerID = 0
		}
	}
	if p, ok := w.units.Get(ev.Unit.ID); ok {
		p.Pos = ev.To
		p.IsLoaded = false
		return
	}
	if w.strict {
		panic(fmt.Sprintf("state: unload of unknown unit %d", ev.Unit.ID))
	}
	u := ev.Unit
	u.Pos = ev.To
	u.IsLoaded = false
	w.units.Insert(u.ID, u)
}

func (w *world) applyAttach(ev event.Attach) {
	t := w.mustUnit(ev.TransporterID)
	if a := w.lookup(ev.AttachedUnitID); a != nil {
		a.IsAttached = true
		a.Pos = ev.To
	}
	t.Pos = ev.To
	t.AttachedUnitID = ev.AttachedUnitID
	if t.Detailed {
		t.MovePoints = 0
	}
	w.follow(t, ev.To)
}

func (w *world) applyDetach(ev event.Detach) {
	t := w.mustUnit(ev.TransporterID)
	if t.AttachedUnitID != 0 {
		if a := w.lookup(t.AttachedUnitID); a != nil {
			a.IsAttached = false
			a.Pos = ev.From
			if a.Detailed {
				a.MovePoints = 0
			}
		}
	}
	t.AttachedUnitID = 0
	t.Pos = ev.To
	if t.Detailed {
		t.MovePoints = 0
	}
	w.follow(t, ev.To)
}

func (w *world) applySmoke(ev event.Smoke) {
	if ev.UnitID != 0 {
		if u, ok := w.units.Get(ev.UnitID); ok && u.Detailed {
			u.AttackPoints = 0
		}
	}
	w.objects.Insert(ev.ID, model.Object{
		ID:    ev.ID,
		Class: model.Smoke,
		Pos:   model.At(ev.Pos, model.WholeTile()),
		Owner: model.NoPlayer,
		Timer: SmokeLifetime(w.PlayersCount()),
		Timed: true,
	})
}
