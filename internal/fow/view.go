package fow

import (
	"iter"

	"github.com/hexfront/engine/internal/hex"
	"github.com/hexfront/engine/internal/model"
	"github.com/hexfront/engine/internal/state"
)

// View exposes the authoritative world as the fog's player sees it: own
// units plus visible enemies. Static content passes through.
type View struct {
	st  state.GameState
	fow *Fow
}

var _ state.GameState = (*View)(nil)

func NewView(st state.GameState, f *Fow) *View {
	return &View{st: st, fow: f}
}

func (v *View) sees(u *model.Unit) bool {
	return u.Player == v.fow.player || v.fow.IsVisible(u)
}

func (v *View) Units() iter.Seq[*model.Unit] {
	return func(yield func(*model.Unit) bool) {
		for u := range v.st.Units() {
			if v.sees(u) && !yield(u) {
				return
			}
		}
	}
}

func (v *View) Unit(id model.UnitID) (*model.Unit, bool) {
	u, ok := v.st.Unit(id)
	if !ok || !v.sees(u) {
		return nil, false
	}
	return u, true
}

func (v *View) UnitsAt(pos hex.MapPos) iter.Seq[*model.Unit] {
	return func(yield func(*model.Unit) bool) {
		for u := range v.st.UnitsAt(pos) {
			if v.sees(u) && !yield(u) {
				return
			}
		}
	}
}

func (v *View) Objects() iter.Seq[*model.Object] {
	return v.st.Objects()
}

func (v *View) ObjectsAt(pos hex.MapPos) iter.Seq[*model.Object] {
	return v.st.ObjectsAt(pos)
}

func (v *View) Map() *hex.Grid[model.Terrain] {
	return v.st.Map()
}

func (v *View) Sectors() iter.Seq[*model.Sector] {
	return v.st.Sectors()
}

func (v *View) Score(player model.PlayerID) int {
	return v.st.Score(player)
}

func (v *View) ReinforcementPoints(player model.PlayerID) int {
	return v.st.ReinforcementPoints(player)
}

func (v *View) PlayersCount() int {
	return v.st.PlayersCount()
}
