package state

import (
	"slices"

	"github.com/hexfront/engine/internal/model"
)

// Snapshot is a deep copy of everything a GameState exposes, except the
// terrain which never changes.
type Snapshot struct {
	Units               []model.Unit
	Objects             []model.Object
	Sectors             []model.Sector
	Score               []int
	ReinforcementPoints []int
}

// Capture copies st.
func Capture(st GameState) Snapshot {
	var s Snapshot
	for u := range st.Units() {
		s.Units = append(s.Units, *u)
	}
	for o := range st.Objects() {
		s.Objects = append(s.Objects, *o)
	}
	for sec := range st.Sectors() {
		cp := *sec
		cp.Positions = slices.Clone(sec.Positions)
		s.Sectors = append(s.Sectors, cp)
	}
	for p := range st.PlayersCount() {
		s.Score = append(s.Score, st.Score(model.PlayerID(p)))
		s.ReinforcementPoints = append(s.ReinforcementPoints, st.ReinforcementPoints(model.PlayerID(p)))
	}
	return s
}
