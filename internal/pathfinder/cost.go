package pathfinder

import (
	"github.com/hexfront/engine/internal/model"
	"github.com/hexfront/engine/internal/rules"
	"github.com/hexfront/engine/internal/state"
)

// ImpassableCost is the cost of entering water; it is larger than any
// unit's move points.
const ImpassableCost = 99

// MoveCostModifier scales path costs by movement mode.
func MoveCostModifier(mode model.MoveMode) int {
	if mode == model.Hunt {
		return 2
	}
	return 1
}

// TileCost is the move point cost for a unit to step from one tile to an
// adjacent one.
func TileCost(c *rules.Catalog, st state.GameState, u *model.Unit, from, to model.ExactPos) int {
	ut := c.UnitType(u.Type)
	if ut.IsAir {
		return 2
	}
	unitsCost := 0
units:
	for other := range st.UnitsAt(to.MapPos) {
		for o := range st.ObjectsAt(to.MapPos) {
			switch o.Pos.Slot.Kind {
			case model.SlotIndex:
				if other.Pos == o.Pos {
					break units
				}
			case model.SlotTwoTiles, model.SlotWholeTile:
				break units
			}
		}
		unitsCost++
	}
	objectsCost := 0
	for o := range st.ObjectsAt(to.MapPos) {
		switch o.Class {
		case model.Building:
			if ut.IsInfantry {
				objectsCost++
			} else {
				objectsCost += 2
			}
		case model.Road:
			if isRoadBetween(o, from, to) && !ut.IsBig {
				if ut.IsInfantry {
					return 4
				}
				return 2
			}
		}
	}
	var terrainCost int
	switch st.Map().At(to.MapPos) {
	case model.Plain, model.City:
		terrainCost = 4
	case model.Trees:
		if ut.IsInfantry {
			terrainCost = 5
		} else {
			terrainCost = 8
		}
	case model.Water:
		terrainCost = ImpassableCost
	}
	return terrainCost + objectsCost + unitsCost
}

func isRoadBetween(road *model.Object, from, to model.ExactPos) bool {
	if road.Pos.Slot.Kind != model.SlotTwoTiles {
		return false
	}
	tiles := road.Pos.Tiles()
	a, b := tiles[0], tiles[1]
	return (a == from.MapPos && b == to.MapPos) || (a == to.MapPos && b == from.MapPos)
}

// PathCost sums TileCost over the steps of path.
func PathCost(c *rules.Catalog, st state.GameState, u *model.Unit, path []model.ExactPos) int {
	total := 0
	for i := 1; i < len(path); i++ {
		total += TileCost(c, st, u, path[i-1], path[i])
	}
	return total
}

// TruncatePath returns the longest prefix of path the unit can afford with
// its current move points, or nil when it can't make a single step.
func TruncatePath(c *rules.Catalog, st state.GameState, u *model.Unit, path []model.ExactPos) []model.ExactPos {
	if len(path) == 0 {
		return nil
	}
	out := []model.ExactPos{path[0]}
	cost := 0
	for i := 1; i < len(path); i++ {
		cost += TileCost(c, st, u, path[i-1], path[i])
		if cost > u.MovePoints {
			break
		}
		out = append(out, path[i])
	}
	if len(out) < 2 {
		return nil
	}
	return out
}
