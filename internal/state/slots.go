package state

import (
	"github.com/hexfront/engine/internal/hex"
	"github.com/hexfront/engine/internal/model"
	"github.com/hexfront/engine/internal/rules"
)

// SlotsCount is the number of index slots on a tile.
func SlotsCount(st GameState, pos hex.MapPos) int {
	if st.Map().At(pos) == model.Water {
		return 1
	}
	return model.MaxSlots
}

// FreeSlot picks the slot a unit of the given type would take on pos.
func FreeSlot(c *rules.Catalog, st GameState, typeID rules.UnitTypeID, pos hex.MapPos) (model.SlotID, bool) {
	ut := c.UnitType(typeID)
	if ut.IsAir {
		for u := range st.UnitsAt(pos) {
			if u.Pos.Slot.Kind == model.SlotAir {
				return model.SlotID{}, false
			}
		}
		return model.Air(), true
	}
	if ut.IsBig {
		for o := range st.ObjectsAt(pos) {
			if o.Class == model.Building {
				return model.SlotID{}, false
			}
		}
		if HasUnitsAt(st, pos) {
			return model.SlotID{}, false
		}
		return model.WholeTile(), true
	}
	var used [model.MaxSlots]bool
	for u := range st.UnitsAt(pos) {
		switch u.Pos.Slot.Kind {
		case model.SlotIndex:
			used[u.Pos.Slot.Index] = true
		case model.SlotWholeTile, model.SlotTwoTiles:
			return model.SlotID{}, false
		}
	}
	if !ut.IsInfantry {
		for o := range st.ObjectsAt(pos) {
			switch o.Pos.Slot.Kind {
			case model.SlotIndex:
				used[o.Pos.Slot.Index] = true
			case model.SlotWholeTile:
				if o.Class == model.Building {
					return model.SlotID{}, false
				}
			}
		}
	}
	for i := range SlotsCount(st, pos) {
		if !used[i] {
			return model.Slot(i), true
		}
	}
	return model.SlotID{}, false
}

// FreeExactPos is FreeSlot combined with the tile.
func FreeExactPos(c *rules.Catalog, st GameState, typeID rules.UnitTypeID, pos hex.MapPos) (model.ExactPos, bool) {
	slot, ok := FreeSlot(c, st, typeID, pos)
	if !ok {
		return model.ExactPos{}, false
	}
	return model.At(pos, slot), true
}

// IsExactPosFree reports whether a unit of the given type may stand at pos.
// The slot must suit the unit class and nobody may already hold it.
func IsExactPosFree(c *rules.Catalog, st GameState, typeID rules.UnitTypeID, pos model.ExactPos) bool {
	if !st.Map().InBoard(pos.MapPos) {
		return false
	}
	ut := c.UnitType(typeID)
	if !slotSuits(st, ut, pos) {
		return false
	}
	if ut.IsBig && !ut.IsAir {
		return !HasUnitsAt(st, pos.MapPos)
	}
	for u := range st.UnitsAt(pos.MapPos) {
		if u.Pos == pos {
			return false
		}
		kind := u.Pos.Slot.Kind
		if (kind == model.SlotWholeTile || kind == model.SlotTwoTiles) && !ut.IsAir {
			return false
		}
	}
	return true
}

func slotSuits(st GameState, ut *rules.UnitType, pos model.ExactPos) bool {
	switch {
	case ut.IsAir:
		return pos.Slot.Kind == model.SlotAir
	case ut.IsBig:
		if pos.Slot.Kind != model.SlotWholeTile {
			return false
		}
		for o := range st.ObjectsAt(pos.MapPos) {
			if o.Class == model.Building {
				return false
			}
		}
		return true
	}
	if pos.Slot.Kind != model.SlotIndex {
		return false
	}
	if pos.Slot.Index < 0 || pos.Slot.Index >= SlotsCount(st, pos.MapPos) {
		return false
	}
	if ut.IsInfantry {
		return true
	}
	for o := range st.ObjectsAt(pos.MapPos) {
		if o.Pos.Slot.Kind == model.SlotIndex && o.Pos.Slot.Index == pos.Slot.Index {
			return false
		}
		if o.Pos.Slot.Kind == model.SlotWholeTile && o.Class == model.Building {
			return false
		}
	}
	return true
}
