package model

import (
	"fmt"

	"github.com/hexfront/engine/internal/hex"
)

// SlotKind says how a unit or object occupies a tile.
type SlotKind uint8

const (
	// SlotIndex is one of the small per-tile slots (see SlotID.Index).
	SlotIndex SlotKind = iota
	// SlotWholeTile takes the entire tile.
	SlotWholeTile
	// SlotTwoTiles spans the tile and its neighbour in SlotID.Dir.
	SlotTwoTiles
	// SlotAir is the single airspace slot above a tile.
	SlotAir
)

// MaxSlots is the number of index slots on a land tile.
const MaxSlots = 3

// SlotID is a sub-tile position.
type SlotID struct {
	Kind  SlotKind `json:"kind"`
	Index int      `json:"index,omitempty"`
	Dir   hex.Dir  `json:"dir,omitempty"`
}

// Slot returns index slot i.
func Slot(i int) SlotID {
	return SlotID{Kind: SlotIndex, Index: i}
}

// WholeTile is the slot that takes the entire tile.
func WholeTile() SlotID {
	return SlotID{Kind: SlotWholeTile}
}

// TwoTiles is the slot spanning a tile and its neighbour in dir.
func TwoTiles(dir hex.Dir) SlotID {
	return SlotID{Kind: SlotTwoTiles, Dir: dir}
}

// Air is the airspace slot.
func Air() SlotID {
	return SlotID{Kind: SlotAir}
}

func (s SlotID) String() string {
	switch s.Kind {
	case SlotIndex:
		return fmt.Sprintf("Id(%d)", s.Index)
	case SlotWholeTile:
		return "WholeTile"
	case SlotTwoTiles:
		return fmt.Sprintf("TwoTiles(%s)", s.Dir)
	case SlotAir:
		return "Air"
	}
	return fmt.Sprintf("SlotID(%d)", s.Kind)
}

// ExactPos is a tile plus a slot within it.
type ExactPos struct {
	hex.MapPos
	Slot SlotID `json:"slot"`
}

// At builds an exact position from a tile and slot.
func At(pos hex.MapPos, slot SlotID) ExactPos {
	return ExactPos{MapPos: pos, Slot: slot}
}

func (p ExactPos) String() string {
	return fmt.Sprintf("%s:%s", p.MapPos, p.Slot)
}

// Tiles returns the one or two tiles covered by the position.
func (p ExactPos) Tiles() []hex.MapPos {
	if p.Slot.Kind == SlotTwoTiles {
		return []hex.MapPos{p.MapPos, p.MapPos.Neighbor(p.Slot.Dir)}
	}
	return []hex.MapPos{p.MapPos}
}

// Covers reports whether pos is one of the position's tiles.
func (p ExactPos) Covers(pos hex.MapPos) bool {
	for _, t := range p.Tiles() {
		if t == pos {
			return true
		}
	}
	return false
}
