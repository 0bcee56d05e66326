package model

import (
	"fmt"

	"github.com/hexfront/engine/internal/hex"
)

// Terrain is the ground type of a tile.
type Terrain uint8

const (
	Plain Terrain = iota
	Trees
	City
	Water
)

func (t Terrain) String() string {
	switch t {
	case Plain:
		return "Plain"
	case Trees:
		return "Trees"
	case City:
		return "City"
	case Water:
		return "Water"
	}
	return fmt.Sprintf("Terrain(%d)", t)
}

// ObjectClass is the kind of a map object.
type ObjectClass uint8

const (
	Building ObjectClass = iota
	Road
	Smoke
	ReinforcementSector
)

func (c ObjectClass) String() string {
	switch c {
	case Building:
		return "Building"
	case Road:
		return "Road"
	case Smoke:
		return "Smoke"
	case ReinforcementSector:
		return "ReinforcementSector"
	}
	return fmt.Sprintf("ObjectClass(%d)", c)
}

// Object is a static or timed map feature.
type Object struct {
	ID    ObjectID    `json:"id"`
	Class ObjectClass `json:"class"`
	Pos   ExactPos    `json:"pos"`
	Owner PlayerID    `json:"owner"`
	// Timer counts the end-of-turn ticks left for timed objects (smoke).
	Timer int  `json:"timer,omitempty"`
	Timed bool `json:"timed,omitempty"`
}

// Sector is a capturable group of tiles.
type Sector struct {
	ID        SectorID     `json:"id"`
	Positions []hex.MapPos `json:"positions"`
	Owner     PlayerID     `json:"owner"`
}

// Center is the tile where victory points of the sector are shown: the
// rounded average of its tiles.
func (s *Sector) Center() hex.MapPos {
	if len(s.Positions) == 0 {
		panic(fmt.Sprintf("model: sector %d has no tiles", s.ID))
	}
	var sumX, sumY float64
	for _, p := range s.Positions {
		sumX += float64(p.X)
		sumY += float64(p.Y)
	}
	n := float64(len(s.Positions))
	return hex.MapPos{
		X: int(sumX/n + 0.5),
		Y: int(sumY/n + 0.5),
	}
}

// Contains reports whether pos is one of the sector's tiles.
func (s *Sector) Contains(pos hex.MapPos) bool {
	for _, p := range s.Positions {
		if p == pos {
			return true
		}
	}
	return false
}

// Layout is the static content of a scenario: terrain, objects present at
// start, and sectors.
type Layout struct {
	Terrain *hex.Grid[Terrain]
	Objects []Object
	Sectors []Sector
}
