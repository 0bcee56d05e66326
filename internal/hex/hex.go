// Package hex holds the offset-coordinate hex grid used by the game board:
// tile positions, the six neighbour directions, distances, ring and spiral
// iteration and the world-space geometry of tile centres.
package hex

import (
	"fmt"
	"iter"
)

// MapPos is a tile position in offset coordinates. Odd rows are shifted
// half a tile to the left relative to even rows.
type MapPos struct {
	X int
	Y int
}

func (p MapPos) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Dir is one of the six neighbour directions, in clockwise order starting
// from south-east.
type Dir int

const (
	SouthEast Dir = iota
	East
	NorthEast
	NorthWest
	West
	SouthWest
)

// DirCount is the number of neighbour directions.
const DirCount = 6

var dirNames = [DirCount]string{"SouthEast", "East", "NorthEast", "NorthWest", "West", "SouthWest"}

func (d Dir) String() string {
	if d < 0 || d >= DirCount {
		return fmt.Sprintf("Dir(%d)", int(d))
	}
	return dirNames[d]
}

// DirFromIndex wraps any integer onto a direction.
func DirFromIndex(i int) Dir {
	i %= DirCount
	if i < 0 {
		i += DirCount
	}
	return Dir(i)
}

// Dirs yields all six directions in order.
func Dirs() iter.Seq[Dir] {
	return func(yield func(Dir) bool) {
		for d := SouthEast; d <= SouthWest; d++ {
			if !yield(d) {
				return
			}
		}
	}
}

// neighbour offsets indexed by [row is odd][dir]
var dirDiff = [2][DirCount]MapPos{
	{{1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 0}, {0, -1}},
	{{0, -1}, {1, 0}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}},
}

func isOddRow(y int) int {
	if y%2 != 0 {
		return 1
	}
	return 0
}

// Neighbor returns the adjacent tile in direction d.
func (p MapPos) Neighbor(d Dir) MapPos {
	diff := dirDiff[isOddRow(p.Y)][d]
	return MapPos{X: p.X + diff.X, Y: p.Y + diff.Y}
}

// DirFromTo returns the direction leading from one tile to an adjacent one.
// It panics if the tiles are not neighbours.
func DirFromTo(from, to MapPos) Dir {
	diff := MapPos{X: to.X - from.X, Y: to.Y - from.Y}
	for d, dd := range dirDiff[isOddRow(from.Y)] {
		if dd == diff {
			return Dir(d)
		}
	}
	panic(fmt.Sprintf("hex: %s and %s are not neighbours", from, to))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Distance is the number of steps between two tiles. Rows are halved with
// floor division so tiles above row zero measure correctly too.
func Distance(from, to MapPos) int {
	dx := (to.X + to.Y>>1) - (from.X + from.Y>>1)
	dy := to.Y - from.Y
	return (abs(dx) + abs(dy) + abs(dx-dy)) / 2
}

// Ring yields the tiles at exactly the given distance from origin. Tiles
// may lie outside any particular board.
func Ring(origin MapPos, radius int) iter.Seq[MapPos] {
	return func(yield func(MapPos) bool) {
		if radius < 1 {
			return
		}
		cursor := MapPos{X: origin.X - radius, Y: origin.Y}
		dir := SouthEast
		nextDir := East
		segment := 0
		for {
			switch {
			case segment >= radius-1 && nextDir <= SouthWest:
				cursor = cursor.Neighbor(dir)
				segment = 0
				dir = nextDir
				nextDir++
			case segment >= radius-1 && segment == radius:
				return
			default:
				cursor = cursor.Neighbor(dir)
				segment++
			}
			if !yield(cursor) {
				return
			}
		}
	}
}

// Spiral yields the rings 1..radius around origin, nearest first. The origin
// itself is not included.
func Spiral(origin MapPos, radius int) iter.Seq[MapPos] {
	return func(yield func(MapPos) bool) {
		for r := 1; r <= radius; r++ {
			for p := range Ring(origin, r) {
				if !yield(p) {
					return
				}
			}
		}
	}
}
