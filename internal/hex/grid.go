package hex

import (
	"fmt"
	"iter"
)

// Size is a board size in tiles.
type Size struct {
	W int
	H int
}

// Grid is a dense per-tile store over a rectangular board.
type Grid[T any] struct {
	size  Size
	tiles []T
}

// NewGrid creates a grid of the given size filled with zero values.
func NewGrid[T any](size Size) *Grid[T] {
	if size.W <= 0 || size.H <= 0 {
		panic(fmt.Sprintf("hex: bad grid size %dx%d", size.W, size.H))
	}
	return &Grid[T]{
		size:  size,
		tiles: make([]T, size.W*size.H),
	}
}

func (g *Grid[T]) Size() Size {
	return g.size
}

// InBoard reports whether p lies on the grid.
func (g *Grid[T]) InBoard(p MapPos) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.size.W && p.Y < g.size.H
}

func (g *Grid[T]) index(p MapPos) int {
	if !g.InBoard(p) {
		panic(fmt.Sprintf("hex: %s is outside %dx%d grid", p, g.size.W, g.size.H))
	}
	return p.Y*g.size.W + p.X
}

// At returns the value stored for p. It panics when p is off the board.
func (g *Grid[T]) At(p MapPos) T {
	return g.tiles[g.index(p)]
}

// Ptr returns a pointer to the value stored for p.
func (g *Grid[T]) Ptr(p MapPos) *T {
	return &g.tiles[g.index(p)]
}

func (g *Grid[T]) Set(p MapPos, v T) {
	g.tiles[g.index(p)] = v
}

// Fill overwrites every tile with v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.tiles {
		g.tiles[i] = v
	}
}

// Clone returns an independent copy of the grid.
func (g *Grid[T]) Clone() *Grid[T] {
	tiles := make([]T, len(g.tiles))
	copy(tiles, g.tiles)
	return &Grid[T]{size: g.size, tiles: tiles}
}

// Positions yields every tile position, row by row.
func (g *Grid[T]) Positions() iter.Seq[MapPos] {
	return func(yield func(MapPos) bool) {
		for y := 0; y < g.size.H; y++ {
			for x := 0; x < g.size.W; x++ {
				if !yield(MapPos{X: x, Y: y}) {
					return
				}
			}
		}
	}
}
