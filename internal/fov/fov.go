// Package fov computes which tiles a viewer at some tile can see. Sweep
// casts angular shadows behind obstacles; Simple sees everything in range.
package fov

import (
	"math"

	"github.com/hexfront/engine/internal/hex"
	"github.com/hexfront/engine/internal/model"
	"github.com/hexfront/engine/internal/state"
)

type shadow struct {
	left  float64
	right float64
}

func (s shadow) covers(angle float64) bool {
	return s.left < angle && s.right > angle
}

// IsObstacle reports whether a tile blocks sight: woods, city blocks,
// buildings and smoke do.
func IsObstacle(st state.GameState, pos hex.MapPos) bool {
	switch st.Map().At(pos) {
	case model.Trees, model.City:
		return true
	}
	for o := range st.ObjectsAt(pos) {
		if o.Class == model.Building || o.Class == model.Smoke {
			return true
		}
	}
	return false
}

// Sweep calls visit for the origin and every on-board tile within radius
// that is not hidden behind an obstacle. Obstacle tiles themselves are
// visible.
func Sweep(st state.GameState, origin hex.MapPos, radius int, visit func(hex.MapPos)) {
	visit(origin)
	board := st.Map()
	originXY := hex.WorldPos(origin)
	var shadows []shadow
	for pos := range hex.Spiral(origin, radius) {
		if !board.InBoard(pos) {
			continue
		}
		diff := hex.WorldPos(pos).Sub(originXY)
		dist := math.Hypot(diff.X, diff.Y)
		angle := math.Atan2(diff.X, diff.Y)
		hidden := false
		for _, s := range shadows {
			if s.covers(angle) {
				hidden = true
				break
			}
		}
		if !hidden {
			visit(pos)
		}
		if IsObstacle(st, pos) {
			shadows = appendShadow(shadows, angle, dist)
		}
	}
}

func appendShadow(shadows []shadow, angle, dist float64) []shadow {
	half := math.Asin(math.Min(hex.InRadius*1.1/dist, 1))
	s := shadow{left: angle - half, right: angle + half}
	shadows = append(shadows, s)
	if s.right > math.Pi {
		shadows = append(shadows, shadow{left: -math.Pi, right: s.right - 2*math.Pi})
	}
	if s.left < -math.Pi {
		shadows = append(shadows, shadow{left: s.left + 2*math.Pi, right: math.Pi})
	}
	return shadows
}

// Simple calls visit for the origin and every on-board tile within radius.
func Simple(st state.GameState, origin hex.MapPos, radius int, visit func(hex.MapPos)) {
	visit(origin)
	board := st.Map()
	for pos := range hex.Spiral(origin, radius) {
		if board.InBoard(pos) {
			visit(pos)
		}
	}
}
