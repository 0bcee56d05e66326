// Package pathfinder finds the cheapest routes over exact positions.
package pathfinder

import (
	"container/heap"
	"math"
	"slices"

	"github.com/hexfront/engine/internal/hex"
	"github.com/hexfront/engine/internal/model"
	"github.com/hexfront/engine/internal/rules"
	"github.com/hexfront/engine/internal/state"
)

// Unreachable is the cost of a tile the last FillMap could not reach.
const Unreachable = math.MaxInt32

// Tile is the search result for one map tile.
type Tile struct {
	Cost      int
	Parent    hex.Dir
	HasParent bool
	Slot      model.SlotID
}

// Pathfinder keeps a reusable cost map for one board size.
type Pathfinder struct {
	rules    *rules.Catalog
	tiles    *hex.Grid[Tile]
	frontier frontier
}

func New(c *rules.Catalog, size hex.Size) *Pathfinder {
	p := &Pathfinder{
		rules: c,
		tiles: hex.NewGrid[Tile](size),
	}
	p.clean()
	return p
}

func (p *Pathfinder) clean() {
	p.tiles.Fill(Tile{Cost: Unreachable})
	p.frontier = p.frontier[:0]
}

// Tile returns the search result for pos.
func (p *Pathfinder) Tile(pos hex.MapPos) Tile {
	return p.tiles.At(pos)
}

// Cost is the cheapest cost found to reach pos.
func (p *Pathfinder) Cost(pos hex.MapPos) int {
	return p.tiles.At(pos).Cost
}

// FillMap computes the cost of reaching every tile from the unit's current
// position. Each tile is entered through the slot the unit would take there.
func (p *Pathfinder) FillMap(st state.GameState, u *model.Unit) {
	p.clean()
	start := u.Pos
	p.tiles.Set(start.MapPos, Tile{Cost: 0, Slot: start.Slot})
	heap.Push(&p.frontier, node{pos: start, cost: 0})
	for p.frontier.Len() > 0 {
		cur := heap.Pop(&p.frontier).(node)
		if cur.cost > p.tiles.At(cur.pos.MapPos).Cost {
			continue
		}
		for dir := range hex.Dirs() {
			next := cur.pos.MapPos.Neighbor(dir)
			if !p.tiles.InBoard(next) {
				continue
			}
			slot, ok := state.FreeSlot(p.rules, st, u.Type, next)
			if !ok {
				continue
			}
			to := model.At(next, slot)
			cost := cur.cost + TileCost(p.rules, st, u, cur.pos, to)
			tile := p.tiles.Ptr(next)
			if cost >= tile.Cost {
				continue
			}
			*tile = Tile{
				Cost:      cost,
				Parent:    hex.DirFromTo(next, cur.pos.MapPos),
				HasParent: true,
				Slot:      slot,
			}
			heap.Push(&p.frontier, node{pos: to, cost: cost})
		}
	}
}

// Path returns the route from the unit passed to the last FillMap to dest,
// both ends included, or nil when dest was not reached.
func (p *Pathfinder) Path(dest model.ExactPos) []model.ExactPos {
	if !p.tiles.InBoard(dest.MapPos) || p.tiles.At(dest.MapPos).Cost == Unreachable {
		return nil
	}
	path := []model.ExactPos{dest}
	pos := dest.MapPos
	for {
		tile := p.tiles.At(pos)
		if tile.Cost == 0 {
			break
		}
		if !tile.HasParent {
			return nil
		}
		pos = pos.Neighbor(tile.Parent)
		path = append(path, model.At(pos, p.tiles.At(pos).Slot))
	}
	slices.Reverse(path)
	return path
}

type node struct {
	pos  model.ExactPos
	cost int
}

// frontier is a min-heap of nodes by cost.
type frontier []node

func (f frontier) Len() int           { return len(f) }
func (f frontier) Less(i, j int) bool { return f[i].cost < f[j].cost }
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)        { *f = append(*f, x.(node)) }
func (f *frontier) Pop() any {
	old := *f
	n := old[len(old)-1]
	*f = old[:len(old)-1]
	return n
}
