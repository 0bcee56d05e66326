package hex

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRing_RadiusOne(t *testing.T) {
	got := slices.Collect(Ring(MapPos{0, 0}, 1))
	want := []MapPos{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 0}}
	assert.Equal(t, want, got)
}

func TestRing_RadiusTwo(t *testing.T) {
	got := slices.Collect(Ring(MapPos{0, 0}, 2))
	want := []MapPos{
		{-1, -1}, {-1, -2}, {0, -2}, {1, -2}, {2, -1}, {2, 0},
		{2, 1}, {1, 2}, {0, 2}, {-1, 2}, {-1, 1}, {-2, 0},
	}
	assert.Equal(t, want, got)
}

func TestRing_DistanceMatchesRadius(t *testing.T) {
	origins := []MapPos{{0, 0}, {3, 4}, {5, 7}, {-2, 3}}
	for _, origin := range origins {
		for r := 1; r <= 5; r++ {
			tiles := slices.Collect(Ring(origin, r))
			require.Len(t, tiles, 6*r, "origin %s radius %d", origin, r)
			seen := map[MapPos]bool{}
			for _, p := range tiles {
				assert.Equal(t, r, Distance(origin, p), "origin %s tile %s", origin, p)
				assert.False(t, seen[p], "duplicate tile %s", p)
				seen[p] = true
			}
		}
	}
}

func TestRing_ZeroRadius(t *testing.T) {
	assert.Empty(t, slices.Collect(Ring(MapPos{1, 1}, 0)))
}

func TestSpiral(t *testing.T) {
	got := slices.Collect(Spiral(MapPos{4, 4}, 3))
	require.Len(t, got, 6+12+18)
	for i, p := range got {
		want := 1
		if i >= 6 {
			want = 2
		}
		if i >= 18 {
			want = 3
		}
		assert.Equal(t, want, Distance(MapPos{4, 4}, p))
	}
}

func TestSpiral_StopsEarly(t *testing.T) {
	n := 0
	for range Spiral(MapPos{0, 0}, 4) {
		n++
		if n == 5 {
			break
		}
	}
	assert.Equal(t, 5, n)
}

func TestDistance(t *testing.T) {
	tests := []struct {
		from, to MapPos
		want     int
	}{
		{MapPos{0, 0}, MapPos{0, 0}, 0},
		{MapPos{0, 0}, MapPos{1, 0}, 1},
		{MapPos{0, 0}, MapPos{0, 1}, 1},
		{MapPos{0, 0}, MapPos{2, 0}, 2},
		{MapPos{0, 0}, MapPos{2, 1}, 2},
		{MapPos{1, 3}, MapPos{1, 3}, 0},
		{MapPos{0, 1}, MapPos{9, 3}, 10},
		{MapPos{0, 0}, MapPos{0, -1}, 1},
		{MapPos{0, 0}, MapPos{1, -1}, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Distance(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
		assert.Equal(t, tt.want, Distance(tt.to, tt.from), "%s -> %s", tt.to, tt.from)
	}
}

func TestNeighborAndDirFromTo(t *testing.T) {
	for _, p := range []MapPos{{2, 2}, {2, 3}, {0, 0}, {5, 1}} {
		for d := range Dirs() {
			n := p.Neighbor(d)
			assert.Equal(t, 1, Distance(p, n))
			assert.Equal(t, d, DirFromTo(p, n))
		}
	}
}

func TestDirFromTo_PanicsOnFarTiles(t *testing.T) {
	assert.Panics(t, func() { DirFromTo(MapPos{0, 0}, MapPos{3, 3}) })
}

func TestDirFromIndex(t *testing.T) {
	assert.Equal(t, SouthEast, DirFromIndex(6))
	assert.Equal(t, SouthWest, DirFromIndex(-1))
	assert.Equal(t, NorthWest, DirFromIndex(3))
	assert.Equal(t, "NorthWest", NorthWest.String())
}

func TestWorldPos(t *testing.T) {
	even := WorldPos(MapPos{0, 0})
	odd := WorldPos(MapPos{0, 1})
	assert.InDelta(t, InRadius, even.X, 1e-9)
	assert.InDelta(t, 0, odd.X, 1e-9)
	assert.InDelta(t, ExRadius*1.5, odd.Y, 1e-9)

	// neighbours are all one tile width apart
	for d := range Dirs() {
		assert.InDelta(t, InRadius*2, WorldDistance(MapPos{3, 3}, MapPos{3, 3}.Neighbor(d)), 1e-6)
	}
}

func TestGrid(t *testing.T) {
	g := NewGrid[int](Size{W: 3, H: 2})
	assert.True(t, g.InBoard(MapPos{2, 1}))
	assert.False(t, g.InBoard(MapPos{3, 0}))
	assert.False(t, g.InBoard(MapPos{0, -1}))

	g.Set(MapPos{1, 1}, 7)
	assert.Equal(t, 7, g.At(MapPos{1, 1}))
	*g.Ptr(MapPos{0, 0}) = 3

	c := g.Clone()
	c.Set(MapPos{1, 1}, 9)
	assert.Equal(t, 7, g.At(MapPos{1, 1}))
	assert.Equal(t, 3, c.At(MapPos{0, 0}))

	g.Fill(1)
	sum := 0
	for p := range g.Positions() {
		sum += g.At(p)
	}
	assert.Equal(t, 6, sum)

	assert.Panics(t, func() { g.At(MapPos{5, 5}) })
}
