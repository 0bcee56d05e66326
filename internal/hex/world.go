package hex

import (
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
)

const (
	// ExRadius is the distance from a tile centre to its corners.
	ExRadius = 1.4
	// InRadius is the distance from a tile centre to its edges.
	InRadius = 0.866025403784 * ExRadius
)

// WorldPos is the centre of a tile on the world plane.
func WorldPos(p MapPos) geom.XY {
	xy := geom.XY{
		X: float64(p.X) * InRadius * 2,
		Y: float64(p.Y) * ExRadius * 1.5,
	}
	if p.Y%2 == 0 {
		xy.X += InRadius
	}
	return xy
}

// WorldDistance is the euclidean distance between two tile centres.
func WorldDistance(from, to MapPos) float64 {
	d := WorldPos(to).Sub(WorldPos(from))
	return math.Hypot(d.X, d.Y)
}
