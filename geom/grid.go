/*package geom provides index arithmetic for periodic 3D lattices.
*/
package geom

import (
	"fmt"
)

// Grid provides an interface for reasoning over a 1D slice as if it were a
// periodic 3D grid. Sites are stored in (x, y, z) row-major order, so each
// x plane is a contiguous block of Plane sites.
type Grid struct {
	Width         [3]int
	Plane, Volume int
}

// NewGrid returns a new Grid instance. All widths must be positive.
func NewGrid(width [3]int) (*Grid, error) {
	g := &Grid{}
	if err := g.Init(width); err != nil {
		return nil, err
	}
	return g, nil
}

// Init initializes a Grid instance.
func (g *Grid) Init(width [3]int) error {
	for i := 0; i < 3; i++ {
		if width[i] <= 0 {
			return fmt.Errorf(
				"Grid width along axis %d must be positive, but is %d.",
				i, width[i],
			)
		}
	}

	g.Width = width
	g.Plane = width[1] * width[2]
	g.Volume = width[0] * g.Plane
	return nil
}

// Idx returns the grid index corresponding to a set of in-bounds
// coordinates.
func (g *Grid) Idx(x, y, z int) int {
	return x*g.Plane + y*g.Width[2] + z
}

// WrapIdx returns the grid index of the given coordinates after wrapping each
// of them periodically.
func (g *Grid) WrapIdx(x, y, z int) int {
	return g.Idx(pMod(x, g.Width[0]), pMod(y, g.Width[1]), pMod(z, g.Width[2]))
}

// BoundsCheck returns true if the given coordinates are within the Grid and
// false otherwise.
func (g *Grid) BoundsCheck(x, y, z int) bool {
	return (0 <= x && 0 <= y && 0 <= z) &&
		(x < g.Width[0] && y < g.Width[1] && z < g.Width[2])
}

// Coords returns the x, y, z coordinates of a point from its grid index.
func (g *Grid) Coords(idx int) (x, y, z int) {
	x = idx / g.Plane
	y = (idx % g.Plane) / g.Width[2]
	z = idx % g.Width[2]
	return x, y, z
}

// Neighbor returns the index of the site displaced from idx by d, wrapping
// around the periodic boundaries.
func (g *Grid) Neighbor(idx int, d [3]int) int {
	x, y, z := g.Coords(idx)
	return g.WrapIdx(x+d[0], y+d[1], z+d[2])
}

// PlaneRange returns the index range [low, high) covered by the x planes
// [xLow, xHigh).
func (g *Grid) PlaneRange(xLow, xHigh int) (low, high int) {
	return xLow * g.Plane, xHigh * g.Plane
}

// pMod computes the positive modulo x % y.
func pMod(x, y int) int {
	m := x % y
	if m < 0 {
		m += y
	}
	return m
}
