package magnetic

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Grid is a field defined on a regular lattice of pre-computed nodes, with
// trilinear interpolation between them. Nodes are stored in a linear array
// ordered x, then y, then z; nodes differing only in z are adjacent.
//
// Queries outside the grid clamp to the boundary value. This is the fixed
// out-of-bounds policy: the field a grid reports beyond its edge is the edge
// field, never an extrapolation and never NaN.
type Grid struct {
	Center r3.Vec
	Extent r3.Vec
	Cells  [3]int
	Data   []r3.Vec

	min     r3.Vec
	spacing [3]float64
}

// NewGrid validates the lattice geometry and node data. Invalid bounds are a
// configuration error.
func NewGrid(center, extent r3.Vec, cells [3]int, data []r3.Vec) (*Grid, error) {
	for d, n := range cells {
		if n < 2 {
			return nil, fmt.Errorf("magnetic grid needs at least 2 nodes per axis, axis %d has %d", d, n)
		}
	}
	if extent.X <= 0 || extent.Y <= 0 || extent.Z <= 0 {
		return nil, fmt.Errorf("magnetic grid extent must be positive, got (%g, %g, %g)", extent.X, extent.Y, extent.Z)
	}
	if want := cells[0] * cells[1] * cells[2]; len(data) != want {
		return nil, fmt.Errorf("magnetic grid data has %d nodes, geometry needs %d", len(data), want)
	}
	g := &Grid{Center: center, Extent: extent, Cells: cells, Data: data}
	g.min = r3.Sub(center, r3.Scale(0.5, extent))
	ext := [3]float64{extent.X, extent.Y, extent.Z}
	for d := 0; d < 3; d++ {
		g.spacing[d] = ext[d] / float64(cells[d]-1)
	}
	return g, nil
}

// Precompute samples src on a regular lattice, so an expensive analytic
// field can be evaluated once and interpolated during the run.
func Precompute(src Source, center, extent r3.Vec, cells [3]int) (*Grid, error) {
	g, err := NewGrid(center, extent, cells, make([]r3.Vec, cells[0]*cells[1]*cells[2]))
	if err != nil {
		return nil, err
	}
	for i := 0; i < cells[0]; i++ {
		for j := 0; j < cells[1]; j++ {
			for k := 0; k < cells[2]; k++ {
				p := r3.Vec{
					X: g.min.X + float64(i)*g.spacing[0],
					Y: g.min.Y + float64(j)*g.spacing[1],
					Z: g.min.Z + float64(k)*g.spacing[2],
				}
				g.Data[g.nodeIndex(i, j, k)] = src.FieldAt(p)
			}
		}
	}
	return g, nil
}

func (g *Grid) nodeIndex(i, j, k int) int {
	return (i*g.Cells[1]+j)*g.Cells[2] + k
}

func (g *Grid) axisCoord(x, min, spacing float64, cells int) (int, float64) {
	f := (x - min) / spacing
	if f <= 0 {
		return 0, 0
	}
	if f >= float64(cells-1) {
		return cells - 2, 1
	}
	i := int(f)
	if i > cells-2 {
		i = cells - 2
	}
	return i, f - float64(i)
}

func (g *Grid) FieldAt(p r3.Vec) r3.Vec {
	i, fx := g.axisCoord(p.X, g.min.X, g.spacing[0], g.Cells[0])
	j, fy := g.axisCoord(p.Y, g.min.Y, g.spacing[1], g.Cells[1])
	k, fz := g.axisCoord(p.Z, g.min.Z, g.spacing[2], g.Cells[2])

	var b r3.Vec
	for di := 0; di < 2; di++ {
		wx := 1 - fx
		if di == 1 {
			wx = fx
		}
		for dj := 0; dj < 2; dj++ {
			wy := 1 - fy
			if dj == 1 {
				wy = fy
			}
			for dk := 0; dk < 2; dk++ {
				wz := 1 - fz
				if dk == 1 {
					wz = fz
				}
				w := wx * wy * wz
				if w == 0 {
					continue
				}
				b = r3.Add(b, r3.Scale(w, g.Data[g.nodeIndex(i+di, j+dj, k+dk)]))
			}
		}
	}
	return b
}
