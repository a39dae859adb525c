package phys

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestOrthonormalBasis(t *testing.T) {
	dirs := []r3.Vec{
		{X: 1}, {Y: 1}, {Z: 1},
		{X: -1}, {X: 1, Y: 1, Z: 1},
		{X: 0.3, Y: -2, Z: 0.01},
	}
	for _, dir := range dirs {
		u, v := OrthonormalBasis(dir)
		d := r3.Unit(dir)
		for _, pair := range [][2]r3.Vec{{u, v}, {u, d}, {v, d}} {
			if dot := r3.Dot(pair[0], pair[1]); math.Abs(dot) > 1e-12 {
				t.Errorf("basis for %v not orthogonal: dot %g", dir, dot)
			}
		}
		if math.Abs(r3.Norm(u)-1) > 1e-12 || math.Abs(r3.Norm(v)-1) > 1e-12 {
			t.Errorf("basis for %v not unit length", dir)
		}
	}
}
